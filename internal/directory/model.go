/*
 * Copyright (c) 2025-2026, IntranetHQ, Inc. (https://intranethq.io).
 *
 * IntranetHQ licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package directory

import "time"

// RawRecord is a single directory record exactly as the CRM returned it.
// Field names are the CRM's own; interpretation happens in the mapper.
type RawRecord map[string]interface{}

// ID returns the record identifier the CRM assigned, or "" when absent.
func (r RawRecord) ID() string {
	id, _ := r["id"].(string)
	return id
}

// AttachmentMeta describes one attachment of a directory record.
type AttachmentMeta struct {
	ID        string    `json:"id"`
	FileName  string    `json:"File_Name"`
	Size      int64     `json:"Size,string"`
	CreatedAt time.Time `json:"Created_Time"`
}

// recordListResponse is the envelope of a record page response.
type recordListResponse struct {
	Data []RawRecord `json:"data"`
	Info struct {
		MoreRecords bool `json:"more_records"`
	} `json:"info"`
}

// attachmentListResponse is the envelope of an attachment listing response.
type attachmentListResponse struct {
	Data []AttachmentMeta `json:"data"`
}

// tokenResponse is the payload of a successful token refresh.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
	Error       string `json:"error"`
}

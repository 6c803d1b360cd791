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

package model

import "time"

// ProfileDocument is one cached attachment belonging to a profile. The
// cache is append-only: rediscovered attachments refresh LastSyncedAt,
// disappeared attachments are tolerated as stale entries.
type ProfileDocument struct {
	ProfileID    string    `bson:"profile_id" json:"profile_id"`
	AttachmentID string    `bson:"attachment_id" json:"attachment_id"`
	FileName     string    `bson:"file_name" json:"file_name"`
	Size         int64     `bson:"size" json:"size"`
	ContentType  string    `bson:"content_type,omitempty" json:"content_type,omitempty"`
	DocumentType string    `bson:"document_type" json:"document_type"`
	SyncStatus   string    `bson:"sync_status" json:"sync_status"`
	FirstSeenAt  time.Time `bson:"first_seen_at" json:"first_seen_at"`
	LastSyncedAt time.Time `bson:"last_synced_at" json:"last_synced_at"`
}

// DocumentSyncResult summarizes one document sync pass.
type DocumentSyncResult struct {
	RunID             string `json:"run_id"`
	Status            string `json:"status"`
	ProfilesProcessed int    `json:"profiles_processed"`
	DocumentsSynced   int    `json:"documents_synced"`
	Errors            int    `json:"errors"`
}

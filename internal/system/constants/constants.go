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

package constants

import "time"

const (
	// ApiBasePath is the base path for the operational HTTP API.
	ApiBasePath = "/api/v1"

	// SyncTypeProfiles tags profile reconciliation runs in the sync log.
	SyncTypeProfiles = "profiles"
	// SyncTypeDocuments tags attachment cache runs in the sync log.
	SyncTypeDocuments = "documents"

	// SyncStatusRunning through SyncStatusError are the sync log states.
	SyncStatusRunning = "running"
	SyncStatusSuccess = "success"
	SyncStatusPartial = "partial"
	SyncStatusError   = "error"

	// DefaultPageSize is the directory API page size used when the
	// configuration does not specify one.
	DefaultPageSize = 200

	// ErrorSampleSize bounds the number of per-record errors persisted in a
	// sync log summary. The full list only lives for the duration of the run.
	ErrorSampleSize = 5

	// DefaultDownloadTimeout bounds a single attachment download.
	DefaultDownloadTimeout = 30 * time.Second

	// ProfileDocumentCollection is the Mongo collection backing the
	// attachment metadata cache.
	ProfileDocumentCollection = "profile_documents"

	// ProfileSyncLockKey serializes overlapping sync triggers per type.
	ProfileSyncLockKey  = "sync:profiles"
	DocumentSyncLockKey = "sync:documents"
)

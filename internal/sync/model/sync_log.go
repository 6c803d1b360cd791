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

// RecordError captures one record that failed during a sync run without
// aborting the run.
type RecordError struct {
	ExternalID string `json:"external_id"`
	Email      string `json:"email,omitempty"`
	Stage      string `json:"stage"`
	Message    string `json:"message"`
}

// SyncSummary aggregates the per-record outcomes of a sync run. ErrorSample
// holds at most a handful of representative failures; Errors is the full
// count.
type SyncSummary struct {
	Fetched      int           `json:"fetched"`
	Synchronized int           `json:"synchronized"`
	Inserted     int           `json:"inserted"`
	Updated      int           `json:"updated"`
	Linked       int           `json:"linked"`
	Skipped      int           `json:"skipped"`
	Deactivated  int           `json:"deactivated"`
	Errors       int           `json:"errors"`
	ErrorSample  []RecordError `json:"error_sample,omitempty"`
}

// SyncLog is one persisted sync run. FinishedAt is nil while the run is
// still in flight.
type SyncLog struct {
	RunID      string      `json:"run_id"`
	SyncType   string      `json:"sync_type"`
	Status     string      `json:"status"`
	Full       bool        `json:"full"`
	Summary    SyncSummary `json:"summary"`
	Message    string      `json:"message,omitempty"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
}

// SyncResult is what a completed run hands back to the caller of the
// operational API.
type SyncResult struct {
	RunID    string      `json:"run_id"`
	SyncType string      `json:"sync_type"`
	Status   string      `json:"status"`
	Full     bool        `json:"full"`
	Summary  SyncSummary `json:"summary"`
}

// SyncStatus is the consolidated view served by the status endpoint.
type SyncStatus struct {
	LastRun        *SyncLog       `json:"last_run,omitempty"`
	LastSuccessful *SyncLog       `json:"last_successful,omitempty"`
	ProfileCounts  map[string]int `json:"profile_counts"`
	LinkedProfiles int            `json:"linked_profiles"`
}

// StatusDiff compares the local profile set with the directory without
// writing anything. The comparison endpoint serves it.
type StatusDiff struct {
	DirectoryRecords int      `json:"directory_records"`
	LocalProfiles    int      `json:"local_profiles"`
	LinkedProfiles   int      `json:"linked_profiles"`
	MissingLocally   []string `json:"missing_locally,omitempty"`
	UnlinkedEmails   []string `json:"unlinked_emails,omitempty"`
}

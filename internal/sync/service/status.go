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

package service

import (
	"context"
	"time"

	"github.com/intranethq/collaborator-sync-service/internal/sync/mapper"
	"github.com/intranethq/collaborator-sync-service/internal/sync/model"
	"github.com/intranethq/collaborator-sync-service/internal/system/constants"
)

// GetSyncStatus assembles the consolidated status view: latest run, latest
// successful run and profile counters.
func (s *SyncService) GetSyncStatus(syncType string) (*model.SyncStatus, error) {

	if syncType == "" {
		syncType = constants.SyncTypeProfiles
	}

	recent, err := s.syncLogs.ListRecent(syncType, 1)
	if err != nil {
		return nil, err
	}

	status := &model.SyncStatus{}
	if len(recent) > 0 {
		status.LastRun = &recent[0]
	}
	// Looked up directly: a recent-runs window would lose the success after
	// enough consecutive failures.
	lastSuccessful, err := s.syncLogs.LastSuccessful(syncType)
	if err != nil {
		return nil, err
	}
	status.LastSuccessful = lastSuccessful

	counts, err := s.profiles.CountByStatus()
	if err != nil {
		return nil, err
	}
	status.ProfileCounts = make(map[string]int, len(counts))
	for profileStatus, count := range counts {
		status.ProfileCounts[string(profileStatus)] = count
	}

	linked, err := s.profiles.CountLinked()
	if err != nil {
		return nil, err
	}
	status.LinkedProfiles = linked
	return status, nil
}

// ListLogs returns recent sync runs, newest first.
func (s *SyncService) ListLogs(syncType string, limit int) ([]model.SyncLog, error) {

	return s.syncLogs.ListRecent(syncType, limit)
}

// CompareStatus diffs the directory against the local profile set without
// writing anything. Diagnostic surface: it reports directory records with
// no local profile and local profiles not yet linked, capped at limit
// entries each.
func (s *SyncService) CompareStatus(ctx context.Context, limit int) (*model.StatusDiff, error) {

	if limit <= 0 {
		limit = 50
	}

	diff := &model.StatusDiff{}
	seenEmails := map[string]struct{}{}

	for page := 1; ; page++ {
		records, more, err := s.directory.ListRecords(ctx, page, time.Time{})
		if err != nil {
			return nil, wrapDirectoryError(err)
		}
		diff.DirectoryRecords += len(records)

		for _, raw := range records {
			fields := mapper.MapToProfile(mapper.DecodeRecord(raw))
			if fields.Email == "" {
				continue
			}
			seenEmails[fields.Email] = struct{}{}

			local, err := s.profiles.GetByEmail(fields.Email)
			if err != nil {
				return nil, err
			}
			if local == nil && len(diff.MissingLocally) < limit {
				diff.MissingLocally = append(diff.MissingLocally, fields.Email)
			}
		}
		if !more || len(records) == 0 {
			break
		}
	}

	locals, err := s.profiles.List()
	if err != nil {
		return nil, err
	}
	diff.LocalProfiles = len(locals)
	for _, profile := range locals {
		if profile.IsLinked() {
			diff.LinkedProfiles++
			continue
		}
		if len(diff.UnlinkedEmails) < limit {
			diff.UnlinkedEmails = append(diff.UnlinkedEmails, profile.Email)
		}
	}
	return diff, nil
}

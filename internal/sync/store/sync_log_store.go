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

package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/intranethq/collaborator-sync-service/internal/sync/model"
	"github.com/intranethq/collaborator-sync-service/internal/system/constants"
	"github.com/intranethq/collaborator-sync-service/internal/system/database/provider"
	"github.com/intranethq/collaborator-sync-service/internal/system/errors"
)

// SyncLogStore persists sync run entries in PostgreSQL. Summaries are
// stored as a JSONB blob; the counters worth querying have their own
// columns.
type SyncLogStore struct{}

func NewSyncLogStore() *SyncLogStore {
	return &SyncLogStore{}
}

// StartRun inserts a running entry for the given sync type and returns its
// run id.
func (s *SyncLogStore) StartRun(syncType string, full bool) (string, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return "", errors.NewServerError(errors.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	runID := uuid.New().String()
	_, err = dbClient.ExecuteQuery(
		`INSERT INTO sync_logs (run_id, sync_type, status, full_pull, processed, summary, created_at)
		 VALUES ($1, $2, $3, $4, 0, '{}', $5)`,
		runID, syncType, constants.SyncStatusRunning, full, time.Now().UTC())
	if err != nil {
		return "", errors.NewServerError(errors.ErrorMessage{
			Code:        errors.ADD_SYNC_LOG.Code,
			Message:     errors.ADD_SYNC_LOG.Message,
			Description: fmt.Sprintf("failed to insert sync log for type %s", syncType),
		}, err)
	}
	return runID, nil
}

// FinishRun finalizes a running entry with its outcome and summary.
func (s *SyncLogStore) FinishRun(runID, status string, summary model.SyncSummary, message string) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return errors.NewServerError(errors.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return errors.NewServerError(errors.MARSHAL_JSON, err)
	}

	_, err = dbClient.ExecuteQuery(
		`UPDATE sync_logs SET status = $2, processed = $3, summary = $4, message = $5,
		 finished_at = $6 WHERE run_id = $1`,
		runID, status, summary.Synchronized, string(summaryJSON), message, time.Now().UTC())
	if err != nil {
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.UPDATE_SYNC_LOG.Code,
			Message:     errors.UPDATE_SYNC_LOG.Message,
			Description: fmt.Sprintf("failed to finalize sync log %s", runID),
		}, err)
	}
	return nil
}

// LastSuccessfulRun returns the start time of the most recent successful
// run of the given type, or nil when none exists. Differential pulls use it
// as the modified-since cutoff.
func (s *SyncLogStore) LastSuccessfulRun(syncType string) (*time.Time, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, errors.NewServerError(errors.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(
		`SELECT created_at FROM sync_logs WHERE sync_type = $1 AND status = $2
		 ORDER BY created_at DESC LIMIT 1`,
		syncType, constants.SyncStatusSuccess)
	if err != nil {
		return nil, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.GET_SYNC_LOG.Code,
			Message:     errors.GET_SYNC_LOG.Message,
			Description: fmt.Sprintf("failed to query last successful run for type %s", syncType),
		}, err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	if t, ok := results[0]["created_at"].(time.Time); ok {
		return &t, nil
	}
	return nil, nil
}

// LastSuccessful returns the most recent successful run entry of the given
// type, or nil when none exists. Unlike a bounded recent-runs scan this
// still finds the success after any number of consecutive failures.
func (s *SyncLogStore) LastSuccessful(syncType string) (*model.SyncLog, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, errors.NewServerError(errors.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(
		`SELECT run_id, sync_type, status, full_pull, processed, summary, message,
		 created_at, finished_at FROM sync_logs WHERE sync_type = $1 AND status = $2
		 ORDER BY created_at DESC LIMIT 1`,
		syncType, constants.SyncStatusSuccess)
	if err != nil {
		return nil, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.GET_SYNC_LOG.Code,
			Message:     errors.GET_SYNC_LOG.Message,
			Description: fmt.Sprintf("failed to query last successful run for type %s", syncType),
		}, err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	entry := buildSyncLogFromResultRow(results[0])
	return &entry, nil
}

// ListRecent returns up to limit runs of the given type, newest first. An
// empty syncType lists runs of every type.
func (s *SyncLogStore) ListRecent(syncType string, limit int) ([]model.SyncLog, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, errors.NewServerError(errors.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	if limit <= 0 {
		limit = 20
	}

	query := `SELECT run_id, sync_type, status, full_pull, processed, summary, message,
		created_at, finished_at FROM sync_logs`
	args := []interface{}{}
	if syncType != "" {
		query += " WHERE sync_type = $1 ORDER BY created_at DESC LIMIT $2"
		args = append(args, syncType, limit)
	} else {
		query += " ORDER BY created_at DESC LIMIT $1"
		args = append(args, limit)
	}

	results, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		return nil, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.GET_SYNC_LOG.Code,
			Message:     errors.GET_SYNC_LOG.Message,
			Description: "failed to list sync logs",
		}, err)
	}

	logs := make([]model.SyncLog, 0, len(results))
	for _, row := range results {
		logs = append(logs, buildSyncLogFromResultRow(row))
	}
	return logs, nil
}

func buildSyncLogFromResultRow(row map[string]interface{}) model.SyncLog {

	entry := model.SyncLog{}
	entry.RunID, _ = row["run_id"].(string)
	entry.SyncType, _ = row["sync_type"].(string)
	entry.Status, _ = row["status"].(string)
	entry.Full, _ = row["full_pull"].(bool)
	entry.Message, _ = row["message"].(string)

	if t, ok := row["created_at"].(time.Time); ok {
		entry.StartedAt = t
	}
	if t, ok := row["finished_at"].(time.Time); ok {
		entry.FinishedAt = &t
	}

	switch summary := row["summary"].(type) {
	case []byte:
		_ = json.Unmarshal(summary, &entry.Summary)
	case string:
		_ = json.Unmarshal([]byte(summary), &entry.Summary)
	}
	return entry
}

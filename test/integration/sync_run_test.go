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

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intranethq/collaborator-sync-service/internal/directory"
	profilestore "github.com/intranethq/collaborator-sync-service/internal/profile/store"
	syncmodel "github.com/intranethq/collaborator-sync-service/internal/sync/model"
	"github.com/intranethq/collaborator-sync-service/internal/sync/service"
	syncstore "github.com/intranethq/collaborator-sync-service/internal/sync/store"
	"github.com/intranethq/collaborator-sync-service/internal/system/constants"
	"github.com/intranethq/collaborator-sync-service/internal/system/database/lock"
)

type cannedDirectory struct {
	records []directory.RawRecord
}

func (c *cannedDirectory) ListRecords(_ context.Context, page int, _ time.Time) ([]directory.RawRecord, bool, error) {
	if page > 1 {
		return nil, false, nil
	}
	return c.records, false, nil
}

func TestProfileSyncEndToEnd(t *testing.T) {

	dir := &cannedDirectory{records: []directory.RawRecord{
		{
			"id":              "E2E-Z1",
			"Email":           "E2E.Ana@x.com",
			"Estatus":         "Asignado",
			"Nombre_completo": "Ana E2E",
			"Apellidos":       "E2E",
			"Puesto":          "Analista",
		},
	}}
	svc := service.NewSyncService(dir, profilestore.NewProfileStore(),
		syncstore.NewSyncLogStore(), lock.NewPostgresLock())

	result, err := svc.RunProfileSync(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.Inserted)

	created, err := profilestore.NewProfileStore().GetByExternalID("E2E-Z1")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "e2e.ana@x.com", created.Email)
	require.NotNil(t, created.Password)
	assert.Len(t, *created.Password, 60)

	// Second run with the same upstream state must be a no-op.
	again, err := svc.RunProfileSync(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Summary.Inserted)
	assert.Equal(t, 1, again.Summary.Updated)

	unchanged, err := profilestore.NewProfileStore().GetByExternalID("E2E-Z1")
	require.NoError(t, err)
	assert.Equal(t, *created.Password, *unchanged.Password)
}

func TestSyncLogStoreRoundTrip(t *testing.T) {

	logStore := syncstore.NewSyncLogStore()

	runID, err := logStore.StartRun(constants.SyncTypeProfiles, true)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	summary := syncmodel.SyncSummary{
		Fetched:      3,
		Synchronized: 2,
		Inserted:     1,
		Updated:      1,
		Errors:       1,
		ErrorSample: []syncmodel.RecordError{
			{ExternalID: "Z5", Email: "falla@x.com", Stage: "insert", Message: "boom"},
		},
	}
	require.NoError(t, logStore.FinishRun(runID, constants.SyncStatusPartial, summary, ""))

	logs, err := logStore.ListRecent(constants.SyncTypeProfiles, 5)
	require.NoError(t, err)
	require.NotEmpty(t, logs)

	var found *syncmodel.SyncLog
	for i := range logs {
		if logs[i].RunID == runID {
			found = &logs[i]
			break
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, constants.SyncStatusPartial, found.Status)
	assert.True(t, found.Full)
	assert.NotNil(t, found.FinishedAt)
	assert.Equal(t, 2, found.Summary.Synchronized)
	require.Len(t, found.Summary.ErrorSample, 1)
	assert.Equal(t, "falla@x.com", found.Summary.ErrorSample[0].Email)

	// A partial run is not a differential cutoff candidate.
	cutoff, err := logStore.LastSuccessfulRun(constants.SyncTypeProfiles)
	require.NoError(t, err)
	if cutoff != nil {
		// Another test may have recorded a success; it must not be this run.
		assert.NotEqual(t, found.StartedAt, *cutoff)
	}

	successID, err := logStore.StartRun(constants.SyncTypeProfiles, true)
	require.NoError(t, err)
	require.NoError(t, logStore.FinishRun(successID, constants.SyncStatusSuccess,
		syncmodel.SyncSummary{Synchronized: 1}, ""))

	cutoff, err = logStore.LastSuccessfulRun(constants.SyncTypeProfiles)
	require.NoError(t, err)
	require.NotNil(t, cutoff)
}

func TestAdvisoryLockSingleFlight(t *testing.T) {

	first := lock.NewPostgresLock()
	second := lock.NewPostgresLock()

	acquired, err := first.Acquire("test:lock")
	require.NoError(t, err)
	assert.True(t, acquired)

	blocked, err := second.Acquire("test:lock")
	require.NoError(t, err)
	assert.False(t, blocked, "a held advisory lock must block other holders")

	require.NoError(t, first.Release("test:lock"))

	reacquired, err := second.Acquire("test:lock")
	require.NoError(t, err)
	assert.True(t, reacquired)
	require.NoError(t, second.Release("test:lock"))
}

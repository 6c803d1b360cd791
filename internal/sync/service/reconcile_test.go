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
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/intranethq/collaborator-sync-service/internal/directory"
	profilemodel "github.com/intranethq/collaborator-sync-service/internal/profile/model"
	"github.com/intranethq/collaborator-sync-service/internal/sync/model"
	"github.com/intranethq/collaborator-sync-service/internal/system/config"
	"github.com/intranethq/collaborator-sync-service/internal/system/constants"
	"github.com/intranethq/collaborator-sync-service/internal/system/errors"
	"github.com/intranethq/collaborator-sync-service/internal/system/log"
)

func TestMain(m *testing.M) {
	if err := log.Init("error"); err != nil {
		panic(err)
	}
	config.OverrideSyncRuntime(config.Config{
		Sync: config.SyncConfig{DefaultPassword: "Bienvenido2026!", ErrorSampleSize: 5},
	})
	m.Run()
}

// fakeDirectory serves canned record pages and records the modified-since
// cutoff it was asked for.
type fakeDirectory struct {
	pages         [][]directory.RawRecord
	modifiedSince []time.Time
}

func (f *fakeDirectory) ListRecords(_ context.Context, page int, modifiedSince time.Time) ([]directory.RawRecord, bool, error) {
	f.modifiedSince = append(f.modifiedSince, modifiedSince)
	if page > len(f.pages) {
		return nil, false, nil
	}
	return f.pages[page-1], page < len(f.pages), nil
}

// fakeProfileStore keeps profiles in memory and can be told to fail writes
// for a specific email.
type fakeProfileStore struct {
	profiles    map[string]*profilemodel.Profile
	failEmail   string
	inserts     int
	updates     int
	statusFlips int
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: map[string]*profilemodel.Profile{}}
}

func (f *fakeProfileStore) GetByExternalID(externalID string) (*profilemodel.Profile, error) {
	for _, p := range f.profiles {
		if p.ExternalRecordID != nil && *p.ExternalRecordID == externalID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeProfileStore) GetByEmail(email string) (*profilemodel.Profile, error) {
	for _, p := range f.profiles {
		if strings.EqualFold(p.Email, email) {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeProfileStore) GetByID(profileID string) (*profilemodel.Profile, error) {
	if p, ok := f.profiles[profileID]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeProfileStore) Insert(profile *profilemodel.Profile) error {
	if strings.EqualFold(profile.Email, f.failEmail) {
		return fmt.Errorf("simulated insert failure for %s", profile.Email)
	}
	if profile.ProfileID == "" {
		profile.ProfileID = uuid.New().String()
	}
	copied := *profile
	f.profiles[profile.ProfileID] = &copied
	f.inserts++
	return nil
}

func (f *fakeProfileStore) Update(profile *profilemodel.Profile) error {
	if strings.EqualFold(profile.Email, f.failEmail) {
		return fmt.Errorf("simulated update failure for %s", profile.Email)
	}
	copied := *profile
	f.profiles[profile.ProfileID] = &copied
	f.updates++
	return nil
}

func (f *fakeProfileStore) SetPassword(profileID, passwordHash string) error {
	p := f.profiles[profileID]
	now := time.Now().UTC()
	p.Password = &passwordHash
	p.PasswordChangedAt = &now
	return nil
}

func (f *fakeProfileStore) SetStatus(profileID string, status profilemodel.Status) error {
	p, ok := f.profiles[profileID]
	if !ok {
		return fmt.Errorf("profile %s not found", profileID)
	}
	if strings.EqualFold(p.Email, f.failEmail) {
		return fmt.Errorf("simulated status failure for %s", p.Email)
	}
	if p.Status != status {
		f.statusFlips++
	}
	p.Status = status
	return nil
}

func (f *fakeProfileStore) ListActive() ([]profilemodel.Profile, error) {
	var out []profilemodel.Profile
	for _, p := range f.profiles {
		if p.Status == profilemodel.StatusActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProfileStore) List() ([]profilemodel.Profile, error) {
	var out []profilemodel.Profile
	for _, p := range f.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProfileStore) CountByStatus() (map[profilemodel.Status]int, error) {
	counts := map[profilemodel.Status]int{}
	for _, p := range f.profiles {
		counts[p.Status]++
	}
	return counts, nil
}

func (f *fakeProfileStore) CountLinked() (int, error) {
	count := 0
	for _, p := range f.profiles {
		if p.IsLinked() {
			count++
		}
	}
	return count, nil
}

type finishedRun struct {
	runID   string
	status  string
	summary model.SyncSummary
	message string
}

type fakeSyncLogStore struct {
	lastSuccess *time.Time
	lastOK      *model.SyncLog
	recent      []model.SyncLog
	started     []string
	finished    []finishedRun
}

func (f *fakeSyncLogStore) StartRun(syncType string, _ bool) (string, error) {
	runID := uuid.New().String()
	f.started = append(f.started, syncType)
	return runID, nil
}

func (f *fakeSyncLogStore) FinishRun(runID, status string, summary model.SyncSummary, message string) error {
	f.finished = append(f.finished, finishedRun{runID, status, summary, message})
	return nil
}

func (f *fakeSyncLogStore) LastSuccessfulRun(string) (*time.Time, error) {
	return f.lastSuccess, nil
}

func (f *fakeSyncLogStore) LastSuccessful(string) (*model.SyncLog, error) {
	return f.lastOK, nil
}

func (f *fakeSyncLogStore) ListRecent(_ string, limit int) ([]model.SyncLog, error) {
	if limit > 0 && limit < len(f.recent) {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

type fakeLock struct {
	held     bool
	acquires int
	releases int
}

func (f *fakeLock) Acquire(string) (bool, error) {
	f.acquires++
	if f.held {
		return false, nil
	}
	f.held = true
	return true, nil
}

func (f *fakeLock) Release(string) error {
	f.releases++
	f.held = false
	return nil
}

func newService(dir DirectoryAPI, profiles *fakeProfileStore, logs *fakeSyncLogStore) (*SyncService, *fakeLock) {
	runLock := &fakeLock{}
	return NewSyncService(dir, profiles, logs, runLock), runLock
}

func rawRecord(id, email, status, fullName string) directory.RawRecord {
	return directory.RawRecord{
		"id":              id,
		"Email":           email,
		"Estatus":         status,
		"Nombre_completo": fullName,
	}
}

func TestInsertProvisionsPassword(t *testing.T) {

	dir := &fakeDirectory{pages: [][]directory.RawRecord{
		{rawRecord("Z1", "Ana.Lopez@x.com", "Asignado", "Ana Lopez")},
	}}
	profiles := newFakeProfileStore()
	svc, _ := newService(dir, profiles, &fakeSyncLogStore{})

	result, err := svc.RunProfileSync(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, constants.SyncStatusSuccess, result.Status)
	assert.Equal(t, 1, result.Summary.Inserted)

	created, err := profiles.GetByEmail("ana.lopez@x.com")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "ana.lopez@x.com", created.Email)
	assert.Equal(t, "Ana Lopez", created.FullName)
	require.NotNil(t, created.ExternalRecordID)
	assert.Equal(t, "Z1", *created.ExternalRecordID)
	assert.Equal(t, profilemodel.StatusActive, created.Status)

	require.NotNil(t, created.Password)
	assert.Len(t, *created.Password, 60)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*created.Password), []byte("Bienvenido2026!")))
	assert.NotNil(t, created.PasswordChangedAt)
}

func TestUpdatePreservesExistingPassword(t *testing.T) {

	externalID := "Z1"
	existingHash := "$2a$10$existinghashexistinghashexistinghashexistinghashxxxxx"
	profiles := newFakeProfileStore()
	require.NoError(t, profiles.Insert(&profilemodel.Profile{
		ExternalRecordID: &externalID,
		Email:            "ana.lopez@x.com",
		FullName:         "Ana Lopez",
		Status:           profilemodel.StatusActive,
		Password:         &existingHash,
	}))

	dir := &fakeDirectory{pages: [][]directory.RawRecord{
		{rawRecord("Z1", "ana.lopez@x.com", "Baja", "Ana Lopez Garcia")},
	}}
	svc, _ := newService(dir, profiles, &fakeSyncLogStore{})

	result, err := svc.RunProfileSync(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.Updated)

	updated, _ := profiles.GetByExternalID("Z1")
	require.NotNil(t, updated)
	assert.Equal(t, profilemodel.StatusInactive, updated.Status, "status always follows the directory")
	assert.Equal(t, "Ana Lopez Garcia", updated.FullName)
	require.NotNil(t, updated.Password)
	assert.Equal(t, existingHash, *updated.Password, "existing credential must never be overwritten")
}

func TestUpdateFollowsEmailChange(t *testing.T) {

	externalID := "Z1"
	profiles := newFakeProfileStore()
	require.NoError(t, profiles.Insert(&profilemodel.Profile{
		ExternalRecordID: &externalID,
		Email:            "old.address@x.com",
		FullName:         "Ana Lopez",
		Status:           profilemodel.StatusActive,
	}))

	dir := &fakeDirectory{pages: [][]directory.RawRecord{
		{rawRecord("Z1", "new.address@x.com", "Asignado", "Ana Lopez")},
	}}
	svc, _ := newService(dir, profiles, &fakeSyncLogStore{})

	result, err := svc.RunProfileSync(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.Updated)
	assert.Equal(t, 0, result.Summary.Deactivated,
		"a renamed mailbox is still present in the pull")

	updated, _ := profiles.GetByExternalID("Z1")
	require.NotNil(t, updated)
	assert.Equal(t, "new.address@x.com", updated.Email)
	assert.Equal(t, profilemodel.StatusActive, updated.Status)
}

func TestLinkDoesNotClobberLocalData(t *testing.T) {

	profiles := newFakeProfileStore()
	localTitle := "Directora de Operaciones"
	require.NoError(t, profiles.Insert(&profilemodel.Profile{
		Email:    "ana.lopez@x.com",
		FullName: "Ana Lucia Lopez",
		Title:    &localTitle,
		Status:   profilemodel.StatusPending,
	}))

	record := rawRecord("Z1", "ana.lopez@x.com", "Asignado", "Ana Lopez")
	record["Puesto"] = "Analista"
	record["Departamento"] = "Operaciones"
	dir := &fakeDirectory{pages: [][]directory.RawRecord{{record}}}
	svc, _ := newService(dir, profiles, &fakeSyncLogStore{})

	result, err := svc.RunProfileSync(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.Linked)

	linked, _ := profiles.GetByEmail("ana.lopez@x.com")
	require.NotNil(t, linked)
	require.NotNil(t, linked.ExternalRecordID)
	assert.Equal(t, "Z1", *linked.ExternalRecordID)
	assert.Equal(t, "Ana Lucia Lopez", linked.FullName, "local name wins in the link path")
	assert.Equal(t, profilemodel.StatusPending, linked.Status, "local status wins in the link path")
	require.NotNil(t, linked.Title)
	assert.Equal(t, localTitle, *linked.Title, "populated local fields are not clobbered")
	require.NotNil(t, linked.Department)
	assert.Equal(t, "Operaciones", *linked.Department, "empty local fields are complemented")
}

func TestConflictingLinkIsRecordedAsError(t *testing.T) {

	otherID := "Z9"
	profiles := newFakeProfileStore()
	require.NoError(t, profiles.Insert(&profilemodel.Profile{
		ExternalRecordID: &otherID,
		Email:            "ana.lopez@x.com",
		FullName:         "Ana Lopez",
		Status:           profilemodel.StatusActive,
	}))

	dir := &fakeDirectory{pages: [][]directory.RawRecord{
		{rawRecord("Z1", "ana.lopez@x.com", "Asignado", "Ana Lopez")},
	}}
	logs := &fakeSyncLogStore{}
	svc, _ := newService(dir, profiles, logs)

	result, err := svc.RunProfileSync(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.Errors)
	assert.Equal(t, 0, result.Summary.Synchronized)
	require.Len(t, result.Summary.ErrorSample, 1)
	assert.Equal(t, "conflict", result.Summary.ErrorSample[0].Stage)
	assert.Equal(t, "Z1", result.Summary.ErrorSample[0].ExternalID)
}

func TestRecordWithoutIdentityIsSkipped(t *testing.T) {

	dir := &fakeDirectory{pages: [][]directory.RawRecord{
		{rawRecord("", "ana.lopez@x.com", "Asignado", "Ana"), rawRecord("Z2", "", "Asignado", "Sin Correo")},
	}}
	profiles := newFakeProfileStore()
	svc, _ := newService(dir, profiles, &fakeSyncLogStore{})

	result, err := svc.RunProfileSync(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Summary.Skipped)
	assert.Equal(t, 0, result.Summary.Errors)
	assert.Equal(t, constants.SyncStatusSuccess, result.Status)
}

func TestErrorIsolationYieldsPartialOutcome(t *testing.T) {

	var records []directory.RawRecord
	for i := 1; i <= 10; i++ {
		records = append(records, rawRecord(
			fmt.Sprintf("Z%d", i), fmt.Sprintf("persona%d@x.com", i), "Asignado",
			fmt.Sprintf("Persona %d", i)))
	}
	dir := &fakeDirectory{pages: [][]directory.RawRecord{records}}
	profiles := newFakeProfileStore()
	profiles.failEmail = "persona5@x.com"
	logs := &fakeSyncLogStore{}
	svc, _ := newService(dir, profiles, logs)

	result, err := svc.RunProfileSync(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, constants.SyncStatusPartial, result.Status)
	assert.Equal(t, 9, result.Summary.Inserted)
	assert.Equal(t, 1, result.Summary.Errors)
	require.Len(t, result.Summary.ErrorSample, 1)
	assert.Equal(t, "persona5@x.com", result.Summary.ErrorSample[0].Email)

	require.Len(t, logs.finished, 1)
	assert.Equal(t, constants.SyncStatusPartial, logs.finished[0].status)
}

func TestErrorSampleIsBounded(t *testing.T) {

	var records []directory.RawRecord
	for i := 1; i <= 8; i++ {
		// Every record collides with an email linked elsewhere.
		records = append(records, rawRecord(
			fmt.Sprintf("Z%d", i), "taken@x.com", "Asignado", "Colision"))
	}
	takenID := "Z0"
	profiles := newFakeProfileStore()
	require.NoError(t, profiles.Insert(&profilemodel.Profile{
		ExternalRecordID: &takenID,
		Email:            "taken@x.com",
		FullName:         "Titular",
		Status:           profilemodel.StatusActive,
	}))

	dir := &fakeDirectory{pages: [][]directory.RawRecord{records}}
	svc, _ := newService(dir, profiles, &fakeSyncLogStore{})

	result, err := svc.RunProfileSync(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, 8, result.Summary.Errors)
	assert.Len(t, result.Summary.ErrorSample, 5)
}

func TestDifferentialCutoffUsesLastSuccessfulRun(t *testing.T) {

	cutoff := time.Date(2026, 2, 1, 6, 0, 0, 0, time.UTC)
	logs := &fakeSyncLogStore{lastSuccess: &cutoff}
	dir := &fakeDirectory{pages: [][]directory.RawRecord{
		{rawRecord("Z1", "ana.lopez@x.com", "Asignado", "Ana Lopez")},
	}}
	profiles := newFakeProfileStore()

	// An unrelated active profile that a sweep would wrongly deactivate.
	require.NoError(t, profiles.Insert(&profilemodel.Profile{
		Email: "untouched@x.com", FullName: "No Tocar", Status: profilemodel.StatusActive,
	}))

	svc, _ := newService(dir, profiles, logs)
	result, err := svc.RunProfileSync(context.Background(), true)

	require.NoError(t, err)
	require.NotEmpty(t, dir.modifiedSince)
	assert.Equal(t, cutoff, dir.modifiedSince[0])
	assert.False(t, result.Full)
	assert.Equal(t, 0, result.Summary.Deactivated, "sweep must not run on a differential pull")

	untouched, _ := profiles.GetByEmail("untouched@x.com")
	assert.Equal(t, profilemodel.StatusActive, untouched.Status)
}

func TestDifferentialWithoutPriorRunDegradesToFull(t *testing.T) {

	dir := &fakeDirectory{pages: [][]directory.RawRecord{
		{rawRecord("Z1", "ana.lopez@x.com", "Asignado", "Ana Lopez")},
	}}
	profiles := newFakeProfileStore()
	svc, _ := newService(dir, profiles, &fakeSyncLogStore{})

	result, err := svc.RunProfileSync(context.Background(), true)

	require.NoError(t, err)
	assert.True(t, result.Full)
	assert.True(t, dir.modifiedSince[0].IsZero())
}

func TestDeactivationSweepOnFullPull(t *testing.T) {

	goneID := "Z8"
	profiles := newFakeProfileStore()
	require.NoError(t, profiles.Insert(&profilemodel.Profile{
		ExternalRecordID: &goneID,
		Email:            "se.fue@x.com",
		FullName:         "Ya No Esta",
		Status:           profilemodel.StatusActive,
	}))
	require.NoError(t, profiles.Insert(&profilemodel.Profile{
		Email: "ya.inactivo@x.com", FullName: "Inactivo", Status: profilemodel.StatusInactive,
	}))

	dir := &fakeDirectory{pages: [][]directory.RawRecord{
		{rawRecord("Z1", "ana.lopez@x.com", "Asignado", "Ana Lopez")},
	}}
	svc, _ := newService(dir, profiles, &fakeSyncLogStore{})

	result, err := svc.RunProfileSync(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.Deactivated)

	gone, _ := profiles.GetByEmail("se.fue@x.com")
	assert.Equal(t, profilemodel.StatusInactive, gone.Status)
	stillInactive, _ := profiles.GetByEmail("ya.inactivo@x.com")
	assert.Equal(t, profilemodel.StatusInactive, stillInactive.Status)
}

func TestFullSyncIsIdempotent(t *testing.T) {

	pages := [][]directory.RawRecord{
		{
			rawRecord("Z1", "ana.lopez@x.com", "Asignado", "Ana Lopez"),
			rawRecord("Z2", "luis.mora@x.com", "Baja", "Luis Mora"),
		},
	}
	profiles := newFakeProfileStore()
	logs := &fakeSyncLogStore{}

	first, runLock := newService(&fakeDirectory{pages: pages}, profiles, logs)
	_, err := first.RunProfileSync(context.Background(), false)
	require.NoError(t, err)
	require.False(t, runLock.held)

	insertsAfterFirst := profiles.inserts
	flipsAfterFirst := profiles.statusFlips
	firstState, _ := profiles.GetByEmail("ana.lopez@x.com")

	second, _ := newService(&fakeDirectory{pages: pages}, profiles, logs)
	result, err := second.RunProfileSync(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, constants.SyncStatusSuccess, result.Status)
	assert.Equal(t, insertsAfterFirst, profiles.inserts, "second run inserts nothing")
	assert.Equal(t, flipsAfterFirst, profiles.statusFlips, "second run flips no statuses")

	secondState, _ := profiles.GetByEmail("ana.lopez@x.com")
	assert.Equal(t, firstState.FullName, secondState.FullName)
	assert.Equal(t, firstState.Status, secondState.Status)
	assert.Equal(t, *firstState.Password, *secondState.Password)
}

func TestOverlappingRunRejected(t *testing.T) {

	dir := &fakeDirectory{}
	svc, runLock := newService(dir, newFakeProfileStore(), &fakeSyncLogStore{})
	runLock.held = true

	_, err := svc.RunProfileSync(context.Background(), false)

	var clientErr *errors.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusConflict, clientErr.StatusCode)
	assert.Equal(t, errors.SYNC_IN_PROGRESS.Code, clientErr.Code)
	assert.Zero(t, runLock.releases, "a lock that was never acquired is not released")
}

func TestPageFetchFailureMarksRunAsError(t *testing.T) {

	dir := &failingDirectory{}
	logs := &fakeSyncLogStore{}
	svc, runLock := newService(dir, newFakeProfileStore(), logs)

	_, err := svc.RunProfileSync(context.Background(), false)

	require.Error(t, err)
	require.Len(t, logs.finished, 1)
	assert.Equal(t, constants.SyncStatusError, logs.finished[0].status)
	assert.Contains(t, logs.finished[0].message, "boom")
	assert.Equal(t, 1, runLock.releases)
}

type failingDirectory struct{}

func (f *failingDirectory) ListRecords(context.Context, int, time.Time) ([]directory.RawRecord, bool, error) {
	return nil, false, &directory.UpstreamError{Operation: "record listing", StatusCode: 502, Body: "boom"}
}

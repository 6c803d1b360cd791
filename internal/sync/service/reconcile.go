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
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/intranethq/collaborator-sync-service/internal/directory"
	profilemodel "github.com/intranethq/collaborator-sync-service/internal/profile/model"
	"github.com/intranethq/collaborator-sync-service/internal/sync/mapper"
	"github.com/intranethq/collaborator-sync-service/internal/sync/model"
	"github.com/intranethq/collaborator-sync-service/internal/system/config"
	"github.com/intranethq/collaborator-sync-service/internal/system/constants"
	"github.com/intranethq/collaborator-sync-service/internal/system/database/lock"
	"github.com/intranethq/collaborator-sync-service/internal/system/errors"
	"github.com/intranethq/collaborator-sync-service/internal/system/log"
)

// DirectoryAPI is the slice of the directory client the reconciliation
// needs.
type DirectoryAPI interface {
	ListRecords(ctx context.Context, page int, modifiedSince time.Time) ([]directory.RawRecord, bool, error)
}

// ProfileStore is the persistence surface the reconciliation writes through.
type ProfileStore interface {
	GetByExternalID(externalID string) (*profilemodel.Profile, error)
	GetByEmail(email string) (*profilemodel.Profile, error)
	GetByID(profileID string) (*profilemodel.Profile, error)
	Insert(profile *profilemodel.Profile) error
	Update(profile *profilemodel.Profile) error
	SetPassword(profileID, passwordHash string) error
	SetStatus(profileID string, status profilemodel.Status) error
	ListActive() ([]profilemodel.Profile, error)
	List() ([]profilemodel.Profile, error)
	CountByStatus() (map[profilemodel.Status]int, error)
	CountLinked() (int, error)
}

// SyncLogStore records run outcomes and serves the differential cutoff.
type SyncLogStore interface {
	StartRun(syncType string, full bool) (string, error)
	FinishRun(runID, status string, summary model.SyncSummary, message string) error
	LastSuccessfulRun(syncType string) (*time.Time, error)
	LastSuccessful(syncType string) (*model.SyncLog, error)
	ListRecent(syncType string, limit int) ([]model.SyncLog, error)
}

// SyncService reconciles the CRM directory into the local profile table.
type SyncService struct {
	directory DirectoryAPI
	profiles  ProfileStore
	syncLogs  SyncLogStore
	runLock   lock.DistributedLock
	logger    *log.Logger
}

func NewSyncService(directoryAPI DirectoryAPI, profiles ProfileStore, syncLogs SyncLogStore,
	runLock lock.DistributedLock) *SyncService {

	return &SyncService{
		directory: directoryAPI,
		profiles:  profiles,
		syncLogs:  syncLogs,
		runLock:   runLock,
		logger:    log.GetLogger().With(log.String(log.LoggerKeyComponentName, "SyncService")),
	}
}

// RunProfileSync pulls the directory and reconciles every record. In
// differential mode only records modified since the last successful run are
// requested, and the deactivation sweep is skipped: absence from a partial
// pull proves nothing. Overlapping runs of the same type are rejected.
func (s *SyncService) RunProfileSync(ctx context.Context, differential bool) (*model.SyncResult, error) {

	acquired, err := s.runLock.Acquire(constants.ProfileSyncLockKey)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, errors.NewClientError(errors.SYNC_IN_PROGRESS, http.StatusConflict)
	}
	defer func() {
		if err := s.runLock.Release(constants.ProfileSyncLockKey); err != nil {
			s.logger.Error("Failed to release profile sync lock.", log.Error(err))
		}
	}()

	var cutoff time.Time
	if differential {
		last, err := s.syncLogs.LastSuccessfulRun(constants.SyncTypeProfiles)
		if err != nil {
			return nil, err
		}
		if last != nil {
			cutoff = *last
		}
	}
	// A differential request without a prior successful run degrades to a
	// full pull, sweep included.
	full := cutoff.IsZero()

	runID, err := s.syncLogs.StartRun(constants.SyncTypeProfiles, full)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Profile sync run started.",
		log.String("run_id", runID), log.Any("full", full))

	summary := model.SyncSummary{}
	var recordErrors []model.RecordError
	seenEmails := map[string]struct{}{}

	for page := 1; ; page++ {
		records, more, err := s.directory.ListRecords(ctx, page, cutoff)
		if err != nil {
			// Page fetch failures are fatal to the run.
			s.finishRun(runID, constants.SyncStatusError, &summary, recordErrors, err.Error())
			return nil, wrapDirectoryError(err)
		}
		summary.Fetched += len(records)

		for _, raw := range records {
			fields := mapper.MapToProfile(mapper.DecodeRecord(raw))
			if fields.Email != "" {
				seenEmails[fields.Email] = struct{}{}
			}
			outcome := s.reconcileRecord(fields)
			switch outcome.action {
			case actionInserted:
				summary.Inserted++
			case actionUpdated:
				summary.Updated++
			case actionLinked:
				summary.Linked++
			case actionSkipped:
				summary.Skipped++
			case actionFailed:
				recordErrors = append(recordErrors, *outcome.recordError)
			}
		}
		if !more || len(records) == 0 {
			break
		}
	}

	if full {
		deactivated, sweepErrors := s.deactivationSweep(seenEmails)
		summary.Deactivated = deactivated
		recordErrors = append(recordErrors, sweepErrors...)
	}

	summary.Synchronized = summary.Inserted + summary.Updated + summary.Linked
	summary.Errors = len(recordErrors)
	status := runOutcome(summary.Synchronized+summary.Deactivated, summary.Errors)

	s.finishRun(runID, status, &summary, recordErrors, "")
	s.logger.Info("Profile sync run finished.",
		log.String("run_id", runID), log.String("status", status),
		log.Int("synchronized", summary.Synchronized), log.Int("errors", summary.Errors))

	return &model.SyncResult{
		RunID:    runID,
		SyncType: constants.SyncTypeProfiles,
		Status:   status,
		Full:     full,
		Summary:  summary,
	}, nil
}

const (
	actionInserted = "inserted"
	actionUpdated  = "updated"
	actionLinked   = "linked"
	actionSkipped  = "skipped"
	actionFailed   = "failed"
)

type recordOutcome struct {
	action      string
	recordError *model.RecordError
}

func failedOutcome(fields mapper.ProfileFields, stage string, err error) recordOutcome {
	return recordOutcome{
		action: actionFailed,
		recordError: &model.RecordError{
			ExternalID: fields.ExternalRecordID,
			Email:      fields.Email,
			Stage:      stage,
			Message:    err.Error(),
		},
	}
}

// reconcileRecord applies the per-record state machine: match by external
// id, then by email, then insert; an email already linked elsewhere is an
// unresolvable conflict.
func (s *SyncService) reconcileRecord(fields mapper.ProfileFields) recordOutcome {

	if fields.ExternalRecordID == "" || fields.Email == "" {
		return recordOutcome{action: actionSkipped}
	}
	if !fields.StatusRecognized {
		s.logger.Warn("Unrecognized directory status, defaulting to active.",
			log.String("external_id", fields.ExternalRecordID), log.String("email", fields.Email))
	}

	existing, err := s.profiles.GetByExternalID(fields.ExternalRecordID)
	if err != nil {
		return failedOutcome(fields, "lookup", err)
	}
	if existing != nil {
		if err := s.updateProfile(existing, fields); err != nil {
			return failedOutcome(fields, "update", err)
		}
		return recordOutcome{action: actionUpdated}
	}

	byEmail, err := s.profiles.GetByEmail(fields.Email)
	if err != nil {
		return failedOutcome(fields, "lookup", err)
	}
	if byEmail != nil {
		if byEmail.IsLinked() {
			return failedOutcome(fields, "conflict", fmt.Errorf(
				"email already linked to external record %s", *byEmail.ExternalRecordID))
		}
		if err := s.linkProfile(byEmail, fields); err != nil {
			return failedOutcome(fields, "link", err)
		}
		return recordOutcome{action: actionLinked}
	}

	if err := s.insertProfile(fields); err != nil {
		return failedOutcome(fields, "insert", err)
	}
	return recordOutcome{action: actionInserted}
}

// updateProfile merges the mapped fields into a profile already linked to
// this record. Status always follows the directory; a profile without a
// credential gets one provisioned, an existing credential is never touched.
func (s *SyncService) updateProfile(profile *profilemodel.Profile, fields mapper.ProfileFields) error {

	applyMappedFields(profile, fields, true)
	profile.Status = fields.Status
	// The email follows the directory too; a stale local email would make
	// the same run's sweep treat this profile as absent.
	profile.Email = fields.Email

	if err := s.profiles.Update(profile); err != nil {
		return err
	}
	if !profile.HasPassword() {
		return s.provisionPassword(profile.ProfileID)
	}
	return nil
}

// linkProfile binds an unlinked local profile to its directory record and
// fills only the gaps. Status, full name and last name keep their local
// values; manually entered data wins over the directory here.
func (s *SyncService) linkProfile(profile *profilemodel.Profile, fields mapper.ProfileFields) error {

	externalID := fields.ExternalRecordID
	profile.ExternalRecordID = &externalID
	applyMappedFields(profile, fields, false)

	return s.profiles.Update(profile)
}

// insertProfile creates a fresh profile from the mapped fields with a
// provisioned credential.
func (s *SyncService) insertProfile(fields mapper.ProfileFields) error {

	externalID := fields.ExternalRecordID
	profile := &profilemodel.Profile{
		ExternalRecordID: &externalID,
		Email:            fields.Email,
		Status:           fields.Status,
	}
	applyMappedFields(profile, fields, true)

	hash, err := s.defaultPasswordHash()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	profile.Password = &hash
	profile.PasswordChangedAt = &now

	return s.profiles.Insert(profile)
}

// deactivationSweep marks active profiles absent from the full pull as
// inactive. Individual failures are recorded and do not stop the sweep.
func (s *SyncService) deactivationSweep(seenEmails map[string]struct{}) (int, []model.RecordError) {

	active, err := s.profiles.ListActive()
	if err != nil {
		return 0, []model.RecordError{{Stage: "sweep", Message: err.Error()}}
	}

	deactivated := 0
	var sweepErrors []model.RecordError
	for _, profile := range active {
		// Mapped emails are lowercased; locally entered ones may not be.
		if _, seen := seenEmails[strings.ToLower(profile.Email)]; seen {
			continue
		}
		if err := s.profiles.SetStatus(profile.ProfileID, profilemodel.StatusInactive); err != nil {
			externalID := ""
			if profile.ExternalRecordID != nil {
				externalID = *profile.ExternalRecordID
			}
			sweepErrors = append(sweepErrors, model.RecordError{
				ExternalID: externalID,
				Email:      profile.Email,
				Stage:      "deactivate",
				Message:    err.Error(),
			})
			continue
		}
		deactivated++
	}
	return deactivated, sweepErrors
}

// provisionPassword hashes the configured default credential and stores it.
func (s *SyncService) provisionPassword(profileID string) error {

	hash, err := s.defaultPasswordHash()
	if err != nil {
		return err
	}
	return s.profiles.SetPassword(profileID, hash)
}

func (s *SyncService) defaultPasswordHash() (string, error) {

	password := config.GetSyncRuntime().Config.Sync.DefaultPassword
	if password == "" {
		return "", errors.NewServerError(errors.ErrorMessage{
			Code:        errors.PASSWORD_HASH_FAILED.Code,
			Message:     errors.PASSWORD_HASH_FAILED.Message,
			Description: "no default password configured for provisioning",
		}, nil)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.NewServerError(errors.PASSWORD_HASH_FAILED, err)
	}
	return string(hash), nil
}

// applyMappedFields copies present mapped values onto the profile. With
// overwrite false only locally empty fields are filled, and the identity
// fields (full name, last name) are left alone entirely.
func applyMappedFields(profile *profilemodel.Profile, fields mapper.ProfileFields, overwrite bool) {

	if overwrite {
		if fields.FullName != nil {
			profile.FullName = *fields.FullName
		}
		setString(&profile.LastName, fields.LastName, true)
	}

	setString(&profile.Title, fields.Title, overwrite)
	setString(&profile.Department, fields.Department, overwrite)
	setString(&profile.Phone, fields.Phone, overwrite)
	setString(&profile.Mobile, fields.Mobile, overwrite)
	setString(&profile.PersonalEmail, fields.PersonalEmail, overwrite)
	setString(&profile.Address, fields.Address, overwrite)
	setString(&profile.City, fields.City, overwrite)
	setString(&profile.State, fields.State, overwrite)
	setString(&profile.PostalCode, fields.PostalCode, overwrite)

	setTime(&profile.BirthDate, fields.BirthDate, overwrite)
	setTime(&profile.HireDate, fields.HireDate, overwrite)
	setTime(&profile.TerminationDate, fields.TerminationDate, overwrite)

	setString(&profile.CURP, fields.CURP, overwrite)
	setString(&profile.RFC, fields.RFC, overwrite)
	setString(&profile.NSS, fields.NSS, overwrite)
	setString(&profile.BankName, fields.BankName, overwrite)
	setString(&profile.BankAccount, fields.BankAccount, overwrite)
	setString(&profile.CLABE, fields.CLABE, overwrite)

	setString(&profile.EmergencyContact.Name, fields.EmergencyContact.Name, overwrite)
	setString(&profile.EmergencyContact.Phone, fields.EmergencyContact.Phone, overwrite)
	setString(&profile.EmergencyContact.Relation, fields.EmergencyContact.Relation, overwrite)

	setInt(&profile.VacationDaysTotal, fields.VacationDaysTotal, overwrite)
	setInt(&profile.VacationDaysTaken, fields.VacationDaysTaken, overwrite)
	setString(&profile.Comments, fields.Comments, overwrite)
}

func setString(target **string, value *string, overwrite bool) {
	if value == nil {
		return
	}
	if !overwrite && *target != nil && **target != "" {
		return
	}
	*target = value
}

func setTime(target **time.Time, value *time.Time, overwrite bool) {
	if value == nil {
		return
	}
	if !overwrite && *target != nil {
		return
	}
	*target = value
}

func setInt(target **int, value *int, overwrite bool) {
	if value == nil {
		return
	}
	if !overwrite && *target != nil {
		return
	}
	*target = value
}

// wrapDirectoryError lifts a typed directory failure into the service error
// taxonomy so the HTTP boundary reports it with a stable code.
func wrapDirectoryError(err error) error {

	var authErr *directory.AuthError
	if stderrors.As(err, &authErr) {
		return errors.NewServerError(errors.TOKEN_FETCH_FAILED, err)
	}
	return errors.NewServerError(errors.DIRECTORY_FETCH_FAILED, err)
}

// runOutcome derives the sync log status: clean runs succeed, runs with
// fewer failures than successes are partial, the rest are errors.
func runOutcome(succeeded, failed int) string {

	switch {
	case failed == 0:
		return constants.SyncStatusSuccess
	case failed < succeeded:
		return constants.SyncStatusPartial
	default:
		return constants.SyncStatusError
	}
}

// finishRun finalizes the sync log, trimming the error list to the
// configured sample size. The sample is set on the caller's summary so the
// run result reports it too.
func (s *SyncService) finishRun(runID, status string, summary *model.SyncSummary,
	recordErrors []model.RecordError, message string) {

	summary.Errors = len(recordErrors)
	sampleSize := config.GetSyncRuntime().Config.Sync.ErrorSampleSize
	if sampleSize <= 0 {
		sampleSize = constants.ErrorSampleSize
	}
	if len(recordErrors) > sampleSize {
		recordErrors = recordErrors[:sampleSize]
	}
	summary.ErrorSample = recordErrors

	if err := s.syncLogs.FinishRun(runID, status, *summary, message); err != nil {
		s.logger.Error("Failed to finalize sync log.",
			log.String("run_id", runID), log.Error(err))
	}
}

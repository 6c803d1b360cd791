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
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/intranethq/collaborator-sync-service/internal/directory"
	"github.com/intranethq/collaborator-sync-service/internal/documents/model"
	profilemodel "github.com/intranethq/collaborator-sync-service/internal/profile/model"
	syncmodel "github.com/intranethq/collaborator-sync-service/internal/sync/model"
	"github.com/intranethq/collaborator-sync-service/internal/system/constants"
	"github.com/intranethq/collaborator-sync-service/internal/system/database/lock"
	"github.com/intranethq/collaborator-sync-service/internal/system/errors"
	"github.com/intranethq/collaborator-sync-service/internal/system/log"
)

// AttachmentLister is the slice of the directory client document sync uses.
type AttachmentLister interface {
	ListAttachments(ctx context.Context, recordID string) ([]directory.AttachmentMeta, error)
}

// LinkedProfileSource yields the profiles whose attachments are cached.
type LinkedProfileSource interface {
	ListLinked() ([]profilemodel.Profile, error)
}

// DocumentWriter persists cache entries.
type DocumentWriter interface {
	UpsertDocument(ctx context.Context, doc model.ProfileDocument) (bool, error)
}

// RunLogger records document sync runs alongside profile runs.
type RunLogger interface {
	StartRun(syncType string, full bool) (string, error)
	FinishRun(runID, status string, summary syncmodel.SyncSummary, message string) error
}

// DocumentService reconciles directory attachments into the local cache.
type DocumentService struct {
	directory AttachmentLister
	profiles  LinkedProfileSource
	documents DocumentWriter
	syncLogs  RunLogger
	runLock   lock.DistributedLock
	logger    *log.Logger
}

func NewDocumentService(attachments AttachmentLister, profiles LinkedProfileSource,
	documents DocumentWriter, syncLogs RunLogger, runLock lock.DistributedLock) *DocumentService {

	return &DocumentService{
		directory: attachments,
		profiles:  profiles,
		documents: documents,
		syncLogs:  syncLogs,
		runLock:   runLock,
		logger:    log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DocumentService")),
	}
}

// RunDocumentSync lists the attachments of every linked profile and caches
// the ones not seen before. One profile's listing failure is recorded and
// does not abort the pass.
func (s *DocumentService) RunDocumentSync(ctx context.Context) (*model.DocumentSyncResult, error) {

	acquired, err := s.runLock.Acquire(constants.DocumentSyncLockKey)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, errors.NewClientError(errors.SYNC_IN_PROGRESS, http.StatusConflict)
	}
	defer func() {
		if err := s.runLock.Release(constants.DocumentSyncLockKey); err != nil {
			s.logger.Error("Failed to release document sync lock.", log.Error(err))
		}
	}()

	runID, err := s.syncLogs.StartRun(constants.SyncTypeDocuments, true)
	if err != nil {
		return nil, err
	}

	profiles, err := s.profiles.ListLinked()
	if err != nil {
		s.finishRun(runID, constants.SyncStatusError, syncmodel.SyncSummary{}, nil, err.Error())
		return nil, err
	}

	synced := 0
	var recordErrors []syncmodel.RecordError
	for _, profile := range profiles {
		count, err := s.syncProfileDocuments(ctx, profile)
		synced += count
		if err != nil {
			recordErrors = append(recordErrors, syncmodel.RecordError{
				ExternalID: *profile.ExternalRecordID,
				Email:      profile.Email,
				Stage:      "attachments",
				Message:    err.Error(),
			})
		}
	}

	status := constants.SyncStatusSuccess
	switch {
	case len(recordErrors) == 0:
	case len(recordErrors) < len(profiles):
		status = constants.SyncStatusPartial
	default:
		status = constants.SyncStatusError
	}

	summary := syncmodel.SyncSummary{
		Fetched:      len(profiles),
		Synchronized: synced,
	}
	s.finishRun(runID, status, summary, recordErrors, "")
	s.logger.Info("Document sync run finished.",
		log.String("run_id", runID), log.String("status", status),
		log.Int("profiles", len(profiles)), log.Int("documents", synced))

	return &model.DocumentSyncResult{
		RunID:             runID,
		Status:            status,
		ProfilesProcessed: len(profiles),
		DocumentsSynced:   synced,
		Errors:            len(recordErrors),
	}, nil
}

func (s *DocumentService) syncProfileDocuments(ctx context.Context, profile profilemodel.Profile) (int, error) {

	attachments, err := s.directory.ListAttachments(ctx, *profile.ExternalRecordID)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, meta := range attachments {
		inserted, err := s.documents.UpsertDocument(ctx, model.ProfileDocument{
			ProfileID:    profile.ProfileID,
			AttachmentID: meta.ID,
			FileName:     meta.FileName,
			Size:         meta.Size,
			ContentType:  contentTypeFor(meta.FileName),
			DocumentType: InferDocumentType(meta.FileName),
			SyncStatus:   "synced",
		})
		if err != nil {
			return synced, err
		}
		if inserted {
			synced++
		}
	}
	return synced, nil
}

func (s *DocumentService) finishRun(runID, status string, summary syncmodel.SyncSummary,
	recordErrors []syncmodel.RecordError, message string) {

	summary.Errors = len(recordErrors)
	if len(recordErrors) > constants.ErrorSampleSize {
		recordErrors = recordErrors[:constants.ErrorSampleSize]
	}
	summary.ErrorSample = recordErrors

	if err := s.syncLogs.FinishRun(runID, status, summary, message); err != nil {
		s.logger.Error("Failed to finalize document sync log.",
			log.String("run_id", runID), log.Error(err))
	}
}

// documentTypeKeywords maps file name fragments to document-type tags. The
// first matching group wins.
var documentTypeKeywords = []struct {
	tag      string
	keywords []string
}{
	{"contract", []string{"contrato"}},
	{"identification", []string{"ine", "identificacion", "pasaporte"}},
	{"cv", []string{"cv", "curriculum"}},
	{"certificate", []string{"certificado", "constancia"}},
	{"proof_of_address", []string{"comprobante", "domicilio"}},
}

// contentTypeFor derives a mime type from the file extension. The listing
// endpoint does not carry one; unknown extensions leave the field empty.
func contentTypeFor(fileName string) string {

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName)))
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.TrimSpace(contentType)
}

// InferDocumentType tags an attachment by keyword match on its file name.
func InferDocumentType(fileName string) string {

	name := strings.ToLower(fileName)
	for _, group := range documentTypeKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(name, keyword) {
				return group.tag
			}
		}
	}
	return "other"
}

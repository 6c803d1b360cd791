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

package handler

import (
	"net/http"
	"strconv"

	documentsprovider "github.com/intranethq/collaborator-sync-service/internal/documents/provider"
	"github.com/intranethq/collaborator-sync-service/internal/sync/model"
	"github.com/intranethq/collaborator-sync-service/internal/sync/provider"
	"github.com/intranethq/collaborator-sync-service/internal/system/utils"
)

// SyncHandler serves the operational sync API.
type SyncHandler struct{}

func NewSyncHandler() *SyncHandler {
	return &SyncHandler{}
}

// HandleProfileSync triggers a profile reconciliation run. The differential
// query parameter restricts the pull to records modified since the last
// successful run.
func (h *SyncHandler) HandleProfileSync(w http.ResponseWriter, r *http.Request) {

	differential, _ := strconv.ParseBool(r.URL.Query().Get("differential"))

	result, err := provider.GetSyncService().RunProfileSync(r.Context(), differential)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, result)
}

// HandleDocumentSync triggers an attachment cache run over linked profiles.
func (h *SyncHandler) HandleDocumentSync(w http.ResponseWriter, r *http.Request) {

	result, err := documentsprovider.GetDocumentService().RunDocumentSync(r.Context())
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, result)
}

// HandleStatus serves the consolidated sync status view.
func (h *SyncHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {

	status, err := provider.GetSyncService().GetSyncStatus(r.URL.Query().Get("type"))
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, status)
}

// HandleLogs lists recent sync runs, newest first.
func (h *SyncHandler) HandleLogs(w http.ResponseWriter, r *http.Request) {

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	logs, err := provider.GetSyncService().ListLogs(r.URL.Query().Get("type"), limit)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	if logs == nil {
		logs = []model.SyncLog{}
	}
	utils.WriteJSONResponse(w, http.StatusOK, logs)
}

// HandleCompare serves the read-only external-vs-local diff.
func (h *SyncHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	diff, err := provider.GetSyncService().CompareStatus(r.Context(), limit)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, diff)
}

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
	"strings"

	"github.com/intranethq/collaborator-sync-service/internal/profile/model"
	"github.com/intranethq/collaborator-sync-service/internal/profile/store"
	"github.com/intranethq/collaborator-sync-service/internal/system/errors"
	"github.com/intranethq/collaborator-sync-service/internal/system/utils"
)

// ProfileHandler serves the read-only profile surface. Writes to profiles
// only happen through the sync subsystem.
type ProfileHandler struct {
	store *store.ProfileStore
}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{store: store.NewProfileStore()}
}

// Route dispatches /profiles requests. The path passed in is already
// stripped of the API base path.
func (h *ProfileHandler) Route(w http.ResponseWriter, r *http.Request, path string) {

	if r.Method != http.MethodGet {
		utils.HandleError(w, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.INVALID_REQUEST.Code,
			Message:     errors.INVALID_REQUEST.Message,
			Description: "Method not allowed on the profile surface",
		}, http.StatusMethodNotAllowed))
		return
	}

	rest := strings.TrimPrefix(path, "/profiles")
	rest = strings.Trim(rest, "/")
	if rest == "" {
		h.handleList(w, r)
		return
	}
	h.handleGet(w, rest)
}

func (h *ProfileHandler) handleList(w http.ResponseWriter, r *http.Request) {

	profiles, err := h.store.List()
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	filtered := make([]model.Profile, 0, len(profiles))
	statusFilter := r.URL.Query().Get("status")
	for _, profile := range profiles {
		if statusFilter != "" && string(profile.Status) != statusFilter {
			continue
		}
		filtered = append(filtered, profile)
	}
	utils.WriteJSONResponse(w, http.StatusOK, filtered)
}

func (h *ProfileHandler) handleGet(w http.ResponseWriter, profileID string) {

	profile, err := h.store.GetByID(profileID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	if profile == nil {
		utils.HandleError(w, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.INVALID_REQUEST.Code,
			Message:     errors.INVALID_REQUEST.Message,
			Description: "Profile not found",
		}, http.StatusNotFound))
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, profile)
}

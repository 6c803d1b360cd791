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

package managers

import (
	"net/http"
	"strings"

	"github.com/intranethq/collaborator-sync-service/internal/health_check"
	profilehandler "github.com/intranethq/collaborator-sync-service/internal/profile/handler"
	synchandler "github.com/intranethq/collaborator-sync-service/internal/sync/handler"
	"github.com/intranethq/collaborator-sync-service/internal/system/errors"
	"github.com/intranethq/collaborator-sync-service/internal/system/security"
	"github.com/intranethq/collaborator-sync-service/internal/system/utils"
)

type ServiceManagerInterface interface {
	RegisterServices(apiBasePath string) error
}

type ServiceManager struct {
	mux *http.ServeMux
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux) ServiceManagerInterface {

	return &ServiceManager{
		mux: mux,
	}
}

// RegisterServices mounts the operational API under the base path. The
// health probe is open; everything else requires admin or bearer
// credentials.
func (sm *ServiceManager) RegisterServices(apiBasePath string) error {

	syncHandler := synchandler.NewSyncHandler()
	profileHandler := profilehandler.NewProfileHandler()

	sm.mux.HandleFunc(apiBasePath+"/health", health_check.Handle)

	dispatcher := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, apiBasePath), "/")

		switch {
		case path == "/sync/profiles" && r.Method == http.MethodPost:
			syncHandler.HandleProfileSync(w, r)
		case path == "/sync/documents" && r.Method == http.MethodPost:
			syncHandler.HandleDocumentSync(w, r)
		case path == "/sync/status" && r.Method == http.MethodGet:
			syncHandler.HandleStatus(w, r)
		case path == "/sync/logs" && r.Method == http.MethodGet:
			syncHandler.HandleLogs(w, r)
		case path == "/sync/compare" && r.Method == http.MethodGet:
			syncHandler.HandleCompare(w, r)
		case strings.HasPrefix(path, "/profiles"):
			profileHandler.Route(w, r, path)
		default:
			utils.HandleError(w, errors.NewClientError(errors.ErrorMessage{
				Code:        errors.INVALID_REQUEST.Code,
				Message:     errors.INVALID_REQUEST.Message,
				Description: "Unknown resource path",
			}, http.StatusNotFound))
		}
	})

	sm.mux.Handle(apiBasePath+"/", security.Protect(dispatcher))
	return nil
}

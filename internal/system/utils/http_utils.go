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

package utils

import (
	"encoding/json"
	"net/http"

	"github.com/intranethq/collaborator-sync-service/internal/system/errors"
	"github.com/intranethq/collaborator-sync-service/internal/system/log"
)

// WriteJSONResponse marshals the payload and writes it with the given status.
func WriteJSONResponse(w http.ResponseWriter, status int, payload interface{}) {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.GetLogger().Error("Failed to write JSON response.", log.Error(err))
	}
}

// HandleError writes an error response based on the error type. Client errors
// surface their code and description; server errors are logged and masked.
func HandleError(w http.ResponseWriter, err error) {

	logger := log.GetLogger()

	switch e := err.(type) {
	case *errors.ClientError:
		WriteJSONResponse(w, e.StatusCode, map[string]string{
			"code":        e.Code,
			"message":     e.Message,
			"description": e.Description,
		})
	case *errors.ServerError:
		logger.Error("Server error while serving request.",
			log.String("code", e.Code), log.String("description", e.Description), log.Error(e.Err))
		WriteJSONResponse(w, http.StatusInternalServerError, map[string]string{
			"code":    e.Code,
			"message": e.Message,
		})
	default:
		logger.Error("Unexpected error while serving request.", log.Error(err))
		WriteJSONResponse(w, http.StatusInternalServerError, map[string]string{
			"code":    errors.INTERNAL_SERVER_ERROR.Code,
			"message": errors.INTERNAL_SERVER_ERROR.Message,
		})
	}
}

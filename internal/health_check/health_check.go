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

package health_check

import (
	"net/http"

	"github.com/intranethq/collaborator-sync-service/internal/system/database/provider"
	"github.com/intranethq/collaborator-sync-service/internal/system/utils"
)

// Handle reports liveness plus a database reachability probe.
func Handle(w http.ResponseWriter, _ *http.Request) {

	dbStatus := "up"
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		dbStatus = "down"
	} else {
		defer dbClient.Close()
		if _, err := dbClient.ExecuteQuery("SELECT 1"); err != nil {
			dbStatus = "down"
		}
	}

	status := http.StatusOK
	if dbStatus != "up" {
		status = http.StatusServiceUnavailable
	}
	utils.WriteJSONResponse(w, status, map[string]string{
		"status":   "up",
		"database": dbStatus,
	})
}

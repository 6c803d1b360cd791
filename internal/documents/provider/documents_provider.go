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

package provider

import (
	"sync"

	"github.com/intranethq/collaborator-sync-service/internal/directory"
	"github.com/intranethq/collaborator-sync-service/internal/documents/service"
	documentstore "github.com/intranethq/collaborator-sync-service/internal/documents/store"
	profilestore "github.com/intranethq/collaborator-sync-service/internal/profile/store"
	syncstore "github.com/intranethq/collaborator-sync-service/internal/sync/store"
	"github.com/intranethq/collaborator-sync-service/internal/system/database/lock"
)

var (
	once            sync.Once
	documentService *service.DocumentService
)

// GetDocumentService wires the document sync service with its production
// collaborators.
func GetDocumentService() *service.DocumentService {

	once.Do(func() {
		tokens := directory.NewRefreshTokenProvider(nil)
		client := directory.NewClient(nil, tokens)
		documentService = service.NewDocumentService(
			client,
			profilestore.NewProfileStore(),
			documentstore.NewDocumentStore(),
			syncstore.NewSyncLogStore(),
			lock.NewPostgresLock(),
		)
	})
	return documentService
}

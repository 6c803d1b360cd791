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

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/intranethq/collaborator-sync-service/internal/documents/model"
	"github.com/intranethq/collaborator-sync-service/internal/system/constants"
	"github.com/intranethq/collaborator-sync-service/internal/system/database/mongo"
	"github.com/intranethq/collaborator-sync-service/internal/system/errors"
)

// DocumentStore persists the attachment cache in MongoDB.
type DocumentStore struct{}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{}
}

// UpsertDocument inserts the document when it is new for the profile and
// refreshes the last-synced timestamp otherwise. It reports whether a new
// cache entry was created. Descriptive fields are written only on insert;
// the cache never rewrites an existing entry's metadata.
func (s *DocumentStore) UpsertDocument(ctx context.Context, doc model.ProfileDocument) (bool, error) {

	database, err := mongo.GetDatabase()
	if err != nil {
		return false, errors.NewServerError(errors.DOC_STORE_INIT, err)
	}
	collection := database.Collection(constants.ProfileDocumentCollection)

	now := time.Now().UTC()
	filter := bson.M{
		"profile_id":    doc.ProfileID,
		"attachment_id": doc.AttachmentID,
	}
	update := bson.M{
		"$set": bson.M{
			"last_synced_at": now,
			"sync_status":    doc.SyncStatus,
		},
		"$setOnInsert": bson.M{
			"profile_id":    doc.ProfileID,
			"attachment_id": doc.AttachmentID,
			"file_name":     doc.FileName,
			"size":          doc.Size,
			"content_type":  doc.ContentType,
			"document_type": doc.DocumentType,
			"first_seen_at": now,
		},
	}

	result, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.ADD_DOCUMENT.Code,
			Message:     errors.ADD_DOCUMENT.Message,
			Description: "failed to upsert document " + doc.AttachmentID,
		}, err)
	}
	return result.UpsertedCount > 0, nil
}

// ListByProfile returns the cached documents of one profile.
func (s *DocumentStore) ListByProfile(ctx context.Context, profileID string) ([]model.ProfileDocument, error) {

	database, err := mongo.GetDatabase()
	if err != nil {
		return nil, errors.NewServerError(errors.DOC_STORE_INIT, err)
	}
	collection := database.Collection(constants.ProfileDocumentCollection)

	cursor, err := collection.Find(ctx, bson.M{"profile_id": profileID})
	if err != nil {
		return nil, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.GET_DOCUMENT.Code,
			Message:     errors.GET_DOCUMENT.Message,
			Description: "failed to list documents of profile " + profileID,
		}, err)
	}
	defer cursor.Close(ctx)

	var documents []model.ProfileDocument
	if err := cursor.All(ctx, &documents); err != nil {
		return nil, errors.NewServerError(errors.UNMARSHAL_JSON, err)
	}
	return documents, nil
}

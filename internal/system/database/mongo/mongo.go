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

package mongo

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/intranethq/collaborator-sync-service/internal/system/config"
)

var (
	clientOnce  sync.Once
	mongoClient *mongo.Client
	initErr     error
)

// GetDatabase returns the Mongo database backing the document cache. The
// underlying client is created once per process.
func GetDatabase() (*mongo.Database, error) {

	clientOnce.Do(func() {
		cfg := config.GetSyncRuntime().Config.DocumentStore

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
		if err != nil {
			initErr = errors.Wrap(err, "failed to connect to the document store")
			return
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			initErr = errors.Wrap(err, "failed to ping the document store")
			return
		}
		mongoClient = client
	})

	if initErr != nil {
		return nil, initErr
	}
	return mongoClient.Database(config.GetSyncRuntime().Config.DocumentStore.Database), nil
}

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

package lock

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/intranethq/collaborator-sync-service/internal/system/database/client"
	"github.com/intranethq/collaborator-sync-service/internal/system/database/provider"
	"github.com/intranethq/collaborator-sync-service/internal/system/errors"
	"github.com/intranethq/collaborator-sync-service/internal/system/log"
)

// DistributedLock serializes overlapping sync runs across service instances.
// Reconciliation has no application-level locking beyond this; the row-level
// unique constraints on profiles are the correctness safety net.
type DistributedLock interface {
	Acquire(key string) (bool, error)
	Release(key string) error
}

// PostgresLock implements DistributedLock using PostgreSQL advisory locks.
// Advisory locks are session-scoped, so the lock pins one connection per
// held key and keeps it open until Release.
type PostgresLock struct {
	mu       sync.Mutex
	sessions map[string]*lockSession
}

type lockSession struct {
	dbClient client.DBClientInterface
	conn     *sql.Conn
}

func NewPostgresLock() *PostgresLock {
	return &PostgresLock{sessions: map[string]*lockSession{}}
}

// PostgreSQL advisory locks use bigint or two integers. We'll use a single bigint.
func generateLockKey(key string) (int64, error) {

	h := fnv.New64a()
	if _, err := h.Write([]byte(key)); err != nil {
		errorMsg := fmt.Sprintf("failed to hash lock key '%s'", key)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return 0, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_KEY_GEN.Code,
			Message:     errors.LOCK_KEY_GEN.Message,
			Description: errorMsg,
		}, err)
	}
	return int64(h.Sum64()), nil
}

func (l *PostgresLock) Acquire(key string) (bool, error) {

	logger := log.GetLogger()

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, held := l.sessions[key]; held {
		return false, nil
	}

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		errorMsg := "Failed during DB client creation for advisory lock acquiring."
		logger.Error(errorMsg, log.Error(err))
		return false, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.DB_CLIENT_INIT.Code,
			Message:     errors.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}

	lockID, err := generateLockKey(key)
	if err != nil {
		_ = dbClient.Close()
		return false, err
	}
	logger.Debug(fmt.Sprintf("Generated lock id: %d for key: %s", lockID, key))

	ctx := context.Background()
	conn, err := dbClient.Conn(ctx)
	if err != nil {
		_ = dbClient.Close()
		return false, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_ACQUIRE.Code,
			Message:     errors.LOCK_ACQUIRE.Message,
			Description: "failed to pin a session for the advisory lock",
		}, err)
	}

	var acquired bool
	err = conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", lockID).Scan(&acquired)
	if err != nil {
		_ = conn.Close()
		_ = dbClient.Close()
		errorMsg := "Failed to execute pg_try_advisory_lock"
		logger.Error(errorMsg, log.Error(err))
		return false, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_ACQUIRE.Code,
			Message:     errors.LOCK_ACQUIRE.Message,
			Description: errorMsg,
		}, err)
	}
	if !acquired {
		_ = conn.Close()
		_ = dbClient.Close()
		return false, nil
	}

	l.sessions[key] = &lockSession{dbClient: dbClient, conn: conn}
	return true, nil
}

func (l *PostgresLock) Release(key string) error {

	logger := log.GetLogger()

	l.mu.Lock()
	session, held := l.sessions[key]
	delete(l.sessions, key)
	l.mu.Unlock()

	if !held {
		logger.Warn(fmt.Sprintf("Release called for a lock that is not held: %s", key))
		return nil
	}
	defer func() {
		_ = session.conn.Close()
		_ = session.dbClient.Close()
	}()

	lockID, err := generateLockKey(key)
	if err != nil {
		return err
	}

	var released bool
	err = session.conn.QueryRowContext(context.Background(),
		"SELECT pg_advisory_unlock($1)", lockID).Scan(&released)
	if err != nil {
		errorMsg := "pg_advisory_unlock failed"
		logger.Error(errorMsg, log.Error(err))
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_RELEASE.Code,
			Message:     errors.LOCK_RELEASE.Message,
			Description: errorMsg,
		}, err)
	}
	if !released {
		logger.Warn(fmt.Sprintf("pg_advisory_unlock reported no lock held for key: %s", key))
	}
	logger.Debug(fmt.Sprintf("Advisory lock released for lock id: %d", lockID))
	return nil
}

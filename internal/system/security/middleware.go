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

package security

import (
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/intranethq/collaborator-sync-service/internal/system/config"
	"github.com/intranethq/collaborator-sync-service/internal/system/errors"
	"github.com/intranethq/collaborator-sync-service/internal/system/log"
	"github.com/intranethq/collaborator-sync-service/internal/system/utils"
)

// Protect wraps a handler with operational API authentication. Either Basic
// admin credentials or an HMAC-signed bearer token with the configured
// audience is accepted.
func Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := AuthenticateRequest(r); err != nil {
			utils.HandleError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AuthenticateRequest validates the Authorization header of the request.
func AuthenticateRequest(r *http.Request) error {

	authHeader := r.Header.Get("Authorization")
	switch {
	case strings.HasPrefix(authHeader, "Basic "):
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Basic "))
		if validateAdminCredentials(token) {
			return nil
		}
	case strings.HasPrefix(authHeader, "Bearer "):
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if err := validateBearerToken(token); err == nil {
			return nil
		}
	}

	return errors.NewClientError(errors.ErrorMessage{
		Code:        errors.UN_AUTHORIZED.Code,
		Message:     errors.UN_AUTHORIZED.Message,
		Description: "Missing or invalid Authorization header",
	}, http.StatusUnauthorized)
}

func validateAdminCredentials(token string) bool {

	authConfig := config.GetSyncRuntime().Config.Auth
	username := strings.TrimSpace(authConfig.AdminUsername)
	password := strings.TrimSpace(authConfig.AdminPassword)
	if username == "" || password == "" || token == "" {
		return false
	}

	creds := username + ":" + password
	expected := base64.StdEncoding.EncodeToString([]byte(creds))

	if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) == 1 {
		log.GetLogger().Debug("Admin credentials validated successfully.")
		return true
	}

	return false
}

// validateBearerToken verifies the token signature against the shared secret
// and checks the expected audience and expiry.
func validateBearerToken(tokenString string) error {

	authConfig := config.GetSyncRuntime().Config.Auth
	if authConfig.JWTSecret == "" {
		return errors.NewClientError(errors.UN_AUTHORIZED, http.StatusUnauthorized)
	}

	audience := authConfig.JWTAudience
	if audience == "" {
		audience = "collaborator-sync"
	}

	_, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(authConfig.JWTSecret), nil
	}, jwt.WithAudience(audience), jwt.WithExpirationRequired())
	if err != nil {
		log.GetLogger().Debug("Bearer token validation failed.", log.Error(err))
		return errors.NewClientError(errors.UN_AUTHORIZED, http.StatusUnauthorized)
	}
	return nil
}

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

package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/intranethq/collaborator-sync-service/internal/system/config"
	"github.com/intranethq/collaborator-sync-service/internal/system/log"
)

// renewalMargin is subtracted from the token lifetime so that a token is
// refreshed before it actually expires mid-request.
const renewalMargin = 5 * time.Minute

// TokenProvider supplies a valid directory access token on demand.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// RefreshTokenProvider obtains access tokens from the CRM accounts server
// using the refresh token grant and caches them until close to expiry.
type RefreshTokenProvider struct {
	httpClient *http.Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewRefreshTokenProvider(httpClient *http.Client) *RefreshTokenProvider {

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &RefreshTokenProvider{httpClient: httpClient}
}

// Token returns the cached access token, refreshing it first when it is
// absent or within the renewal margin of expiry. Concurrent callers share a
// single refresh.
func (p *RefreshTokenProvider) Token(ctx context.Context) (string, error) {

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Now().Before(p.expiresAt.Add(-renewalMargin)) {
		return p.token, nil
	}
	if err := p.refresh(ctx); err != nil {
		return "", err
	}
	return p.token, nil
}

// Invalidate drops the cached token. The next Token call performs a refresh.
func (p *RefreshTokenProvider) Invalidate() {

	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = ""
}

func (p *RefreshTokenProvider) refresh(ctx context.Context) error {

	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "RefreshTokenProvider"))
	dirConfig := config.GetSyncRuntime().Config.Directory

	if dirConfig.TokenURL == "" || dirConfig.ClientID == "" ||
		dirConfig.ClientSecret == "" || dirConfig.RefreshToken == "" {
		return &AuthError{Body: "directory refresh credentials are not configured"}
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", dirConfig.RefreshToken)
	form.Set("client_id", dirConfig.ClientID)
	form.Set("client_secret", dirConfig.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, dirConfig.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &AuthError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return fmt.Errorf("failed to parse token response: %w", err)
	}
	// The accounts server reports grant failures with a 200 and an error field.
	if tokenResp.Error != "" || tokenResp.AccessToken == "" {
		return &AuthError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	p.token = tokenResp.AccessToken
	p.expiresAt = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	logger.Debug("Directory access token refreshed.",
		log.String("expires_at", p.expiresAt.Format(time.RFC3339)))
	return nil
}

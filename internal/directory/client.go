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
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/intranethq/collaborator-sync-service/internal/system/config"
	"github.com/intranethq/collaborator-sync-service/internal/system/constants"
	"github.com/intranethq/collaborator-sync-service/internal/system/log"
)

// Client talks to the CRM directory REST API. All calls attach a fresh
// access token from the token provider and retry exactly once on a 401
// after invalidating the cached token.
type Client struct {
	httpClient *http.Client
	tokens     TokenProvider
	logger     *log.Logger
}

func NewClient(httpClient *http.Client, tokens TokenProvider) *Client {

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		tokens:     tokens,
		logger:     log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DirectoryClient")),
	}
}

// ListRecords fetches one page of directory records. Page numbering starts
// at 1. When modifiedSince is non-zero the request carries an
// If-Modified-Since header and the CRM returns only records changed after
// that instant; a 304 or an empty 204 page both yield an empty slice.
func (c *Client) ListRecords(ctx context.Context, page int, modifiedSince time.Time) ([]RawRecord, bool, error) {

	dirConfig := config.GetSyncRuntime().Config.Directory
	perPage := dirConfig.PageSize
	if perPage <= 0 {
		perPage = constants.DefaultPageSize
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))
	endpoint := fmt.Sprintf("%s/%s?%s", dirConfig.BaseURL, dirConfig.Module, query.Encode())

	headers := http.Header{}
	if !modifiedSince.IsZero() {
		headers.Set("If-Modified-Since", modifiedSince.Format(time.RFC3339))
	}

	resp, err := c.do(ctx, http.MethodGet, endpoint, headers)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusNotModified:
		return nil, false, nil
	case http.StatusOK:
		// fall through
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, false, &UpstreamError{
			Operation:  "record listing",
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var listResp recordListResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, false, fmt.Errorf("failed to decode record page %d: %w", page, err)
	}
	c.logger.Debug("Fetched directory record page.",
		log.Int("page", page), log.Int("records", len(listResp.Data)))
	return listResp.Data, listResp.Info.MoreRecords, nil
}

// ListAllRecords walks every page and returns the concatenated records.
func (c *Client) ListAllRecords(ctx context.Context, modifiedSince time.Time) ([]RawRecord, error) {

	var all []RawRecord
	for page := 1; ; page++ {
		records, more, err := c.ListRecords(ctx, page, modifiedSince)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
		if !more || len(records) == 0 {
			return all, nil
		}
	}
}

// ListAttachments returns the attachment metadata of a record. A record
// without attachments yields a nil slice, not an error.
func (c *Client) ListAttachments(ctx context.Context, recordID string) ([]AttachmentMeta, error) {

	dirConfig := config.GetSyncRuntime().Config.Directory
	endpoint := fmt.Sprintf("%s/%s/%s/Attachments", dirConfig.BaseURL, dirConfig.Module, recordID)

	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusNotFound:
		return nil, nil
	case http.StatusOK:
		// fall through
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, &UpstreamError{
			Operation:  "attachment listing",
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var listResp attachmentListResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, fmt.Errorf("failed to decode attachments of record %s: %w", recordID, err)
	}
	return listResp.Data, nil
}

// AttachmentContent is a downloaded attachment with the upstream content
// headers preserved for pass-through serving.
type AttachmentContent struct {
	Data               []byte
	ContentType        string
	ContentDisposition string
}

// DownloadAttachment fetches the binary content of an attachment. The
// download runs under its own deadline so one slow file cannot stall a
// whole document sync run.
func (c *Client) DownloadAttachment(ctx context.Context, recordID, attachmentID string) (*AttachmentContent, error) {

	dirConfig := config.GetSyncRuntime().Config.Directory
	timeout := constants.DefaultDownloadTimeout
	if dirConfig.DownloadTimeoutSeconds > 0 {
		timeout = time.Duration(dirConfig.DownloadTimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/%s/%s/Attachments/%s",
		dirConfig.BaseURL, dirConfig.Module, recordID, attachmentID)

	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &TimeoutError{Operation: "attachment download", Err: err}
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &UpstreamError{
			Operation:  "attachment download",
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &TimeoutError{Operation: "attachment download", Err: err}
		}
		return nil, fmt.Errorf("failed to read attachment %s content: %w", attachmentID, err)
	}
	return &AttachmentContent{
		Data:               content,
		ContentType:        resp.Header.Get("Content-Type"),
		ContentDisposition: resp.Header.Get("Content-Disposition"),
	}, nil
}

// do issues an authenticated request, retrying once with a fresh token when
// the CRM answers 401.
func (c *Client) do(ctx context.Context, method, endpoint string, headers http.Header) (*http.Response, error) {

	resp, err := c.send(ctx, method, endpoint, headers)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	resp.Body.Close()

	c.logger.Debug("Directory request returned 401, refreshing token and retrying.",
		log.String("endpoint", endpoint))
	c.tokens.Invalidate()
	return c.send(ctx, method, endpoint, headers)
}

func (c *Client) send(ctx context.Context, method, endpoint string, headers http.Header) (*http.Response, error) {

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build directory request: %w", err)
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &TimeoutError{Operation: method + " " + endpoint, Err: err}
		}
		return nil, fmt.Errorf("directory request failed: %w", err)
	}
	return resp, nil
}

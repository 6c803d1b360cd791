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

import "fmt"

// AuthError indicates the token endpoint rejected the refresh credentials.
// Retrying without operator intervention is pointless.
type AuthError struct {
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("directory token request rejected with status %d: %s", e.StatusCode, e.Body)
}

// UpstreamError indicates the directory API answered with a non-success
// status for a data request.
type UpstreamError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("directory %s failed with status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// TimeoutError wraps a deadline hit while talking to the directory, so that
// callers can classify slow downloads separately from hard failures.
type TimeoutError struct {
	Operation string
	Err       error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("directory %s timed out: %v", e.Operation, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

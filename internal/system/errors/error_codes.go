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

package errors

const errorPrefix = "ESS-"

var (
	// Server error codes

	TOKEN_FETCH_FAILED = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Error while fetching directory access token.",
	}

	DIRECTORY_FETCH_FAILED = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while fetching records from the directory API.",
	}

	ATTACHMENT_FETCH_FAILED = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while listing record attachments.",
	}

	ATTACHMENT_DOWNLOAD_FAILED = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while downloading an attachment.",
	}

	ADD_PROFILE = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error while adding a profile.",
	}

	GET_PROFILE = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error while fetching profile(s).",
	}

	UPDATE_PROFILE = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while updating a profile.",
	}

	ADD_SYNC_LOG = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while adding a sync log entry.",
	}

	GET_SYNC_LOG = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while fetching sync log entries.",
	}

	UPDATE_SYNC_LOG = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Error while finalizing a sync log entry.",
	}

	ADD_DOCUMENT = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while caching a profile document.",
	}

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Unable to initialize database client.",
	}

	DOC_STORE_INIT = ErrorMessage{
		Code:    errorPrefix + "15013",
		Message: "Unable to initialize the document store client.",
	}

	LOCK_ACQUIRE = ErrorMessage{
		Code:    errorPrefix + "15014",
		Message: "Advisory lock acquisition failed",
	}

	LOCK_RELEASE = ErrorMessage{
		Code:    errorPrefix + "15015",
		Message: "Error while releasing the lock.",
	}

	LOCK_KEY_GEN = ErrorMessage{
		Code:    errorPrefix + "15016",
		Message: "Error generating advisory lock key",
	}

	LOCK_RESULT_INVALID = ErrorMessage{
		Code:    errorPrefix + "15017",
		Message: "Invalid response from advisory lock query.",
	}

	MARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15018",
		Message: "Error while marshalling JSON.",
	}

	UNMARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15019",
		Message: "Error while un-marshalling JSON.",
	}

	PASSWORD_HASH_FAILED = ErrorMessage{
		Code:    errorPrefix + "15020",
		Message: "Error while generating a password hash.",
	}

	GET_DOCUMENT = ErrorMessage{
		Code:    errorPrefix + "15021",
		Message: "Error while fetching cached profile documents.",
	}

	INTERNAL_SERVER_ERROR = ErrorMessage{
		Code:    errorPrefix + "15000",
		Message: "Something went wrong while processing the request.",
	}

	// Client error codes

	UN_AUTHORIZED = ErrorMessage{
		Code:        errorPrefix + "14001",
		Message:     "Unauthorized request.",
		Description: "The request is missing valid credentials.",
	}

	INVALID_REQUEST = ErrorMessage{
		Code:    errorPrefix + "14002",
		Message: "Invalid request.",
	}

	SYNC_IN_PROGRESS = ErrorMessage{
		Code:        errorPrefix + "14003",
		Message:     "A sync run is already in progress.",
		Description: "Another sync run of this type currently holds the run lock.",
	}
)

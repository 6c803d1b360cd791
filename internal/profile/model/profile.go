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

package model

import "time"

// Status is the lifecycle state of a collaborator profile.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

// EmergencyContact is the contact person recorded for a collaborator.
type EmergencyContact struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Relation *string `json:"relation,omitempty"`
}

// Profile is a collaborator profile as persisted locally. Descriptive fields
// are pointers; a nil value means the directory never supplied one. Email is
// the human identity key, ExternalRecordID links the row to its directory
// record once a sync has seen it.
type Profile struct {
	ProfileID         string     `json:"profile_id"`
	ExternalRecordID  *string    `json:"external_record_id,omitempty"`
	Email             string     `json:"email"`
	FullName          string     `json:"full_name"`
	LastName          *string    `json:"last_name,omitempty"`
	Title             *string    `json:"title,omitempty"`
	Department        *string    `json:"department,omitempty"`
	Status            Status     `json:"status"`
	Password          *string    `json:"-"`
	PasswordChangedAt *time.Time `json:"password_changed_at,omitempty"`

	Phone         *string `json:"phone,omitempty"`
	Mobile        *string `json:"mobile,omitempty"`
	PersonalEmail *string `json:"personal_email,omitempty"`
	Address       *string `json:"address,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	PostalCode    *string `json:"postal_code,omitempty"`

	BirthDate       *time.Time `json:"birth_date,omitempty"`
	HireDate        *time.Time `json:"hire_date,omitempty"`
	TerminationDate *time.Time `json:"termination_date,omitempty"`

	CURP        *string `json:"curp,omitempty"`
	RFC         *string `json:"rfc,omitempty"`
	NSS         *string `json:"nss,omitempty"`
	BankName    *string `json:"bank_name,omitempty"`
	BankAccount *string `json:"bank_account,omitempty"`
	CLABE       *string `json:"clabe,omitempty"`

	EmergencyContact EmergencyContact `json:"emergency_contact,omitempty"`

	VacationDaysTotal *int    `json:"vacation_days_total,omitempty"`
	VacationDaysTaken *int    `json:"vacation_days_taken,omitempty"`
	Comments          *string `json:"comments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsLinked reports whether the profile is bound to a directory record.
func (p *Profile) IsLinked() bool {
	return p.ExternalRecordID != nil && *p.ExternalRecordID != ""
}

// HasPassword reports whether a credential has ever been provisioned.
func (p *Profile) HasPassword() bool {
	return p.Password != nil && *p.Password != ""
}

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
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/intranethq/collaborator-sync-service/internal/profile/model"
	"github.com/intranethq/collaborator-sync-service/internal/system/database/provider"
	"github.com/intranethq/collaborator-sync-service/internal/system/errors"
	"github.com/intranethq/collaborator-sync-service/internal/system/log"
)

const profileColumns = `profile_id, external_record_id, email, full_name, last_name, title,
	department, status, password, password_changed_at, phone, mobile, personal_email, address,
	city, state, postal_code, birth_date, hire_date, termination_date, curp, rfc, nss,
	bank_name, bank_account, clabe, emergency_contact_name, emergency_contact_phone,
	emergency_contact_relation, vacation_days_total, vacation_days_taken, comments,
	created_at, updated_at`

// ProfileStore persists collaborator profiles in PostgreSQL.
type ProfileStore struct{}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{}
}

// GetByExternalID returns the profile linked to the given directory record,
// or nil when none exists.
func (s *ProfileStore) GetByExternalID(externalID string) (*model.Profile, error) {

	query := fmt.Sprintf("SELECT %s FROM profiles WHERE external_record_id = $1", profileColumns)
	return s.queryOne(query, externalID)
}

// GetByEmail returns the profile with the given email, matched
// case-insensitively, or nil when none exists.
func (s *ProfileStore) GetByEmail(email string) (*model.Profile, error) {

	query := fmt.Sprintf("SELECT %s FROM profiles WHERE LOWER(email) = LOWER($1)", profileColumns)
	return s.queryOne(query, email)
}

// GetByID returns the profile with the given identifier, or nil.
func (s *ProfileStore) GetByID(profileID string) (*model.Profile, error) {

	query := fmt.Sprintf("SELECT %s FROM profiles WHERE profile_id = $1", profileColumns)
	return s.queryOne(query, profileID)
}

// Insert creates a new profile row. A missing ProfileID is generated here.
func (s *ProfileStore) Insert(profile *model.Profile) error {

	dbClient, err := s.client()
	if err != nil {
		return err
	}
	defer dbClient.Close()

	if profile.ProfileID == "" {
		profile.ProfileID = uuid.New().String()
	}
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	query := fmt.Sprintf(`INSERT INTO profiles (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9,
		$10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26,
		$27, $28, $29, $30, $31, $32, $33, $34)`, profileColumns)

	_, err = dbClient.ExecuteQuery(query,
		profile.ProfileID, profile.ExternalRecordID, profile.Email, profile.FullName,
		profile.LastName, profile.Title, profile.Department, string(profile.Status),
		profile.Password, profile.PasswordChangedAt, profile.Phone, profile.Mobile,
		profile.PersonalEmail, profile.Address, profile.City, profile.State,
		profile.PostalCode, profile.BirthDate, profile.HireDate, profile.TerminationDate,
		profile.CURP, profile.RFC, profile.NSS, profile.BankName, profile.BankAccount,
		profile.CLABE, profile.EmergencyContact.Name, profile.EmergencyContact.Phone,
		profile.EmergencyContact.Relation, profile.VacationDaysTotal, profile.VacationDaysTaken,
		profile.Comments, profile.CreatedAt, profile.UpdatedAt)
	if err != nil {
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.ADD_PROFILE.Code,
			Message:     errors.ADD_PROFILE.Message,
			Description: fmt.Sprintf("failed to insert profile for email %s", profile.Email),
		}, err)
	}
	return nil
}

// Update rewrites the descriptive fields, the link and the status of an
// existing profile. The credential columns are deliberately untouched; they
// only change through SetPassword.
func (s *ProfileStore) Update(profile *model.Profile) error {

	dbClient, err := s.client()
	if err != nil {
		return err
	}
	defer dbClient.Close()

	profile.UpdatedAt = time.Now().UTC()

	query := `UPDATE profiles SET external_record_id = $2, email = $3, full_name = $4,
		last_name = $5, title = $6, department = $7, status = $8, phone = $9, mobile = $10,
		personal_email = $11, address = $12, city = $13, state = $14, postal_code = $15,
		birth_date = $16, hire_date = $17, termination_date = $18, curp = $19, rfc = $20,
		nss = $21, bank_name = $22, bank_account = $23, clabe = $24,
		emergency_contact_name = $25, emergency_contact_phone = $26,
		emergency_contact_relation = $27, vacation_days_total = $28, vacation_days_taken = $29,
		comments = $30, updated_at = $31
		WHERE profile_id = $1`

	_, err = dbClient.ExecuteQuery(query,
		profile.ProfileID, profile.ExternalRecordID, profile.Email, profile.FullName,
		profile.LastName, profile.Title, profile.Department, string(profile.Status),
		profile.Phone, profile.Mobile, profile.PersonalEmail, profile.Address, profile.City,
		profile.State, profile.PostalCode, profile.BirthDate, profile.HireDate,
		profile.TerminationDate, profile.CURP, profile.RFC, profile.NSS, profile.BankName,
		profile.BankAccount, profile.CLABE, profile.EmergencyContact.Name,
		profile.EmergencyContact.Phone, profile.EmergencyContact.Relation,
		profile.VacationDaysTotal, profile.VacationDaysTaken, profile.Comments,
		profile.UpdatedAt)
	if err != nil {
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.UPDATE_PROFILE.Code,
			Message:     errors.UPDATE_PROFILE.Message,
			Description: fmt.Sprintf("failed to update profile %s", profile.ProfileID),
		}, err)
	}
	return nil
}

// SetPassword stores a credential hash and stamps the change time.
func (s *ProfileStore) SetPassword(profileID, passwordHash string) error {

	dbClient, err := s.client()
	if err != nil {
		return err
	}
	defer dbClient.Close()

	query := `UPDATE profiles SET password = $2, password_changed_at = $3, updated_at = $3
		WHERE profile_id = $1`
	_, err = dbClient.ExecuteQuery(query, profileID, passwordHash, time.Now().UTC())
	if err != nil {
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.UPDATE_PROFILE.Code,
			Message:     errors.UPDATE_PROFILE.Message,
			Description: fmt.Sprintf("failed to set password for profile %s", profileID),
		}, err)
	}
	return nil
}

// SetStatus updates only the lifecycle status of a profile.
func (s *ProfileStore) SetStatus(profileID string, status model.Status) error {

	dbClient, err := s.client()
	if err != nil {
		return err
	}
	defer dbClient.Close()

	query := `UPDATE profiles SET status = $2, updated_at = $3 WHERE profile_id = $1`
	_, err = dbClient.ExecuteQuery(query, profileID, string(status), time.Now().UTC())
	if err != nil {
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.UPDATE_PROFILE.Code,
			Message:     errors.UPDATE_PROFILE.Message,
			Description: fmt.Sprintf("failed to set status for profile %s", profileID),
		}, err)
	}
	return nil
}

// ListActive returns every profile with status active. The deactivation
// sweep works off this set.
func (s *ProfileStore) ListActive() ([]model.Profile, error) {

	query := fmt.Sprintf("SELECT %s FROM profiles WHERE status = 'active'", profileColumns)
	return s.queryMany(query)
}

// ListLinked returns every profile bound to a directory record. Document
// sync iterates over this set.
func (s *ProfileStore) ListLinked() ([]model.Profile, error) {

	query := fmt.Sprintf(
		"SELECT %s FROM profiles WHERE external_record_id IS NOT NULL", profileColumns)
	return s.queryMany(query)
}

// List returns every profile ordered by full name.
func (s *ProfileStore) List() ([]model.Profile, error) {

	query := fmt.Sprintf("SELECT %s FROM profiles ORDER BY full_name", profileColumns)
	return s.queryMany(query)
}

// CountByStatus returns how many profiles hold each status.
func (s *ProfileStore) CountByStatus() (map[model.Status]int, error) {

	dbClient, err := s.client()
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(
		"SELECT status, COUNT(*) AS total FROM profiles GROUP BY status")
	if err != nil {
		return nil, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.GET_PROFILE.Code,
			Message:     errors.GET_PROFILE.Message,
			Description: "failed to count profiles by status",
		}, err)
	}

	counts := make(map[model.Status]int, len(results))
	for _, row := range results {
		status, _ := row["status"].(string)
		counts[model.Status(status)] = int(asInt64(row["total"]))
	}
	return counts, nil
}

// CountLinked returns how many profiles are bound to a directory record.
func (s *ProfileStore) CountLinked() (int, error) {

	dbClient, err := s.client()
	if err != nil {
		return 0, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(
		"SELECT COUNT(*) AS total FROM profiles WHERE external_record_id IS NOT NULL")
	if err != nil {
		return 0, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.GET_PROFILE.Code,
			Message:     errors.GET_PROFILE.Message,
			Description: "failed to count linked profiles",
		}, err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return int(asInt64(results[0]["total"])), nil
}

func (s *ProfileStore) queryOne(query string, args ...interface{}) (*model.Profile, error) {

	dbClient, err := s.client()
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		return nil, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.GET_PROFILE.Code,
			Message:     errors.GET_PROFILE.Message,
			Description: "failed to query profile",
		}, err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	profile := buildProfileFromResultRow(results[0])
	return &profile, nil
}

func (s *ProfileStore) queryMany(query string, args ...interface{}) ([]model.Profile, error) {

	dbClient, err := s.client()
	if err != nil {
		return nil, err
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		return nil, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.GET_PROFILE.Code,
			Message:     errors.GET_PROFILE.Message,
			Description: "failed to list profiles",
		}, err)
	}

	profiles := make([]model.Profile, 0, len(results))
	for _, row := range results {
		profiles = append(profiles, buildProfileFromResultRow(row))
	}
	return profiles, nil
}

func (s *ProfileStore) client() (clientInterface, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		log.GetLogger().Error("Failed to get database client.", log.Error(err))
		return nil, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.DB_CLIENT_INIT.Code,
			Message:     errors.DB_CLIENT_INIT.Message,
			Description: "failed to get database client for profile store",
		}, err)
	}
	return dbClient, nil
}

type clientInterface interface {
	ExecuteQuery(query string, args ...interface{}) ([]map[string]interface{}, error)
	Close() error
}

func buildProfileFromResultRow(row map[string]interface{}) model.Profile {

	profile := model.Profile{
		ProfileID:        asString(row["profile_id"]),
		ExternalRecordID: asStringPtr(row["external_record_id"]),
		Email:            asString(row["email"]),
		FullName:         asString(row["full_name"]),
		LastName:         asStringPtr(row["last_name"]),
		Title:            asStringPtr(row["title"]),
		Department:       asStringPtr(row["department"]),
		Status:           model.Status(asString(row["status"])),

		Password:          asStringPtr(row["password"]),
		PasswordChangedAt: asTimePtr(row["password_changed_at"]),

		Phone:         asStringPtr(row["phone"]),
		Mobile:        asStringPtr(row["mobile"]),
		PersonalEmail: asStringPtr(row["personal_email"]),
		Address:       asStringPtr(row["address"]),
		City:          asStringPtr(row["city"]),
		State:         asStringPtr(row["state"]),
		PostalCode:    asStringPtr(row["postal_code"]),

		BirthDate:       asTimePtr(row["birth_date"]),
		HireDate:        asTimePtr(row["hire_date"]),
		TerminationDate: asTimePtr(row["termination_date"]),

		CURP:        asStringPtr(row["curp"]),
		RFC:         asStringPtr(row["rfc"]),
		NSS:         asStringPtr(row["nss"]),
		BankName:    asStringPtr(row["bank_name"]),
		BankAccount: asStringPtr(row["bank_account"]),
		CLABE:       asStringPtr(row["clabe"]),

		EmergencyContact: model.EmergencyContact{
			Name:     asStringPtr(row["emergency_contact_name"]),
			Phone:    asStringPtr(row["emergency_contact_phone"]),
			Relation: asStringPtr(row["emergency_contact_relation"]),
		},

		VacationDaysTotal: asIntPtr(row["vacation_days_total"]),
		VacationDaysTaken: asIntPtr(row["vacation_days_taken"]),
		Comments:          asStringPtr(row["comments"]),
	}
	if t := asTimePtr(row["created_at"]); t != nil {
		profile.CreatedAt = *t
	}
	if t := asTimePtr(row["updated_at"]); t != nil {
		profile.UpdatedAt = *t
	}
	return profile
}

// The pq driver yields string, int64, time.Time, bool, []byte or nil.

func asString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func asStringPtr(value interface{}) *string {
	if value == nil {
		return nil
	}
	s := asString(value)
	if s == "" {
		return nil
	}
	return &s
}

func asInt64(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}

func asIntPtr(value interface{}) *int {
	if value == nil {
		return nil
	}
	i := int(asInt64(value))
	return &i
}

func asTimePtr(value interface{}) *time.Time {
	if value == nil {
		return nil
	}
	if t, ok := value.(time.Time); ok {
		return &t
	}
	return nil
}

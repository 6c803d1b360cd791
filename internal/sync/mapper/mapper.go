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

package mapper

import (
	"strconv"
	"strings"
	"time"

	"github.com/intranethq/collaborator-sync-service/internal/directory"
	"github.com/intranethq/collaborator-sync-service/internal/profile/model"
)

// ExternalRecord is the typed view of one raw directory record. The CRM
// module uses Spanish field labels with accents folded to ASCII; everything
// is decoded into plain strings here and interpreted in MapToProfile.
type ExternalRecord struct {
	ID     string
	Email  string
	Status string

	FullName   string
	LastName   string
	Title      string
	Department string

	Phone         string
	Mobile        string
	PersonalEmail string
	Address       string
	City          string
	State         string
	PostalCode    string

	BirthDate       string
	HireDate        string
	TerminationDate string

	CURP        string
	RFC         string
	NSS         string
	BankName    string
	BankAccount string
	CLABE       string

	EmergencyContactName     string
	EmergencyContactPhone    string
	EmergencyContactRelation string

	VacationDaysTotal string
	VacationDaysTaken string
	Comments          string
}

// ProfileFields is the mapper output. Nil pointers mean the directory
// supplied no usable value, so the reconciliation must leave the local
// column alone rather than write NULL over it.
type ProfileFields struct {
	ExternalRecordID string
	Email            string
	Status           model.Status
	StatusRecognized bool

	FullName   *string
	LastName   *string
	Title      *string
	Department *string

	Phone         *string
	Mobile        *string
	PersonalEmail *string
	Address       *string
	City          *string
	State         *string
	PostalCode    *string

	BirthDate       *time.Time
	HireDate        *time.Time
	TerminationDate *time.Time

	CURP        *string
	RFC         *string
	NSS         *string
	BankName    *string
	BankAccount *string
	CLABE       *string

	EmergencyContact model.EmergencyContact

	VacationDaysTotal *int
	VacationDaysTaken *int
	Comments          *string
}

// DecodeRecord converts the loose field bag of a raw directory record into
// the typed intermediate. Unknown keys are ignored; missing keys decode to
// empty strings.
func DecodeRecord(raw directory.RawRecord) ExternalRecord {

	str := func(key string) string {
		switch v := raw[key].(type) {
		case string:
			return v
		case float64:
			if v == float64(int64(v)) {
				return strconv.FormatInt(int64(v), 10)
			}
			return strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(v)
		default:
			return ""
		}
	}

	return ExternalRecord{
		ID:     str("id"),
		Email:  str("Email"),
		Status: str("Estatus"),

		FullName:   str("Nombre_completo"),
		LastName:   str("Apellidos"),
		Title:      str("Puesto"),
		Department: str("Departamento"),

		Phone:         str("Telefono"),
		Mobile:        str("Celular"),
		PersonalEmail: str("Correo_personal"),
		Address:       str("Direccion"),
		City:          str("Ciudad"),
		State:         str("Estado"),
		PostalCode:    str("Codigo_postal"),

		BirthDate:       str("Fecha_de_nacimiento"),
		HireDate:        str("Fecha_de_ingreso"),
		TerminationDate: str("Fecha_de_baja"),

		CURP:        str("CURP"),
		RFC:         str("RFC"),
		NSS:         str("NSS"),
		BankName:    str("Banco"),
		BankAccount: str("Cuenta_bancaria"),
		CLABE:       str("CLABE"),

		EmergencyContactName:     str("Contacto_de_emergencia"),
		EmergencyContactPhone:    str("Telefono_de_emergencia"),
		EmergencyContactRelation: str("Parentesco"),

		VacationDaysTotal: str("Dias_de_vacaciones"),
		VacationDaysTaken: str("Dias_tomados"),
		Comments:          str("Comentarios"),
	}
}

// MapToProfile normalizes a decoded record into profile fields. It never
// fails: unparsable dates and integers degrade to absent values, and the
// email is lowercased since the local email key is case-insensitive.
func MapToProfile(record ExternalRecord) ProfileFields {

	status, recognized := MapStatus(record.Status)

	return ProfileFields{
		ExternalRecordID: strings.TrimSpace(record.ID),
		Email:            strings.ToLower(strings.TrimSpace(record.Email)),
		Status:           status,
		StatusRecognized: recognized,

		FullName:   cleanString(record.FullName),
		LastName:   cleanString(record.LastName),
		Title:      cleanString(record.Title),
		Department: cleanString(record.Department),

		Phone:         cleanString(record.Phone),
		Mobile:        cleanString(record.Mobile),
		PersonalEmail: cleanString(record.PersonalEmail),
		Address:       cleanString(record.Address),
		City:          cleanString(record.City),
		State:         cleanString(record.State),
		PostalCode:    cleanString(record.PostalCode),

		BirthDate:       parseDate(record.BirthDate),
		HireDate:        parseDate(record.HireDate),
		TerminationDate: parseDate(record.TerminationDate),

		CURP:        cleanString(record.CURP),
		RFC:         cleanString(record.RFC),
		NSS:         cleanString(record.NSS),
		BankName:    cleanString(record.BankName),
		BankAccount: cleanString(record.BankAccount),
		CLABE:       cleanString(record.CLABE),

		EmergencyContact: model.EmergencyContact{
			Name:     cleanString(record.EmergencyContactName),
			Phone:    cleanString(record.EmergencyContactPhone),
			Relation: cleanString(record.EmergencyContactRelation),
		},

		VacationDaysTotal: parseInt(record.VacationDaysTotal),
		VacationDaysTaken: parseInt(record.VacationDaysTaken),
		Comments:          cleanString(record.Comments),
	}
}

// MapStatus translates the CRM status text to the local status enumeration.
// Unrecognized or missing values default to active and are flagged so the
// caller can log them for review.
func MapStatus(external string) (model.Status, bool) {

	switch strings.ToLower(strings.TrimSpace(external)) {
	case "asignado", "activo", "alta":
		return model.StatusActive, true
	case "baja", "inactivo", "terminado":
		return model.StatusInactive, true
	default:
		return model.StatusActive, false
	}
}

// cleanString trims the value and treats "", "na" and "n/a" as absent.
func cleanString(value string) *string {

	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	switch strings.ToLower(trimmed) {
	case "na", "n/a":
		return nil
	}
	return &trimmed
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006"}

// parseDate tries the date layouts the CRM has been seen to emit. Anything
// unparsable is absent, never an error.
func parseDate(value string) *time.Time {

	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return &t
		}
	}
	return nil
}

// parseInt distinguishes "no data" from an explicit zero: absent or invalid
// values map to nil rather than 0.
func parseInt(value string) *int {

	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil
	}
	return &n
}

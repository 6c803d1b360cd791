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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intranethq/collaborator-sync-service/internal/directory"
	"github.com/intranethq/collaborator-sync-service/internal/profile/model"
)

func TestDecodeRecord(t *testing.T) {

	raw := directory.RawRecord{
		"id":                 "Z1",
		"Email":              "Ana.Lopez@x.com",
		"Estatus":            "Asignado",
		"Nombre_completo":    "Ana Lopez",
		"Apellidos":          "Lopez",
		"Dias_de_vacaciones": float64(12),
		"Campo_desconocido":  "ignored",
	}

	record := DecodeRecord(raw)

	assert.Equal(t, "Z1", record.ID)
	assert.Equal(t, "Ana.Lopez@x.com", record.Email)
	assert.Equal(t, "Asignado", record.Status)
	assert.Equal(t, "Ana Lopez", record.FullName)
	assert.Equal(t, "12", record.VacationDaysTotal)
	assert.Empty(t, record.CURP)
}

func TestMapToProfileNormalization(t *testing.T) {

	record := ExternalRecord{
		ID:                "Z1",
		Email:             "  Ana.Lopez@X.COM ",
		Status:            "Asignado",
		FullName:          " Ana Lopez ",
		Title:             "N/A",
		Department:        "",
		HireDate:          "15/03/2021",
		BirthDate:         "1993-06-02",
		TerminationDate:   "not a date",
		VacationDaysTotal: "12",
		VacationDaysTaken: "oops",
		CLABE:             "002010077777777771",
	}

	fields := MapToProfile(record)

	assert.Equal(t, "Z1", fields.ExternalRecordID)
	assert.Equal(t, "ana.lopez@x.com", fields.Email)
	assert.Equal(t, model.StatusActive, fields.Status)
	assert.True(t, fields.StatusRecognized)

	require.NotNil(t, fields.FullName)
	assert.Equal(t, "Ana Lopez", *fields.FullName)
	assert.Nil(t, fields.Title, "n/a collapses to absent")
	assert.Nil(t, fields.Department, "empty string collapses to absent")

	require.NotNil(t, fields.HireDate)
	assert.Equal(t, time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC), *fields.HireDate)
	require.NotNil(t, fields.BirthDate)
	assert.Equal(t, time.Date(1993, 6, 2, 0, 0, 0, 0, time.UTC), *fields.BirthDate)
	assert.Nil(t, fields.TerminationDate, "unparsable dates are absent, not errors")

	require.NotNil(t, fields.VacationDaysTotal)
	assert.Equal(t, 12, *fields.VacationDaysTotal)
	assert.Nil(t, fields.VacationDaysTaken, "invalid integers are absent, not zero")

	require.NotNil(t, fields.CLABE)
	assert.Equal(t, "002010077777777771", *fields.CLABE)
}

func TestMapStatus(t *testing.T) {

	tests := []struct {
		external   string
		want       model.Status
		recognized bool
	}{
		{"Asignado", model.StatusActive, true},
		{"activo", model.StatusActive, true},
		{"Alta", model.StatusActive, true},
		{"Baja", model.StatusInactive, true},
		{"INACTIVO", model.StatusInactive, true},
		{"Terminado", model.StatusInactive, true},
		{"", model.StatusActive, false},
		{"Sabático", model.StatusActive, false},
	}

	for _, tc := range tests {
		status, recognized := MapStatus(tc.external)
		assert.Equal(t, tc.want, status, "status %q", tc.external)
		assert.Equal(t, tc.recognized, recognized, "status %q", tc.external)
	}
}

func TestParseIntZeroIsPresent(t *testing.T) {

	fields := MapToProfile(ExternalRecord{VacationDaysTaken: "0"})
	require.NotNil(t, fields.VacationDaysTaken)
	assert.Equal(t, 0, *fields.VacationDaysTaken)
}

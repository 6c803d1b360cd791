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

package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intranethq/collaborator-sync-service/internal/profile/model"
	"github.com/intranethq/collaborator-sync-service/internal/profile/store"
)

func strPtr(s string) *string { return &s }

func TestProfileStoreRoundTrip(t *testing.T) {

	profileStore := store.NewProfileStore()
	hireDate := time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)
	vacation := 12

	profile := &model.Profile{
		ExternalRecordID: strPtr("IT-Z100"),
		Email:            "Roundtrip@X.com",
		FullName:         "Prueba Integracion",
		LastName:         strPtr("Integracion"),
		Title:            strPtr("Analista"),
		Status:           model.StatusActive,
		HireDate:         &hireDate,
		CURP:             strPtr("PEIN930602HDFRRA01"),
		CLABE:            strPtr("002010077777777771"),
		EmergencyContact: model.EmergencyContact{
			Name:     strPtr("Contacto Uno"),
			Phone:    strPtr("5512345678"),
			Relation: strPtr("hermana"),
		},
		VacationDaysTotal: &vacation,
	}
	require.NoError(t, profileStore.Insert(profile))
	require.NotEmpty(t, profile.ProfileID)

	// Email lookup is case-insensitive.
	byEmail, err := profileStore.GetByEmail("roundtrip@x.COM")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, profile.ProfileID, byEmail.ProfileID)
	assert.Equal(t, "Prueba Integracion", byEmail.FullName)
	require.NotNil(t, byEmail.HireDate)
	assert.Equal(t, hireDate, byEmail.HireDate.UTC())
	require.NotNil(t, byEmail.VacationDaysTotal)
	assert.Equal(t, 12, *byEmail.VacationDaysTotal)
	require.NotNil(t, byEmail.EmergencyContact.Relation)
	assert.Equal(t, "hermana", *byEmail.EmergencyContact.Relation)

	byExternal, err := profileStore.GetByExternalID("IT-Z100")
	require.NoError(t, err)
	require.NotNil(t, byExternal)
	assert.Equal(t, profile.ProfileID, byExternal.ProfileID)

	byExternal.Title = strPtr("Gerente")
	byExternal.Status = model.StatusInactive
	require.NoError(t, profileStore.Update(byExternal))

	updated, err := profileStore.GetByID(profile.ProfileID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Gerente", *updated.Title)
	assert.Equal(t, model.StatusInactive, updated.Status)

	require.NoError(t, profileStore.SetPassword(profile.ProfileID,
		"$2a$10$abcdefghijklmnopqrstuvabcdefghijklmnopqrstuvabcdefghij"))
	withPassword, err := profileStore.GetByID(profile.ProfileID)
	require.NoError(t, err)
	assert.True(t, withPassword.HasPassword())
	assert.NotNil(t, withPassword.PasswordChangedAt)
}

func TestProfileStoreDuplicateEmailRejected(t *testing.T) {

	profileStore := store.NewProfileStore()
	require.NoError(t, profileStore.Insert(&model.Profile{
		Email:    "unico@x.com",
		FullName: "Primero",
		Status:   model.StatusActive,
	}))

	err := profileStore.Insert(&model.Profile{
		Email:    "UNICO@x.com",
		FullName: "Segundo",
		Status:   model.StatusActive,
	})
	assert.Error(t, err, "the case-insensitive unique email index must reject duplicates")
}

func TestProfileStoreCounts(t *testing.T) {

	profileStore := store.NewProfileStore()
	require.NoError(t, profileStore.Insert(&model.Profile{
		ExternalRecordID: strPtr("IT-Z200"),
		Email:            "contado@x.com",
		FullName:         "Contado",
		Status:           model.StatusActive,
	}))

	counts, err := profileStore.CountByStatus()
	require.NoError(t, err)
	assert.Greater(t, counts[model.StatusActive], 0)

	linked, err := profileStore.CountLinked()
	require.NoError(t, err)
	assert.Greater(t, linked, 0)
}

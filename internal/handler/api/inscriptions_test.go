// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/lagrandiose/grandiose/internal/i18n"
	"github.com/lagrandiose/grandiose/internal/model"
)

func inscriptionJSON(cycleID int64, email string) string {
	return fmt.Sprintf(`{
		"student_name": "Yasmine Alaoui",
		"birth_date": %q,
		"cycle_id": %d,
		"parent_name": "Karim Alaoui",
		"email": %q,
		"phone": "+212 600-000000"
	}`, time.Now().AddDate(-6, 0, 0).Format("2006-01-02"), cycleID, email)
}

func TestCreateInscription(t *testing.T) {
	e := testSetup(t)
	cycle := createTestCycle(t, e, "Primaire", "Primary")

	req := newJSONRequest(t, http.MethodPost, "/api/v1/inscriptions?lang=en", inscriptionJSON(cycle.ID, "karim@example.com"), nil)
	w := executeHandler(t, e.handler.CreateInscription, req)

	assertStatusCode(t, w, http.StatusCreated)
	got, _ := unmarshalData[InscriptionCreatedResponse](t, w)
	if got.ID == 0 || got.Status != model.InscriptionNew {
		t.Errorf("unexpected response %+v", got)
	}
	if got.Message != i18n.T("en", "inscription.success") {
		t.Errorf("message = %q", got.Message)
	}

	stored, err := e.inscriptions.Get(context.Background(), got.ID, model.LocaleEN)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Locale != model.LocaleEN || stored.CycleName != "Primary" {
		t.Errorf("stored inscription = %+v", stored)
	}
}

func TestCreateInscription_Errors(t *testing.T) {
	e := testSetup(t)
	cycle := createTestCycle(t, e, "Primaire", "")

	tests := []struct {
		name   string
		body   string
		status int
		code   string
		field  string
	}{
		{"invalid json", `{"student_name":`, http.StatusBadRequest, "bad_request", ""},
		{"bad email", inscriptionJSON(cycle.ID, "not-an-email"), http.StatusUnprocessableEntity, "validation_error", "email"},
		{"unknown cycle", inscriptionJSON(9999, "karim@example.com"), http.StatusUnprocessableEntity, "validation_error", "cycle_id"},
		{"empty", `{}`, http.StatusUnprocessableEntity, "validation_error", "student_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newJSONRequest(t, http.MethodPost, "/api/v1/inscriptions", tt.body, nil)
			w := executeHandler(t, e.handler.CreateInscription, req)
			assertStatusCode(t, w, tt.status)
			resp := assertErrorResponse(t, w, tt.code)
			if tt.field != "" && resp.Error.Details[tt.field] == "" {
				t.Errorf("expected details for %q, got %v", tt.field, resp.Error.Details)
			}
		})
	}

	if n, err := e.inscriptions.CountNew(context.Background()); err != nil || n != 0 {
		t.Errorf("rejected requests stored %d rows (err %v)", n, err)
	}
}

func TestTranslateFields(t *testing.T) {
	if err := i18n.Init(nil); err != nil {
		t.Fatalf("i18n.Init: %v", err)
	}
	got := translateFields("xx", map[string]string{"email": "validation.email"})
	if got["email"] != i18n.T(i18n.DefaultLanguage(), "validation.email") {
		t.Errorf("unsupported language should fall back to the default, got %q", got["email"])
	}
}

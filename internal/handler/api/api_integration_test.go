// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	WriteJSON(w, http.StatusOK, map[string]string{"key": "value"})

	assertStatusCode(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type 'application/json', got %s", ct)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp["key"] != "value" {
		t.Errorf("expected key 'value', got %s", resp["key"])
	}
}

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()

	WriteSuccess(w, map[string]string{"name": "test"}, &Meta{Locale: "fr", Total: 100, Page: 1, PerPage: 20})

	assertStatusCode(t, w, http.StatusOK)
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Meta == nil {
		t.Fatal("expected meta to be present")
	}
	if resp.Meta.Total != 100 || resp.Meta.Locale != "fr" {
		t.Errorf("unexpected meta %+v", resp.Meta)
	}
}

func TestWriteCreated(t *testing.T) {
	w := httptest.NewRecorder()
	WriteCreated(w, map[string]string{"id": "123"})
	assertStatusCode(t, w, http.StatusCreated)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, http.StatusBadRequest, "validation_error", "Invalid input", map[string]string{
		"field": "name",
	})

	assertStatusCode(t, w, http.StatusBadRequest)
	resp := assertErrorResponse(t, w, "validation_error")
	if resp.Error.Message != "Invalid input" {
		t.Errorf("expected message 'Invalid input', got %s", resp.Error.Message)
	}
	if resp.Error.Details["field"] != "name" {
		t.Errorf("expected details.field 'name', got %s", resp.Error.Details["field"])
	}
}

func TestWriteErrorHelpers(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter)
		status int
		code   string
	}{
		{"bad request", func(w http.ResponseWriter) { WriteBadRequest(w, "Bad input", nil) }, http.StatusBadRequest, "bad_request"},
		{"not found", func(w http.ResponseWriter) { WriteNotFound(w, "Resource not found") }, http.StatusNotFound, "not_found"},
		{"internal", func(w http.ResponseWriter) { WriteInternalError(w, "Something went wrong") }, http.StatusInternalServerError, "internal_error"},
		{"validation", func(w http.ResponseWriter) { WriteValidationError(w, map[string]string{"email": "x"}) }, http.StatusUnprocessableEntity, "validation_error"},
		{"rate limited", func(w http.ResponseWriter) { WriteTooManyRequests(w, nil) }, http.StatusTooManyRequests, "rate_limited"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)
			assertStatusCode(t, w, tt.status)
			assertErrorResponse(t, w, tt.code)
		})
	}
}

func TestStatus(t *testing.T) {
	e := testSetup(t)

	w := executeHandler(t, e.handler.Status, newGetRequest(t, "/api/v1/status", nil))

	assertStatusCode(t, w, http.StatusOK)
	resp, _ := unmarshalData[StatusResponse](t, w)
	if resp.Status != "ok" || resp.Version != "v1" {
		t.Errorf("unexpected status %+v", resp)
	}
	if len(resp.Locales) != 3 {
		t.Errorf("expected 3 locales, got %v", resp.Locales)
	}
}

func TestCapitalizeFirst(t *testing.T) {
	tests := map[string]string{"": "", "cycle": "Cycle", "Post": "Post"}
	for in, want := range tests {
		if got := capitalizeFirst(in); got != want {
			t.Errorf("capitalizeFirst(%q) = %q, want %q", in, got, want)
		}
	}
}

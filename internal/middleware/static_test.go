// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStripTrailingSlash(t *testing.T) {
	tests := []struct {
		url      string
		wantCode int
		wantLoc  string
	}{
		{"/", http.StatusOK, ""},
		{"/blog", http.StatusOK, ""},
		{"/blog/", http.StatusMovedPermanently, "/blog"},
		{"/blog/?page=2", http.StatusMovedPermanently, "/blog?page=2"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		StripTrailingSlash(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))
		if rec.Code != tt.wantCode {
			t.Errorf("%s: status = %d, want %d", tt.url, rec.Code, tt.wantCode)
		}
		if loc := rec.Header().Get("Location"); loc != tt.wantLoc {
			t.Errorf("%s: Location = %q, want %q", tt.url, loc, tt.wantLoc)
		}
	}
}

func TestStaticCache(t *testing.T) {
	rec := httptest.NewRecorder()
	StaticCache(3600)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=3600" {
		t.Errorf("Cache-Control = %q", got)
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var testAuthKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig(t *testing.T) {
	dev := DefaultCSRFConfig(testAuthKey, true, "0.0.0.0:3000")
	if len(dev.TrustedOrigins) != 3 {
		t.Errorf("dev TrustedOrigins = %v, want 3 entries", dev.TrustedOrigins)
	}
	for _, origin := range dev.TrustedOrigins {
		// The csrf library expects host:port values, not full URLs.
		if strings.HasPrefix(origin, "http") {
			t.Errorf("TrustedOrigin %q should be host:port", origin)
		}
	}

	if dup := DefaultCSRFConfig(testAuthKey, true, "localhost:8080"); len(dup.TrustedOrigins) != 2 {
		t.Errorf("duplicate dev origin added: %v", dup.TrustedOrigins)
	}

	if prod := DefaultCSRFConfig(testAuthKey, false, "0.0.0.0:3000"); len(prod.TrustedOrigins) != 0 {
		t.Errorf("production TrustedOrigins = %v, want none", prod.TrustedOrigins)
	}
}

func TestCSRF(t *testing.T) {
	h := CSRF(DefaultCSRFConfig(testAuthKey, false, ""))(okHandler)

	tests := []struct {
		name    string
		method  string
		headers map[string]string
		want    int
	}{
		{"safe method", http.MethodGet, map[string]string{"Sec-Fetch-Site": "cross-site"}, http.StatusOK},
		{"same origin post", http.MethodPost, map[string]string{"Sec-Fetch-Site": "same-origin"}, http.StatusOK},
		{"cross site post", http.MethodPost, map[string]string{"Sec-Fetch-Site": "cross-site"}, http.StatusForbidden},
		{"foreign origin post", http.MethodPost, map[string]string{"Origin": "https://evil.example"}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "https://lagrandiose.ma/inscription", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestSkipCSRF(t *testing.T) {
	h := SkipCSRF("/api/")(CSRF(DefaultCSRFConfig(testAuthKey, false, ""))(okHandler))

	tests := []struct {
		path string
		want int
	}{
		{"/api/v1/inscriptions", http.StatusOK},
		{"/apix", http.StatusForbidden},
		{"/admin/blogs", http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "https://lagrandiose.ma"+tt.path, nil)
		req.Header.Set("Sec-Fetch-Site", "cross-site")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}
}

func TestHasPathPrefix(t *testing.T) {
	tests := []struct {
		path, prefix string
		want         bool
	}{
		{"/api", "/api", true},
		{"/api/v1", "/api", true},
		{"/apis", "/api", false},
		{"/api/v1", "/api/", true},
		{"/", "/api", false},
	}
	for _, tt := range tests {
		if got := hasPathPrefix(tt.path, tt.prefix); got != tt.want {
			t.Errorf("hasPathPrefix(%q, %q) = %v, want %v", tt.path, tt.prefix, got, tt.want)
		}
	}
}

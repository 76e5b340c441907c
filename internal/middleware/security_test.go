// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		wantHSTS bool
	}{
		{"production mode enables HSTS", false, true},
		{"development mode disables HSTS", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := SecurityHeaders(DefaultSecurityHeadersConfig(tt.isDev))(okHandler)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			hsts := rec.Header().Get("Strict-Transport-Security")
			if tt.wantHSTS != (hsts != "") {
				t.Errorf("HSTS = %q, want present=%v", hsts, tt.wantHSTS)
			}
			if tt.wantHSTS && !strings.Contains(hsts, "includeSubDomains") {
				t.Errorf("HSTS = %q, want includeSubDomains", hsts)
			}

			csp := rec.Header().Get("Content-Security-Policy")
			if !strings.HasPrefix(csp, "default-src 'self'; script-src") {
				t.Errorf("CSP order unexpected: %q", csp)
			}
			if !strings.Contains(csp, "https://*.hcaptcha.com") {
				t.Error("CSP should allow the hCaptcha widget")
			}
			if tt.isDev != strings.Contains(csp, "'unsafe-inline' https://hcaptcha.com https://*.hcaptcha.com; style-src") {
				t.Errorf("inline scripts allowed=%v in CSP %q", !tt.isDev, csp)
			}

			for header, want := range map[string]string{
				"X-Frame-Options":        "SAMEORIGIN",
				"X-Content-Type-Options": "nosniff",
				"Referrer-Policy":        "strict-origin-when-cross-origin",
			} {
				if got := rec.Header().Get(header); got != want {
					t.Errorf("%s = %q, want %q", header, got, want)
				}
			}
			if rec.Header().Get("Permissions-Policy") == "" {
				t.Error("Permissions-Policy missing")
			}
		})
	}
}

func TestSecurityHeaders_ExcludePaths(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	cfg.ExcludePaths = []string{"/api/"}
	handler := SecurityHeaders(cfg)(okHandler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	if rec.Header().Get("Content-Security-Policy") != "" {
		t.Error("excluded path should not get CSP")
	}
}

func TestBuildCSP(t *testing.T) {
	got := buildCSP(map[string]string{
		"zeta-src":    "'none'",
		"img-src":     "'self'",
		"default-src": "'self'",
	})
	want := "default-src 'self'; img-src 'self'; zeta-src 'none'"
	if got != want {
		t.Errorf("buildCSP() = %q, want %q", got, want)
	}
}

func TestBuildPermissionsPolicy(t *testing.T) {
	got := buildPermissionsPolicy(map[string]string{"usb": "()", "camera": "()"})
	if got != "camera=(), usb=()" {
		t.Errorf("buildPermissionsPolicy() = %q", got)
	}
}

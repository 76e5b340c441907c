// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiter_PerIP(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)

	if !rl.Allow("198.51.100.1") {
		t.Fatal("first request should pass")
	}
	if rl.Allow("198.51.100.1") {
		t.Error("second request should be limited")
	}
	if !rl.Allow("198.51.100.2") {
		t.Error("other IPs have their own bucket")
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	var limited int
	h := rl.Middleware(func(w http.ResponseWriter, _ *http.Request) {
		limited++
		w.WriteHeader(http.StatusTooManyRequests)
	})(okHandler)

	send := func(method string) int {
		req := httptest.NewRequest(method, "/inscription", nil)
		req.RemoteAddr = "198.51.100.7:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send(http.MethodPost); code != http.StatusOK {
		t.Errorf("first POST = %d, want 200", code)
	}
	if code := send(http.MethodPost); code != http.StatusTooManyRequests {
		t.Errorf("second POST = %d, want 429", code)
	}
	if code := send(http.MethodGet); code != http.StatusOK {
		t.Errorf("GET = %d, want 200", code)
	}
	if limited != 1 {
		t.Errorf("onLimit called %d times, want 1", limited)
	}
}

func TestLimiterCache_ClearIfExceeds(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	lc.get("a")
	lc.get("b")
	if lc.clearIfExceeds(2) {
		t.Error("should not clear at the limit")
	}
	if !lc.clearIfExceeds(1) {
		t.Error("should clear above the limit")
	}
	if len(lc.limiters) != 0 {
		t.Errorf("limiters = %d, want 0", len(lc.limiters))
	}
}

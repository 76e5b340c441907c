// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// testLoginProtection returns a protection with a controllable clock.
func testLoginProtection(maxAttempts int, lockout, window time.Duration) (*LoginProtection, *time.Time) {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       10,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockout,
		AttemptWindow:     window,
	})
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	lp.now = func() time.Time { return now }
	return lp, &now
}

func TestNewLoginProtectionDefaultValues(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{})
	if lp.maxFailedAttempts != 5 {
		t.Errorf("maxFailedAttempts = %d, want 5 (default)", lp.maxFailedAttempts)
	}
	if lp.lockoutDuration != 15*time.Minute {
		t.Errorf("lockoutDuration = %v, want 15m (default)", lp.lockoutDuration)
	}
}

func TestLoginProtection_Lockout(t *testing.T) {
	lp, now := testLoginProtection(3, time.Minute, time.Hour)
	email := "Admin@Example.com"

	for i := 0; i < 2; i++ {
		if locked, _ := lp.RecordFailedAttempt(email); locked {
			t.Fatalf("locked after %d attempts", i+1)
		}
	}
	if got := lp.RemainingAttempts("admin@example.com"); got != 1 {
		t.Errorf("RemainingAttempts() = %d, want 1", got)
	}

	locked, d := lp.RecordFailedAttempt(email)
	if !locked || d != time.Minute {
		t.Fatalf("RecordFailedAttempt() = (%v, %v), want (true, 1m)", locked, d)
	}
	if locked, remaining := lp.IsAccountLocked(" admin@example.com "); !locked || remaining != time.Minute {
		t.Errorf("IsAccountLocked() = (%v, %v)", locked, remaining)
	}

	*now = now.Add(2 * time.Minute)
	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Error("lock should have expired")
	}

	// Second lockout doubles.
	for i := 0; i < 2; i++ {
		lp.RecordFailedAttempt(email)
	}
	if _, d := lp.RecordFailedAttempt(email); d != 2*time.Minute {
		t.Errorf("second lockout = %v, want 2m", d)
	}
}

func TestLoginProtection_BackoffCapped(t *testing.T) {
	lp, now := testLoginProtection(1, 10*time.Hour, time.Hour)
	email := "a@example.com"

	lp.RecordFailedAttempt(email) // first attempt only starts the window
	var last time.Duration
	for i := 0; i < 4; i++ {
		*now = now.Add(time.Minute)
		_, last = lp.RecordFailedAttempt(email)
	}
	if last != maxLockout {
		t.Errorf("lockout = %v, want cap %v", last, maxLockout)
	}
}

func TestLoginProtection_WindowReset(t *testing.T) {
	lp, now := testLoginProtection(3, time.Minute, 10*time.Minute)
	email := "b@example.com"

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	*now = now.Add(11 * time.Minute)
	if locked, _ := lp.RecordFailedAttempt(email); locked {
		t.Error("attempts outside the window should not lock")
	}
	if got := lp.RemainingAttempts(email); got != 2 {
		t.Errorf("RemainingAttempts() = %d, want 2", got)
	}
}

func TestLoginProtection_SuccessClears(t *testing.T) {
	lp, _ := testLoginProtection(3, time.Minute, time.Hour)
	lp.RecordFailedAttempt("c@example.com")
	lp.RecordSuccessfulLogin("c@example.com")
	if got := lp.RemainingAttempts("c@example.com"); got != 3 {
		t.Errorf("RemainingAttempts() = %d, want 3", got)
	}
}

func TestLoginProtection_Cleanup(t *testing.T) {
	lp, now := testLoginProtection(3, time.Minute, time.Minute)
	lp.RecordFailedAttempt("d@example.com")
	*now = now.Add(time.Hour)
	lp.cleanupStaleEntries()

	lp.attemptsMu.RLock()
	defer lp.attemptsMu.RUnlock()
	if len(lp.failedAttempts) != 0 {
		t.Errorf("stale entries = %d, want 0", len(lp.failedAttempts))
	}
}

func TestLoginProtection_Middleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2})
	h := lp.Middleware()(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "203.0.113.9:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}

	// GET is never limited.
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("GET status = %d, want 200", rec.Code)
	}
}

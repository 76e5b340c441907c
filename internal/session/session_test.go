// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lagrandiose/grandiose/internal/testutil"
)

func TestNew_DevMode(t *testing.T) {
	sm := New(testutil.TestDB(t), true)

	if sm.Cookie.Secure {
		t.Error("expected Cookie.Secure = false in dev mode")
	}
	if sm.Cookie.Name != "grandiose_session" {
		t.Errorf("Cookie.Name = %q, want grandiose_session", sm.Cookie.Name)
	}
	if sm.Lifetime != Lifetime {
		t.Errorf("Lifetime = %v, want %v", sm.Lifetime, Lifetime)
	}
}

func TestNew_ProductionMode(t *testing.T) {
	sm := New(testutil.TestDB(t), false)

	if !sm.Cookie.Secure {
		t.Error("expected Cookie.Secure = true in production")
	}
	if sm.Cookie.Name != "__Host-grandiose_session" {
		t.Errorf("Cookie.Name = %q, want __Host- prefix", sm.Cookie.Name)
	}
	if sm.Cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", sm.Cookie.SameSite)
	}
}

func TestFlash(t *testing.T) {
	sm := New(testutil.TestDB(t), true)

	var kind, msg, again string
	h := sm.LoadAndSave(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		SetFlash(ctx, sm, FlashError, "boom")
		kind, msg = PopFlash(ctx, sm)
		_, again = PopFlash(ctx, sm)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background()))

	if kind != FlashError || msg != "boom" {
		t.Errorf("PopFlash() = (%q, %q), want (error, boom)", kind, msg)
	}
	if again != "" {
		t.Errorf("second PopFlash() = %q, want empty", again)
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/lagrandiose/grandiose/internal/middleware"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/session"
)

func TestAuthHandler_Login(t *testing.T) {
	e := newTestEnv(t)
	e.editor(t)
	h := NewAuthHandler(e.db, e.renderer, e.sm, e.events, nil)

	tests := []struct {
		name     string
		form     url.Values
		location string
	}{
		{"missing fields", url.Values{"email": {"editor@lagrandiose.ma"}}, RouteLogin},
		{"unknown user", url.Values{"email": {"nobody@lagrandiose.ma"}, "password": {"editor-password-1"}}, RouteLogin},
		{"wrong password", url.Values{"email": {"editor@lagrandiose.ma"}, "password": {"nope"}}, RouteLogin},
		{"valid", url.Values{"email": {"editor@lagrandiose.ma"}, "password": {"editor-password-1"}}, redirectAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.serve(withPrefs(h.Login), postForm(RouteLogin, tt.form), nil)
			assertRedirect(t, rec, tt.location)
		})
	}

	page, err := e.events.List(context.Background(), "", 1, 20)
	if err != nil {
		t.Fatalf("List events: %v", err)
	}
	var loggedIn bool
	for _, ev := range page.Events {
		if ev.Category == model.EventCategoryAuth && ev.Message == "User logged in" {
			loggedIn = true
		}
	}
	if !loggedIn {
		t.Error("successful login should be recorded in the event log")
	}
}

func TestAuthHandler_Login_Lockout(t *testing.T) {
	e := newTestEnv(t)
	e.editor(t)
	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		MaxFailedAttempts: 2,
		LockoutDuration:   time.Minute,
	})
	h := NewAuthHandler(e.db, e.renderer, e.sm, e.events, lp)

	bad := url.Values{"email": {"editor@lagrandiose.ma"}, "password": {"wrong"}}
	for i := 0; i < 2; i++ {
		e.serve(withPrefs(h.Login), postForm(RouteLogin, bad), nil)
	}

	if locked, _ := lp.IsAccountLocked("editor@lagrandiose.ma"); !locked {
		t.Fatal("account should be locked after repeated failures")
	}

	good := url.Values{"email": {"editor@lagrandiose.ma"}, "password": {"editor-password-1"}}
	rec := e.serve(withPrefs(h.Login), postForm(RouteLogin, good), nil)
	assertRedirect(t, rec, RouteLogin)
}

func TestAuthHandler_LoginForm(t *testing.T) {
	e := newTestEnv(t)
	h := NewAuthHandler(e.db, e.renderer, e.sm, e.events, nil)

	rec := e.serve(withPrefs(h.LoginForm), httptest.NewRequest(http.MethodGet, RouteLogin, nil), nil)

	assertStatus(t, rec.Code, http.StatusOK)
	assertContains(t, rec, `name="email"`, `name="password"`)
}

func TestAuthHandler_LoginForm_SignedIn(t *testing.T) {
	e := newTestEnv(t)
	user := e.editor(t)
	h := NewAuthHandler(e.db, e.renderer, e.sm, e.events, nil)

	signedIn := func(w http.ResponseWriter, r *http.Request) {
		e.sm.Put(r.Context(), session.KeyUserID, user.ID)
		h.LoginForm(w, r)
	}
	rec := e.serve(signedIn, httptest.NewRequest(http.MethodGet, RouteLogin, nil), nil)

	assertRedirect(t, rec, redirectAdmin)
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newTestEnv(t)
	h := NewAuthHandler(e.db, e.renderer, e.sm, e.events, nil)

	rec := e.serve(h.Logout, httptest.NewRequest(http.MethodPost, RouteLogout, nil), nil)

	assertRedirect(t, rec, RouteLogin)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{10 * time.Second, "1m"},
		{5 * time.Minute, "5m"},
		{time.Hour, "1h"},
		{90 * time.Minute, "1h30m"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

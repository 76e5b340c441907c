// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the admin session manager and the keys stored in it.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys
const (
	KeyUserID    = "user_id"
	KeyFlash     = "flash"
	KeyFlashType = "flash_type"
	KeyAdminLang = "admin_lang"
)

// Flash types
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Lifetime is how long an admin session lasts.
const Lifetime = 24 * time.Hour

// New creates a session manager backed by the sessions table.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = Lifetime
	sm.Cookie.Name = "grandiose_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	if !isDev {
		// __Host- cookies must be Secure, host-only and rooted at "/".
		sm.Cookie.Name = "__Host-grandiose_session"
		sm.Cookie.Path = "/"
	}

	return sm
}

// SetFlash stores a one-shot message shown on the next page render.
func SetFlash(ctx context.Context, sm *scs.SessionManager, kind, msg string) {
	sm.Put(ctx, KeyFlash, msg)
	sm.Put(ctx, KeyFlashType, kind)
}

// PopFlash returns and clears the pending flash message.
func PopFlash(ctx context.Context, sm *scs.SessionManager) (kind, msg string) {
	msg = sm.PopString(ctx, KeyFlash)
	kind = sm.PopString(ctx, KeyFlashType)
	if kind == "" {
		kind = FlashSuccess
	}
	return kind, msg
}

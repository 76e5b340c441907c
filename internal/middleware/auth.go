// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, preferences and request context handling.
package middleware

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/lagrandiose/grandiose/internal/i18n"
	"github.com/lagrandiose/grandiose/internal/logging"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/service"
	"github.com/lagrandiose/grandiose/internal/session"
	"github.com/lagrandiose/grandiose/internal/store"
	"github.com/lagrandiose/grandiose/internal/util"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request data.
const (
	ContextKeyUser        ContextKey = "user"
	ContextKeyPreferences ContextKey = "preferences"
)

// LoginPath is where unauthenticated admin requests are sent.
const LoginPath = "/login"

// Auth creates middleware that requires authentication.
// It checks for a valid user session and redirects to login if not authenticated.
func Auth(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sm.GetInt64(r.Context(), session.KeyUserID) == 0 {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoadUser creates middleware that loads the current user into the request context.
// This should be used after Auth middleware.
func LoadUser(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), session.KeyUserID)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := queries.GetUserByID(r.Context(), userID)
			if err != nil {
				// Stale session: the account is gone.
				_ = sm.Destroy(r.Context())
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalLoadUser loads the session user when there is one and never redirects.
// Used on public routes such as /health and /metrics.
func OptionalLoadUser(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), session.KeyUserID)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}
			user, err := queries.GetUserByID(r.Context(), userID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *store.User {
	user, ok := r.Context().Value(ContextKeyUser).(store.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserIDPtr returns a pointer to the current user's ID, or nil.
// Used for optional user IDs in event logging.
func GetUserIDPtr(r *http.Request) *int64 {
	if user := GetUser(r); user != nil {
		id := user.ID
		return &id
	}
	return nil
}

// IsAdmin reports whether the request carries an admin user.
func IsAdmin(r *http.Request) bool {
	user := GetUser(r)
	return user != nil && model.HasRole(user.Role, model.RoleAdmin)
}

// RequireRole creates middleware that requires a minimum user role.
// Roles are hierarchical: admin > editor. Denials are logged to the event
// log when events is non-nil.
func RequireRole(minRole string, events *service.EventService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			if !model.HasRole(user.Role, minRole) {
				slog.Info("access denied",
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", user.ID,
					"user_role", user.Role,
					"required_role", minRole,
				)
				if events != nil {
					userID := user.ID
					_ = events.LogAuthEvent(r.Context(), model.EventLevelWarning,
						"Access denied: insufficient permissions", &userID, util.ClientIP(r),
						map[string]any{"path": r.URL.Path, "user_role": user.Role, "required_role": minRole})
				}
				lang := GetLang(r)
				http.Error(w, i18n.T(lang, "error.forbidden"), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AdminLanguage overrides the resolved language with the admin's session
// preference when one is stored.
func AdminLanguage(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := sm.GetString(r.Context(), session.KeyAdminLang)
			if lang == "" || !model.IsSupportedLocale(lang) {
				next.ServeHTTP(w, r)
				return
			}
			p := GetPreferences(r)
			p.setLang(lang)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ContextKeyPreferences, p)))
		})
	}
}

// RequestInfo attaches the client IP and path for the event log handler.
func RequestInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithRequestInfo(r.Context(), logging.RequestInfo{IP: util.ClientIP(r), URL: r.URL.Path})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

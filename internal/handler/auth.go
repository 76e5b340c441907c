// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/lagrandiose/grandiose/internal/auth"
	"github.com/lagrandiose/grandiose/internal/i18n"
	"github.com/lagrandiose/grandiose/internal/middleware"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/render"
	"github.com/lagrandiose/grandiose/internal/service"
	"github.com/lagrandiose/grandiose/internal/session"
	"github.com/lagrandiose/grandiose/internal/store"
	"github.com/lagrandiose/grandiose/internal/util"
)

// AuthHandler handles authentication routes.
type AuthHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler. lp may be nil to disable lockouts.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, events *service.EventService, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		renderer:        renderer,
		sessionManager:  sm,
		eventService:    events,
		loginProtection: lp,
	}
}

// loginData is the login page view model.
type loginData struct {
	Email string
	Error string
}

// LoginForm renders the login page. Signed-in staff go straight to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if userID := h.sessionManager.GetInt64(r.Context(), session.KeyUserID); userID > 0 {
		if user, err := h.queries.GetUserByID(r.Context(), userID); err == nil && model.HasRole(user.Role, model.RoleEditor) {
			http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
			return
		}
	}

	lang := middleware.GetLang(r)
	renderPage(w, r, h.renderer, http.StatusOK, tmplLogin, render.TemplateData{
		Title: i18n.T(lang, "auth.login_title"),
		Data:  loginData{},
	})
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)

	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.invalid_form_data"))
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.email_password_required"))
		return
	}

	clientIP := util.ClientIP(r)
	meta := map[string]any{"email": email}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login attempt on locked account", nil, clientIP, meta)
			flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.account_locked", formatDuration(remaining)))
			return
		}
	}

	user, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Debug("login attempt for non-existent user", "email", email)
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login failed: user not found", nil, clientIP, meta)
		} else {
			slog.Error("database error during login", "error", err)
		}
		auth.BurnCheck(password)
		// Record failed attempt even for non-existent users to prevent enumeration
		h.rejectLogin(w, r, lang, email, nil)
		return
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err, "user_id", user.ID)
	}
	if !valid {
		slog.Debug("invalid password attempt", "email", email)
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login failed: invalid password", &user.ID, clientIP, meta)
		h.rejectLogin(w, r, lang, email, &user.ID)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := h.queries.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    store.Now(),
				ID:           user.ID,
			}); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			}
		}
	}

	now := store.Now()
	if err := h.queries.UpdateUserLastLogin(r.Context(), store.UpdateUserLastLoginParams{
		LastLoginAt: now,
		UpdatedAt:   now,
		ID:          user.ID,
	}); err != nil {
		// Don't block login on this error
		slog.Error("failed to update last login time", "error", err, "user_id", user.ID)
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), session.KeyUserID, user.ID)

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged in", &user.ID, clientIP, meta)

	flashSuccess(w, r, h.renderer, redirectAdmin, i18n.T(lang, "auth.welcome_back", user.Name))
}

// rejectLogin records a failed attempt and redirects with the matching message.
func (h *AuthHandler) rejectLogin(w http.ResponseWriter, r *http.Request, lang, email string, userID *int64) {
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Account locked due to failed attempts", userID, util.ClientIP(r),
				map[string]any{"email": email, "duration": lockDuration.String()})
			flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.too_many_attempts", formatDuration(lockDuration)))
			return
		}
		if remaining := h.loginProtection.RemainingAttempts(email); remaining > 0 && remaining <= 3 {
			flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.attempts_remaining", remaining))
			return
		}
	}
	flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.invalid_credentials"))
}

// Logout destroys the session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), session.KeyUserID)

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		logAndInternalError(w, "session destroy error", "error", err)
		return
	}

	if userID > 0 {
		slog.Info("user logged out", "user_id", userID)
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged out", &userID, util.ClientIP(r), nil)
	}

	http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
}

// formatDuration renders a lockout duration as "5m" or "1h30m".
func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	if d < time.Minute {
		return "1m"
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%dm", h, m)
	}
}

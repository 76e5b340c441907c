// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/lagrandiose/grandiose/internal/middleware"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/session"
	"github.com/lagrandiose/grandiose/internal/util"
)

// PreferencesHandler persists the visitor's language and theme.
type PreferencesHandler struct {
	sessionManager *scs.SessionManager
	secure         bool
}

// NewPreferencesHandler creates a PreferencesHandler. secure marks the
// cookies Secure and should be true outside development.
func NewPreferencesHandler(sm *scs.SessionManager, secure bool) *PreferencesHandler {
	return &PreferencesHandler{sessionManager: sm, secure: secure}
}

// Update handles POST /preferences. Unknown values are ignored; the visitor
// is sent back to return_to when it is a local path.
func (h *PreferencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}

	target := util.SafeRedirectPath(r.FormValue("return_to"), RouteRoot)

	if lang := r.FormValue("lang"); model.IsSupportedLocale(lang) {
		middleware.SetPreferenceCookie(w, middleware.LanguageCookieName, lang, h.secure)
		target = swapLangPrefix(target, lang)
		if h.sessionManager != nil && h.sessionManager.GetInt64(r.Context(), session.KeyUserID) > 0 {
			h.sessionManager.Put(r.Context(), session.KeyAdminLang, lang)
		}
	}
	if theme := r.FormValue("theme"); middleware.IsValidTheme(theme) {
		middleware.SetPreferenceCookie(w, middleware.ThemeCookieName, theme, h.secure)
	}

	http.Redirect(w, r, target, http.StatusSeeOther)
}

// swapLangPrefix replaces a leading /<lang> segment so the URL does not
// override the language just chosen.
func swapLangPrefix(path, lang string) string {
	rest := strings.TrimPrefix(path, "/")
	head, tail, _ := strings.Cut(rest, "/")
	if !model.IsSupportedLocale(head) {
		return path
	}
	if tail == "" {
		return "/" + lang
	}
	return "/" + lang + "/" + tail
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lagrandiose/grandiose/internal/i18n"
	"github.com/lagrandiose/grandiose/internal/model"
)

// Preference cookies
const (
	LanguageCookieName = "grandiose_lang"
	ThemeCookieName    = "grandiose_theme"
	cookieMaxAge       = 365 * 24 * 60 * 60 // 1 year
)

// Themes
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Preferences is the visitor's resolved language and theme.
type Preferences struct {
	Lang  string
	Dir   string
	Theme string
}

// IsRTL reports whether the language is written right-to-left.
func (p Preferences) IsRTL() bool {
	return p.Dir == model.DirectionRTL
}

func (p *Preferences) setLang(lang string) {
	p.Lang = lang
	p.Dir = model.Direction(lang)
}

// IsValidTheme reports whether t is a known theme.
func IsValidTheme(t string) bool {
	return t == ThemeLight || t == ThemeDark
}

// PreferencesConfig controls cookie attributes.
type PreferencesConfig struct {
	Secure bool
	// StatelessPrefixes lists path prefixes where ?lang= and ?theme= apply
	// to the request only and are never persisted.
	StatelessPrefixes []string
}

func (c PreferencesConfig) persists(path string) bool {
	for _, prefix := range c.StatelessPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// ResolvePreferences stores the visitor's language and theme in the request
// context. Resolution order:
//
//	language: ?lang= (persisted), {lang} URL param, cookie, Accept-Language, default
//	theme:    ?theme= (persisted), cookie, light
//
// Unknown values are ignored at every step.
func ResolvePreferences(cfg PreferencesConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookies := cookieWriter{w: w, secure: cfg.Secure, enabled: cfg.persists(r.URL.Path)}
			var p Preferences
			p.setLang(resolveLanguage(cookies, r))
			p.Theme = resolveTheme(cookies, r)

			ctx := context.WithValue(r.Context(), ContextKeyPreferences, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// URLLanguage applies the {lang} route parameter. It is mounted on the
// /{lang} route group, where chi has already resolved the parameter.
// A supported ?lang= query still wins over the prefix.
func URLLanguage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := strings.ToLower(chi.URLParam(r, "lang"))
		if !model.IsSupportedLocale(code) || model.IsSupportedLocale(queryLang(r)) {
			next.ServeHTTP(w, r)
			return
		}
		p := GetPreferences(r)
		p.setLang(code)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ContextKeyPreferences, p)))
	})
}

// cookieWriter persists preferences unless disabled for the request path.
type cookieWriter struct {
	w       http.ResponseWriter
	secure  bool
	enabled bool
}

func (c cookieWriter) set(name, value string) {
	if c.enabled {
		SetPreferenceCookie(c.w, name, value, c.secure)
	}
}

func queryLang(r *http.Request) string {
	return strings.ToLower(r.URL.Query().Get("lang"))
}

func resolveLanguage(cookies cookieWriter, r *http.Request) string {
	if q := queryLang(r); model.IsSupportedLocale(q) {
		cookies.set(LanguageCookieName, q)
		return q
	}
	if p := strings.ToLower(chi.URLParam(r, "lang")); model.IsSupportedLocale(p) {
		return p
	}
	if c, err := r.Cookie(LanguageCookieName); err == nil {
		if v := strings.ToLower(c.Value); model.IsSupportedLocale(v) {
			return v
		}
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		return i18n.MatchLanguage(accept)
	}
	return i18n.DefaultLanguage()
}

func resolveTheme(cookies cookieWriter, r *http.Request) string {
	if q := strings.ToLower(r.URL.Query().Get("theme")); IsValidTheme(q) {
		cookies.set(ThemeCookieName, q)
		return q
	}
	if c, err := r.Cookie(ThemeCookieName); err == nil && IsValidTheme(c.Value) {
		return c.Value
	}
	return ThemeLight
}

// GetPreferences returns the resolved preferences, or the defaults when the
// middleware did not run.
func GetPreferences(r *http.Request) Preferences {
	if p, ok := r.Context().Value(ContextKeyPreferences).(Preferences); ok {
		return p
	}
	var p Preferences
	p.setLang(i18n.DefaultLanguage())
	p.Theme = ThemeLight
	return p
}

// GetLang returns the resolved language code.
func GetLang(r *http.Request) string {
	return GetPreferences(r).Lang
}

// SetPreferenceCookie persists a preference for a year.
func SetPreferenceCookie(w http.ResponseWriter, name, value string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

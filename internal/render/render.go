// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the embedded HTML templates and renders pages with
// the per-request data every layout needs.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/lagrandiose/grandiose/internal/i18n"
	"github.com/lagrandiose/grandiose/internal/imaging"
	"github.com/lagrandiose/grandiose/internal/middleware"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/session"
	"github.com/lagrandiose/grandiose/internal/store"
	"github.com/lagrandiose/grandiose/internal/uikit"
)

// Template groups. Public and auth pages use the base layout only; admin
// pages are wrapped in the admin layout as well.
const (
	groupPublic = "public"
	groupAuth   = "auth"
	groupAdmin  = "admin"

	baseLayout  = "layouts/base.html"
	adminLayout = "layouts/admin.html"
)

// Site holds the school details shown on every page.
type Site struct {
	Name            string
	Email           string
	Phone           string
	Address         string
	HCaptchaSiteKey string
}

// Renderer handles template rendering with caching.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
	site           Site
	isDev          bool
	now            func() time.Time
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
	Site           Site
	IsDev          bool
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
		site:           cfg.Site,
		isDev:          cfg.IsDev,
		now:            time.Now,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// parseTemplates parses all templates from the filesystem.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := getTemplateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	layouts := map[string][]string{
		groupPublic: {baseLayout},
		groupAuth:   {baseLayout},
		groupAdmin:  {baseLayout, adminLayout},
	}

	for group, layout := range layouts {
		pages, err := getTemplateFiles(templatesFS, group)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", group, err)
		}
		for _, tmplPath := range pages {
			name := group + "/" + strings.TrimSuffix(path.Base(tmplPath), ".html")

			// Parse in order: layouts, partials, page template
			files := append([]string{}, layout...)
			files = append(files, partials...)
			files = append(files, tmplPath)

			tmpl, err := template.New("").Funcs(r.templateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}

	return nil
}

// getTemplateFiles returns all .html files in a directory.
func getTemplateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	var files []string

	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		// Directory might not exist yet, that's ok
		return files, nil
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}

	return files, nil
}

// Has reports whether a template with the given name was parsed.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// templateFuncs returns custom template functions.
func (r *Renderer) templateFuncs() template.FuncMap {
	funcs := uikit.TemplateFuncs()
	funcs["T"] = i18n.T
	funcs["thumb"] = imaging.ThumbURL
	funcs["hasRole"] = func(u *store.User, role string) bool {
		return u != nil && model.HasRole(u.Role, role)
	}
	funcs["localeName"] = func(code string) string {
		return model.Locale(code).NativeName
	}
	funcs["dirOf"] = model.Direction
	funcs["isDev"] = func() bool { return r.isDev }
	return funcs
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Description string
	Lang        string
	Dir         string
	Theme       string
	Locales     []model.LocaleInfo
	Site        Site
	User        *store.User
	Path        string
	// Prefix is "/<lang>" on language-prefixed public routes, otherwise empty.
	Prefix      string
	Flash       string
	FlashType   string
	CurrentYear int
	Breadcrumbs []uikit.Breadcrumb

	// Data is the page-specific view model.
	Data any
	// Errors maps form fields to i18n message keys.
	Errors map[string]string
}

// IsRTL reports whether the page language is right-to-left.
func (d TemplateData) IsRTL() bool {
	return d.Dir == model.DirectionRTL
}

// Render renders a template with status 200.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus renders a template with the given status code.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	r.fill(req, &data)

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("writing response", "template", name, "error", err)
	}
	return nil
}

// fill adds the request-scoped defaults every layout expects.
func (r *Renderer) fill(req *http.Request, data *TemplateData) {
	prefs := middleware.GetPreferences(req)
	if data.Lang == "" {
		data.Lang = prefs.Lang
		data.Dir = prefs.Dir
	}
	if data.Dir == "" {
		data.Dir = model.Direction(data.Lang)
	}
	if data.Theme == "" {
		data.Theme = prefs.Theme
	}
	data.Locales = model.Locales()
	data.Site = r.site
	data.Path = req.URL.Path
	if lang := chi.URLParam(req, "lang"); lang != "" && model.IsSupportedLocale(lang) {
		data.Prefix = "/" + lang
	}
	data.CurrentYear = r.now().Year()
	if data.User == nil {
		data.User = middleware.GetUser(req)
	}
	if data.Title == "" {
		data.Title = r.site.Name
	}

	if r.sessionManager != nil && data.Flash == "" {
		data.FlashType, data.Flash = session.PopFlash(req.Context(), r.sessionManager)
	}
}

// SetFlash sets a flash message in the session.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager != nil {
		session.SetFlash(req.Context(), r.sessionManager, flashType, message)
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/lagrandiose/grandiose/internal/model"
)

const docsTemplate = "api/docs.html"

// DocsConfig holds configuration for the docs handler.
type DocsConfig struct {
	SiteName   string
	TemplateFS fs.FS
	IsDev      bool // reload the template on every request
}

// DocsHandler serves the HTML reference of the public API.
type DocsHandler struct {
	cfg  DocsConfig
	tmpl atomic.Pointer[template.Template]
}

// NewDocsHandler parses the reference template.
func NewDocsHandler(cfg DocsConfig) (*DocsHandler, error) {
	h := &DocsHandler{cfg: cfg}
	if err := h.load(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *DocsHandler) load() error {
	tmpl, err := template.ParseFS(h.cfg.TemplateFS, docsTemplate)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", docsTemplate, err)
	}
	h.tmpl.Store(tmpl)
	return nil
}

type docsData struct {
	SiteName string
	BaseURL  string
	Locales  []string
	Statuses []string
}

// ServeDocs handles GET /api/v1/.
func (h *DocsHandler) ServeDocs(w http.ResponseWriter, r *http.Request) {
	if h.cfg.IsDev {
		if err := h.load(); err != nil {
			slog.Error("reloading api docs", "error", err)
			WriteInternalError(w, "Failed to load documentation")
			return
		}
	}

	var buf bytes.Buffer
	err := h.tmpl.Load().Execute(&buf, docsData{
		SiteName: h.cfg.SiteName,
		BaseURL:  requestOrigin(r) + "/api/v1",
		Locales:  model.SupportedLocales,
		Statuses: model.InscriptionStatuses,
	})
	if err != nil {
		slog.Error("rendering api docs", "error", err)
		WriteInternalError(w, "Failed to render documentation")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = buf.WriteTo(w)
}

// requestOrigin returns scheme://host of r, honoring X-Forwarded-Proto.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + r.Host
}

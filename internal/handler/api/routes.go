// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/lagrandiose/grandiose/internal/middleware"
)

// RouterConfig configures the mounted API router.
type RouterConfig struct {
	// AllowedOrigins are the browser origins allowed to call the API.
	// Empty disables CORS headers.
	AllowedOrigins []string
	// InscriptionLimiter throttles POST /inscriptions per client IP; nil disables it.
	InscriptionLimiter *middleware.RateLimiter
	// Docs serves the HTML reference at the API root; nil disables it.
	Docs *DocsHandler
}

// Router returns the /api/v1 routes.
func (h *Handler) Router(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Accept-Language", "Content-Type"},
			MaxAge:         300,
		}))
	}

	if cfg.Docs != nil {
		r.Get("/", cfg.Docs.ServeDocs)
	}
	r.Get("/status", h.Status)

	r.Get("/cycles", h.ListCycles)
	r.Get("/cycles/{id}", h.GetCycle)
	r.Get("/professors", h.ListProfessors)
	r.Get("/testimonials", h.ListTestimonials)
	r.Get("/categories", h.ListCategories)
	r.Get("/blogs", h.ListBlogs)
	r.Get("/blogs/{slug}", h.GetBlog)
	r.Get("/school-year", h.GetSchoolYear)

	r.Group(func(r chi.Router) {
		if cfg.InscriptionLimiter != nil {
			r.Use(cfg.InscriptionLimiter.Middleware(WriteTooManyRequests))
		}
		r.Post("/inscriptions", h.CreateInscription)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteNotFound(w, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", nil)
	})
	return r
}

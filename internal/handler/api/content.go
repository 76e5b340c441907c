// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/service"
)

// CategoryAPIResponse represents a category in API responses.
type CategoryAPIResponse struct {
	service.CategoryView
	PostCount int64 `json:"post_count"`
}

// SchoolYearAPIResponse represents the current school year.
type SchoolYearAPIResponse struct {
	StartYear int    `json:"start_year"`
	EndYear   int    `json:"end_year"`
	Label     string `json:"label"`
}

func localeMeta(lang string) *Meta {
	return &Meta{Locale: lang}
}

// ListCycles handles GET /api/v1/cycles
func (h *Handler) ListCycles(w http.ResponseWriter, r *http.Request) {
	lang := requestLang(r)
	cycles, err := h.content.ListCycles(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list cycles")
		return
	}
	WriteSuccess(w, service.ResolveCycles(cycles, lang, wantsAllTranslations(r)), localeMeta(lang))
}

// GetCycle handles GET /api/v1/cycles/{id}
func (h *Handler) GetCycle(w http.ResponseWriter, r *http.Request) {
	lang := requestLang(r)
	cycle, ok := requireEntityByID(w, r, "cycle", h.content.GetCycle)
	if !ok {
		return
	}
	WriteSuccess(w, service.ResolveCycle(cycle, lang, wantsAllTranslations(r)), localeMeta(lang))
}

// ListProfessors handles GET /api/v1/professors
func (h *Handler) ListProfessors(w http.ResponseWriter, r *http.Request) {
	lang := requestLang(r)
	professors, err := h.content.ListProfessors(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list professors")
		return
	}
	WriteSuccess(w, service.ResolveProfessors(professors, lang, wantsAllTranslations(r)), localeMeta(lang))
}

// ListTestimonials handles GET /api/v1/testimonials
func (h *Handler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	lang := requestLang(r)
	testimonials, err := h.content.ListTestimonials(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list testimonials")
		return
	}
	WriteSuccess(w, service.ResolveTestimonials(testimonials, lang, wantsAllTranslations(r)), localeMeta(lang))
}

// ListCategories handles GET /api/v1/categories
// Each category carries the number of posts filed under it.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := requestLang(r)

	categories, err := h.blogs.ListCategories(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to list categories")
		return
	}

	views := service.ResolveCategories(categories, lang, wantsAllTranslations(r))
	responses := make([]CategoryAPIResponse, 0, len(views))
	for _, v := range views {
		count, err := h.blogs.CountBlogsInCategory(ctx, v.ID)
		if err != nil {
			slog.Error("failed to count category posts", "error", err, "category_id", v.ID)
			WriteInternalError(w, "Failed to list categories")
			return
		}
		responses = append(responses, CategoryAPIResponse{CategoryView: v, PostCount: count})
	}
	WriteSuccess(w, responses, localeMeta(lang))
}

// GetSchoolYear handles GET /api/v1/school-year
func (h *Handler) GetSchoolYear(w http.ResponseWriter, r *http.Request) {
	year, err := h.content.CurrentSchoolYear(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			WriteNotFound(w, "No current school year")
			return
		}
		WriteInternalError(w, "Failed to load school year")
		return
	}
	WriteSuccess(w, schoolYearResponse(year), nil)
}

func schoolYearResponse(y model.SchoolYear) SchoolYearAPIResponse {
	return SchoolYearAPIResponse{StartYear: y.StartYear, EndYear: y.EndYear, Label: y.Label()}
}

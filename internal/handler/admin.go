// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/lagrandiose/grandiose/internal/i18n"
	"github.com/lagrandiose/grandiose/internal/imaging"
	"github.com/lagrandiose/grandiose/internal/middleware"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/render"
	"github.com/lagrandiose/grandiose/internal/service"
	"github.com/lagrandiose/grandiose/internal/store"
	"github.com/lagrandiose/grandiose/internal/uikit"
	"github.com/lagrandiose/grandiose/internal/util"
)

// Admin list sizes.
const (
	AdminPerPage       = 20
	DashboardEventsMax = 10
)

// AdminDeps are the collaborators of AdminHandler.
type AdminDeps struct {
	Renderer     *render.Renderer
	Content      *service.ContentService
	Blogs        *service.BlogService
	Inscriptions *service.InscriptionService
	Events       *service.EventService
	Images       *imaging.Processor
}

// AdminHandler serves the back office.
type AdminHandler struct {
	renderer     *render.Renderer
	content      *service.ContentService
	blogs        *service.BlogService
	inscriptions *service.InscriptionService
	events       *service.EventService
	images       *imaging.Processor
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(d AdminDeps) *AdminHandler {
	return &AdminHandler{
		renderer:     d.Renderer,
		content:      d.Content,
		blogs:        d.Blogs,
		inscriptions: d.Inscriptions,
		events:       d.Events,
		images:       d.Images,
	}
}

// listData wraps a non-paginated admin listing.
type listData[T any] struct {
	Items []T
}

// crumbs builds the admin breadcrumb trail starting at the dashboard.
func crumbs(lang string, pairs ...string) []uikit.Breadcrumb {
	all := append([]string{i18n.T(lang, "admin.dashboard"), redirectAdmin}, pairs...)
	return uikit.Crumbs(all...)
}

// logContent records a content change in the event log.
func (h *AdminHandler) logContent(r *http.Request, message string, metadata map[string]any) {
	if err := h.events.LogContentEvent(r.Context(), message, middleware.GetUserIDPtr(r), util.ClientIP(r), metadata); err != nil {
		slog.Error("failed to log content event", "error", err)
	}
}

// addFieldError records key for field on a possibly nil map.
func addFieldError(errs map[string]string, field, key string) map[string]string {
	if errs == nil {
		errs = make(map[string]string)
	}
	if _, ok := errs[field]; !ok {
		errs[field] = key
	}
	return errs
}

// dashboardData is the dashboard view model.
type dashboardData struct {
	Counts     service.Counts
	SchoolYear model.SchoolYear
	Events     []store.EventWithUser
}

// Dashboard handles GET /admin.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	ctx := r.Context()

	counts, err := h.content.Counts(ctx)
	if err != nil {
		logAndInternalError(w, "failed to count content", "error", err)
		return
	}
	events, err := h.events.Recent(ctx, DashboardEventsMax)
	if err != nil {
		logAndInternalError(w, "failed to list recent events", "error", err)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, "admin/dashboard", render.TemplateData{
		Title: i18n.T(lang, "admin.dashboard"),
		Data: dashboardData{
			Counts:     counts,
			SchoolYear: currentSchoolYear(r, h.content),
			Events:     events,
		},
	})
}

// schoolYearData is the school year page view model.
type schoolYearData struct {
	Current   model.SchoolYear
	StartYear string
	Years     []model.SchoolYear
}

// SchoolYear handles GET /admin/school-year.
func (h *AdminHandler) SchoolYear(w http.ResponseWriter, r *http.Request) {
	current := currentSchoolYear(r, h.content)
	start := ""
	if current.StartYear > 0 {
		start = strconv.Itoa(current.StartYear)
	}
	h.renderSchoolYear(w, r, http.StatusOK, start, nil)
}

// SetSchoolYear handles POST /admin/school-year.
func (h *AdminHandler) SetSchoolYear(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, redirectAdminSchoolYear, i18n.T(lang, "auth.invalid_form_data"))
		return
	}

	raw := strings.TrimSpace(r.PostFormValue("start_year"))
	start, err := strconv.Atoi(raw)
	if err != nil {
		h.renderSchoolYear(w, r, http.StatusUnprocessableEntity, raw, map[string]string{"start_year": "validation.school_year"})
		return
	}

	year, err := h.content.SetSchoolYear(r.Context(), start)
	if err != nil {
		if fields := validationFields(err); fields != nil {
			h.renderSchoolYear(w, r, http.StatusUnprocessableEntity, raw, fields)
			return
		}
		logAndInternalError(w, "failed to set school year", "error", err, "start_year", start)
		return
	}

	if err := h.events.LogEvent(r.Context(), model.EventLevelInfo, model.EventCategorySchoolYear,
		"School year changed", middleware.GetUserIDPtr(r), util.ClientIP(r),
		map[string]any{"school_year": year.Label()}); err != nil {
		slog.Error("failed to log school year event", "error", err)
	}
	flashSuccess(w, r, h.renderer, redirectAdminSchoolYear, i18n.T(lang, "school_year.saved", year.Label()))
}

func (h *AdminHandler) renderSchoolYear(w http.ResponseWriter, r *http.Request, status int, start string, errs map[string]string) {
	lang := middleware.GetLang(r)
	years, err := h.content.ListSchoolYears(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list school years", "error", err)
		return
	}

	renderPage(w, r, h.renderer, status, "admin/school_year", render.TemplateData{
		Title:       i18n.T(lang, "admin.school_year"),
		Breadcrumbs: crumbs(lang, i18n.T(lang, "admin.school_year"), redirectAdminSchoolYear),
		Errors:      errs,
		Data: schoolYearData{
			Current:   currentSchoolYear(r, h.content),
			StartYear: start,
			Years:     years,
		},
	})
}

// eventLevels are the filter options of the event log.
var eventLevels = []string{model.EventLevelInfo, model.EventLevelWarning, model.EventLevelError}

// eventsData is the event log view model.
type eventsData struct {
	Levels     []string
	Level      string
	Events     []store.EventWithUser
	Pagination uikit.Pagination
}

// Events handles GET /admin/events.
func (h *AdminHandler) Events(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	q := r.URL.Query()

	level := q.Get("level")
	valid := false
	for _, l := range eventLevels {
		if l == level {
			valid = true
			break
		}
	}
	if !valid {
		level = ""
	}

	page, err := h.events.List(r.Context(), level, uikit.ParsePageParam(r), 0)
	if err != nil {
		logAndInternalError(w, "failed to list events", "error", err)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, "admin/events", render.TemplateData{
		Title:       i18n.T(lang, "admin.events"),
		Breadcrumbs: crumbs(lang, i18n.T(lang, "admin.events"), redirectAdmin+RouteEvents),
		Data: eventsData{
			Levels:     eventLevels,
			Level:      level,
			Events:     page.Events,
			Pagination: uikit.BuildPagination(page.Page, page.TotalPages, page.Total, redirectAdmin+RouteEvents, q),
		},
	})
}

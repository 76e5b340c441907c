// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/lagrandiose/grandiose/internal/i18n"
	"github.com/lagrandiose/grandiose/internal/middleware"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/render"
	"github.com/lagrandiose/grandiose/internal/service"
	"github.com/lagrandiose/grandiose/internal/uikit"
	"github.com/lagrandiose/grandiose/internal/util"
)

// inscriptionsData is the admin inscription listing view model.
type inscriptionsData struct {
	Statuses   []string
	Status     string
	Items      []model.Inscription
	Pagination uikit.Pagination
}

// inscriptionDetailData is the inscription detail view model.
type inscriptionDetailData struct {
	Inscription model.Inscription
	Statuses    []string
}

// Inscriptions handles GET /admin/inscriptions. ?status= filters the list;
// unknown statuses show everything.
func (h *AdminHandler) Inscriptions(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	q := r.URL.Query()

	status := q.Get("status")
	if !model.IsValidInscriptionStatus(status) {
		status = ""
	}

	page, err := h.inscriptions.List(r.Context(), status, lang, uikit.ParsePageParam(r), AdminPerPage)
	if err != nil {
		logAndInternalError(w, "failed to list inscriptions", "error", err)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, "admin/inscriptions", render.TemplateData{
		Title:       i18n.T(lang, "admin.inscriptions"),
		Breadcrumbs: crumbs(lang, i18n.T(lang, "admin.inscriptions"), redirectAdminInscriptions),
		Data: inscriptionsData{
			Statuses:   model.InscriptionStatuses,
			Status:     status,
			Items:      page.Items,
			Pagination: uikit.BuildPagination(page.Page, page.TotalPages, page.Total, redirectAdminInscriptions, q),
		},
	})
}

// Inscription handles GET /admin/inscriptions/{id}.
func (h *AdminHandler) Inscription(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	get := func(ctx context.Context, id int64) (model.Inscription, error) {
		return h.inscriptions.Get(ctx, id, lang)
	}
	ins, _, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminInscriptions, "inscription", get)
	if !ok {
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, "admin/inscription", render.TemplateData{
		Title:       ins.StudentName,
		Breadcrumbs: crumbs(lang, i18n.T(lang, "admin.inscriptions"), redirectAdminInscriptions, ins.StudentName, fmt.Sprintf(redirectAdminInscriptionsID, ins.ID)),
		Data: inscriptionDetailData{
			Inscription: ins,
			Statuses:    model.InscriptionStatuses,
		},
	})
}

// UpdateInscriptionStatus handles POST /admin/inscriptions/{id}/status.
func (h *AdminHandler) UpdateInscriptionStatus(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminInscriptions, i18n.T(lang, "admin.not_found"))
		return
	}
	back := fmt.Sprintf(redirectAdminInscriptionsID, id)

	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, back, i18n.T(lang, "auth.invalid_form_data"))
		return
	}
	status := r.PostFormValue("status")

	err := h.inscriptions.UpdateStatus(r.Context(), id, status)
	switch {
	case errors.Is(err, service.ErrNotFound):
		flashError(w, r, h.renderer, redirectAdminInscriptions, i18n.T(lang, "admin.not_found"))
		return
	case validationFields(err) != nil:
		flashError(w, r, h.renderer, back, i18n.T(lang, "validation.status"))
		return
	case err != nil:
		logAndInternalError(w, "failed to update inscription status", "error", err, "inscription_id", id)
		return
	}

	if err := h.events.LogEvent(r.Context(), model.EventLevelInfo, model.EventCategoryInscription,
		"Inscription status changed", middleware.GetUserIDPtr(r), util.ClientIP(r),
		map[string]any{"inscription_id": id, "status": status}); err != nil {
		slog.Error("failed to log inscription event", "error", err)
	}
	flashSuccess(w, r, h.renderer, back, i18n.T(lang, "admin.saved"))
}

// DeleteInscription handles POST /admin/inscriptions/{id}/delete.
func (h *AdminHandler) DeleteInscription(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminInscriptions, i18n.T(lang, "admin.not_found"))
		return
	}

	err := h.inscriptions.Delete(r.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		flashError(w, r, h.renderer, redirectAdminInscriptions, i18n.T(lang, "admin.not_found"))
		return
	}
	if err != nil {
		logAndInternalError(w, "failed to delete inscription", "error", err, "inscription_id", id)
		return
	}

	if err := h.events.LogEvent(r.Context(), model.EventLevelWarning, model.EventCategoryInscription,
		"Inscription deleted", middleware.GetUserIDPtr(r), util.ClientIP(r),
		map[string]any{"inscription_id": id}); err != nil {
		slog.Error("failed to log inscription event", "error", err)
	}
	flashSuccess(w, r, h.renderer, redirectAdminInscriptions, i18n.T(lang, "admin.deleted"))
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lagrandiose/grandiose/internal/i18n"
	"github.com/lagrandiose/grandiose/internal/imaging"
	"github.com/lagrandiose/grandiose/internal/middleware"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/render"
	"github.com/lagrandiose/grandiose/internal/service"
)

// cycleFormData is the cycle form view model.
type cycleFormData struct {
	Action       string
	AgeRange     string
	Duration     string
	Position     int64
	Photo        string
	Translations map[string]model.CycleTranslation
}

// Cycles handles GET /admin/cycles.
func (h *AdminHandler) Cycles(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	cycles, err := h.content.ListCycles(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list cycles", "error", err)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, "admin/cycles", render.TemplateData{
		Title:       i18n.T(lang, "admin.cycles"),
		Breadcrumbs: crumbs(lang, i18n.T(lang, "admin.cycles"), redirectAdminCycles),
		Data:        listData[service.CycleView]{Items: service.ResolveCycles(cycles, lang, false)},
	})
}

// NewCycle handles GET /admin/cycles/new.
func (h *AdminHandler) NewCycle(w http.ResponseWriter, r *http.Request) {
	h.renderCycleForm(w, r, http.StatusOK, "admin.new_cycle", cycleFormData{Action: redirectAdminCycles}, nil)
}

// CreateCycle handles POST /admin/cycles.
func (h *AdminHandler) CreateCycle(w http.ResponseWriter, r *http.Request) {
	h.saveCycle(w, r, 0, model.Cycle{})
}

// EditCycle handles GET /admin/cycles/{id}.
func (h *AdminHandler) EditCycle(w http.ResponseWriter, r *http.Request) {
	cycle, id, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminCycles, "cycle", h.content.GetCycle)
	if !ok {
		return
	}
	h.renderCycleForm(w, r, http.StatusOK, "admin.edit_cycle", cycleFormData{
		Action:       fmt.Sprintf(redirectAdminCyclesID, id),
		AgeRange:     cycle.AgeRange,
		Duration:     cycle.Duration,
		Position:     cycle.Position,
		Photo:        cycle.Photo,
		Translations: byLocale(cycle.Translations),
	}, nil)
}

// UpdateCycle handles POST /admin/cycles/{id}.
func (h *AdminHandler) UpdateCycle(w http.ResponseWriter, r *http.Request) {
	cycle, _, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminCycles, "cycle", h.content.GetCycle)
	if !ok {
		return
	}
	h.saveCycle(w, r, cycle.ID, cycle)
}

// DeleteCycle handles POST /admin/cycles/{id}/delete.
func (h *AdminHandler) DeleteCycle(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	cycle, id, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminCycles, "cycle", h.content.GetCycle)
	if !ok {
		return
	}
	if err := h.content.DeleteCycle(r.Context(), id); err != nil {
		logAndInternalError(w, "failed to delete cycle", "error", err, "cycle_id", id)
		return
	}
	imageChange{images: h.images, old: cycle.Photo}.commit()
	h.logContent(r, "Cycle deleted", map[string]any{"cycle_id": id})
	flashSuccess(w, r, h.renderer, redirectAdminCycles, i18n.T(lang, "admin.deleted"))
}

// cycleFromForm reads the posted cycle fields.
func cycleFromForm(r *http.Request) (service.CycleInput, bool) {
	position, ok := formInt64(r, "position")
	names := formLocaleValues(r, "name")
	descriptions := formLocaleValues(r, "description")
	details := formLocaleValues(r, "more_details")

	in := service.CycleInput{
		Duration: r.FormValue("duration"),
		AgeRange: r.FormValue("age_range"),
		Position: position,
	}
	for _, code := range model.SupportedLocales {
		in.Translations = append(in.Translations, model.CycleTranslation{
			Locale:      code,
			Name:        names[code],
			Description: descriptions[code],
			MoreDetails: details[code],
		})
	}
	return in, ok
}

func (h *AdminHandler) saveCycle(w http.ResponseWriter, r *http.Request, id int64, current model.Cycle) {
	lang := middleware.GetLang(r)
	action := redirectAdminCycles
	titleKey := "admin.new_cycle"
	if id > 0 {
		action = fmt.Sprintf(redirectAdminCyclesID, id)
		titleKey = "admin.edit_cycle"
	}

	if err := parseEntityForm(w, r); err != nil {
		flashError(w, r, h.renderer, action, i18n.T(lang, "auth.invalid_form_data"))
		return
	}

	in, positionOK := cycleFromForm(r)
	photo, err := receiveImage(r, h.images, "photo", imaging.KindCycle, current.Photo)
	errs := validationFields(err)
	if err != nil && errs == nil {
		logAndInternalError(w, "failed to store cycle photo", "error", err)
		return
	}
	if !positionOK {
		errs = addFieldError(errs, "position", "validation.number")
	}

	if errs == nil {
		in.Photo = photo.URL
		saved, err := h.content.SaveCycle(r.Context(), id, in)
		if err == nil {
			photo.commit()
			h.logContent(r, "Cycle saved", map[string]any{"cycle_id": saved.ID})
			flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectAdminCyclesID, saved.ID), i18n.T(lang, "admin.saved"))
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			photo.rollback()
			flashError(w, r, h.renderer, redirectAdminCycles, i18n.T(lang, "admin.not_found"))
			return
		}
		if errs = validationFields(err); errs == nil {
			photo.rollback()
			logAndInternalError(w, "failed to save cycle", "error", err, "cycle_id", id)
			return
		}
	}
	photo.rollback()

	h.renderCycleForm(w, r, http.StatusUnprocessableEntity, titleKey, cycleFormData{
		Action:       action,
		AgeRange:     in.AgeRange,
		Duration:     in.Duration,
		Position:     in.Position,
		Photo:        current.Photo,
		Translations: byLocale(in.Translations),
	}, errs)
}

func (h *AdminHandler) renderCycleForm(w http.ResponseWriter, r *http.Request, status int, titleKey string, data cycleFormData, errs map[string]string) {
	lang := middleware.GetLang(r)
	title := i18n.T(lang, titleKey)
	renderPage(w, r, h.renderer, status, "admin/cycle_form", render.TemplateData{
		Title:       title,
		Breadcrumbs: crumbs(lang, i18n.T(lang, "admin.cycles"), redirectAdminCycles, title, data.Action),
		Errors:      errs,
		Data:        data,
	})
}

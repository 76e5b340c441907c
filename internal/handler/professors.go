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

// professorFormData is the professor form view model.
type professorFormData struct {
	Action       string
	Position     int64
	Photo        string
	Translations map[string]model.ProfessorTranslation
}

// Professors handles GET /admin/professors.
func (h *AdminHandler) Professors(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	professors, err := h.content.ListProfessors(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list professors", "error", err)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, "admin/professors", render.TemplateData{
		Title:       i18n.T(lang, "admin.professors"),
		Breadcrumbs: crumbs(lang, i18n.T(lang, "admin.professors"), redirectAdminProfessors),
		Data:        listData[service.ProfessorView]{Items: service.ResolveProfessors(professors, lang, false)},
	})
}

// NewProfessor handles GET /admin/professors/new.
func (h *AdminHandler) NewProfessor(w http.ResponseWriter, r *http.Request) {
	h.renderProfessorForm(w, r, http.StatusOK, "admin.new_professor", professorFormData{Action: redirectAdminProfessors}, nil)
}

// CreateProfessor handles POST /admin/professors.
func (h *AdminHandler) CreateProfessor(w http.ResponseWriter, r *http.Request) {
	h.saveProfessor(w, r, 0, model.Professor{})
}

// EditProfessor handles GET /admin/professors/{id}.
func (h *AdminHandler) EditProfessor(w http.ResponseWriter, r *http.Request) {
	p, id, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminProfessors, "professor", h.content.GetProfessor)
	if !ok {
		return
	}
	h.renderProfessorForm(w, r, http.StatusOK, "admin.edit_professor", professorFormData{
		Action:       fmt.Sprintf(redirectAdminProfessorsID, id),
		Position:     p.Position,
		Photo:        p.Photo,
		Translations: byLocale(p.Translations),
	}, nil)
}

// UpdateProfessor handles POST /admin/professors/{id}.
func (h *AdminHandler) UpdateProfessor(w http.ResponseWriter, r *http.Request) {
	p, _, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminProfessors, "professor", h.content.GetProfessor)
	if !ok {
		return
	}
	h.saveProfessor(w, r, p.ID, p)
}

// DeleteProfessor handles POST /admin/professors/{id}/delete.
func (h *AdminHandler) DeleteProfessor(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	p, id, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminProfessors, "professor", h.content.GetProfessor)
	if !ok {
		return
	}
	if err := h.content.DeleteProfessor(r.Context(), id); err != nil {
		logAndInternalError(w, "failed to delete professor", "error", err, "professor_id", id)
		return
	}
	imageChange{images: h.images, old: p.Photo}.commit()
	h.logContent(r, "Professor deleted", map[string]any{"professor_id": id})
	flashSuccess(w, r, h.renderer, redirectAdminProfessors, i18n.T(lang, "admin.deleted"))
}

// professorFromForm reads the posted professor fields.
func professorFromForm(r *http.Request) (service.ProfessorInput, bool) {
	position, ok := formInt64(r, "position")
	names := formLocaleValues(r, "name")
	materials := formLocaleValues(r, "study_material")
	descriptions := formLocaleValues(r, "description")

	in := service.ProfessorInput{Position: position}
	for _, code := range model.SupportedLocales {
		in.Translations = append(in.Translations, model.ProfessorTranslation{
			Locale:        code,
			Name:          names[code],
			StudyMaterial: materials[code],
			Description:   descriptions[code],
		})
	}
	return in, ok
}

func (h *AdminHandler) saveProfessor(w http.ResponseWriter, r *http.Request, id int64, current model.Professor) {
	lang := middleware.GetLang(r)
	action := redirectAdminProfessors
	titleKey := "admin.new_professor"
	if id > 0 {
		action = fmt.Sprintf(redirectAdminProfessorsID, id)
		titleKey = "admin.edit_professor"
	}

	if err := parseEntityForm(w, r); err != nil {
		flashError(w, r, h.renderer, action, i18n.T(lang, "auth.invalid_form_data"))
		return
	}

	in, positionOK := professorFromForm(r)
	photo, err := receiveImage(r, h.images, "photo", imaging.KindProfessor, current.Photo)
	errs := validationFields(err)
	if err != nil && errs == nil {
		logAndInternalError(w, "failed to store professor photo", "error", err)
		return
	}
	if !positionOK {
		errs = addFieldError(errs, "position", "validation.number")
	}

	if errs == nil {
		in.Photo = photo.URL
		saved, err := h.content.SaveProfessor(r.Context(), id, in)
		if err == nil {
			photo.commit()
			h.logContent(r, "Professor saved", map[string]any{"professor_id": saved.ID})
			flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectAdminProfessorsID, saved.ID), i18n.T(lang, "admin.saved"))
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			photo.rollback()
			flashError(w, r, h.renderer, redirectAdminProfessors, i18n.T(lang, "admin.not_found"))
			return
		}
		if errs = validationFields(err); errs == nil {
			photo.rollback()
			logAndInternalError(w, "failed to save professor", "error", err, "professor_id", id)
			return
		}
	}
	photo.rollback()

	h.renderProfessorForm(w, r, http.StatusUnprocessableEntity, titleKey, professorFormData{
		Action:       action,
		Position:     in.Position,
		Photo:        current.Photo,
		Translations: byLocale(in.Translations),
	}, errs)
}

func (h *AdminHandler) renderProfessorForm(w http.ResponseWriter, r *http.Request, status int, titleKey string, data professorFormData, errs map[string]string) {
	lang := middleware.GetLang(r)
	title := i18n.T(lang, titleKey)
	renderPage(w, r, h.renderer, status, "admin/professor_form", render.TemplateData{
		Title:       title,
		Breadcrumbs: crumbs(lang, i18n.T(lang, "admin.professors"), redirectAdminProfessors, title, data.Action),
		Errors:      errs,
		Data:        data,
	})
}

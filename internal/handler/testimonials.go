// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lagrandiose/grandiose/internal/i18n"
	"github.com/lagrandiose/grandiose/internal/middleware"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/render"
	"github.com/lagrandiose/grandiose/internal/service"
)

// testimonialFormData is the testimonial form view model.
type testimonialFormData struct {
	Action       string
	Emoticon     string
	IsStudent    bool
	Translations map[string]model.TestimonialTranslation
}

// Testimonials handles GET /admin/testimonials.
func (h *AdminHandler) Testimonials(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	items, err := h.content.ListTestimonials(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list testimonials", "error", err)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, "admin/testimonials", render.TemplateData{
		Title:       i18n.T(lang, "admin.testimonials"),
		Breadcrumbs: crumbs(lang, i18n.T(lang, "admin.testimonials"), redirectAdminTestimonials),
		Data:        listData[service.TestimonialView]{Items: service.ResolveTestimonials(items, lang, false)},
	})
}

// NewTestimonial handles GET /admin/testimonials/new.
func (h *AdminHandler) NewTestimonial(w http.ResponseWriter, r *http.Request) {
	h.renderTestimonialForm(w, r, http.StatusOK, "admin.new_testimonial", testimonialFormData{Action: redirectAdminTestimonials}, nil)
}

// CreateTestimonial handles POST /admin/testimonials.
func (h *AdminHandler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	h.saveTestimonial(w, r, 0)
}

// EditTestimonial handles GET /admin/testimonials/{id}.
func (h *AdminHandler) EditTestimonial(w http.ResponseWriter, r *http.Request) {
	t, id, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminTestimonials, "testimonial", h.content.GetTestimonial)
	if !ok {
		return
	}
	h.renderTestimonialForm(w, r, http.StatusOK, "admin.edit_testimonial", testimonialFormData{
		Action:       fmt.Sprintf(redirectAdminTestimonialsID, id),
		Emoticon:     t.Emoticon,
		IsStudent:    t.IsStudent,
		Translations: byLocale(t.Translations),
	}, nil)
}

// UpdateTestimonial handles POST /admin/testimonials/{id}.
func (h *AdminHandler) UpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	_, id, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminTestimonials, "testimonial", h.content.GetTestimonial)
	if !ok {
		return
	}
	h.saveTestimonial(w, r, id)
}

// DeleteTestimonial handles POST /admin/testimonials/{id}/delete.
func (h *AdminHandler) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminTestimonials, i18n.T(lang, "admin.not_found"))
		return
	}
	err := h.content.DeleteTestimonial(r.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		flashError(w, r, h.renderer, redirectAdminTestimonials, i18n.T(lang, "admin.not_found"))
		return
	}
	if err != nil {
		logAndInternalError(w, "failed to delete testimonial", "error", err, "testimonial_id", id)
		return
	}
	h.logContent(r, "Testimonial deleted", map[string]any{"testimonial_id": id})
	flashSuccess(w, r, h.renderer, redirectAdminTestimonials, i18n.T(lang, "admin.deleted"))
}

// testimonialFromForm reads the posted testimonial fields.
func testimonialFromForm(r *http.Request) service.TestimonialInput {
	names := formLocaleValues(r, "name")
	descriptions := formLocaleValues(r, "description")

	in := service.TestimonialInput{
		Emoticon:  r.FormValue("emoticon"),
		IsStudent: r.FormValue("is_student") != "",
	}
	for _, code := range model.SupportedLocales {
		in.Translations = append(in.Translations, model.TestimonialTranslation{
			Locale:      code,
			Name:        names[code],
			Description: descriptions[code],
		})
	}
	return in
}

func (h *AdminHandler) saveTestimonial(w http.ResponseWriter, r *http.Request, id int64) {
	lang := middleware.GetLang(r)
	action := redirectAdminTestimonials
	titleKey := "admin.new_testimonial"
	if id > 0 {
		action = fmt.Sprintf(redirectAdminTestimonialsID, id)
		titleKey = "admin.edit_testimonial"
	}

	if err := parseEntityForm(w, r); err != nil {
		flashError(w, r, h.renderer, action, i18n.T(lang, "auth.invalid_form_data"))
		return
	}

	in := testimonialFromForm(r)
	saved, err := h.content.SaveTestimonial(r.Context(), id, in)
	if err == nil {
		h.logContent(r, "Testimonial saved", map[string]any{"testimonial_id": saved.ID})
		flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectAdminTestimonialsID, saved.ID), i18n.T(lang, "admin.saved"))
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		flashError(w, r, h.renderer, redirectAdminTestimonials, i18n.T(lang, "admin.not_found"))
		return
	}
	errs := validationFields(err)
	if errs == nil {
		logAndInternalError(w, "failed to save testimonial", "error", err, "testimonial_id", id)
		return
	}

	h.renderTestimonialForm(w, r, http.StatusUnprocessableEntity, titleKey, testimonialFormData{
		Action:       action,
		Emoticon:     in.Emoticon,
		IsStudent:    in.IsStudent,
		Translations: byLocale(in.Translations),
	}, errs)
}

func (h *AdminHandler) renderTestimonialForm(w http.ResponseWriter, r *http.Request, status int, titleKey string, data testimonialFormData, errs map[string]string) {
	lang := middleware.GetLang(r)
	title := i18n.T(lang, titleKey)
	renderPage(w, r, h.renderer, status, "admin/testimonial_form", render.TemplateData{
		Title:       title,
		Breadcrumbs: crumbs(lang, i18n.T(lang, "admin.testimonials"), redirectAdminTestimonials, title, data.Action),
		Errors:      errs,
		Data:        data,
	})
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lagrandiose/grandiose/internal/i18n"
	"github.com/lagrandiose/grandiose/internal/middleware"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/render"
	"github.com/lagrandiose/grandiose/internal/service"
)

// categoryFormData is the category form view model.
type categoryFormData struct {
	Action       string
	ID           int64
	Slug         string
	PostCount    int64
	Translations map[string]model.CategoryTranslation
}

// Categories handles GET /admin/categories.
func (h *AdminHandler) Categories(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	categories, err := h.blogs.ListCategories(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list categories", "error", err)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, "admin/categories", render.TemplateData{
		Title:       i18n.T(lang, "admin.categories"),
		Breadcrumbs: crumbs(lang, i18n.T(lang, "admin.categories"), redirectAdminCategories),
		Data:        listData[service.CategoryView]{Items: service.ResolveCategories(categories, lang, false)},
	})
}

// NewCategory handles GET /admin/categories/new.
func (h *AdminHandler) NewCategory(w http.ResponseWriter, r *http.Request) {
	h.renderCategoryForm(w, r, http.StatusOK, "admin.new_category", categoryFormData{Action: redirectAdminCategories}, nil)
}

// CreateCategory handles POST /admin/categories.
func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	h.saveCategory(w, r, 0)
}

// EditCategory handles GET /admin/categories/{id}.
func (h *AdminHandler) EditCategory(w http.ResponseWriter, r *http.Request) {
	c, id, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminCategories, "category", h.blogs.GetCategory)
	if !ok {
		return
	}
	h.renderCategoryForm(w, r, http.StatusOK, "admin.edit_category", categoryFormData{
		Action:       fmt.Sprintf(redirectAdminCategoriesID, id),
		ID:           id,
		Slug:         c.Slug,
		Translations: byLocale(c.Translations),
	}, nil)
}

// UpdateCategory handles POST /admin/categories/{id}.
func (h *AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	_, id, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminCategories, "category", h.blogs.GetCategory)
	if !ok {
		return
	}
	h.saveCategory(w, r, id)
}

// DeleteCategory handles POST /admin/categories/{id}/delete. Posts of the
// category are kept without one.
func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminCategories, i18n.T(lang, "admin.not_found"))
		return
	}
	err := h.blogs.DeleteCategory(r.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		flashError(w, r, h.renderer, redirectAdminCategories, i18n.T(lang, "admin.not_found"))
		return
	}
	if err != nil {
		logAndInternalError(w, "failed to delete category", "error", err, "category_id", id)
		return
	}
	h.logContent(r, "Category deleted", map[string]any{"category_id": id})
	flashSuccess(w, r, h.renderer, redirectAdminCategories, i18n.T(lang, "admin.deleted"))
}

// categoryFromForm reads the posted category fields.
func categoryFromForm(r *http.Request) service.CategoryInput {
	names := formLocaleValues(r, "name")
	in := service.CategoryInput{Slug: strings.TrimSpace(r.FormValue("slug"))}
	for _, code := range model.SupportedLocales {
		in.Translations = append(in.Translations, model.CategoryTranslation{Locale: code, Name: names[code]})
	}
	return in
}

func (h *AdminHandler) saveCategory(w http.ResponseWriter, r *http.Request, id int64) {
	lang := middleware.GetLang(r)
	action := redirectAdminCategories
	titleKey := "admin.new_category"
	if id > 0 {
		action = fmt.Sprintf(redirectAdminCategoriesID, id)
		titleKey = "admin.edit_category"
	}

	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, action, i18n.T(lang, "auth.invalid_form_data"))
		return
	}

	in := categoryFromForm(r)
	saved, err := h.blogs.SaveCategory(r.Context(), id, in)
	if err == nil {
		h.logContent(r, "Category saved", map[string]any{"category_id": saved.ID, "slug": saved.Slug})
		flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectAdminCategoriesID, saved.ID), i18n.T(lang, "admin.saved"))
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		flashError(w, r, h.renderer, redirectAdminCategories, i18n.T(lang, "admin.not_found"))
		return
	}
	errs := validationFields(err)
	if errs == nil {
		logAndInternalError(w, "failed to save category", "error", err, "category_id", id)
		return
	}

	h.renderCategoryForm(w, r, http.StatusUnprocessableEntity, titleKey, categoryFormData{
		Action:       action,
		ID:           id,
		Slug:         in.Slug,
		Translations: byLocale(in.Translations),
	}, errs)
}

func (h *AdminHandler) renderCategoryForm(w http.ResponseWriter, r *http.Request, status int, titleKey string, data categoryFormData, errs map[string]string) {
	lang := middleware.GetLang(r)
	if data.ID > 0 {
		n, err := h.blogs.CountBlogsInCategory(r.Context(), data.ID)
		if err != nil {
			slog.Warn("failed to count category posts", "error", err, "category_id", data.ID)
		}
		data.PostCount = n
	}

	title := i18n.T(lang, titleKey)
	renderPage(w, r, h.renderer, status, "admin/category_form", render.TemplateData{
		Title:       title,
		Breadcrumbs: crumbs(lang, i18n.T(lang, "admin.categories"), redirectAdminCategories, title, data.Action),
		Errors:      errs,
		Data:        data,
	})
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lagrandiose/grandiose/internal/i18n"
	"github.com/lagrandiose/grandiose/internal/imaging"
	"github.com/lagrandiose/grandiose/internal/middleware"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/render"
	"github.com/lagrandiose/grandiose/internal/service"
	"github.com/lagrandiose/grandiose/internal/uikit"
)

// blogsListData is the admin post listing view model.
type blogsListData struct {
	Items      []service.BlogSummary
	Pagination uikit.Pagination
}

// blogFormData is the post form view model.
type blogFormData struct {
	Action       string
	Slug         string
	CategoryID   *int64
	Categories   []service.CategoryView
	Image        string
	Translations map[string]model.BlogTranslation
}

// Blogs handles GET /admin/blogs.
func (h *AdminHandler) Blogs(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	page, err := h.blogs.Search(r.Context(), service.BlogFilter{
		Locale:  lang,
		Page:    uikit.ParsePageParam(r),
		PerPage: AdminPerPage,
	})
	if err != nil {
		logAndInternalError(w, "failed to list posts", "error", err)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, "admin/blogs", render.TemplateData{
		Title:       i18n.T(lang, "admin.blogs"),
		Breadcrumbs: crumbs(lang, i18n.T(lang, "admin.blogs"), redirectAdminBlogs),
		Data: blogsListData{
			Items:      page.Items,
			Pagination: uikit.BuildPagination(page.Page, page.TotalPages, page.Total, redirectAdminBlogs, r.URL.Query()),
		},
	})
}

// NewBlog handles GET /admin/blogs/new.
func (h *AdminHandler) NewBlog(w http.ResponseWriter, r *http.Request) {
	data := blogFormData{
		Action:     redirectAdminBlogs,
		CategoryID: formOptionalID(r, "category"),
	}
	h.renderBlogForm(w, r, http.StatusOK, "admin.new_blog", data, nil)
}

// CreateBlog handles POST /admin/blogs.
func (h *AdminHandler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	h.saveBlog(w, r, 0, model.Blog{})
}

// EditBlog handles GET /admin/blogs/{id}.
func (h *AdminHandler) EditBlog(w http.ResponseWriter, r *http.Request) {
	blog, id, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminBlogs, "blog", h.blogs.GetBlog)
	if !ok {
		return
	}
	h.renderBlogForm(w, r, http.StatusOK, "admin.edit_blog", blogFormData{
		Action:       fmt.Sprintf(redirectAdminBlogsID, id),
		Slug:         blog.Slug,
		CategoryID:   blog.CategoryID,
		Image:        blog.Image,
		Translations: byLocale(blog.Translations),
	}, nil)
}

// UpdateBlog handles POST /admin/blogs/{id}.
func (h *AdminHandler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	blog, _, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminBlogs, "blog", h.blogs.GetBlog)
	if !ok {
		return
	}
	h.saveBlog(w, r, blog.ID, blog)
}

// DeleteBlog handles POST /admin/blogs/{id}/delete.
func (h *AdminHandler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	blog, id, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminBlogs, "blog", h.blogs.GetBlog)
	if !ok {
		return
	}
	if err := h.blogs.DeleteBlog(r.Context(), id); err != nil {
		logAndInternalError(w, "failed to delete post", "error", err, "blog_id", id)
		return
	}
	imageChange{images: h.images, old: blog.Image}.commit()
	h.logContent(r, "Blog post deleted", map[string]any{"blog_id": id, "slug": blog.Slug})
	flashSuccess(w, r, h.renderer, redirectAdminBlogs, i18n.T(lang, "admin.deleted"))
}

// blogFromForm reads the posted post fields.
func blogFromForm(r *http.Request) service.BlogInput {
	titles := formLocaleValues(r, "title")
	contents := formLocaleValues(r, "content")

	in := service.BlogInput{
		Slug:       strings.TrimSpace(r.FormValue("slug")),
		CategoryID: formOptionalID(r, "category_id"),
	}
	for _, code := range model.SupportedLocales {
		in.Translations = append(in.Translations, model.BlogTranslation{
			Locale:  code,
			Title:   titles[code],
			Content: contents[code],
		})
	}
	return in
}

func (h *AdminHandler) saveBlog(w http.ResponseWriter, r *http.Request, id int64, current model.Blog) {
	lang := middleware.GetLang(r)
	action := redirectAdminBlogs
	titleKey := "admin.new_blog"
	if id > 0 {
		action = fmt.Sprintf(redirectAdminBlogsID, id)
		titleKey = "admin.edit_blog"
	}

	if err := parseEntityForm(w, r); err != nil {
		flashError(w, r, h.renderer, action, i18n.T(lang, "auth.invalid_form_data"))
		return
	}

	in := blogFromForm(r)
	image, err := receiveImage(r, h.images, "image", imaging.KindBlog, current.Image)
	errs := validationFields(err)
	if err != nil && errs == nil {
		logAndInternalError(w, "failed to store post image", "error", err)
		return
	}

	if errs == nil {
		in.Image = image.URL
		saved, err := h.blogs.SaveBlog(r.Context(), id, in)
		if err == nil {
			image.commit()
			h.logContent(r, "Blog post saved", map[string]any{"blog_id": saved.ID, "slug": saved.Slug})
			flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectAdminBlogsID, saved.ID), i18n.T(lang, "admin.saved"))
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			image.rollback()
			flashError(w, r, h.renderer, redirectAdminBlogs, i18n.T(lang, "admin.not_found"))
			return
		}
		if errs = validationFields(err); errs == nil {
			image.rollback()
			logAndInternalError(w, "failed to save post", "error", err, "blog_id", id)
			return
		}
	}
	image.rollback()

	h.renderBlogForm(w, r, http.StatusUnprocessableEntity, titleKey, blogFormData{
		Action:       action,
		Slug:         in.Slug,
		CategoryID:   in.CategoryID,
		Image:        current.Image,
		Translations: byLocale(in.Translations),
	}, errs)
}

func (h *AdminHandler) renderBlogForm(w http.ResponseWriter, r *http.Request, status int, titleKey string, data blogFormData, errs map[string]string) {
	lang := middleware.GetLang(r)
	categories, err := h.blogs.ListCategories(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list categories", "error", err)
		return
	}
	data.Categories = service.ResolveCategories(categories, lang, false)

	title := i18n.T(lang, titleKey)
	renderPage(w, r, h.renderer, status, "admin/blog_form", render.TemplateData{
		Title:       title,
		Breadcrumbs: crumbs(lang, i18n.T(lang, "admin.blogs"), redirectAdminBlogs, title, data.Action),
		Errors:      errs,
		Data:        data,
	})
}

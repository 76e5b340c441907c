// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/service"
	"github.com/lagrandiose/grandiose/internal/uikit"
)

// BlogAPIResponse is a single post in API responses.
type BlogAPIResponse struct {
	service.BlogPost
	Translations []model.BlogTranslation `json:"translations,omitempty"`
}

// ListBlogs handles GET /api/v1/blogs
// Query: category, from, to, q, page, per_page, lang.
func (h *Handler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	lang := requestLang(r)
	q := r.URL.Query()

	res, err := h.blogs.Search(r.Context(), service.BlogFilter{
		Locale:       lang,
		CategorySlug: q.Get("category"),
		From:         q.Get("from"),
		To:           q.Get("to"),
		Query:        q.Get("q"),
		Page:         uikit.ParsePageParam(r),
		PerPage:      uikit.ParsePerPageParam(r, service.DefaultBlogsPerPage, service.MaxBlogsPerPage),
	})
	if err != nil {
		if ve, ok := service.AsValidationError(err); ok {
			WriteBadRequest(w, "Invalid filter", translateFields(lang, ve.Fields))
			return
		}
		WriteInternalError(w, "Failed to list posts")
		return
	}

	WriteSuccess(w, res.Items, &Meta{
		Locale:  lang,
		Total:   res.Total,
		Page:    res.Page,
		PerPage: res.PerPage,
		Pages:   res.TotalPages,
	})
}

// GetBlog handles GET /api/v1/blogs/{slug}
func (h *Handler) GetBlog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := requestLang(r)

	post, err := h.blogs.GetBySlug(ctx, chi.URLParam(r, "slug"), lang)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			WriteNotFound(w, "Post not found")
			return
		}
		WriteInternalError(w, "Failed to retrieve post")
		return
	}

	resp := BlogAPIResponse{BlogPost: post}
	if wantsAllTranslations(r) {
		blog, err := h.blogs.GetBlog(ctx, post.ID)
		if err != nil {
			WriteInternalError(w, "Failed to retrieve post")
			return
		}
		resp.Translations = blog.Translations
	}
	WriteSuccess(w, resp, localeMeta(lang))
}

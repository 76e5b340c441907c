// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/lagrandiose/grandiose/internal/i18n"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/seo"
	"github.com/lagrandiose/grandiose/internal/service"
)

// SEOHandler serves robots.txt and sitemap.xml.
type SEOHandler struct {
	blogs       *service.BlogService
	siteURL     string
	disallowAll bool
}

// NewSEOHandler creates an SEOHandler. An empty siteURL is derived from
// each request; disallowAll blocks every crawler.
func NewSEOHandler(blogs *service.BlogService, siteURL string, disallowAll bool) *SEOHandler {
	return &SEOHandler{
		blogs:       blogs,
		siteURL:     strings.TrimSuffix(siteURL, "/"),
		disallowAll: disallowAll,
	}
}

func (h *SEOHandler) baseURL(r *http.Request) string {
	if h.siteURL != "" {
		return h.siteURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	content := seo.NewRobotsBuilder(seo.RobotsConfig{
		SiteURL:     h.baseURL(r),
		DisallowAll: h.disallowAll,
	}).Build()

	w.Header().Set(HeaderContentType, "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(content))
}

// Sitemap handles GET /sitemap.xml.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	b := seo.NewSitemapBuilder(h.baseURL(r), model.SupportedLocales, i18n.DefaultLanguage())
	b.Add(RouteRoot, time.Time{}, seo.ChangeFreqDaily, "1.0")
	b.Add(RouteBlog, time.Time{}, seo.ChangeFreqDaily, "0.8")
	b.Add(RouteInscription, time.Time{}, seo.ChangeFreqMonthly, "0.8")

	for page := 1; ; page++ {
		res, err := h.blogs.Search(r.Context(), service.BlogFilter{Page: page, PerPage: service.MaxBlogsPerPage})
		if err != nil {
			logAndInternalError(w, "failed to list posts for sitemap", "error", err)
			return
		}
		for _, post := range res.Items {
			b.Add(RouteBlog+"/"+post.Slug, post.CreatedAt, seo.ChangeFreqWeekly, "0.6")
		}
		if !res.HasNext() {
			break
		}
	}

	out, err := b.Build()
	if err != nil {
		logAndInternalError(w, "failed to build sitemap", "error", err)
		return
	}
	w.Header().Set(HeaderContentType, "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lagrandiose/grandiose/internal/i18n"
	"github.com/lagrandiose/grandiose/internal/middleware"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/render"
	"github.com/lagrandiose/grandiose/internal/service"
	"github.com/lagrandiose/grandiose/internal/uikit"
	"github.com/lagrandiose/grandiose/internal/util"
)

// LatestPostsOnLanding is the number of posts shown on the landing page.
const LatestPostsOnLanding = 3

// hCaptchaResponseField is the form field the hCaptcha widget fills in.
const hCaptchaResponseField = "h-captcha-response"

// FrontendHandler serves the public site.
type FrontendHandler struct {
	renderer     *render.Renderer
	content      *service.ContentService
	blogs        *service.BlogService
	inscriptions *service.InscriptionService
}

// NewFrontendHandler creates a FrontendHandler.
func NewFrontendHandler(renderer *render.Renderer, content *service.ContentService, blogs *service.BlogService, inscriptions *service.InscriptionService) *FrontendHandler {
	return &FrontendHandler{
		renderer:     renderer,
		content:      content,
		blogs:        blogs,
		inscriptions: inscriptions,
	}
}

// landingData is the landing page view model.
type landingData struct {
	SchoolYear   model.SchoolYear
	Cycles       []service.CycleView
	Testimonials []service.TestimonialView
	Professors   []service.ProfessorView
	Posts        []service.BlogSummary
}

// currentSchoolYear returns the current year or the zero value when unset.
func currentSchoolYear(r *http.Request, content *service.ContentService) model.SchoolYear {
	y, err := content.CurrentSchoolYear(r.Context())
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		slog.Error("failed to load school year", "error", err)
	}
	return y
}

// Landing handles GET /.
func (h *FrontendHandler) Landing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := middleware.GetLang(r)

	cycles, err := h.content.ListCycles(ctx)
	if err != nil {
		logAndInternalError(w, "failed to list cycles", "error", err)
		return
	}
	testimonials, err := h.content.ListTestimonials(ctx)
	if err != nil {
		logAndInternalError(w, "failed to list testimonials", "error", err)
		return
	}
	professors, err := h.content.ListProfessors(ctx)
	if err != nil {
		logAndInternalError(w, "failed to list professors", "error", err)
		return
	}
	posts, err := h.blogs.Latest(ctx, lang, LatestPostsOnLanding)
	if err != nil {
		logAndInternalError(w, "failed to list latest posts", "error", err)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, tmplLanding, render.TemplateData{
		Description: i18n.T(lang, "landing.tagline"),
		Data: landingData{
			SchoolYear:   currentSchoolYear(r, h.content),
			Cycles:       service.ResolveCycles(cycles, lang, false),
			Testimonials: service.ResolveTestimonials(testimonials, lang, false),
			Professors:   service.ResolveProfessors(professors, lang, false),
			Posts:        posts,
		},
	})
}

// blogListData is the blog listing view model.
type blogListData struct {
	Posts      []service.BlogSummary
	Categories []service.CategoryView
	Filter     service.BlogFilter
	Pagination uikit.Pagination
}

// Blog handles GET /blog with category, date range and text filters.
func (h *FrontendHandler) Blog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := middleware.GetLang(r)
	q := r.URL.Query()

	filter := service.BlogFilter{
		Locale:       lang,
		CategorySlug: q.Get("category"),
		From:         q.Get("from"),
		To:           q.Get("to"),
		Query:        q.Get("q"),
		Page:         uikit.ParsePageParam(r),
	}

	categories, err := h.blogs.ListCategories(ctx)
	if err != nil {
		logAndInternalError(w, "failed to list categories", "error", err)
		return
	}

	data := blogListData{
		Categories: service.ResolveCategories(categories, lang, false),
		Filter:     filter,
	}
	td := render.TemplateData{Title: i18n.T(lang, "blog.title"), Data: &data}

	page, err := h.blogs.Search(ctx, filter)
	if err != nil {
		fields := validationFields(err)
		if fields == nil {
			logAndInternalError(w, "failed to search posts", "error", err)
			return
		}
		td.Errors = fields
		renderPage(w, r, h.renderer, http.StatusBadRequest, tmplBlog, td)
		return
	}

	data.Posts = page.Items
	data.Pagination = uikit.BuildPagination(page.Page, page.TotalPages, page.Total, r.URL.Path, q)
	renderPage(w, r, h.renderer, http.StatusOK, tmplBlog, td)
}

// Post handles GET /blog/{slug}.
func (h *FrontendHandler) Post(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	post, err := h.blogs.GetBySlug(r.Context(), chi.URLParam(r, "slug"), lang)
	if errors.Is(err, service.ErrNotFound) {
		h.NotFound(w, r)
		return
	}
	if err != nil {
		logAndInternalError(w, "failed to load post", "error", err)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, tmplPost, render.TemplateData{
		Title:       post.Title,
		Description: post.Excerpt,
		Data:        post,
	})
}

// inscriptionData is the enrollment form view model.
type inscriptionData struct {
	SchoolYear model.SchoolYear
	Cycles     []service.CycleView
	Form       service.InscriptionRequest
}

// InscriptionForm handles GET /inscription. ?cycle= preselects a cycle.
func (h *FrontendHandler) InscriptionForm(w http.ResponseWriter, r *http.Request) {
	form := service.InscriptionRequest{
		CycleID: util.PtrFromNullInt64(util.ParseNullInt64Positive(r.URL.Query().Get("cycle"))),
	}
	h.renderInscription(w, r, http.StatusOK, form, nil)
}

// SubmitInscription handles POST /inscription.
func (h *FrontendHandler) SubmitInscription(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)

	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, RouteInscription, i18n.T(lang, "auth.invalid_form_data"))
		return
	}

	req := service.InscriptionRequest{
		StudentName:     r.PostFormValue("student_name"),
		BirthDate:       r.PostFormValue("birth_date"),
		CycleID:         formOptionalID(r, "cycle_id"),
		ParentName:      r.PostFormValue("parent_name"),
		Email:           r.PostFormValue("email"),
		Phone:           r.PostFormValue("phone"),
		Message:         r.PostFormValue("message"),
		Locale:          lang,
		CaptchaResponse: r.PostFormValue(hCaptchaResponseField),
	}

	_, err := h.inscriptions.Submit(r.Context(), req, service.SubmitMeta{
		IP:        util.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		fields := validationFields(err)
		if fields == nil {
			logAndInternalError(w, "failed to store inscription", "error", err)
			return
		}
		h.renderInscription(w, r, http.StatusUnprocessableEntity, req, fields)
		return
	}

	flashSuccess(w, r, h.renderer, inscriptionPath(r), i18n.T(lang, "inscription.success"))
}

// TooManyInscriptions answers a throttled POST /inscription.
func (h *FrontendHandler) TooManyInscriptions(w http.ResponseWriter, r *http.Request) {
	slog.Warn("inscription rate limit exceeded", "category", "security", "ip", util.ClientIP(r))
	flashError(w, r, h.renderer, inscriptionPath(r), i18n.T(middleware.GetLang(r), "inscription.rate_limited"))
}

// inscriptionPath keeps the {lang} prefix of the current request.
func inscriptionPath(r *http.Request) string {
	if l := chi.URLParam(r, "lang"); l != "" {
		return "/" + l + RouteInscription
	}
	return RouteInscription
}

func (h *FrontendHandler) renderInscription(w http.ResponseWriter, r *http.Request, status int, form service.InscriptionRequest, errs map[string]string) {
	lang := middleware.GetLang(r)
	cycles, err := h.content.ListCycles(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list cycles", "error", err)
		return
	}

	renderPage(w, r, h.renderer, status, tmplInscription, render.TemplateData{
		Title:  i18n.T(lang, "inscription.title"),
		Errors: errs,
		Data: inscriptionData{
			SchoolYear: currentSchoolYear(r, h.content),
			Cycles:     service.ResolveCycles(cycles, lang, false),
			Form:       form,
		},
	})
}

// NotFound renders the themed 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	renderPage(w, r, h.renderer, http.StatusNotFound, tmplNotFound, render.TemplateData{
		Title: i18n.T(lang, "error.not_found_title"),
	})
}

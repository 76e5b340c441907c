// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"database/sql"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/lagrandiose/grandiose/internal/i18n"
	"github.com/lagrandiose/grandiose/internal/imaging"
	"github.com/lagrandiose/grandiose/internal/middleware"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/render"
	"github.com/lagrandiose/grandiose/internal/service"
	"github.com/lagrandiose/grandiose/internal/session"
	"github.com/lagrandiose/grandiose/internal/store"
	"github.com/lagrandiose/grandiose/internal/testutil"
	"github.com/lagrandiose/grandiose/web"
)

// testEnv wires the handlers over a migrated temp database.
type testEnv struct {
	db           *sql.DB
	sm           *scs.SessionManager
	renderer     *render.Renderer
	content      *service.ContentService
	blogs        *service.BlogService
	events       *service.EventService
	inscriptions *service.InscriptionService
	images       *imaging.Processor

	admin    *AdminHandler
	frontend *FrontendHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if err := i18n.Init(nil); err != nil {
		t.Fatalf("i18n.Init: %v", err)
	}

	db := testutil.TestDB(t)
	sm := session.New(db, true)

	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("fs.Sub: %v", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templates,
		SessionManager: sm,
		Site:           render.Site{Name: "La Grandiose", Email: "contact@lagrandiose.ma", Phone: "+212 5 22 00 00 00"},
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	e := &testEnv{
		db:       db,
		sm:       sm,
		renderer: renderer,
		content:  service.NewContentService(db, nil, 0, nil),
		blogs:    service.NewBlogService(db, nil, 0, nil),
		events:   service.NewEventService(db),
		images:   imaging.NewProcessor(t.TempDir()),
	}
	e.inscriptions = service.NewInscriptionService(db, service.InscriptionDeps{Content: e.content, Events: e.events})
	e.admin = NewAdminHandler(AdminDeps{
		Renderer:     renderer,
		Content:      e.content,
		Blogs:        e.blogs,
		Inscriptions: e.inscriptions,
		Events:       e.events,
		Images:       e.images,
	})
	e.frontend = NewFrontendHandler(renderer, e.content, e.blogs, e.inscriptions)
	return e
}

// serve runs h with a loaded session. user, when non-nil, is placed in the
// request context the way LoadUser does.
func (e *testEnv) serve(h http.HandlerFunc, req *http.Request, user *store.User) *httptest.ResponseRecorder {
	var next http.Handler = h
	if user != nil {
		u := *user
		inner := next
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inner.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUser, u)))
		})
	}
	rec := httptest.NewRecorder()
	e.sm.LoadAndSave(next).ServeHTTP(rec, req)
	return rec
}

// editor creates and returns an editor account.
func (e *testEnv) editor(t *testing.T) *store.User {
	t.Helper()
	u := testutil.CreateUser(t, e.db, "editor@lagrandiose.ma", "editor-password-1", model.RoleEditor)
	return &u
}

// adminUser creates and returns an admin account.
func (e *testEnv) adminUser(t *testing.T) *store.User {
	t.Helper()
	u := testutil.CreateUser(t, e.db, "admin@lagrandiose.ma", "admin-password-1", model.RoleAdmin)
	return &u
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// postForm builds an urlencoded POST request.
func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(HeaderContentType, "application/x-www-form-urlencoded")
	return req
}

// postMultipart builds a multipart POST request with an optional file.
func postMultipart(t *testing.T, target string, form url.Values, fileField string, file []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, vs := range form {
		for _, v := range vs {
			if err := mw.WriteField(k, v); err != nil {
				t.Fatalf("WriteField: %v", err)
			}
		}
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, "upload.png")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := fw.Write(file); err != nil {
			t.Fatalf("writing file part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(HeaderContentType, mw.FormDataContentType())
	return req
}

// mustCycle stores a cycle with the given French name.
func mustCycle(t *testing.T, e *testEnv, fr string) model.Cycle {
	t.Helper()
	c, err := e.content.SaveCycle(context.Background(), 0, service.CycleInput{
		AgeRange:     "3-6",
		Duration:     "3 ans",
		Translations: []model.CycleTranslation{{Locale: model.LocaleFR, Name: fr, Description: fr + " description"}},
	})
	if err != nil {
		t.Fatalf("SaveCycle: %v", err)
	}
	return c
}

// mustBlog stores a post with the given French title.
func mustBlog(t *testing.T, e *testEnv, fr string) model.Blog {
	t.Helper()
	b, err := e.blogs.SaveBlog(context.Background(), 0, service.BlogInput{
		Translations: []model.BlogTranslation{{Locale: model.LocaleFR, Title: fr, Content: "Contenu **important**."}},
	})
	if err != nil {
		t.Fatalf("SaveBlog: %v", err)
	}
	return b
}

// assertStatus checks if the response status code matches the expected value.
func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}

// assertRedirect checks a 303 to want.
func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	assertStatus(t, rec.Code, http.StatusSeeOther)
	if got := rec.Header().Get("Location"); got != want {
		t.Errorf("Location = %q; want %q", got, want)
	}
}

// assertContains checks the response body for each substring.
func assertContains(t *testing.T, rec *httptest.ResponseRecorder, subs ...string) {
	t.Helper()
	body := rec.Body.String()
	for _, s := range subs {
		if !strings.Contains(body, s) {
			t.Errorf("body does not contain %q", s)
		}
	}
}

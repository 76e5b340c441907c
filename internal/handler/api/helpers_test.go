// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/lagrandiose/grandiose/internal/i18n"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/service"
	"github.com/lagrandiose/grandiose/internal/testutil"
)

// testEnv holds the services behind a test API handler.
type testEnv struct {
	db           *sql.DB
	content      *service.ContentService
	blogs        *service.BlogService
	inscriptions *service.InscriptionService
	handler      *Handler
}

// testSetup creates a migrated database and an API handler over it.
func testSetup(t *testing.T) *testEnv {
	t.Helper()
	if err := i18n.Init(nil); err != nil {
		t.Fatalf("i18n.Init: %v", err)
	}
	db := testutil.TestDB(t)

	e := &testEnv{
		db:      db,
		content: service.NewContentService(db, nil, 0, nil),
		blogs:   service.NewBlogService(db, nil, 0, nil),
	}
	e.inscriptions = service.NewInscriptionService(db, service.InscriptionDeps{
		Content: e.content,
		Events:  service.NewEventService(db),
	})
	e.handler = NewHandler(Deps{Content: e.content, Blogs: e.blogs, Inscriptions: e.inscriptions})
	return e
}

// createTestCycle stores a cycle with French and English names.
func createTestCycle(t *testing.T, e *testEnv, fr, en string) model.Cycle {
	t.Helper()
	trs := []model.CycleTranslation{{Locale: model.LocaleFR, Name: fr, Description: fr}}
	if en != "" {
		trs = append(trs, model.CycleTranslation{Locale: model.LocaleEN, Name: en, Description: en})
	}
	c, err := e.content.SaveCycle(context.Background(), 0, service.CycleInput{
		AgeRange:     "3-6",
		Duration:     "3 ans",
		Translations: trs,
	})
	if err != nil {
		t.Fatalf("SaveCycle: %v", err)
	}
	return c
}

// createTestCategory stores a category with a French name.
func createTestCategory(t *testing.T, e *testEnv, fr string) model.Category {
	t.Helper()
	c, err := e.blogs.SaveCategory(context.Background(), 0, service.CategoryInput{
		Translations: []model.CategoryTranslation{{Locale: model.LocaleFR, Name: fr}},
	})
	if err != nil {
		t.Fatalf("SaveCategory: %v", err)
	}
	return c
}

// createTestBlog stores a post with a French title.
func createTestBlog(t *testing.T, e *testEnv, fr string, categoryID *int64) model.Blog {
	t.Helper()
	b, err := e.blogs.SaveBlog(context.Background(), 0, service.BlogInput{
		CategoryID:   categoryID,
		Translations: []model.BlogTranslation{{Locale: model.LocaleFR, Title: fr, Content: "Un *article*."}},
	})
	if err != nil {
		t.Fatalf("SaveBlog: %v", err)
	}
	return b
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// newJSONRequest creates an HTTP request with JSON body and optional URL params.
func newJSONRequest(t *testing.T, method, path string, body string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// newGetRequest creates an HTTP GET request with optional URL params.
func newGetRequest(t *testing.T, path string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// dataResponse is a generic wrapper for API responses with a "data" field.
type dataResponse[T any] struct {
	Data T     `json:"data"`
	Meta *Meta `json:"meta"`
}

// unmarshalData unmarshals a JSON response body into the specified type.
func unmarshalData[T any](t *testing.T, w *httptest.ResponseRecorder) (T, *Meta) {
	t.Helper()
	var resp dataResponse[T]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return resp.Data, resp.Meta
}

// executeHandler executes a handler and returns the response recorder.
func executeHandler(t *testing.T, handler func(http.ResponseWriter, *http.Request), req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

// assertStatusCode checks that the response has the expected status code.
func assertStatusCode(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("expected status %d, got %d", expected, w.Code)
	}
}

// assertErrorResponse unmarshals and validates an error response.
func assertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedCode string) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error.Code != expectedCode {
		t.Errorf("expected code '%s', got %s", expectedCode, resp.Error.Code)
	}
	return resp
}

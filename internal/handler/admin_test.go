// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/lagrandiose/grandiose/internal/i18n"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/service"
)

func idParam(id int64) map[string]string {
	return map[string]string{"id": strconv.FormatInt(id, 10)}
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for x := 0; x < 40; x++ {
		for y := 0; y < 30; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func cycleForm(fr string) url.Values {
	return url.Values{
		"age_range":      {"6-11"},
		"duration":       {"5 ans"},
		"position":       {"2"},
		"name_fr":        {fr},
		"description_fr": {fr + " description"},
		"name_en":        {"Primary"},
	}
}

func TestAdminHandler_Dashboard(t *testing.T) {
	e := newTestEnv(t)
	user := e.editor(t)
	mustCycle(t, e, "Maternelle")
	mustBlog(t, e, "Rentrée")
	if err := e.events.LogInfo(context.Background(), model.EventCategorySystem, "Server started", nil, "", nil); err != nil {
		t.Fatalf("LogInfo: %v", err)
	}

	rec := e.serve(e.admin.Dashboard, httptest.NewRequest(http.MethodGet, "/admin", nil), user)

	assertStatus(t, rec.Code, http.StatusOK)
	assertContains(t, rec, "<strong>1</strong> "+i18n.T("fr", "admin.cycles"), "Server started",
		template.HTMLEscapeString(i18n.T("fr", "admin.school_year_unset")))
}

func TestAdminHandler_CycleLifecycle(t *testing.T) {
	e := newTestEnv(t)
	user := e.editor(t)
	ctx := context.Background()

	rec := e.serve(e.admin.NewCycle, httptest.NewRequest(http.MethodGet, "/admin/cycles/new", nil), user)
	assertStatus(t, rec.Code, http.StatusOK)
	assertContains(t, rec, `action="/admin/cycles"`, `name="name_ar"`)

	rec = e.serve(e.admin.CreateCycle, postForm("/admin/cycles", cycleForm("Primaire")), user)
	cycles, err := e.content.ListCycles(ctx)
	if err != nil {
		t.Fatalf("ListCycles: %v", err)
	}
	if len(cycles) != 1 {
		t.Fatalf("cycles = %d, want 1", len(cycles))
	}
	created := cycles[0]
	assertRedirect(t, rec, fmt.Sprintf("/admin/cycles/%d", created.ID))
	if created.Position != 2 || created.AgeRange != "6-11" {
		t.Errorf("created cycle = %+v", created)
	}
	if got := created.In(model.LocaleEN, "").Name; got != "Primary" {
		t.Errorf("en name = %q, want %q", got, "Primary")
	}
	if len(created.Translations) != len(model.SupportedLocales) {
		t.Errorf("translations = %d, want one per locale", len(created.Translations))
	}

	req := requestWithURLParams(httptest.NewRequest(http.MethodGet, "/admin/cycles/1", nil), idParam(created.ID))
	rec = e.serve(e.admin.EditCycle, req, user)
	assertStatus(t, rec.Code, http.StatusOK)
	assertContains(t, rec, `value="Primaire"`, `value="Primary"`)

	form := cycleForm("Primaire renommée")
	req = requestWithURLParams(postForm("/admin/cycles/1", form), idParam(created.ID))
	rec = e.serve(e.admin.UpdateCycle, req, user)
	assertRedirect(t, rec, fmt.Sprintf("/admin/cycles/%d", created.ID))
	updated, err := e.content.GetCycle(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetCycle: %v", err)
	}
	if got := updated.In(model.LocaleFR, "").Name; got != "Primaire renommée" {
		t.Errorf("fr name = %q after update", got)
	}

	rec = e.serve(e.admin.Cycles, httptest.NewRequest(http.MethodGet, "/admin/cycles", nil), user)
	assertStatus(t, rec.Code, http.StatusOK)
	assertContains(t, rec, "Primaire renommée")

	req = requestWithURLParams(httptest.NewRequest(http.MethodPost, "/admin/cycles/1/delete", nil), idParam(created.ID))
	rec = e.serve(e.admin.DeleteCycle, req, user)
	assertRedirect(t, rec, "/admin/cycles")
	if _, err := e.content.GetCycle(ctx, created.ID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("GetCycle after delete: err = %v, want ErrNotFound", err)
	}
}

func TestAdminHandler_CreateCycle_Invalid(t *testing.T) {
	e := newTestEnv(t)
	user := e.editor(t)

	tests := []struct {
		name   string
		mutate func(url.Values)
		want   string
	}{
		{"no name", func(f url.Values) { f.Del("name_fr"); f.Del("name_en") }, i18n.T("fr", "validation.translation_required")},
		{"bad position", func(f url.Values) { f.Set("position", "first") }, i18n.T("fr", "validation.number")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := cycleForm("Collège")
			tt.mutate(form)
			rec := e.serve(e.admin.CreateCycle, postForm("/admin/cycles", form), user)
			assertStatus(t, rec.Code, http.StatusUnprocessableEntity)
			assertContains(t, rec, tt.want, `value="6-11"`)
		})
	}

	cycles, err := e.content.ListCycles(context.Background())
	if err != nil {
		t.Fatalf("ListCycles: %v", err)
	}
	if len(cycles) != 0 {
		t.Errorf("invalid forms stored %d cycles", len(cycles))
	}
}

func TestAdminHandler_CreateCycle_WithPhoto(t *testing.T) {
	e := newTestEnv(t)
	user := e.editor(t)

	rec := e.serve(e.admin.CreateCycle, postMultipart(t, "/admin/cycles", cycleForm("Primaire"), "photo", testPNG(t)), user)
	assertStatus(t, rec.Code, http.StatusSeeOther)

	cycles, err := e.content.ListCycles(context.Background())
	if err != nil || len(cycles) != 1 {
		t.Fatalf("ListCycles = %d, %v", len(cycles), err)
	}
	if !strings.HasPrefix(cycles[0].Photo, "/uploads/cycles/") {
		t.Errorf("photo = %q, want an uploads URL", cycles[0].Photo)
	}
}

func TestAdminHandler_EditCycle_NotFound(t *testing.T) {
	e := newTestEnv(t)
	user := e.editor(t)

	req := requestWithURLParams(httptest.NewRequest(http.MethodGet, "/admin/cycles/99", nil), idParam(99))
	rec := e.serve(e.admin.EditCycle, req, user)

	assertRedirect(t, rec, "/admin/cycles")
}

func TestAdminHandler_CreateBlog(t *testing.T) {
	e := newTestEnv(t)
	user := e.editor(t)
	cat, err := e.blogs.SaveCategory(context.Background(), 0, service.CategoryInput{
		Translations: []model.CategoryTranslation{{Locale: model.LocaleFR, Name: "Vie scolaire"}},
	})
	if err != nil {
		t.Fatalf("SaveCategory: %v", err)
	}

	form := url.Values{
		"category_id": {strconv.FormatInt(cat.ID, 10)},
		"title_fr":    {"Kermesse"},
		"content_fr":  {"La kermesse aura lieu samedi."},
	}
	rec := e.serve(e.admin.CreateBlog, postForm("/admin/blogs", form), user)
	assertStatus(t, rec.Code, http.StatusSeeOther)

	page, err := e.blogs.Search(context.Background(), service.BlogFilter{Locale: "fr"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("posts = %d, want 1", len(page.Items))
	}
	if page.Items[0].Slug != "kermesse" || page.Items[0].CategoryName != "Vie scolaire" {
		t.Errorf("post = %+v", page.Items[0])
	}
}

func TestAdminHandler_SchoolYear(t *testing.T) {
	e := newTestEnv(t)
	user := e.adminUser(t)

	rec := e.serve(e.admin.SetSchoolYear, postForm("/admin/school-year", url.Values{"start_year": {"2026"}}), user)
	assertRedirect(t, rec, "/admin/school-year")

	current, err := e.content.CurrentSchoolYear(context.Background())
	if err != nil {
		t.Fatalf("CurrentSchoolYear: %v", err)
	}
	if current.Label() != "2026-2027" {
		t.Errorf("current = %q, want %q", current.Label(), "2026-2027")
	}

	page, err := e.events.List(context.Background(), "", 1, 10)
	if err != nil {
		t.Fatalf("List events: %v", err)
	}
	if page.Total != 1 || page.Events[0].Category != model.EventCategorySchoolYear {
		t.Errorf("events = %+v, want one school_year event", page.Events)
	}

	rec = e.serve(e.admin.SchoolYear, httptest.NewRequest(http.MethodGet, "/admin/school-year", nil), user)
	assertStatus(t, rec.Code, http.StatusOK)
	assertContains(t, rec, "2026-2027")
}

func TestAdminHandler_SetSchoolYear_Invalid(t *testing.T) {
	e := newTestEnv(t)
	user := e.adminUser(t)

	for _, v := range []string{"", "next year", "1800"} {
		t.Run(v, func(t *testing.T) {
			rec := e.serve(e.admin.SetSchoolYear, postForm("/admin/school-year", url.Values{"start_year": {v}}), user)
			assertStatus(t, rec.Code, http.StatusUnprocessableEntity)
			assertContains(t, rec, i18n.T("fr", "validation.school_year"))
		})
	}
}

func TestAdminHandler_Events_LevelFilter(t *testing.T) {
	e := newTestEnv(t)
	user := e.adminUser(t)
	ctx := context.Background()
	if err := e.events.LogEvent(ctx, model.EventLevelInfo, model.EventCategorySystem, "all good", nil, "", nil); err != nil {
		t.Fatal(err)
	}
	if err := e.events.LogEvent(ctx, model.EventLevelError, model.EventCategorySystem, "disk failing", nil, "", nil); err != nil {
		t.Fatal(err)
	}

	rec := e.serve(e.admin.Events, httptest.NewRequest(http.MethodGet, "/admin/events?level=error", nil), user)

	assertStatus(t, rec.Code, http.StatusOK)
	assertContains(t, rec, "disk failing")
	if strings.Contains(rec.Body.String(), "all good") {
		t.Error("level filter should hide info events")
	}
}

func submitInscription(t *testing.T, e *testEnv) model.Inscription {
	t.Helper()
	cycle := mustCycle(t, e, "Primaire")
	ins, err := e.inscriptions.Submit(context.Background(), service.InscriptionRequest{
		StudentName: "Adam Benali",
		BirthDate:   time.Now().AddDate(-7, 0, 0).Format("2006-01-02"),
		CycleID:     &cycle.ID,
		ParentName:  "Sara Benali",
		Email:       "sara@example.com",
		Phone:       "+212 600-000000",
		Locale:      model.LocaleFR,
	}, service.SubmitMeta{IP: "203.0.113.7"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return ins
}

func TestAdminHandler_Inscriptions(t *testing.T) {
	e := newTestEnv(t)
	user := e.editor(t)
	ins := submitInscription(t, e)

	rec := e.serve(e.admin.Inscriptions, httptest.NewRequest(http.MethodGet, "/admin/inscriptions?status=bogus", nil), user)
	assertStatus(t, rec.Code, http.StatusOK)
	assertContains(t, rec, "Adam Benali")

	req := requestWithURLParams(httptest.NewRequest(http.MethodGet, "/admin/inscriptions/1", nil), idParam(ins.ID))
	rec = e.serve(e.admin.Inscription, req, user)
	assertStatus(t, rec.Code, http.StatusOK)
	assertContains(t, rec, "sara@example.com", "Primaire")
}

func TestAdminHandler_UpdateInscriptionStatus(t *testing.T) {
	e := newTestEnv(t)
	user := e.editor(t)
	ins := submitInscription(t, e)
	back := fmt.Sprintf("/admin/inscriptions/%d", ins.ID)

	req := requestWithURLParams(postForm(back+"/status", url.Values{"status": {"archived"}}), idParam(ins.ID))
	rec := e.serve(e.admin.UpdateInscriptionStatus, req, user)
	assertRedirect(t, rec, back)

	req = requestWithURLParams(postForm(back+"/status", url.Values{"status": {model.InscriptionContacted}}), idParam(ins.ID))
	rec = e.serve(e.admin.UpdateInscriptionStatus, req, user)
	assertRedirect(t, rec, back)

	got, err := e.inscriptions.Get(context.Background(), ins.ID, model.LocaleFR)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != model.InscriptionContacted {
		t.Errorf("status = %q, want %q", got.Status, model.InscriptionContacted)
	}
}

func TestAdminHandler_DeleteInscription(t *testing.T) {
	e := newTestEnv(t)
	user := e.adminUser(t)
	ins := submitInscription(t, e)

	req := requestWithURLParams(httptest.NewRequest(http.MethodPost, "/admin/inscriptions/1/delete", nil), idParam(ins.ID))
	rec := e.serve(e.admin.DeleteInscription, req, user)
	assertRedirect(t, rec, "/admin/inscriptions")

	if _, err := e.inscriptions.Get(context.Background(), ins.ID, model.LocaleFR); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Get after delete: err = %v, want ErrNotFound", err)
	}

	rec = e.serve(e.admin.DeleteInscription, req, user)
	assertRedirect(t, rec, "/admin/inscriptions")
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lagrandiose/grandiose/internal/mailer"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/store"
	"github.com/lagrandiose/grandiose/internal/testutil"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

type fixedCountry string

func (f fixedCountry) LookupCountry(string) string { return string(f) }

type stubCaptcha struct{ err error }

func (s stubCaptcha) Verify(context.Context, string, string) error { return s.err }

type countingObserver struct{ n int }

func (o *countingObserver) InscriptionSubmitted(string) { o.n++ }

var fixedNow = time.Date(2025, time.October, 1, 10, 0, 0, 0, time.UTC)

func validRequest() InscriptionRequest {
	return InscriptionRequest{
		StudentName: " Yasmine Alaoui ",
		BirthDate:   "2018-04-12",
		ParentName:  "Karim Alaoui",
		Email:       "Karim@Example.com",
		Phone:       "+212 600-000000",
		Locale:      "fr",
	}
}

func newInscriptionFixture(t *testing.T, deps InscriptionDeps) (*InscriptionService, *ContentService) {
	t.Helper()
	db := testutil.TestDB(t)
	content := NewContentService(db, nil, 0, nil)
	deps.Content = content
	if deps.Events == nil {
		deps.Events = NewEventService(db)
	}
	svc := NewInscriptionService(db, deps)
	svc.now = func() time.Time { return fixedNow }
	return svc, content
}

func TestInscriptionService_Submit(t *testing.T) {
	m := &recordingMailer{}
	obs := &countingObserver{}
	svc, content := newInscriptionFixture(t, InscriptionDeps{
		GeoIP:    fixedCountry("MA"),
		Mailer:   m,
		Observer: obs,
		NotifyTo: "direction@example.com",
		SiteName: "La Grandiose",
	})
	ctx := context.Background()

	_, err := content.SetSchoolYear(ctx, 2025)
	require.NoError(t, err)
	cycle, err := content.SaveCycle(ctx, 0, cycleInput(map[string]string{"fr": "Primaire"}))
	require.NoError(t, err)

	req := validRequest()
	req.CycleID = &cycle.ID
	ins, err := svc.Submit(ctx, req, SubmitMeta{
		IP:        "41.250.1.1",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	})
	require.NoError(t, err)
	svc.Wait()

	assert.NotZero(t, ins.ID)
	assert.Equal(t, "Yasmine Alaoui", ins.StudentName)
	assert.Equal(t, "karim@example.com", ins.Email)
	assert.Equal(t, model.InscriptionNew, ins.Status)
	assert.Equal(t, "MA", ins.Country)
	assert.Equal(t, "Primaire", ins.CycleName)
	assert.Equal(t, "2025-2026", ins.SchoolYear)
	assert.Equal(t, "Chrome 120 / Windows", ins.UserAgent)
	assert.Equal(t, 1, obs.n)

	require.Len(t, m.sent, 1)
	assert.Equal(t, []string{"direction@example.com"}, m.sent[0].To)
	assert.Equal(t, "karim@example.com", m.sent[0].ReplyTo)
	assert.Contains(t, m.sent[0].Text, "Yasmine Alaoui")

	events, err := svc.queries.ListEvents(ctx, store.ListEventsParams{Level: "info", Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, model.EventCategoryInscription, events[0].Category)
}

func TestInscriptionService_Submit_Validation(t *testing.T) {
	svc, _ := newInscriptionFixture(t, InscriptionDeps{})
	ctx := context.Background()

	missingCycle := int64(77)
	tests := []struct {
		name   string
		mutate func(*InscriptionRequest)
		field  string
		key    string
	}{
		{"missing student", func(r *InscriptionRequest) { r.StudentName = "  " }, "student_name", "validation.required"},
		{"bad email", func(r *InscriptionRequest) { r.Email = "nope" }, "email", "validation.email"},
		{"bad phone", func(r *InscriptionRequest) { r.Phone = "call me" }, "phone", "validation.phone"},
		{"short phone", func(r *InscriptionRequest) { r.Phone = "123" }, "phone", "validation.phone"},
		{"future birth date", func(r *InscriptionRequest) { r.BirthDate = "2030-01-01" }, "birth_date", "validation.birthdate"},
		{"too old", func(r *InscriptionRequest) { r.BirthDate = "1990-01-01" }, "birth_date", "validation.birthdate"},
		{"bad date format", func(r *InscriptionRequest) { r.BirthDate = "12/04/2018" }, "birth_date", "validation.birthdate"},
		{"unsupported locale", func(r *InscriptionRequest) { r.Locale = "de" }, "locale", "validation.oneof"},
		{"unknown cycle", func(r *InscriptionRequest) { r.CycleID = &missingCycle }, "cycle_id", "validation.cycle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			_, err := svc.Submit(ctx, req, SubmitMeta{IP: "127.0.0.1"})
			ve, ok := AsValidationError(err)
			require.True(t, ok, "want ValidationError, got %v", err)
			assert.Equal(t, tt.key, ve.Fields[tt.field])
		})
	}
}

func TestInscriptionService_Submit_Captcha(t *testing.T) {
	svc, _ := newInscriptionFixture(t, InscriptionDeps{Captcha: stubCaptcha{err: errors.New("invalid")}})

	_, err := svc.Submit(context.Background(), validRequest(), SubmitMeta{IP: "127.0.0.1"})
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "validation.captcha", ve.Fields["captcha"])
}

func TestInscriptionService_Submit_MailFailureIsNotFatal(t *testing.T) {
	m := &recordingMailer{err: errors.New("smtp down")}
	svc, _ := newInscriptionFixture(t, InscriptionDeps{Mailer: m, NotifyTo: "a@example.com"})

	ins, err := svc.Submit(context.Background(), validRequest(), SubmitMeta{})
	require.NoError(t, err)
	svc.Wait()
	assert.NotZero(t, ins.ID)
	assert.Empty(t, ins.SchoolYear, "no current school year configured")
	assert.Len(t, m.sent, 1)
}

func TestInscriptionService_AdminOperations(t *testing.T) {
	svc, _ := newInscriptionFixture(t, InscriptionDeps{})
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		ins, err := svc.Submit(ctx, validRequest(), SubmitMeta{})
		require.NoError(t, err)
		ids = append(ids, ins.ID)
	}

	require.NoError(t, svc.UpdateStatus(ctx, ids[0], model.InscriptionEnrolled))
	ve, ok := AsValidationError(svc.UpdateStatus(ctx, ids[0], "archived"))
	require.True(t, ok)
	assert.Equal(t, "validation.status", ve.Fields["status"])
	assert.ErrorIs(t, svc.UpdateStatus(ctx, 999, model.InscriptionContacted), ErrNotFound)

	page, err := svc.List(ctx, model.InscriptionNew, "fr", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = svc.List(ctx, "", "fr", 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.TotalPages)

	n, err := svc.CountNew(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := svc.Get(ctx, ids[0], "fr")
	require.NoError(t, err)
	assert.Equal(t, model.InscriptionEnrolled, got.Status)

	require.NoError(t, svc.Delete(ctx, ids[0]))
	_, err = svc.Get(ctx, ids[0], "fr")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, ids[0]), ErrNotFound)
}

func TestSummarizeUserAgent(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{"", ""},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36", "Chrome 120 / Windows"},
		{"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", "Bot: Googlebot"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SummarizeUserAgent(tt.ua), tt.ua)
	}
}

func TestMustRegister(t *testing.T) {
	v := newValidator()
	always := func(validator.FieldLevel) bool { return true }

	assert.NotPanics(t, func() { mustRegister(v, "always", always) })
	assert.NoError(t, v.Var("x", "always"))
	assert.Panics(t, func() { mustRegister(v, "", always) })
}

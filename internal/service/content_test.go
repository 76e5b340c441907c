// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lagrandiose/grandiose/internal/cache"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/testutil"
)

func newMemoryBackend(t *testing.T) cache.Cache {
	t.Helper()
	c := cache.NewMemoryCache(cache.MemoryOptions{DefaultTTL: time.Minute, MaxSize: 100})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func cycleInput(names map[string]string) CycleInput {
	in := CycleInput{Duration: "3 ans", AgeRange: "3-6", Position: 1}
	for locale, name := range names {
		in.Translations = append(in.Translations, model.CycleTranslation{Locale: locale, Name: name, Description: name + " desc"})
	}
	return in
}

func TestContentService_SaveCycle(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewContentService(db, nil, 0, nil)
	ctx := context.Background()

	created, err := svc.SaveCycle(ctx, 0, cycleInput(map[string]string{"fr": "Maternelle", "en": "Kindergarten"}))
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.Len(t, created.Translations, 2)
	assert.Equal(t, "Maternelle", created.In("fr", "?").Name)
	assert.Equal(t, "?", created.In("ar", "?").Name, "missing locale degrades to the placeholder")

	upd := cycleInput(map[string]string{"fr": "Préscolaire", "ar": "روض"})
	upd.Position = 5
	updated, err := svc.SaveCycle(ctx, created.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, int64(5), updated.Position)
	assert.Len(t, updated.Translations, 3, "upsert keeps the untouched en record")
	assert.Equal(t, "Préscolaire", updated.In("fr", "?").Name)
	assert.Equal(t, "Kindergarten", updated.In("en", "?").Name)
}

func TestContentService_SaveCycle_Validation(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewContentService(db, nil, 0, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    CycleInput
		field string
		key   string
	}{
		{"no name in any locale", cycleInput(map[string]string{"fr": "  "}), "name", "validation.translation_required"},
		{"unsupported locale", cycleInput(map[string]string{"de": "Kindergarten"}), "translations", "validation.locale"},
		{"negative position", func() CycleInput {
			in := cycleInput(map[string]string{"fr": "Primaire"})
			in.Position = -1
			return in
		}(), "position", "validation.gte"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SaveCycle(ctx, 0, tt.in)
			ve, ok := AsValidationError(err)
			require.True(t, ok, "want ValidationError, got %v", err)
			assert.Equal(t, tt.key, ve.Fields[tt.field])
		})
	}
}

func TestContentService_NotFound(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewContentService(db, nil, 0, nil)
	ctx := context.Background()

	_, err := svc.GetCycle(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.SaveCycle(ctx, 999, cycleInput(map[string]string{"fr": "X"}))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteCycle(ctx, 999), ErrNotFound)
	assert.ErrorIs(t, svc.DeleteProfessor(ctx, 999), ErrNotFound)
	assert.ErrorIs(t, svc.DeleteTestimonial(ctx, 999), ErrNotFound)
}

func TestContentService_CacheInvalidation(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewContentService(db, newMemoryBackend(t), time.Minute, nil)
	ctx := context.Background()

	list, err := svc.ListCycles(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	c, err := svc.SaveCycle(ctx, 0, cycleInput(map[string]string{"fr": "Primaire"}))
	require.NoError(t, err)

	list, err = svc.ListCycles(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1, "save must invalidate the cached list")

	require.NoError(t, svc.DeleteCycle(ctx, c.ID))
	list, err = svc.ListCycles(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestContentService_ProfessorsAndTestimonials(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewContentService(db, newMemoryBackend(t), time.Minute, nil)
	ctx := context.Background()

	p, err := svc.SaveProfessor(ctx, 0, ProfessorInput{
		Position: 2,
		Translations: []model.ProfessorTranslation{
			{Locale: "fr", Name: "Mme Amrani", StudyMaterial: "Mathématiques"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mathématiques", p.In("fr", "?").StudyMaterial)

	_, err = svc.SaveTestimonial(ctx, 0, TestimonialInput{Emoticon: "😀"})
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "validation.translation_required", ve.Fields["description"])

	tm, err := svc.SaveTestimonial(ctx, 0, TestimonialInput{
		Emoticon:  "😀",
		IsStudent: true,
		Translations: []model.TestimonialTranslation{
			{Locale: "en", Name: "Sara", Description: "Great school"},
		},
	})
	require.NoError(t, err)
	assert.True(t, tm.IsStudent)

	profs, err := svc.ListProfessors(ctx)
	require.NoError(t, err)
	assert.Len(t, profs, 1)
	tms, err := svc.ListTestimonials(ctx)
	require.NoError(t, err)
	assert.Len(t, tms, 1)

	counts, err := svc.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Professors)
	assert.Equal(t, int64(1), counts.Testimonials)
	assert.Equal(t, int64(0), counts.NewInscriptions)
}

func TestContentService_SchoolYear(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewContentService(db, newMemoryBackend(t), time.Minute, nil)
	ctx := context.Background()

	_, err := svc.CurrentSchoolYear(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	y, err := svc.SetSchoolYear(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-2026", y.Label())
	assert.True(t, y.IsCurrent)

	_, err = svc.SetSchoolYear(ctx, 1999)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "validation.school_year", ve.Fields["start_year"])

	_, err = svc.SetSchoolYear(ctx, 2026)
	require.NoError(t, err)
	cur, err := svc.CurrentSchoolYear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2026, cur.StartYear, "cached current year must be invalidated")

	years, err := svc.ListSchoolYears(ctx)
	require.NoError(t, err)
	current := 0
	for _, yr := range years {
		if yr.IsCurrent {
			current++
		}
	}
	assert.Len(t, years, 2)
	assert.Equal(t, 1, current, "exactly one current school year")
}

func TestContentService_RolloverSchoolYear(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewContentService(db, nil, 0, nil)
	ctx := context.Background()

	_, err := svc.SetSchoolYear(ctx, 2025)
	require.NoError(t, err)

	_, changed, err := svc.RolloverSchoolYear(ctx, time.Date(2026, time.June, 30, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, changed, "June 2026 still belongs to 2025-2026")

	y, changed, err := svc.RolloverSchoolYear(ctx, time.Date(2026, time.September, 1, 0, 5, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "2026-2027", y.Label())

	_, changed, err = svc.RolloverSchoolYear(ctx, time.Date(2026, time.September, 2, 0, 5, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestResolveViews(t *testing.T) {
	c := model.Cycle{ID: 1, Translations: []model.CycleTranslation{{Locale: "fr", Name: "Primaire"}}}

	v := ResolveCycle(c, "fr", false)
	assert.Equal(t, "Primaire", v.Name)
	assert.Nil(t, v.Translations)

	v = ResolveCycle(c, "ar", true)
	assert.NotEmpty(t, v.Name, "placeholder, never empty")
	assert.NotEqual(t, "Primaire", v.Name, "no cross-locale fallback")
	assert.Len(t, v.Translations, 1)

	cats := ResolveCategories([]model.Category{{ID: 2, Slug: "news"}}, "en", false)
	require.Len(t, cats, 1)
	assert.NotEmpty(t, cats[0].Name)
}

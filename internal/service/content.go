// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lagrandiose/grandiose/internal/cache"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/store"
)

const allKey = "all"

// ContentService loads and saves the translated landing page entities.
// Public reads are served from the cache when one is configured.
type ContentService struct {
	db       *sql.DB
	queries  *store.Queries
	validate *validator.Validate

	cycles       *cache.TypedCache[[]model.Cycle]
	professors   *cache.TypedCache[[]model.Professor]
	testimonials *cache.TypedCache[[]model.Testimonial]
	schoolYear   *cache.TypedCache[model.SchoolYear]
}

// NewContentService creates a ContentService. A nil backend disables caching.
func NewContentService(db *sql.DB, backend cache.Cache, ttl time.Duration, observer cache.Observer) *ContentService {
	s := &ContentService{
		db:       db,
		queries:  store.New(db),
		validate: newValidator(),
	}
	if backend != nil {
		s.cycles = cache.NewTypedCache[[]model.Cycle](backend, "cycles", ttl, observer)
		s.professors = cache.NewTypedCache[[]model.Professor](backend, "professors", ttl, observer)
		s.testimonials = cache.NewTypedCache[[]model.Testimonial](backend, "testimonials", ttl, observer)
		s.schoolYear = cache.NewTypedCache[model.SchoolYear](backend, "school_year", ttl, observer)
	}
	return s
}

func cachedLoad[T any](ctx context.Context, c *cache.TypedCache[T], key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}
	return c.GetOrSet(ctx, key, load)
}

func invalidate[T any](ctx context.Context, c *cache.TypedCache[T]) {
	if c == nil {
		return
	}
	if err := c.Invalidate(ctx); err != nil {
		slog.Warn("cache invalidation failed", "error", err)
	}
}

// checkLocales rejects translation records for unsupported locales.
func checkLocales[T model.Localized](ve *ValidationError, records []T) {
	for _, r := range records {
		if !model.IsSupportedLocale(r.LocaleCode()) {
			ve.Add("translations", "validation.locale")
			return
		}
	}
}

// Counts are the dashboard totals.
type Counts struct {
	Blogs           int64 `json:"blogs"`
	Categories      int64 `json:"categories"`
	Cycles          int64 `json:"cycles"`
	Professors      int64 `json:"professors"`
	Testimonials    int64 `json:"testimonials"`
	Inscriptions    int64 `json:"inscriptions"`
	NewInscriptions int64 `json:"new_inscriptions"`
}

// Counts returns entity totals for the admin dashboard.
func (s *ContentService) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	var err error
	steps := []struct {
		dst *int64
		fn  func(context.Context) (int64, error)
	}{
		{&c.Blogs, s.queries.CountBlogs},
		{&c.Categories, s.queries.CountCategories},
		{&c.Cycles, s.queries.CountCycles},
		{&c.Professors, s.queries.CountProfessors},
		{&c.Testimonials, s.queries.CountTestimonials},
	}
	for _, st := range steps {
		if *st.dst, err = st.fn(ctx); err != nil {
			return c, err
		}
	}
	if c.Inscriptions, err = s.queries.CountInscriptions(ctx, ""); err != nil {
		return c, err
	}
	if c.NewInscriptions, err = s.queries.CountInscriptions(ctx, model.InscriptionNew); err != nil {
		return c, err
	}
	return c, nil
}

// --- Cycles ---

// CycleInput is the editable part of a cycle.
type CycleInput struct {
	Duration     string                   `json:"duration" validate:"max=60"`
	AgeRange     string                   `json:"age_range" validate:"max=60"`
	Photo        string                   `json:"photo" validate:"max=500"`
	Position     int64                    `json:"position" validate:"gte=0,lte=10000"`
	Translations []model.CycleTranslation `json:"translations"`
}

func (s *ContentService) validateCycle(in CycleInput) error {
	if err := toValidationError(s.validate.Struct(in)); err != nil {
		return err
	}
	ve := &ValidationError{}
	checkLocales(ve, in.Translations)
	if model.FirstNonEmpty(in.Translations, func(t model.CycleTranslation) string { return t.Name }) == "" {
		ve.Add("name", "validation.translation_required")
	}
	return ve.OrNil()
}

func cycleFromStore(c store.Cycle, trs []store.CycleTranslation) model.Cycle {
	out := model.Cycle{
		ID:        c.ID,
		Duration:  c.Duration,
		AgeRange:  c.AgeRange,
		Photo:     c.Photo,
		Position:  c.Position,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	for _, t := range trs {
		if t.CycleID != c.ID {
			continue
		}
		out.Translations = append(out.Translations, model.CycleTranslation{
			Locale:      t.Locale,
			Name:        t.Name,
			Description: t.Description,
			MoreDetails: t.MoreDetails,
		})
	}
	return out
}

// ListCycles returns every cycle ordered by position.
func (s *ContentService) ListCycles(ctx context.Context) ([]model.Cycle, error) {
	return cachedLoad(ctx, s.cycles, allKey, func(ctx context.Context) ([]model.Cycle, error) {
		rows, err := s.queries.ListCycles(ctx)
		if err != nil {
			return nil, err
		}
		trs, err := s.queries.ListCycleTranslations(ctx, 0)
		if err != nil {
			return nil, err
		}
		out := make([]model.Cycle, 0, len(rows))
		for _, c := range rows {
			out = append(out, cycleFromStore(c, trs))
		}
		return out, nil
	})
}

// GetCycle returns one cycle with all its translations.
func (s *ContentService) GetCycle(ctx context.Context, id int64) (model.Cycle, error) {
	c, err := s.queries.GetCycle(ctx, id)
	if err != nil {
		return model.Cycle{}, notFound(err)
	}
	trs, err := s.queries.ListCycleTranslations(ctx, id)
	if err != nil {
		return model.Cycle{}, err
	}
	return cycleFromStore(c, trs), nil
}

// SaveCycle creates the cycle when id is 0 and updates it otherwise.
// Translations are upserted per locale.
func (s *ContentService) SaveCycle(ctx context.Context, id int64, in CycleInput) (model.Cycle, error) {
	if err := s.validateCycle(in); err != nil {
		return model.Cycle{}, err
	}

	var savedID int64
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		now := store.Now()
		var row store.Cycle
		var err error
		if id == 0 {
			row, err = q.CreateCycle(ctx, store.CreateCycleParams{
				Duration:  strings.TrimSpace(in.Duration),
				AgeRange:  strings.TrimSpace(in.AgeRange),
				Photo:     in.Photo,
				Position:  in.Position,
				CreatedAt: now,
				UpdatedAt: now,
			})
		} else {
			row, err = q.UpdateCycle(ctx, store.UpdateCycleParams{
				Duration:  strings.TrimSpace(in.Duration),
				AgeRange:  strings.TrimSpace(in.AgeRange),
				Photo:     in.Photo,
				Position:  in.Position,
				UpdatedAt: now,
				ID:        id,
			})
		}
		if err != nil {
			return notFound(err)
		}
		savedID = row.ID
		for _, t := range in.Translations {
			if err := q.UpsertCycleTranslation(ctx, store.UpsertCycleTranslationParams{
				CycleID:     row.ID,
				Locale:      t.Locale,
				Name:        strings.TrimSpace(t.Name),
				Description: strings.TrimSpace(t.Description),
				MoreDetails: strings.TrimSpace(t.MoreDetails),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.Cycle{}, err
	}
	invalidate(ctx, s.cycles)
	return s.GetCycle(ctx, savedID)
}

// DeleteCycle removes a cycle. Inscriptions referencing it keep a null cycle.
func (s *ContentService) DeleteCycle(ctx context.Context, id int64) error {
	if err := rowsOrNotFound(s.queries.DeleteCycle(ctx, id)); err != nil {
		return err
	}
	invalidate(ctx, s.cycles)
	return nil
}

// --- Professors ---

// ProfessorInput is the editable part of a professor.
type ProfessorInput struct {
	Photo        string                       `json:"photo" validate:"max=500"`
	Position     int64                        `json:"position" validate:"gte=0,lte=10000"`
	Translations []model.ProfessorTranslation `json:"translations"`
}

func (s *ContentService) validateProfessor(in ProfessorInput) error {
	if err := toValidationError(s.validate.Struct(in)); err != nil {
		return err
	}
	ve := &ValidationError{}
	checkLocales(ve, in.Translations)
	if model.FirstNonEmpty(in.Translations, func(t model.ProfessorTranslation) string { return t.Name }) == "" {
		ve.Add("name", "validation.translation_required")
	}
	return ve.OrNil()
}

func professorFromStore(p store.Professor, trs []store.ProfessorTranslation) model.Professor {
	out := model.Professor{
		ID:        p.ID,
		Photo:     p.Photo,
		Position:  p.Position,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	for _, t := range trs {
		if t.ProfessorID != p.ID {
			continue
		}
		out.Translations = append(out.Translations, model.ProfessorTranslation{
			Locale:        t.Locale,
			Name:          t.Name,
			StudyMaterial: t.StudyMaterial,
			Description:   t.Description,
		})
	}
	return out
}

// ListProfessors returns every professor ordered by position.
func (s *ContentService) ListProfessors(ctx context.Context) ([]model.Professor, error) {
	return cachedLoad(ctx, s.professors, allKey, func(ctx context.Context) ([]model.Professor, error) {
		rows, err := s.queries.ListProfessors(ctx)
		if err != nil {
			return nil, err
		}
		trs, err := s.queries.ListProfessorTranslations(ctx, 0)
		if err != nil {
			return nil, err
		}
		out := make([]model.Professor, 0, len(rows))
		for _, p := range rows {
			out = append(out, professorFromStore(p, trs))
		}
		return out, nil
	})
}

// GetProfessor returns one professor with all its translations.
func (s *ContentService) GetProfessor(ctx context.Context, id int64) (model.Professor, error) {
	p, err := s.queries.GetProfessor(ctx, id)
	if err != nil {
		return model.Professor{}, notFound(err)
	}
	trs, err := s.queries.ListProfessorTranslations(ctx, id)
	if err != nil {
		return model.Professor{}, err
	}
	return professorFromStore(p, trs), nil
}

// SaveProfessor creates the professor when id is 0 and updates it otherwise.
func (s *ContentService) SaveProfessor(ctx context.Context, id int64, in ProfessorInput) (model.Professor, error) {
	if err := s.validateProfessor(in); err != nil {
		return model.Professor{}, err
	}

	var savedID int64
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		now := store.Now()
		var row store.Professor
		var err error
		if id == 0 {
			row, err = q.CreateProfessor(ctx, store.CreateProfessorParams{
				Photo:     in.Photo,
				Position:  in.Position,
				CreatedAt: now,
				UpdatedAt: now,
			})
		} else {
			row, err = q.UpdateProfessor(ctx, store.UpdateProfessorParams{
				Photo:     in.Photo,
				Position:  in.Position,
				UpdatedAt: now,
				ID:        id,
			})
		}
		if err != nil {
			return notFound(err)
		}
		savedID = row.ID
		for _, t := range in.Translations {
			if err := q.UpsertProfessorTranslation(ctx, store.UpsertProfessorTranslationParams{
				ProfessorID:   row.ID,
				Locale:        t.Locale,
				Name:          strings.TrimSpace(t.Name),
				StudyMaterial: strings.TrimSpace(t.StudyMaterial),
				Description:   strings.TrimSpace(t.Description),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.Professor{}, err
	}
	invalidate(ctx, s.professors)
	return s.GetProfessor(ctx, savedID)
}

// DeleteProfessor removes a professor and its translations.
func (s *ContentService) DeleteProfessor(ctx context.Context, id int64) error {
	if err := rowsOrNotFound(s.queries.DeleteProfessor(ctx, id)); err != nil {
		return err
	}
	invalidate(ctx, s.professors)
	return nil
}

// --- Testimonials ---

// TestimonialInput is the editable part of a testimonial.
type TestimonialInput struct {
	Emoticon     string                         `json:"emoticon" validate:"max=16"`
	IsStudent    bool                           `json:"is_student"`
	Translations []model.TestimonialTranslation `json:"translations"`
}

func (s *ContentService) validateTestimonial(in TestimonialInput) error {
	if err := toValidationError(s.validate.Struct(in)); err != nil {
		return err
	}
	ve := &ValidationError{}
	checkLocales(ve, in.Translations)
	if model.FirstNonEmpty(in.Translations, func(t model.TestimonialTranslation) string { return t.Description }) == "" {
		ve.Add("description", "validation.translation_required")
	}
	return ve.OrNil()
}

func testimonialFromStore(t store.Testimonial, trs []store.TestimonialTranslation) model.Testimonial {
	out := model.Testimonial{
		ID:        t.ID,
		Emoticon:  t.Emoticon,
		IsStudent: t.IsStudent,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	for _, tr := range trs {
		if tr.TestimonialID != t.ID {
			continue
		}
		out.Translations = append(out.Translations, model.TestimonialTranslation{
			Locale:      tr.Locale,
			Name:        tr.Name,
			Description: tr.Description,
		})
	}
	return out
}

// ListTestimonials returns every testimonial, newest first.
func (s *ContentService) ListTestimonials(ctx context.Context) ([]model.Testimonial, error) {
	return cachedLoad(ctx, s.testimonials, allKey, func(ctx context.Context) ([]model.Testimonial, error) {
		rows, err := s.queries.ListTestimonials(ctx)
		if err != nil {
			return nil, err
		}
		trs, err := s.queries.ListTestimonialTranslations(ctx, 0)
		if err != nil {
			return nil, err
		}
		out := make([]model.Testimonial, 0, len(rows))
		for _, t := range rows {
			out = append(out, testimonialFromStore(t, trs))
		}
		return out, nil
	})
}

// GetTestimonial returns one testimonial with all its translations.
func (s *ContentService) GetTestimonial(ctx context.Context, id int64) (model.Testimonial, error) {
	t, err := s.queries.GetTestimonial(ctx, id)
	if err != nil {
		return model.Testimonial{}, notFound(err)
	}
	trs, err := s.queries.ListTestimonialTranslations(ctx, id)
	if err != nil {
		return model.Testimonial{}, err
	}
	return testimonialFromStore(t, trs), nil
}

// SaveTestimonial creates the testimonial when id is 0 and updates it otherwise.
func (s *ContentService) SaveTestimonial(ctx context.Context, id int64, in TestimonialInput) (model.Testimonial, error) {
	if err := s.validateTestimonial(in); err != nil {
		return model.Testimonial{}, err
	}

	var savedID int64
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		now := store.Now()
		var row store.Testimonial
		var err error
		if id == 0 {
			row, err = q.CreateTestimonial(ctx, store.CreateTestimonialParams{
				Emoticon:  strings.TrimSpace(in.Emoticon),
				IsStudent: in.IsStudent,
				CreatedAt: now,
				UpdatedAt: now,
			})
		} else {
			row, err = q.UpdateTestimonial(ctx, store.UpdateTestimonialParams{
				Emoticon:  strings.TrimSpace(in.Emoticon),
				IsStudent: in.IsStudent,
				UpdatedAt: now,
				ID:        id,
			})
		}
		if err != nil {
			return notFound(err)
		}
		savedID = row.ID
		for _, t := range in.Translations {
			if err := q.UpsertTestimonialTranslation(ctx, store.UpsertTestimonialTranslationParams{
				TestimonialID: row.ID,
				Locale:        t.Locale,
				Name:          strings.TrimSpace(t.Name),
				Description:   strings.TrimSpace(t.Description),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.Testimonial{}, err
	}
	invalidate(ctx, s.testimonials)
	return s.GetTestimonial(ctx, savedID)
}

// DeleteTestimonial removes a testimonial and its translations.
func (s *ContentService) DeleteTestimonial(ctx context.Context, id int64) error {
	if err := rowsOrNotFound(s.queries.DeleteTestimonial(ctx, id)); err != nil {
		return err
	}
	invalidate(ctx, s.testimonials)
	return nil
}

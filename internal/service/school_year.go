// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"time"

	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/store"
)

func schoolYearFromStore(y store.SchoolYear) model.SchoolYear {
	return model.SchoolYear{
		ID:        y.ID,
		StartYear: int(y.StartYear),
		EndYear:   int(y.EndYear),
		IsCurrent: y.IsCurrent,
	}
}

// CurrentSchoolYear returns the current school year or ErrNotFound.
func (s *ContentService) CurrentSchoolYear(ctx context.Context) (model.SchoolYear, error) {
	y, err := cachedLoad(ctx, s.schoolYear, "current", func(ctx context.Context) (model.SchoolYear, error) {
		row, err := s.queries.GetCurrentSchoolYear(ctx)
		if err != nil {
			return model.SchoolYear{}, notFound(err)
		}
		return schoolYearFromStore(row), nil
	})
	return y, err
}

// ListSchoolYears returns every school year ever recorded, newest first.
func (s *ContentService) ListSchoolYears(ctx context.Context) ([]model.SchoolYear, error) {
	rows, err := s.queries.ListSchoolYears(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.SchoolYear, 0, len(rows))
	for _, r := range rows {
		out = append(out, schoolYearFromStore(r))
	}
	return out, nil
}

// SetSchoolYear makes the year starting in start the single current year.
// The end year is always start+1.
func (s *ContentService) SetSchoolYear(ctx context.Context, start int) (model.SchoolYear, error) {
	if !model.ValidSchoolYearStart(start) {
		return model.SchoolYear{}, fieldError("start_year", "validation.school_year")
	}
	want := model.NewSchoolYear(start)

	var saved store.SchoolYear
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		now := store.Now()
		if err := q.ClearCurrentSchoolYear(ctx, now); err != nil {
			return err
		}
		var err error
		saved, err = q.UpsertCurrentSchoolYear(ctx, store.UpsertCurrentSchoolYearParams{
			StartYear: int64(want.StartYear),
			EndYear:   int64(want.EndYear),
			Now:       now,
		})
		return err
	})
	if err != nil {
		return model.SchoolYear{}, err
	}
	invalidate(ctx, s.schoolYear)
	return schoolYearFromStore(saved), nil
}

// RolloverSchoolYear advances the current year when now falls in a later
// school year. It reports whether a change was made.
func (s *ContentService) RolloverSchoolYear(ctx context.Context, now time.Time) (model.SchoolYear, bool, error) {
	start := model.SchoolYearStartFor(now)
	current, err := s.queries.GetCurrentSchoolYear(ctx)
	if err != nil && !errors.Is(notFound(err), ErrNotFound) {
		return model.SchoolYear{}, false, err
	}
	if err == nil && int(current.StartYear) >= start {
		return schoolYearFromStore(current), false, nil
	}
	y, err := s.SetSchoolYear(ctx, start)
	if err != nil {
		return model.SchoolYear{}, false, err
	}
	return y, true, nil
}

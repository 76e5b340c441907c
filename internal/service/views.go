// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"github.com/lagrandiose/grandiose/internal/i18n"
	"github.com/lagrandiose/grandiose/internal/model"
)

// CycleView is a cycle resolved for one locale.
type CycleView struct {
	ID       int64  `json:"id"`
	Duration string `json:"duration"`
	AgeRange string `json:"age_range"`
	Photo    string `json:"photo"`
	Position int64  `json:"position"`
	model.CycleTranslation
	Translations []model.CycleTranslation `json:"translations,omitempty"`
}

// ProfessorView is a professor resolved for one locale.
type ProfessorView struct {
	ID       int64  `json:"id"`
	Photo    string `json:"photo"`
	Position int64  `json:"position"`
	model.ProfessorTranslation
	Translations []model.ProfessorTranslation `json:"translations,omitempty"`
}

// TestimonialView is a testimonial resolved for one locale.
type TestimonialView struct {
	ID        int64  `json:"id"`
	Emoticon  string `json:"emoticon"`
	IsStudent bool   `json:"is_student"`
	model.TestimonialTranslation
	Translations []model.TestimonialTranslation `json:"translations,omitempty"`
}

// CategoryView is a category resolved for one locale.
type CategoryView struct {
	ID           int64                       `json:"id"`
	Slug         string                      `json:"slug"`
	Locale       string                      `json:"locale"`
	Name         string                      `json:"name"`
	Translations []model.CategoryTranslation `json:"translations,omitempty"`
}

// ResolveCycle resolves c for locale. withAll keeps the raw records.
func ResolveCycle(c model.Cycle, locale string, withAll bool) CycleView {
	v := CycleView{
		ID:               c.ID,
		Duration:         c.Duration,
		AgeRange:         c.AgeRange,
		Photo:            c.Photo,
		Position:         c.Position,
		CycleTranslation: c.In(locale, i18n.Placeholder(locale)),
	}
	if withAll {
		v.Translations = c.Translations
	}
	return v
}

// ResolveCycles resolves every cycle for locale.
func ResolveCycles(cs []model.Cycle, locale string, withAll bool) []CycleView {
	out := make([]CycleView, len(cs))
	for i, c := range cs {
		out[i] = ResolveCycle(c, locale, withAll)
	}
	return out
}

// ResolveProfessors resolves every professor for locale.
func ResolveProfessors(ps []model.Professor, locale string, withAll bool) []ProfessorView {
	placeholder := i18n.Placeholder(locale)
	out := make([]ProfessorView, len(ps))
	for i, p := range ps {
		out[i] = ProfessorView{
			ID:                   p.ID,
			Photo:                p.Photo,
			Position:             p.Position,
			ProfessorTranslation: p.In(locale, placeholder),
		}
		if withAll {
			out[i].Translations = p.Translations
		}
	}
	return out
}

// ResolveTestimonials resolves every testimonial for locale.
func ResolveTestimonials(ts []model.Testimonial, locale string, withAll bool) []TestimonialView {
	placeholder := i18n.Placeholder(locale)
	out := make([]TestimonialView, len(ts))
	for i, t := range ts {
		out[i] = TestimonialView{
			ID:                     t.ID,
			Emoticon:               t.Emoticon,
			IsStudent:              t.IsStudent,
			TestimonialTranslation: t.In(locale, placeholder),
		}
		if withAll {
			out[i].Translations = t.Translations
		}
	}
	return out
}

// ResolveCategories resolves every category for locale.
func ResolveCategories(cs []model.Category, locale string, withAll bool) []CategoryView {
	placeholder := i18n.Placeholder(locale)
	out := make([]CategoryView, len(cs))
	for i, c := range cs {
		out[i] = CategoryView{ID: c.ID, Slug: c.Slug, Locale: locale, Name: c.Name(locale, placeholder)}
		if withAll {
			out[i].Translations = c.Translations
		}
	}
	return out
}

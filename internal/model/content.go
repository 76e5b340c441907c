// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// CycleTranslation holds the per-locale text of a cycle.
type CycleTranslation struct {
	Locale      string `json:"locale"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MoreDetails string `json:"more_details"`
}

func (t CycleTranslation) LocaleCode() string { return t.Locale }

// Cycle is an academic stage shown on the landing page.
type Cycle struct {
	ID           int64              `json:"id"`
	Duration     string             `json:"duration"`
	AgeRange     string             `json:"age_range"`
	Photo        string             `json:"photo"`
	Position     int64              `json:"position"`
	Translations []CycleTranslation `json:"translations"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// In resolves the cycle text for locale; blank fields become placeholder.
func (c Cycle) In(locale, placeholder string) CycleTranslation {
	t, _ := FindTranslation(c.Translations, locale)
	return CycleTranslation{
		Locale:      locale,
		Name:        OrPlaceholder(t.Name, placeholder),
		Description: OrPlaceholder(t.Description, placeholder),
		MoreDetails: OrPlaceholder(t.MoreDetails, placeholder),
	}
}

// ProfessorTranslation holds the per-locale text of a professor.
type ProfessorTranslation struct {
	Locale        string `json:"locale"`
	Name          string `json:"name"`
	StudyMaterial string `json:"study_material"`
	Description   string `json:"description"`
}

func (t ProfessorTranslation) LocaleCode() string { return t.Locale }

// Professor is a staff member shown on the landing page.
type Professor struct {
	ID           int64                  `json:"id"`
	Photo        string                 `json:"photo"`
	Position     int64                  `json:"position"`
	Translations []ProfessorTranslation `json:"translations"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// In resolves the professor text for locale; blank fields become placeholder.
func (p Professor) In(locale, placeholder string) ProfessorTranslation {
	t, _ := FindTranslation(p.Translations, locale)
	return ProfessorTranslation{
		Locale:        locale,
		Name:          OrPlaceholder(t.Name, placeholder),
		StudyMaterial: OrPlaceholder(t.StudyMaterial, placeholder),
		Description:   OrPlaceholder(t.Description, placeholder),
	}
}

// TestimonialTranslation holds the per-locale text of a testimonial.
type TestimonialTranslation struct {
	Locale      string `json:"locale"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (t TestimonialTranslation) LocaleCode() string { return t.Locale }

// Testimonial is a quote from a parent or student.
type Testimonial struct {
	ID           int64                    `json:"id"`
	Emoticon     string                   `json:"emoticon"`
	IsStudent    bool                     `json:"is_student"`
	Translations []TestimonialTranslation `json:"translations"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// In resolves the testimonial text for locale; blank fields become placeholder.
func (t Testimonial) In(locale, placeholder string) TestimonialTranslation {
	tr, _ := FindTranslation(t.Translations, locale)
	return TestimonialTranslation{
		Locale:      locale,
		Name:        OrPlaceholder(tr.Name, placeholder),
		Description: OrPlaceholder(tr.Description, placeholder),
	}
}

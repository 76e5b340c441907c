// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// CategoryTranslation holds the per-locale name of a category.
type CategoryTranslation struct {
	Locale string `json:"locale"`
	Name   string `json:"name"`
}

func (t CategoryTranslation) LocaleCode() string { return t.Locale }

// Category groups blog posts.
type Category struct {
	ID           int64                 `json:"id"`
	Slug         string                `json:"slug"`
	Translations []CategoryTranslation `json:"translations"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// Name resolves the category name for locale.
func (c Category) Name(locale, placeholder string) string {
	t, _ := FindTranslation(c.Translations, locale)
	return OrPlaceholder(t.Name, placeholder)
}

// BlogTranslation holds the per-locale title and Markdown body of a post.
type BlogTranslation struct {
	Locale  string `json:"locale"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (t BlogTranslation) LocaleCode() string { return t.Locale }

// Blog is a news post.
type Blog struct {
	ID           int64             `json:"id"`
	Slug         string            `json:"slug"`
	Image        string            `json:"image"`
	CategoryID   *int64            `json:"category_id"`
	Translations []BlogTranslation `json:"translations"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// In resolves the post text for locale. A missing body keeps the placeholder
// as plain text so it renders like any other Markdown paragraph.
func (b Blog) In(locale, placeholder string) BlogTranslation {
	t, _ := FindTranslation(b.Translations, locale)
	return BlogTranslation{
		Locale:  locale,
		Title:   OrPlaceholder(t.Title, placeholder),
		Content: OrPlaceholder(t.Content, placeholder),
	}
}

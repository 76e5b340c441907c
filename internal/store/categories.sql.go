// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const categoryColumns = `id, slug, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (Category, error) {
	var i Category
	err := row.Scan(&i.ID, &i.Slug, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const createCategory = `-- name: CreateCategory :one
INSERT INTO categories (slug, created_at, updated_at)
VALUES (?, ?, ?)
RETURNING ` + categoryColumns

type CreateCategoryParams struct {
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	return scanCategory(q.db.QueryRowContext(ctx, createCategory, arg.Slug, arg.CreatedAt, arg.UpdatedAt))
}

const updateCategory = `-- name: UpdateCategory :one
UPDATE categories SET slug = ?, updated_at = ? WHERE id = ?
RETURNING ` + categoryColumns

type UpdateCategoryParams struct {
	Slug      string    `json:"slug"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (Category, error) {
	return scanCategory(q.db.QueryRowContext(ctx, updateCategory, arg.Slug, arg.UpdatedAt, arg.ID))
}

const getCategory = `-- name: GetCategory :one
SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`

func (q *Queries) GetCategory(ctx context.Context, id int64) (Category, error) {
	return scanCategory(q.db.QueryRowContext(ctx, getCategory, id))
}

const getCategoryBySlug = `-- name: GetCategoryBySlug :one
SELECT ` + categoryColumns + ` FROM categories WHERE slug = ?`

func (q *Queries) GetCategoryBySlug(ctx context.Context, slug string) (Category, error) {
	return scanCategory(q.db.QueryRowContext(ctx, getCategoryBySlug, slug))
}

const categorySlugExists = `-- name: CategorySlugExists :one
SELECT COUNT(*) FROM categories WHERE slug = ? AND id != ?`

// CategorySlugExists reports whether slug is taken by a category other than excludeID.
func (q *Queries) CategorySlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, categorySlugExists, slug, excludeID).Scan(&count)
	return count > 0, err
}

const listCategories = `-- name: ListCategories :many
SELECT ` + categoryColumns + ` FROM categories ORDER BY slug`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []Category
	for rows.Next() {
		i, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const countCategories = `-- name: CountCategories :one
SELECT COUNT(*) FROM categories`

func (q *Queries) CountCategories(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countCategories).Scan(&count)
	return count, err
}

const countBlogsByCategory = `-- name: CountBlogsByCategory :one
SELECT COUNT(*) FROM blogs WHERE category_id = ?`

func (q *Queries) CountBlogsByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countBlogsByCategory, categoryID).Scan(&count)
	return count, err
}

const deleteCategory = `-- name: DeleteCategory :execrows
DELETE FROM categories WHERE id = ?`

func (q *Queries) DeleteCategory(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteCategory, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const upsertCategoryTranslation = `-- name: UpsertCategoryTranslation :exec
INSERT INTO category_translations (category_id, locale, name)
VALUES (?, ?, ?)
ON CONFLICT(category_id, locale) DO UPDATE SET name = excluded.name`

type UpsertCategoryTranslationParams struct {
	CategoryID int64  `json:"category_id"`
	Locale     string `json:"locale"`
	Name       string `json:"name"`
}

func (q *Queries) UpsertCategoryTranslation(ctx context.Context, arg UpsertCategoryTranslationParams) error {
	_, err := q.db.ExecContext(ctx, upsertCategoryTranslation, arg.CategoryID, arg.Locale, arg.Name)
	return err
}

const listCategoryTranslations = `-- name: ListCategoryTranslations :many
SELECT id, category_id, locale, name
FROM category_translations
WHERE (?1 = 0 OR category_id = ?1)
ORDER BY category_id, locale`

// ListCategoryTranslations returns translations of one category, or of all when categoryID is 0.
func (q *Queries) ListCategoryTranslations(ctx context.Context, categoryID int64) ([]CategoryTranslation, error) {
	rows, err := q.db.QueryContext(ctx, listCategoryTranslations, categoryID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []CategoryTranslation
	for rows.Next() {
		var i CategoryTranslation
		if err := rows.Scan(&i.ID, &i.CategoryID, &i.Locale, &i.Name); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

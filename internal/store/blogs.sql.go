// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

const blogColumns = `b.id, b.slug, b.image, b.category_id, b.created_at, b.updated_at`

const blogReturning = `id, slug, image, category_id, created_at, updated_at`

func scanBlog(row interface{ Scan(...any) error }) (Blog, error) {
	var i Blog
	err := row.Scan(&i.ID, &i.Slug, &i.Image, &i.CategoryID, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const createBlog = `-- name: CreateBlog :one
INSERT INTO blogs (slug, image, category_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
RETURNING ` + blogReturning

type CreateBlogParams struct {
	Slug       string        `json:"slug"`
	Image      string        `json:"image"`
	CategoryID sql.NullInt64 `json:"category_id"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func (q *Queries) CreateBlog(ctx context.Context, arg CreateBlogParams) (Blog, error) {
	row := q.db.QueryRowContext(ctx, createBlog,
		arg.Slug,
		arg.Image,
		arg.CategoryID,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanBlog(row)
}

const updateBlog = `-- name: UpdateBlog :one
UPDATE blogs SET slug = ?, image = ?, category_id = ?, updated_at = ?
WHERE id = ?
RETURNING ` + blogReturning

type UpdateBlogParams struct {
	Slug       string        `json:"slug"`
	Image      string        `json:"image"`
	CategoryID sql.NullInt64 `json:"category_id"`
	UpdatedAt  time.Time     `json:"updated_at"`
	ID         int64         `json:"id"`
}

func (q *Queries) UpdateBlog(ctx context.Context, arg UpdateBlogParams) (Blog, error) {
	row := q.db.QueryRowContext(ctx, updateBlog,
		arg.Slug,
		arg.Image,
		arg.CategoryID,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanBlog(row)
}

const getBlog = `-- name: GetBlog :one
SELECT ` + blogColumns + ` FROM blogs b WHERE b.id = ?`

func (q *Queries) GetBlog(ctx context.Context, id int64) (Blog, error) {
	return scanBlog(q.db.QueryRowContext(ctx, getBlog, id))
}

const getBlogBySlug = `-- name: GetBlogBySlug :one
SELECT ` + blogColumns + ` FROM blogs b WHERE b.slug = ?`

func (q *Queries) GetBlogBySlug(ctx context.Context, slug string) (Blog, error) {
	return scanBlog(q.db.QueryRowContext(ctx, getBlogBySlug, slug))
}

const blogSlugExists = `-- name: BlogSlugExists :one
SELECT COUNT(*) FROM blogs WHERE slug = ? AND id != ?`

// BlogSlugExists reports whether slug is taken by a blog other than excludeID.
func (q *Queries) BlogSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, blogSlugExists, slug, excludeID).Scan(&count)
	return count > 0, err
}

const deleteBlog = `-- name: DeleteBlog :execrows
DELETE FROM blogs WHERE id = ?`

func (q *Queries) DeleteBlog(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteBlog, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const countBlogs = `-- name: CountBlogs :one
SELECT COUNT(*) FROM blogs`

func (q *Queries) CountBlogs(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countBlogs).Scan(&count)
	return count, err
}

// Shared filter for SearchBlogs and CountSearchBlogs. Every condition is
// disabled by its zero value so one statement serves all combinations.
const blogSearchWhere = `
FROM blogs b
LEFT JOIN categories c ON c.id = b.category_id
WHERE (?1 = '' OR c.slug = ?1)
  AND (?2 IS NULL OR b.created_at >= ?2)
  AND (?3 IS NULL OR b.created_at <= ?3)
  AND (?4 = '' OR EXISTS (
      SELECT 1 FROM blog_translations t
      WHERE t.blog_id = b.id
        AND (?5 = '' OR t.locale = ?5)
        AND (t.title LIKE ?4 ESCAPE '\' OR t.content LIKE ?4 ESCAPE '\')
  ))`

const searchBlogs = `-- name: SearchBlogs :many
SELECT ` + blogColumns + blogSearchWhere + `
ORDER BY b.created_at DESC, b.id DESC
LIMIT ?6 OFFSET ?7`

type SearchBlogsParams struct {
	CategorySlug string       `json:"category_slug"`
	From         sql.NullTime `json:"from"`
	To           sql.NullTime `json:"to"`
	Query        string       `json:"query"`
	Locale       string       `json:"locale"`
	Limit        int64        `json:"limit"`
	Offset       int64        `json:"offset"`
}

// LikePattern wraps s in % wildcards for SearchBlogs, escaping LIKE metacharacters.
// An empty s yields an empty pattern, which disables the text filter.
func LikePattern(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func (q *Queries) SearchBlogs(ctx context.Context, arg SearchBlogsParams) ([]Blog, error) {
	rows, err := q.db.QueryContext(ctx, searchBlogs,
		arg.CategorySlug,
		arg.From,
		arg.To,
		arg.Query,
		arg.Locale,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []Blog
	for rows.Next() {
		i, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const countSearchBlogs = `-- name: CountSearchBlogs :one
SELECT COUNT(*)` + blogSearchWhere

type CountSearchBlogsParams struct {
	CategorySlug string       `json:"category_slug"`
	From         sql.NullTime `json:"from"`
	To           sql.NullTime `json:"to"`
	Query        string       `json:"query"`
	Locale       string       `json:"locale"`
}

func (q *Queries) CountSearchBlogs(ctx context.Context, arg CountSearchBlogsParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countSearchBlogs,
		arg.CategorySlug,
		arg.From,
		arg.To,
		arg.Query,
		arg.Locale,
	).Scan(&count)
	return count, err
}

const upsertBlogTranslation = `-- name: UpsertBlogTranslation :exec
INSERT INTO blog_translations (blog_id, locale, title, content)
VALUES (?, ?, ?, ?)
ON CONFLICT(blog_id, locale) DO UPDATE SET
    title = excluded.title,
    content = excluded.content`

type UpsertBlogTranslationParams struct {
	BlogID  int64  `json:"blog_id"`
	Locale  string `json:"locale"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (q *Queries) UpsertBlogTranslation(ctx context.Context, arg UpsertBlogTranslationParams) error {
	_, err := q.db.ExecContext(ctx, upsertBlogTranslation, arg.BlogID, arg.Locale, arg.Title, arg.Content)
	return err
}

const listBlogTranslations = `-- name: ListBlogTranslations :many
SELECT id, blog_id, locale, title, content FROM blog_translations`

// ListBlogTranslations returns the translations of the given blogs.
func (q *Queries) ListBlogTranslations(ctx context.Context, blogIDs ...int64) ([]BlogTranslation, error) {
	if len(blogIDs) == 0 {
		return nil, nil
	}
	query := listBlogTranslations + ` WHERE blog_id IN (?` + strings.Repeat(",?", len(blogIDs)-1) + `) ORDER BY blog_id, locale`
	args := make([]any, len(blogIDs))
	for i, id := range blogIDs {
		args[i] = id
	}
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []BlogTranslation
	for rows.Next() {
		var i BlogTranslation
		if err := rows.Scan(&i.ID, &i.BlogID, &i.Locale, &i.Title, &i.Content); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const testimonialColumns = `id, emoticon, is_student, created_at, updated_at`

func scanTestimonial(row interface{ Scan(...any) error }) (Testimonial, error) {
	var i Testimonial
	err := row.Scan(&i.ID, &i.Emoticon, &i.IsStudent, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const createTestimonial = `-- name: CreateTestimonial :one
INSERT INTO testimonials (emoticon, is_student, created_at, updated_at)
VALUES (?, ?, ?, ?)
RETURNING ` + testimonialColumns

type CreateTestimonialParams struct {
	Emoticon  string    `json:"emoticon"`
	IsStudent bool      `json:"is_student"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Queries) CreateTestimonial(ctx context.Context, arg CreateTestimonialParams) (Testimonial, error) {
	row := q.db.QueryRowContext(ctx, createTestimonial, arg.Emoticon, arg.IsStudent, arg.CreatedAt, arg.UpdatedAt)
	return scanTestimonial(row)
}

const updateTestimonial = `-- name: UpdateTestimonial :one
UPDATE testimonials SET emoticon = ?, is_student = ?, updated_at = ?
WHERE id = ?
RETURNING ` + testimonialColumns

type UpdateTestimonialParams struct {
	Emoticon  string    `json:"emoticon"`
	IsStudent bool      `json:"is_student"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
}

func (q *Queries) UpdateTestimonial(ctx context.Context, arg UpdateTestimonialParams) (Testimonial, error) {
	row := q.db.QueryRowContext(ctx, updateTestimonial, arg.Emoticon, arg.IsStudent, arg.UpdatedAt, arg.ID)
	return scanTestimonial(row)
}

const getTestimonial = `-- name: GetTestimonial :one
SELECT ` + testimonialColumns + ` FROM testimonials WHERE id = ?`

func (q *Queries) GetTestimonial(ctx context.Context, id int64) (Testimonial, error) {
	return scanTestimonial(q.db.QueryRowContext(ctx, getTestimonial, id))
}

const listTestimonials = `-- name: ListTestimonials :many
SELECT ` + testimonialColumns + ` FROM testimonials ORDER BY created_at DESC, id DESC`

func (q *Queries) ListTestimonials(ctx context.Context) ([]Testimonial, error) {
	rows, err := q.db.QueryContext(ctx, listTestimonials)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []Testimonial
	for rows.Next() {
		i, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const countTestimonials = `-- name: CountTestimonials :one
SELECT COUNT(*) FROM testimonials`

func (q *Queries) CountTestimonials(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countTestimonials).Scan(&count)
	return count, err
}

const deleteTestimonial = `-- name: DeleteTestimonial :execrows
DELETE FROM testimonials WHERE id = ?`

func (q *Queries) DeleteTestimonial(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTestimonial, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const upsertTestimonialTranslation = `-- name: UpsertTestimonialTranslation :exec
INSERT INTO testimonial_translations (testimonial_id, locale, name, description)
VALUES (?, ?, ?, ?)
ON CONFLICT(testimonial_id, locale) DO UPDATE SET
    name = excluded.name,
    description = excluded.description`

type UpsertTestimonialTranslationParams struct {
	TestimonialID int64  `json:"testimonial_id"`
	Locale        string `json:"locale"`
	Name          string `json:"name"`
	Description   string `json:"description"`
}

func (q *Queries) UpsertTestimonialTranslation(ctx context.Context, arg UpsertTestimonialTranslationParams) error {
	_, err := q.db.ExecContext(ctx, upsertTestimonialTranslation,
		arg.TestimonialID,
		arg.Locale,
		arg.Name,
		arg.Description,
	)
	return err
}

const listTestimonialTranslations = `-- name: ListTestimonialTranslations :many
SELECT id, testimonial_id, locale, name, description
FROM testimonial_translations
WHERE (?1 = 0 OR testimonial_id = ?1)
ORDER BY testimonial_id, locale`

// ListTestimonialTranslations returns translations of one testimonial, or of all when testimonialID is 0.
func (q *Queries) ListTestimonialTranslations(ctx context.Context, testimonialID int64) ([]TestimonialTranslation, error) {
	rows, err := q.db.QueryContext(ctx, listTestimonialTranslations, testimonialID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []TestimonialTranslation
	for rows.Next() {
		var i TestimonialTranslation
		if err := rows.Scan(&i.ID, &i.TestimonialID, &i.Locale, &i.Name, &i.Description); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

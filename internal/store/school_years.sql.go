// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const schoolYearColumns = `id, start_year, end_year, is_current, created_at, updated_at`

func scanSchoolYear(row interface{ Scan(...any) error }) (SchoolYear, error) {
	var i SchoolYear
	err := row.Scan(&i.ID, &i.StartYear, &i.EndYear, &i.IsCurrent, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const getCurrentSchoolYear = `-- name: GetCurrentSchoolYear :one
SELECT ` + schoolYearColumns + ` FROM school_years WHERE is_current = 1`

func (q *Queries) GetCurrentSchoolYear(ctx context.Context) (SchoolYear, error) {
	return scanSchoolYear(q.db.QueryRowContext(ctx, getCurrentSchoolYear))
}

const getSchoolYearByStart = `-- name: GetSchoolYearByStart :one
SELECT ` + schoolYearColumns + ` FROM school_years WHERE start_year = ?`

func (q *Queries) GetSchoolYearByStart(ctx context.Context, startYear int64) (SchoolYear, error) {
	return scanSchoolYear(q.db.QueryRowContext(ctx, getSchoolYearByStart, startYear))
}

const listSchoolYears = `-- name: ListSchoolYears :many
SELECT ` + schoolYearColumns + ` FROM school_years ORDER BY start_year DESC`

func (q *Queries) ListSchoolYears(ctx context.Context) ([]SchoolYear, error) {
	rows, err := q.db.QueryContext(ctx, listSchoolYears)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []SchoolYear
	for rows.Next() {
		i, err := scanSchoolYear(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const clearCurrentSchoolYear = `-- name: ClearCurrentSchoolYear :exec
UPDATE school_years SET is_current = 0, updated_at = ? WHERE is_current = 1`

func (q *Queries) ClearCurrentSchoolYear(ctx context.Context, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx, clearCurrentSchoolYear, updatedAt)
	return err
}

const upsertCurrentSchoolYear = `-- name: UpsertCurrentSchoolYear :one
INSERT INTO school_years (start_year, end_year, is_current, created_at, updated_at)
VALUES (?1, ?2, 1, ?3, ?3)
ON CONFLICT(start_year) DO UPDATE SET is_current = 1, updated_at = excluded.updated_at
RETURNING ` + schoolYearColumns

type UpsertCurrentSchoolYearParams struct {
	StartYear int64     `json:"start_year"`
	EndYear   int64     `json:"end_year"`
	Now       time.Time `json:"now"`
}

// UpsertCurrentSchoolYear must run after ClearCurrentSchoolYear in the same transaction.
func (q *Queries) UpsertCurrentSchoolYear(ctx context.Context, arg UpsertCurrentSchoolYearParams) (SchoolYear, error) {
	return scanSchoolYear(q.db.QueryRowContext(ctx, upsertCurrentSchoolYear, arg.StartYear, arg.EndYear, arg.Now))
}

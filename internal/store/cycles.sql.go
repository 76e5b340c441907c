// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const cycleColumns = `id, duration, age_range, photo, position, created_at, updated_at`

func scanCycle(row interface{ Scan(...any) error }) (Cycle, error) {
	var i Cycle
	err := row.Scan(&i.ID, &i.Duration, &i.AgeRange, &i.Photo, &i.Position, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const createCycle = `-- name: CreateCycle :one
INSERT INTO cycles (duration, age_range, photo, position, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + cycleColumns

type CreateCycleParams struct {
	Duration  string    `json:"duration"`
	AgeRange  string    `json:"age_range"`
	Photo     string    `json:"photo"`
	Position  int64     `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Queries) CreateCycle(ctx context.Context, arg CreateCycleParams) (Cycle, error) {
	row := q.db.QueryRowContext(ctx, createCycle,
		arg.Duration,
		arg.AgeRange,
		arg.Photo,
		arg.Position,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanCycle(row)
}

const updateCycle = `-- name: UpdateCycle :one
UPDATE cycles SET duration = ?, age_range = ?, photo = ?, position = ?, updated_at = ?
WHERE id = ?
RETURNING ` + cycleColumns

type UpdateCycleParams struct {
	Duration  string    `json:"duration"`
	AgeRange  string    `json:"age_range"`
	Photo     string    `json:"photo"`
	Position  int64     `json:"position"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
}

func (q *Queries) UpdateCycle(ctx context.Context, arg UpdateCycleParams) (Cycle, error) {
	row := q.db.QueryRowContext(ctx, updateCycle,
		arg.Duration,
		arg.AgeRange,
		arg.Photo,
		arg.Position,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanCycle(row)
}

const getCycle = `-- name: GetCycle :one
SELECT ` + cycleColumns + ` FROM cycles WHERE id = ?`

func (q *Queries) GetCycle(ctx context.Context, id int64) (Cycle, error) {
	return scanCycle(q.db.QueryRowContext(ctx, getCycle, id))
}

const listCycles = `-- name: ListCycles :many
SELECT ` + cycleColumns + ` FROM cycles ORDER BY position, id`

func (q *Queries) ListCycles(ctx context.Context) ([]Cycle, error) {
	rows, err := q.db.QueryContext(ctx, listCycles)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []Cycle
	for rows.Next() {
		i, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const countCycles = `-- name: CountCycles :one
SELECT COUNT(*) FROM cycles`

func (q *Queries) CountCycles(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countCycles).Scan(&count)
	return count, err
}

const deleteCycle = `-- name: DeleteCycle :execrows
DELETE FROM cycles WHERE id = ?`

func (q *Queries) DeleteCycle(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteCycle, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const upsertCycleTranslation = `-- name: UpsertCycleTranslation :exec
INSERT INTO cycle_translations (cycle_id, locale, name, description, more_details)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(cycle_id, locale) DO UPDATE SET
    name = excluded.name,
    description = excluded.description,
    more_details = excluded.more_details`

type UpsertCycleTranslationParams struct {
	CycleID     int64  `json:"cycle_id"`
	Locale      string `json:"locale"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MoreDetails string `json:"more_details"`
}

func (q *Queries) UpsertCycleTranslation(ctx context.Context, arg UpsertCycleTranslationParams) error {
	_, err := q.db.ExecContext(ctx, upsertCycleTranslation,
		arg.CycleID,
		arg.Locale,
		arg.Name,
		arg.Description,
		arg.MoreDetails,
	)
	return err
}

const listCycleTranslations = `-- name: ListCycleTranslations :many
SELECT id, cycle_id, locale, name, description, more_details
FROM cycle_translations
WHERE (?1 = 0 OR cycle_id = ?1)
ORDER BY cycle_id, locale`

// ListCycleTranslations returns translations of one cycle, or of every cycle when cycleID is 0.
func (q *Queries) ListCycleTranslations(ctx context.Context, cycleID int64) ([]CycleTranslation, error) {
	rows, err := q.db.QueryContext(ctx, listCycleTranslations, cycleID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []CycleTranslation
	for rows.Next() {
		var i CycleTranslation
		if err := rows.Scan(&i.ID, &i.CycleID, &i.Locale, &i.Name, &i.Description, &i.MoreDetails); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

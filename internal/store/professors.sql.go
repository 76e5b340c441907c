// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const professorColumns = `id, photo, position, created_at, updated_at`

func scanProfessor(row interface{ Scan(...any) error }) (Professor, error) {
	var i Professor
	err := row.Scan(&i.ID, &i.Photo, &i.Position, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const createProfessor = `-- name: CreateProfessor :one
INSERT INTO professors (photo, position, created_at, updated_at)
VALUES (?, ?, ?, ?)
RETURNING ` + professorColumns

type CreateProfessorParams struct {
	Photo     string    `json:"photo"`
	Position  int64     `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Queries) CreateProfessor(ctx context.Context, arg CreateProfessorParams) (Professor, error) {
	row := q.db.QueryRowContext(ctx, createProfessor, arg.Photo, arg.Position, arg.CreatedAt, arg.UpdatedAt)
	return scanProfessor(row)
}

const updateProfessor = `-- name: UpdateProfessor :one
UPDATE professors SET photo = ?, position = ?, updated_at = ?
WHERE id = ?
RETURNING ` + professorColumns

type UpdateProfessorParams struct {
	Photo     string    `json:"photo"`
	Position  int64     `json:"position"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
}

func (q *Queries) UpdateProfessor(ctx context.Context, arg UpdateProfessorParams) (Professor, error) {
	row := q.db.QueryRowContext(ctx, updateProfessor, arg.Photo, arg.Position, arg.UpdatedAt, arg.ID)
	return scanProfessor(row)
}

const getProfessor = `-- name: GetProfessor :one
SELECT ` + professorColumns + ` FROM professors WHERE id = ?`

func (q *Queries) GetProfessor(ctx context.Context, id int64) (Professor, error) {
	return scanProfessor(q.db.QueryRowContext(ctx, getProfessor, id))
}

const listProfessors = `-- name: ListProfessors :many
SELECT ` + professorColumns + ` FROM professors ORDER BY position, id`

func (q *Queries) ListProfessors(ctx context.Context) ([]Professor, error) {
	rows, err := q.db.QueryContext(ctx, listProfessors)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []Professor
	for rows.Next() {
		i, err := scanProfessor(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const countProfessors = `-- name: CountProfessors :one
SELECT COUNT(*) FROM professors`

func (q *Queries) CountProfessors(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countProfessors).Scan(&count)
	return count, err
}

const deleteProfessor = `-- name: DeleteProfessor :execrows
DELETE FROM professors WHERE id = ?`

func (q *Queries) DeleteProfessor(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteProfessor, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const upsertProfessorTranslation = `-- name: UpsertProfessorTranslation :exec
INSERT INTO professor_translations (professor_id, locale, name, study_material, description)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(professor_id, locale) DO UPDATE SET
    name = excluded.name,
    study_material = excluded.study_material,
    description = excluded.description`

type UpsertProfessorTranslationParams struct {
	ProfessorID   int64  `json:"professor_id"`
	Locale        string `json:"locale"`
	Name          string `json:"name"`
	StudyMaterial string `json:"study_material"`
	Description   string `json:"description"`
}

func (q *Queries) UpsertProfessorTranslation(ctx context.Context, arg UpsertProfessorTranslationParams) error {
	_, err := q.db.ExecContext(ctx, upsertProfessorTranslation,
		arg.ProfessorID,
		arg.Locale,
		arg.Name,
		arg.StudyMaterial,
		arg.Description,
	)
	return err
}

const listProfessorTranslations = `-- name: ListProfessorTranslations :many
SELECT id, professor_id, locale, name, study_material, description
FROM professor_translations
WHERE (?1 = 0 OR professor_id = ?1)
ORDER BY professor_id, locale`

// ListProfessorTranslations returns translations of one professor, or of all when professorID is 0.
func (q *Queries) ListProfessorTranslations(ctx context.Context, professorID int64) ([]ProfessorTranslation, error) {
	rows, err := q.db.QueryContext(ctx, listProfessorTranslations, professorID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []ProfessorTranslation
	for rows.Next() {
		var i ProfessorTranslation
		if err := rows.Scan(&i.ID, &i.ProfessorID, &i.Locale, &i.Name, &i.StudyMaterial, &i.Description); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const inscriptionColumns = `id, student_name, birth_date, cycle_id, school_year_id, parent_name, email, phone,
    message, locale, status, ip_address, country, user_agent, created_at, updated_at`

func scanInscription(row interface{ Scan(...any) error }) (Inscription, error) {
	var i Inscription
	err := row.Scan(
		&i.ID,
		&i.StudentName,
		&i.BirthDate,
		&i.CycleID,
		&i.SchoolYearID,
		&i.ParentName,
		&i.Email,
		&i.Phone,
		&i.Message,
		&i.Locale,
		&i.Status,
		&i.IpAddress,
		&i.Country,
		&i.UserAgent,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createInscription = `-- name: CreateInscription :one
INSERT INTO inscriptions (
    student_name, birth_date, cycle_id, school_year_id, parent_name, email, phone,
    message, locale, status, ip_address, country, user_agent, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + inscriptionColumns

type CreateInscriptionParams struct {
	StudentName  string        `json:"student_name"`
	BirthDate    string        `json:"birth_date"`
	CycleID      sql.NullInt64 `json:"cycle_id"`
	SchoolYearID sql.NullInt64 `json:"school_year_id"`
	ParentName   string        `json:"parent_name"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	Message      string        `json:"message"`
	Locale       string        `json:"locale"`
	Status       string        `json:"status"`
	IpAddress    string        `json:"ip_address"`
	Country      string        `json:"country"`
	UserAgent    string        `json:"user_agent"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (q *Queries) CreateInscription(ctx context.Context, arg CreateInscriptionParams) (Inscription, error) {
	row := q.db.QueryRowContext(ctx, createInscription,
		arg.StudentName,
		arg.BirthDate,
		arg.CycleID,
		arg.SchoolYearID,
		arg.ParentName,
		arg.Email,
		arg.Phone,
		arg.Message,
		arg.Locale,
		arg.Status,
		arg.IpAddress,
		arg.Country,
		arg.UserAgent,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanInscription(row)
}

const getInscription = `-- name: GetInscription :one
SELECT ` + inscriptionColumns + ` FROM inscriptions WHERE id = ?`

func (q *Queries) GetInscription(ctx context.Context, id int64) (Inscription, error) {
	return scanInscription(q.db.QueryRowContext(ctx, getInscription, id))
}

const listInscriptions = `-- name: ListInscriptions :many
SELECT ` + inscriptionColumns + `
FROM inscriptions
WHERE (?1 = '' OR status = ?1)
ORDER BY created_at DESC, id DESC
LIMIT ?2 OFFSET ?3`

type ListInscriptionsParams struct {
	Status string `json:"status"`
	Limit  int64  `json:"limit"`
	Offset int64  `json:"offset"`
}

func (q *Queries) ListInscriptions(ctx context.Context, arg ListInscriptionsParams) ([]Inscription, error) {
	rows, err := q.db.QueryContext(ctx, listInscriptions, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []Inscription
	for rows.Next() {
		i, err := scanInscription(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const countInscriptions = `-- name: CountInscriptions :one
SELECT COUNT(*) FROM inscriptions WHERE (?1 = '' OR status = ?1)`

func (q *Queries) CountInscriptions(ctx context.Context, status string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countInscriptions, status).Scan(&count)
	return count, err
}

const updateInscriptionStatus = `-- name: UpdateInscriptionStatus :execrows
UPDATE inscriptions SET status = ?, updated_at = ? WHERE id = ?`

type UpdateInscriptionStatusParams struct {
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
}

func (q *Queries) UpdateInscriptionStatus(ctx context.Context, arg UpdateInscriptionStatusParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateInscriptionStatus, arg.Status, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteInscription = `-- name: DeleteInscription :execrows
DELETE FROM inscriptions WHERE id = ?`

func (q *Queries) DeleteInscription(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteInscription, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

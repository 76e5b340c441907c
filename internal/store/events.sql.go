// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const createEvent = `-- name: CreateEvent :exec
INSERT INTO events (level, category, message, user_id, metadata, ip_address, request_url, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

type CreateEventParams struct {
	Level      string        `json:"level"`
	Category   string        `json:"category"`
	Message    string        `json:"message"`
	UserID     sql.NullInt64 `json:"user_id"`
	Metadata   string        `json:"metadata"`
	IpAddress  string        `json:"ip_address"`
	RequestUrl string        `json:"request_url"`
	CreatedAt  time.Time     `json:"created_at"`
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) error {
	_, err := q.db.ExecContext(ctx, createEvent,
		arg.Level,
		arg.Category,
		arg.Message,
		arg.UserID,
		arg.Metadata,
		arg.IpAddress,
		arg.RequestUrl,
		arg.CreatedAt,
	)
	return err
}

// EventWithUser is an event row joined with the acting user's name.
type EventWithUser struct {
	Event
	UserName sql.NullString `json:"user_name"`
}

const listEvents = `-- name: ListEvents :many
SELECT e.id, e.level, e.category, e.message, e.user_id, e.metadata, e.ip_address, e.request_url, e.created_at, u.name
FROM events e
LEFT JOIN users u ON u.id = e.user_id
WHERE (?1 = '' OR e.level = ?1)
ORDER BY e.created_at DESC, e.id DESC
LIMIT ?2 OFFSET ?3`

type ListEventsParams struct {
	Level  string `json:"level"`
	Limit  int64  `json:"limit"`
	Offset int64  `json:"offset"`
}

func (q *Queries) ListEvents(ctx context.Context, arg ListEventsParams) ([]EventWithUser, error) {
	rows, err := q.db.QueryContext(ctx, listEvents, arg.Level, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []EventWithUser
	for rows.Next() {
		var i EventWithUser
		if err := rows.Scan(
			&i.ID,
			&i.Level,
			&i.Category,
			&i.Message,
			&i.UserID,
			&i.Metadata,
			&i.IpAddress,
			&i.RequestUrl,
			&i.CreatedAt,
			&i.UserName,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const countEvents = `-- name: CountEvents :one
SELECT COUNT(*) FROM events WHERE (?1 = '' OR level = ?1)`

func (q *Queries) CountEvents(ctx context.Context, level string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countEvents, level).Scan(&count)
	return count, err
}

const deleteEventsBefore = `-- name: DeleteEventsBefore :execrows
DELETE FROM events WHERE created_at < ?`

func (q *Queries) DeleteEventsBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteEventsBefore, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

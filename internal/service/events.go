// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/store"
)

// EventService records and lists audit events.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{queries: store.New(db)}
}

// LogEvent creates a new event log entry.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	var nullUserID sql.NullInt64
	if userID != nil {
		nullUserID = sql.NullInt64{Int64: *userID, Valid: true}
	}

	metadataJSON := "{}"
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		UserID:    nullUserID,
		Metadata:  metadataJSON,
		IpAddress: ipAddress,
		CreatedAt: store.Now(),
	})
	if err != nil {
		slog.Error("failed to log event", "error", err, "message", message)
		return err
	}
	return nil
}

// LogInfo logs an info-level event.
func (s *EventService) LogInfo(ctx context.Context, category, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelInfo, category, message, userID, ipAddress, metadata)
}

// LogWarning logs a warning-level event.
func (s *EventService) LogWarning(ctx context.Context, category, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelWarning, category, message, userID, ipAddress, metadata)
}

// LogContentEvent logs an admin content change.
func (s *EventService) LogContentEvent(ctx context.Context, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelInfo, model.EventCategoryContent, message, userID, ipAddress, metadata)
}

// LogAuthEvent logs an authentication-related event.
func (s *EventService) LogAuthEvent(ctx context.Context, level, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryAuth, message, userID, ipAddress, metadata)
}

// EventPage is one page of the event log.
type EventPage struct {
	Events []store.EventWithUser
	Pagination
}

// List returns events newest first, optionally filtered by level.
func (s *EventService) List(ctx context.Context, level string, page, perPage int) (EventPage, error) {
	total, err := s.queries.CountEvents(ctx, level)
	if err != nil {
		return EventPage{}, err
	}
	p := NewPagination(page, perPage, 50, 200, total)
	events, err := s.queries.ListEvents(ctx, store.ListEventsParams{
		Level:  level,
		Limit:  int64(p.PerPage),
		Offset: p.Offset(),
	})
	if err != nil {
		return EventPage{}, err
	}
	return EventPage{Events: events, Pagination: p}, nil
}

// Recent returns the latest n events.
func (s *EventService) Recent(ctx context.Context, n int) ([]store.EventWithUser, error) {
	return s.queries.ListEvents(ctx, store.ListEventsParams{Limit: int64(n)})
}

// PurgeOlderThan removes events older than age and returns how many went.
func (s *EventService) PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	return s.queries.DeleteEventsBefore(ctx, store.Now().Add(-age))
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors WARN and above into
// the events table so they show up in the admin event log.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/store"
)

type requestInfoKey struct{}

// RequestInfo is the request context attached to persisted events.
type RequestInfo struct {
	IP  string
	URL string
}

// WithRequestInfo returns ctx carrying info for EventLogHandler.
func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, info)
}

func requestInfo(ctx context.Context) RequestInfo {
	if ctx == nil {
		return RequestInfo{}
	}
	info, _ := ctx.Value(requestInfoKey{}).(RequestInfo)
	return info
}

// EventLogHandler wraps another handler and also writes records at or above
// its level to the events table.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
	attrs   []slog.Attr
}

// NewEventLogHandler creates a handler that persists WARN and ERROR records.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return &EventLogHandler{inner: inner, queries: store.New(db), level: slog.LevelWarn}
}

func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		if err := h.persist(ctx, r); err != nil {
			return fmt.Errorf("persisting event: %w", err)
		}
	}
	return nil
}

func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &EventLogHandler{inner: h.inner.WithAttrs(attrs), queries: h.queries, level: h.level, attrs: merged}
}

func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{inner: h.inner.WithGroup(name), queries: h.queries, level: h.level, attrs: h.attrs}
}

func (h *EventLogHandler) persist(ctx context.Context, r slog.Record) error {
	category := ""
	meta := make(map[string]string)
	collect := func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
			return true
		}
		meta[a.Key] = a.Value.String()
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(collect)

	if category == "" {
		category = inferCategory(r.Message)
	}
	metadata := "{}"
	if len(meta) > 0 {
		if b, err := json.Marshal(meta); err == nil {
			metadata = string(b)
		}
	}

	info := requestInfo(ctx)
	// Detached from the request context so cancelled requests still record.
	return h.queries.CreateEvent(context.Background(), store.CreateEventParams{
		Level:      levelName(r.Level),
		Category:   category,
		Message:    r.Message,
		Metadata:   metadata,
		IpAddress:  info.IP,
		RequestUrl: info.URL,
		CreatedAt:  r.Time.UTC().Truncate(time.Second),
	})
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

func inferCategory(message string) string {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "login") || strings.Contains(msg, "logout") || strings.Contains(msg, "auth"):
		return model.EventCategoryAuth
	case strings.Contains(msg, "inscription"):
		return model.EventCategoryInscription
	case strings.Contains(msg, "school year"):
		return model.EventCategorySchoolYear
	case strings.Contains(msg, "csrf") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "lockout"):
		return model.EventCategorySecurity
	case strings.Contains(msg, "blog") || strings.Contains(msg, "cycle") || strings.Contains(msg, "professor") ||
		strings.Contains(msg, "testimonial") || strings.Contains(msg, "category"):
		return model.EventCategoryContent
	default:
		return model.EventCategorySystem
	}
}

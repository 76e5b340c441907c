// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mailer sends notification emails through SendGrid or, when no API
// key is configured, writes them to the log.
package mailer

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
)

// ErrNoRecipients is returned when a message has no valid To address.
var ErrNoRecipients = errors.New("mailer: message has no recipients")

// Message is a single outgoing email.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Recipients returns the parsed To addresses, skipping invalid ones.
func (m Message) Recipients() []*mail.Address {
	var out []*mail.Address
	for _, to := range m.To {
		addr, err := mail.ParseAddress(strings.TrimSpace(to))
		if err != nil {
			continue
		}
		out = append(out, addr)
	}
	return out
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Config selects and configures the backend.
type Config struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
}

// New returns a SendGrid mailer when an API key is set, otherwise a log mailer.
func New(cfg Config, logger *slog.Logger) Mailer {
	if cfg.SendGridAPIKey != "" {
		return NewSendGrid(cfg.SendGridAPIKey, cfg.FromName, cfg.FromEmail)
	}
	return NewLogMailer(logger)
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer. A nil logger uses slog.Default.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	rcpts := msg.Recipients()
	if len(rcpts) == 0 {
		return ErrNoRecipients
	}
	to := make([]string, len(rcpts))
	for i, r := range rcpts {
		to[i] = r.Address
	}
	m.logger.InfoContext(ctx, "email (not sent, no SendGrid key)",
		"to", strings.Join(to, ","),
		"subject", msg.Subject,
		"body", msg.Text,
	)
	return nil
}

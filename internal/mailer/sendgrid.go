// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendGridHost     = "https://api.sendgrid.com"
	sendGridEndpoint = "/v3/mail/send"
)

// SendGridMailer sends through the SendGrid v3 API.
type SendGridMailer struct {
	key  string
	from *sgmail.Email
	host string
}

// NewSendGrid creates a SendGridMailer.
func NewSendGrid(key, fromName, fromEmail string) *SendGridMailer {
	return &SendGridMailer{
		key:  key,
		from: sgmail.NewEmail(fromName, fromEmail),
		host: sendGridHost,
	}
}

func (s *SendGridMailer) prepare(msg Message) (*sgmail.SGMailV3, error) {
	rcpts := msg.Recipients()
	if len(rcpts) == 0 {
		return nil, ErrNoRecipients
	}

	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	for _, to := range rcpts {
		p.AddTos(sgmail.NewEmail(to.Name, to.Address))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	if msg.ReplyTo != "" {
		m.SetReplyTo(sgmail.NewEmail("", msg.ReplyTo))
	}
	m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return m, nil
}

func (s *SendGridMailer) Send(ctx context.Context, msg Message) error {
	m, err := s.prepare(msg)
	if err != nil {
		return err
	}

	req := sendgrid.GetRequest(s.key, sendGridEndpoint, s.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid returned status %d", res.StatusCode)
	}
	return nil
}

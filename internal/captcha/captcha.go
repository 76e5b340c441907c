// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package captcha verifies hCaptcha tokens submitted with public forms.
package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultVerifyURL = "https://api.hcaptcha.com/siteverify"
	verifyTimeout    = 10 * time.Second

	// FormField is the form field the hCaptcha widget posts.
	FormField = "h-captcha-response"
)

var (
	// ErrMissingResponse means the visitor did not complete the challenge.
	ErrMissingResponse = errors.New("captcha: missing response")
	// ErrInvalid means hCaptcha rejected the token.
	ErrInvalid = errors.New("captcha: verification failed")
)

// verifyResponse is the siteverify API response.
type verifyResponse struct {
	Success    bool     `json:"success"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

// Verifier checks tokens against the hCaptcha API. A Verifier without keys is
// disabled and accepts every submission.
type Verifier struct {
	siteKey   string
	secretKey string
	verifyURL string
	client    *http.Client
}

// New creates a Verifier. Both keys must be set for verification to run.
func New(siteKey, secretKey string) *Verifier {
	return &Verifier{
		siteKey:   siteKey,
		secretKey: secretKey,
		verifyURL: defaultVerifyURL,
		client:    &http.Client{Timeout: verifyTimeout},
	}
}

// Enabled reports whether submissions are checked.
func (v *Verifier) Enabled() bool {
	return v != nil && v.siteKey != "" && v.secretKey != ""
}

// SiteKey returns the public key rendered into the widget.
func (v *Verifier) SiteKey() string {
	if !v.Enabled() {
		return ""
	}
	return v.siteKey
}

// Verify returns nil when the token is valid or verification is disabled.
func (v *Verifier) Verify(ctx context.Context, response, remoteIP string) error {
	if !v.Enabled() {
		return nil
	}
	if strings.TrimSpace(response) == "" {
		return ErrMissingResponse
	}

	data := url.Values{}
	data.Set("secret", v.secretKey)
	data.Set("response", response)
	data.Set("sitekey", v.siteKey)
	if remoteIP != "" {
		data.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("building captcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("captcha verification request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("parsing captcha response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(result.ErrorCodes, ","))
	}
	return nil
}

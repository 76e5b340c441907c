// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the public JSON API of the school site.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lagrandiose/grandiose/internal/middleware"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/service"
)

// Deps are the services the API reads from.
type Deps struct {
	Content      *service.ContentService
	Blogs        *service.BlogService
	Inscriptions *service.InscriptionService
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	content      *service.ContentService
	blogs        *service.BlogService
	inscriptions *service.InscriptionService
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	return &Handler{
		content:      d.Content,
		blogs:        d.Blogs,
		inscriptions: d.Inscriptions,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination and locale metadata.
type Meta struct {
	Locale  string `json:"locale,omitempty"`
	Total   int64  `json:"total,omitempty"`
	Page    int    `json:"page,omitempty"`
	PerPage int    `json:"per_page,omitempty"`
	Pages   int    `json:"pages,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}

// WriteTooManyRequests is the rate limiter callback for API routes.
func WriteTooManyRequests(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Retry-After", "60")
	WriteError(w, http.StatusTooManyRequests, "rate_limited", "Too many requests, try again later", nil)
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status  string   `json:"status"`
	Version string   `json:"version"`
	Locales []string `json:"locales"`
}

// Status handles GET /api/v1/status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, StatusResponse{
		Status:  "ok",
		Version: "v1",
		Locales: model.SupportedLocales,
	}, nil)
}

// requestLang returns ?lang= when supported, else the resolved preference.
func requestLang(r *http.Request) string {
	if q := strings.ToLower(r.URL.Query().Get("lang")); model.IsSupportedLocale(q) {
		return q
	}
	return middleware.GetLang(r)
}

// wantsAllTranslations reports whether ?translations=all was given.
func wantsAllTranslations(r *http.Request) bool {
	return r.URL.Query().Get("translations") == "all"
}

// EntityFetcher is a function that fetches an entity by ID.
type EntityFetcher[T any] func(ctx context.Context, id int64) (T, error)

// requireEntityByID parses the {id} URL parameter and fetches the entity.
// Returns false when a response has already been written.
func requireEntityByID[T any](w http.ResponseWriter, r *http.Request, entityName string, fetch EntityFetcher[T]) (T, bool) {
	var zero T

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		WriteBadRequest(w, "Invalid "+entityName+" ID", nil)
		return zero, false
	}

	entity, err := fetch(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			WriteNotFound(w, capitalizeFirst(entityName)+" not found")
		} else {
			WriteInternalError(w, "Failed to retrieve "+entityName)
		}
		return zero, false
	}
	return entity, true
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

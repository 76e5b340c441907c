// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/lagrandiose/grandiose/internal/i18n"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/service"
	"github.com/lagrandiose/grandiose/internal/util"
)

// maxInscriptionBody bounds the JSON body of an enrollment request.
const maxInscriptionBody = 64 << 10

// InscriptionCreatedResponse is returned after a successful submission.
type InscriptionCreatedResponse struct {
	ID        int64     `json:"id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateInscription handles POST /api/v1/inscriptions
// Rate limited per client IP by the router.
func (h *Handler) CreateInscription(w http.ResponseWriter, r *http.Request) {
	lang := requestLang(r)

	var req service.InscriptionRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxInscriptionBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if req.Locale == "" {
		req.Locale = lang
	}

	ins, err := h.inscriptions.Submit(r.Context(), req, service.SubmitMeta{
		IP:        util.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		if ve, ok := service.AsValidationError(err); ok {
			WriteValidationError(w, translateFields(lang, ve.Fields))
			return
		}
		slog.Error("failed to store inscription", "error", err)
		WriteInternalError(w, "Failed to store inscription")
		return
	}

	WriteCreated(w, InscriptionCreatedResponse{
		ID:        ins.ID,
		Status:    ins.Status,
		Message:   i18n.T(lang, "inscription.success"),
		CreatedAt: ins.CreatedAt,
	})
}

// translateFields turns field -> message key into field -> message.
func translateFields(lang string, fields map[string]string) map[string]string {
	if !model.IsSupportedLocale(lang) {
		lang = i18n.DefaultLanguage()
	}
	out := make(map[string]string, len(fields))
	for field, key := range fields {
		out[field] = i18n.T(lang, key)
	}
	return out
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Inscription statuses
const (
	InscriptionNew       = "new"
	InscriptionContacted = "contacted"
	InscriptionEnrolled  = "enrolled"
	InscriptionRejected  = "rejected"
)

// InscriptionStatuses lists every status in workflow order.
var InscriptionStatuses = []string{InscriptionNew, InscriptionContacted, InscriptionEnrolled, InscriptionRejected}

// IsValidInscriptionStatus reports whether s is a known status.
func IsValidInscriptionStatus(s string) bool {
	for _, st := range InscriptionStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Inscription is an enrollment request submitted from the public form.
type Inscription struct {
	ID          int64     `json:"id"`
	StudentName string    `json:"student_name"`
	BirthDate   string    `json:"birth_date"`
	CycleID     *int64    `json:"cycle_id"`
	CycleName   string    `json:"cycle_name,omitempty"`
	SchoolYear  string    `json:"school_year,omitempty"`
	ParentName  string    `json:"parent_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Message     string    `json:"message"`
	Locale      string    `json:"locale"`
	Status      string    `json:"status"`
	IPAddress   string    `json:"ip_address"`
	Country     string    `json:"country"`
	UserAgent   string    `json:"user_agent"`
	CreatedAt   time.Time `json:"created_at"`
}

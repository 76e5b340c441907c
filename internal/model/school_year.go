// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"time"
)

// SchoolYearStartMonth is the month a new school year begins.
const SchoolYearStartMonth = time.September

// SchoolYear spans two calendar years; EndYear is always StartYear+1.
type SchoolYear struct {
	ID        int64 `json:"id,omitempty"`
	StartYear int   `json:"start_year"`
	EndYear   int   `json:"end_year"`
	IsCurrent bool  `json:"is_current"`
}

// NewSchoolYear returns the school year beginning in start.
func NewSchoolYear(start int) SchoolYear {
	return SchoolYear{StartYear: start, EndYear: start + 1}
}

// Label formats the year as "2025-2026".
func (s SchoolYear) Label() string {
	return fmt.Sprintf("%d-%d", s.StartYear, s.EndYear)
}

// SchoolYearStartFor returns the start year of the school year containing t.
func SchoolYearStartFor(t time.Time) int {
	if t.Month() >= SchoolYearStartMonth {
		return t.Year()
	}
	return t.Year() - 1
}

// ValidSchoolYearStart bounds accepted start years.
func ValidSchoolYearStart(start int) bool {
	return start >= 2000 && start <= 2100
}

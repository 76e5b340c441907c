// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         string       `json:"role"`
	Name         string       `json:"name"`
	LastLoginAt  sql.NullTime `json:"last_login_at"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type Event struct {
	ID         int64         `json:"id"`
	Level      string        `json:"level"`
	Category   string        `json:"category"`
	Message    string        `json:"message"`
	UserID     sql.NullInt64 `json:"user_id"`
	Metadata   string        `json:"metadata"`
	IpAddress  string        `json:"ip_address"`
	RequestUrl string        `json:"request_url"`
	CreatedAt  time.Time     `json:"created_at"`
}

type SchoolYear struct {
	ID        int64     `json:"id"`
	StartYear int64     `json:"start_year"`
	EndYear   int64     `json:"end_year"`
	IsCurrent bool      `json:"is_current"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Cycle struct {
	ID        int64     `json:"id"`
	Duration  string    `json:"duration"`
	AgeRange  string    `json:"age_range"`
	Photo     string    `json:"photo"`
	Position  int64     `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CycleTranslation struct {
	ID          int64  `json:"id"`
	CycleID     int64  `json:"cycle_id"`
	Locale      string `json:"locale"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MoreDetails string `json:"more_details"`
}

type Professor struct {
	ID        int64     `json:"id"`
	Photo     string    `json:"photo"`
	Position  int64     `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProfessorTranslation struct {
	ID            int64  `json:"id"`
	ProfessorID   int64  `json:"professor_id"`
	Locale        string `json:"locale"`
	Name          string `json:"name"`
	StudyMaterial string `json:"study_material"`
	Description   string `json:"description"`
}

type Testimonial struct {
	ID        int64     `json:"id"`
	Emoticon  string    `json:"emoticon"`
	IsStudent bool      `json:"is_student"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TestimonialTranslation struct {
	ID            int64  `json:"id"`
	TestimonialID int64  `json:"testimonial_id"`
	Locale        string `json:"locale"`
	Name          string `json:"name"`
	Description   string `json:"description"`
}

type Category struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CategoryTranslation struct {
	ID         int64  `json:"id"`
	CategoryID int64  `json:"category_id"`
	Locale     string `json:"locale"`
	Name       string `json:"name"`
}

type Blog struct {
	ID         int64         `json:"id"`
	Slug       string        `json:"slug"`
	Image      string        `json:"image"`
	CategoryID sql.NullInt64 `json:"category_id"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type BlogTranslation struct {
	ID      int64  `json:"id"`
	BlogID  int64  `json:"blog_id"`
	Locale  string `json:"locale"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Inscription struct {
	ID           int64         `json:"id"`
	StudentName  string        `json:"student_name"`
	BirthDate    string        `json:"birth_date"`
	CycleID      sql.NullInt64 `json:"cycle_id"`
	SchoolYearID sql.NullInt64 `json:"school_year_id"`
	ParentName   string        `json:"parent_name"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	Message      string        `json:"message"`
	Locale       string        `json:"locale"`
	Status       string        `json:"status"`
	IpAddress    string        `json:"ip_address"`
	Country      string        `json:"country"`
	UserAgent    string        `json:"user_agent"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

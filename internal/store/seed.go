// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lagrandiose/grandiose/internal/auth"
	"github.com/lagrandiose/grandiose/internal/model"
)

// DefaultAdminName is the display name of the seeded administrator.
const DefaultAdminName = "Administrator"

// SeedConfig controls initial data creation.
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string // generated and logged once when empty
	Demo          bool
}

// Seed creates the initial admin account and current school year when missing,
// and demo content when cfg.Demo is set and the site has no cycles yet.
func Seed(ctx context.Context, db *sql.DB, cfg SeedConfig) error {
	queries := New(db)

	if err := seedAdmin(ctx, queries, cfg); err != nil {
		return err
	}
	if err := seedSchoolYear(ctx, db); err != nil {
		return err
	}
	if !cfg.Demo {
		return nil
	}

	count, err := queries.CountCycles(ctx)
	if err != nil {
		return fmt.Errorf("counting cycles: %w", err)
	}
	if count > 0 {
		slog.Info("content already exists, skipping demo seed")
		return nil
	}
	if err := InTx(ctx, db, func(q *Queries) error { return seedDemo(ctx, q) }); err != nil {
		return fmt.Errorf("seeding demo content: %w", err)
	}
	slog.Info("demo content seeded")
	return nil
}

func seedAdmin(ctx context.Context, queries *Queries, cfg SeedConfig) error {
	count, err := queries.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		return nil
	}

	password := cfg.AdminPassword
	generated := password == ""
	if generated {
		buf := make([]byte, 18)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("generating admin password: %w", err)
		}
		password = base64.RawURLEncoding.EncodeToString(buf)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := Now()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Name:         DefaultAdminName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	if generated {
		slog.Info("created default admin user", "id", user.ID, "email", user.Email, "password", password)
	} else {
		slog.Info("created default admin user", "id", user.ID, "email", user.Email)
	}
	return nil
}

func seedSchoolYear(ctx context.Context, db *sql.DB) error {
	_, err := New(db).GetCurrentSchoolYear(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking current school year: %w", err)
	}

	sy := model.NewSchoolYear(model.SchoolYearStartFor(Now()))
	err = InTx(ctx, db, func(q *Queries) error {
		now := Now()
		if err := q.ClearCurrentSchoolYear(ctx, now); err != nil {
			return err
		}
		_, err := q.UpsertCurrentSchoolYear(ctx, UpsertCurrentSchoolYearParams{
			StartYear: int64(sy.StartYear),
			EndYear:   int64(sy.EndYear),
			Now:       now,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("creating school year: %w", err)
	}
	slog.Info("created current school year", "school_year", sy.Label())
	return nil
}

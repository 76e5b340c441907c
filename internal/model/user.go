// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// User roles
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// RoleLevel orders roles for permission checks: admin > editor.
func RoleLevel(role string) int {
	switch role {
	case RoleAdmin:
		return 2
	case RoleEditor:
		return 1
	default:
		return 0
	}
}

// HasRole reports whether role meets or exceeds required.
func HasRole(role, required string) bool {
	return RoleLevel(role) >= RoleLevel(required) && RoleLevel(required) > 0
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web embeds the page templates and the compiled site assets.
package web

import "embed"

// Templates holds layouts, partials and the public, auth, admin and api pages.
//
//go:embed templates
var Templates embed.FS

// Static holds the stylesheet and the theme and language toggle script.
//
//go:embed static/dist
var Static embed.FS

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

// Breadcrumb represents a single breadcrumb item in the admin header.
type Breadcrumb struct {
	Label  string
	URL    string
	Active bool
}

// Crumbs builds a trail from label/URL pairs; the last item is active.
func Crumbs(pairs ...string) []Breadcrumb {
	out := make([]Breadcrumb, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Breadcrumb{Label: pairs[i], URL: pairs[i+1]})
	}
	if n := len(out); n > 0 {
		out[n-1].Active = true
	}
	return out
}

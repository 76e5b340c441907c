// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strings"

// Localized is implemented by every per-locale translation record.
type Localized interface {
	LocaleCode() string
}

// FindTranslation returns the record for locale. There is no cross-locale
// fallback: a missing record reports ok=false.
func FindTranslation[T Localized](records []T, locale string) (rec T, ok bool) {
	for _, r := range records {
		if r.LocaleCode() == locale {
			return r, true
		}
	}
	return rec, false
}

// MissingLocales returns the supported locales that have no record.
func MissingLocales[T Localized](records []T) []string {
	var missing []string
	for _, code := range SupportedLocales {
		if _, ok := FindTranslation(records, code); !ok {
			missing = append(missing, code)
		}
	}
	return missing
}

// OrPlaceholder returns s, or placeholder when s is blank.
func OrPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

// FirstNonEmpty returns the first non-blank value produced by field over the
// records in SupportedLocales order. Used to derive slugs from titles.
func FirstNonEmpty[T Localized](records []T, field func(T) string) string {
	for _, code := range SupportedLocales {
		if r, ok := FindTranslation(records, code); ok {
			if v := strings.TrimSpace(field(r)); v != "" {
				return v
			}
		}
	}
	return ""
}

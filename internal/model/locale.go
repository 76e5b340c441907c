// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types of the school site: locales,
// translated content entities, school years, inscriptions, users and events.
package model

// Supported locales.
const (
	LocaleEN = "en"
	LocaleFR = "fr"
	LocaleAR = "ar"
)

// Text directions
const (
	DirectionLTR = "ltr"
	DirectionRTL = "rtl"
)

// SupportedLocales lists every locale a translation record may carry, in display order.
var SupportedLocales = []string{LocaleEN, LocaleFR, LocaleAR}

// LocaleInfo describes a locale for language switchers and form fieldsets.
type LocaleInfo struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
	Direction  string `json:"direction"`
}

// IsRTL returns true if the locale is written right-to-left.
func (l LocaleInfo) IsRTL() bool {
	return l.Direction == DirectionRTL
}

var locales = map[string]LocaleInfo{
	LocaleEN: {LocaleEN, "English", "English", DirectionLTR},
	LocaleFR: {LocaleFR, "French", "Français", DirectionLTR},
	LocaleAR: {LocaleAR, "Arabic", "العربية", DirectionRTL},
}

// IsSupportedLocale reports whether code is one of SupportedLocales.
func IsSupportedLocale(code string) bool {
	_, ok := locales[code]
	return ok
}

// Locale returns the info for code, falling back to French for unknown codes.
func Locale(code string) LocaleInfo {
	if l, ok := locales[code]; ok {
		return l
	}
	return locales[LocaleFR]
}

// Locales returns info for every supported locale in display order.
func Locales() []LocaleInfo {
	out := make([]LocaleInfo, 0, len(SupportedLocales))
	for _, code := range SupportedLocales {
		out = append(out, locales[code])
	}
	return out
}

// Direction returns the text direction for code.
func Direction(code string) string {
	return Locale(code).Direction
}

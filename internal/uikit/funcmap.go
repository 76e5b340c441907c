// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package uikit provides template helpers, pagination logic and small view
// model types shared by the public site and the admin.
package uikit

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// MonthsFr contains French month names.
var MonthsFr = []string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// MonthsAr contains the Arabic month names used in the Maghreb.
var MonthsAr = []string{
	"يناير", "فبراير", "مارس", "أبريل", "ماي", "يونيو",
	"يوليوز", "غشت", "شتنبر", "أكتوبر", "نونبر", "دجنبر",
}

// TemplateFuncs returns a template.FuncMap with pure helper functions.
// Callers merge project-specific functions on top.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"lower":     strings.ToLower,
		"upper":     strings.ToUpper,
		"hasPrefix": strings.HasPrefix,
		"truncate":  Truncate,
		"contains": func(collection []string, element string) bool {
			for _, s := range collection {
				if s == element {
					return true
				}
			}
			return false
		},

		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"seq": func(start, end int) []int {
			var result []int
			for i := start; i <= end; i++ {
				result = append(result, i)
			}
			return result
		},

		"formatDateLocale": func(t any, lang string) string {
			return ApplyTimeFormatter(t, lang, FormatDateForLocale)
		},
		"formatDateTimeLocale": func(t any, lang string) string {
			return ApplyTimeFormatter(t, lang, FormatDateTimeForLocale)
		},
		"isoDate": func(t time.Time) string {
			return t.Format("2006-01-02")
		},

		"toJSON": func(v any) template.JS {
			b, err := json.Marshal(v)
			if err != nil {
				return "null"
			}
			return template.JS(b)
		},
		"prettyJSON": func(s string) string {
			var data any
			if err := json.Unmarshal([]byte(s), &data); err != nil {
				return s
			}
			pretty, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return s
			}
			return string(pretty)
		},

		"deref": func(p *int64) int64 {
			if p == nil {
				return 0
			}
			return *p
		},
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			dict := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				dict[key] = values[i+1]
			}
			return dict
		},
	}
}

// Truncate shortens s to at most length runes, appending "…".
func Truncate(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return strings.TrimSpace(string(r[:length])) + "…"
}

// FormatDateForLocale formats a date according to the specified language.
func FormatDateForLocale(t time.Time, lang string) string {
	switch lang {
	case "fr":
		return fmt.Sprintf("%d %s %d", t.Day(), MonthsFr[t.Month()-1], t.Year())
	case "ar":
		return fmt.Sprintf("%d %s %d", t.Day(), MonthsAr[t.Month()-1], t.Year())
	default:
		return t.Format("Jan 2, 2006")
	}
}

// FormatDateTimeForLocale formats a time.Time as a localized datetime string.
func FormatDateTimeForLocale(t time.Time, lang string) string {
	switch lang {
	case "fr", "ar":
		return fmt.Sprintf("%s, %02d:%02d", FormatDateForLocale(t, lang), t.Hour(), t.Minute())
	default:
		return t.Format("Jan 2, 2006 3:04 PM")
	}
}

// ApplyTimeFormatter applies a time formatting function to a value that may be time.Time or *time.Time.
// Returns an empty string for nil pointers, zero times or unsupported types.
func ApplyTimeFormatter(t any, lang string, formatter func(time.Time, string) string) string {
	switch v := t.(type) {
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return formatter(v, lang)
	case *time.Time:
		if v == nil || v.IsZero() {
			return ""
		}
		return formatter(*v, lang)
	default:
		return ""
	}
}

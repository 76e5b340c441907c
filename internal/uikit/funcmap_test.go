// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"testing"
	"time"
)

func TestFormatDateForLocale(t *testing.T) {
	testTime := time.Date(2025, time.August, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		lang string
		date string
		full string
	}{
		{"en", "Aug 15, 2025", "Aug 15, 2025 2:30 PM"},
		{"fr", "15 août 2025", "15 août 2025, 14:30"},
		{"ar", "15 غشت 2025", "15 غشت 2025, 14:30"},
		{"xx", "Aug 15, 2025", "Aug 15, 2025 2:30 PM"},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			if got := FormatDateForLocale(testTime, tt.lang); got != tt.date {
				t.Errorf("FormatDateForLocale() = %q, want %q", got, tt.date)
			}
			if got := FormatDateTimeForLocale(testTime, tt.lang); got != tt.full {
				t.Errorf("FormatDateTimeForLocale() = %q, want %q", got, tt.full)
			}
		})
	}
}

func TestApplyTimeFormatter(t *testing.T) {
	ts := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	var nilTime *time.Time

	if got := ApplyTimeFormatter(ts, "fr", FormatDateForLocale); got != "2 janvier 2025" {
		t.Errorf("value = %q", got)
	}
	if got := ApplyTimeFormatter(&ts, "en", FormatDateForLocale); got != "Jan 2, 2025" {
		t.Errorf("pointer = %q", got)
	}
	if got := ApplyTimeFormatter(nilTime, "en", FormatDateForLocale); got != "" {
		t.Errorf("nil pointer = %q, want empty", got)
	}
	if got := ApplyTimeFormatter(time.Time{}, "en", FormatDateForLocale); got != "" {
		t.Errorf("zero time = %q, want empty", got)
	}
	if got := ApplyTimeFormatter("2025-01-02", "en", FormatDateForLocale); got != "" {
		t.Errorf("string = %q, want empty", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		length   int
		expected string
	}{
		{"hello world", 5, "hello…"},
		{"hello", 5, "hello"},
		{"", 5, ""},
		{"مدرسة لاكرانديوز", 5, "مدرسة…"},
		{"école maternelle", 6, "école…"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.input, tt.length); got != tt.expected {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.expected)
		}
	}
}

func TestTemplateFuncs_Helpers(t *testing.T) {
	funcs := TemplateFuncs()

	seq := funcs["seq"].(func(int, int) []int)
	if got := seq(1, 3); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("seq(1, 3) = %v", got)
	}

	dict := funcs["dict"].(func(...any) map[string]any)
	d := dict("Lang", "ar", "Count", 2)
	if d["Lang"] != "ar" || d["Count"] != 2 {
		t.Errorf("dict() = %v", d)
	}
	if dict("odd") != nil {
		t.Error("dict() with odd arguments should return nil")
	}

	contains := funcs["contains"].(func([]string, string) bool)
	if !contains([]string{"fr", "ar"}, "ar") || contains([]string{"fr"}, "en") {
		t.Error("contains() returned wrong result")
	}

	deref := funcs["deref"].(func(*int64) int64)
	n := int64(7)
	if deref(&n) != 7 || deref(nil) != 0 {
		t.Error("deref() returned wrong result")
	}

	prettyJSON := funcs["prettyJSON"].(func(string) string)
	if got := prettyJSON(`{"a":1}`); got != "{\n  \"a\": 1\n}" {
		t.Errorf("prettyJSON() = %q", got)
	}
	if got := prettyJSON("not json"); got != "not json" {
		t.Errorf("prettyJSON(invalid) = %q", got)
	}
}

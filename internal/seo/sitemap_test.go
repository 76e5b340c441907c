// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"
)

var testLocales = []string{"en", "fr", "ar"}

func TestSitemapBuilderAddLocalizes(t *testing.T) {
	b := NewSitemapBuilder("https://lagrandiose.ma/", testLocales, "fr")
	b.Add("/", time.Time{}, ChangeFreqDaily, "1.0")

	if b.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", b.Len())
	}
	wantLocs := []string{"https://lagrandiose.ma/en", "https://lagrandiose.ma/fr", "https://lagrandiose.ma/ar"}
	for i, want := range wantLocs {
		if b.urls[i].Loc != want {
			t.Errorf("urls[%d].Loc = %q, want %q", i, b.urls[i].Loc, want)
		}
		if b.urls[i].LastMod != "" {
			t.Errorf("urls[%d].LastMod = %q, want empty for zero time", i, b.urls[i].LastMod)
		}
	}

	alts := b.urls[0].Alternates
	if len(alts) != 4 {
		t.Fatalf("alternates = %d, want 4", len(alts))
	}
	last := alts[len(alts)-1]
	if last.Hreflang != "x-default" || last.Href != "https://lagrandiose.ma/" {
		t.Errorf("x-default alternate = %+v", last)
	}
}

func TestSitemapBuilderLastMod(t *testing.T) {
	b := NewSitemapBuilder("https://lagrandiose.ma", []string{"fr"}, "")
	mod := time.Date(2025, 9, 1, 8, 30, 0, 0, time.FixedZone("WEST", 3600))
	b.Add("/blog/rentree", mod, ChangeFreqWeekly, "0.6")

	u := b.urls[0]
	if u.Loc != "https://lagrandiose.ma/fr/blog/rentree" {
		t.Errorf("Loc = %q", u.Loc)
	}
	if u.LastMod != "2025-09-01T07:30:00Z" {
		t.Errorf("LastMod = %q, want UTC RFC3339", u.LastMod)
	}
	if len(u.Alternates) != 1 {
		t.Errorf("alternates = %d, want 1 without a default locale", len(u.Alternates))
	}
}

func TestSitemapBuilderBuild(t *testing.T) {
	b := NewSitemapBuilder("https://lagrandiose.ma", testLocales, "fr")
	b.Add("/inscription", time.Time{}, ChangeFreqMonthly, "0.8")

	out, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	s := string(out)

	for _, want := range []string{
		xml.Header,
		`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9" xmlns:xhtml="http://www.w3.org/1999/xhtml">`,
		"<loc>https://lagrandiose.ma/ar/inscription</loc>",
		`<xhtml:link rel="alternate" hreflang="en" href="https://lagrandiose.ma/en/inscription"></xhtml:link>`,
		"<changefreq>monthly</changefreq>",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("Build() output missing %q\n%s", want, s)
		}
	}
	if n := strings.Count(s, "<url>"); n != 3 {
		t.Errorf("<url> count = %d, want 3", n)
	}
}

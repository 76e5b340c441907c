// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds robots.txt and the multilingual sitemap.
package seo

import (
	"encoding/xml"
	"strings"
	"time"
)

// Sitemap XML namespaces.
const (
	XMLNamespace      = "http://www.sitemaps.org/schemas/sitemap/0.9"
	XHTMLNamespace    = "http://www.w3.org/1999/xhtml"
	hreflangXDefault  = "x-default"
	alternateRelation = "alternate"
)

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// Alternate is a localized version of a sitemap URL.
type Alternate struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string      `xml:"loc"`
	LastMod    string      `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq  `xml:"changefreq,omitempty"`
	Priority   string      `xml:"priority,omitempty"`
	Alternates []Alternate `xml:"xhtml:link,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	XHTML   string       `xml:"xmlns:xhtml,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapBuilder builds sitemap XML. Every path is emitted once per locale
// under its /<lang> prefix, with hreflang alternates pointing at the others.
type SitemapBuilder struct {
	siteURL       string
	locales       []string
	defaultLocale string
	urls          []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder.
func NewSitemapBuilder(siteURL string, locales []string, defaultLocale string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL:       strings.TrimSuffix(siteURL, "/"),
		locales:       locales,
		defaultLocale: defaultLocale,
		urls:          make([]SitemapURL, 0),
	}
}

func (b *SitemapBuilder) localized(lang, path string) string {
	if path == "/" {
		path = ""
	}
	return b.siteURL + "/" + lang + path
}

// Add adds path in every locale.
func (b *SitemapBuilder) Add(path string, lastMod time.Time, freq ChangeFreq, priority string) {
	alternates := make([]Alternate, 0, len(b.locales)+1)
	for _, lang := range b.locales {
		alternates = append(alternates, Alternate{Rel: alternateRelation, Hreflang: lang, Href: b.localized(lang, path)})
	}
	if b.defaultLocale != "" {
		unprefixed := b.siteURL + path
		alternates = append(alternates, Alternate{Rel: alternateRelation, Hreflang: hreflangXDefault, Href: unprefixed})
	}

	for _, lang := range b.locales {
		u := SitemapURL{
			Loc:        b.localized(lang, path),
			ChangeFreq: freq,
			Priority:   priority,
			Alternates: alternates,
		}
		if !lastMod.IsZero() {
			u.LastMod = lastMod.UTC().Format(time.RFC3339)
		}
		b.urls = append(b.urls, u)
	}
}

// Len returns the number of URL entries.
func (b *SitemapBuilder) Len() int {
	return len(b.urls)
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		XHTML: XHTMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(output, xmlBytes...), nil
}

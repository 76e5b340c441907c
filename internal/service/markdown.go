// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"html"
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// ExcerptLength is the rune length of blog excerpts.
const ExcerptLength = 200

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

	// ugcPolicy allows the safe HTML subset for rendered posts.
	ugcPolicy = bluemonday.UGCPolicy()
	// textPolicy strips every tag, leaving text only.
	textPolicy = bluemonday.StrictPolicy()
)

// RenderMarkdown converts a post body to sanitized HTML.
func RenderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(ugcPolicy.SanitizeBytes(buf.Bytes())) //nolint:gosec // sanitized by bluemonday
}

// PlainText returns the text content of a Markdown body with whitespace collapsed.
func PlainText(src string) string {
	rendered := RenderMarkdown(src)
	text := html.UnescapeString(textPolicy.Sanitize(string(rendered)))
	return strings.Join(strings.Fields(text), " ")
}

// Excerpt returns the first n runes of the plain text of src, with an
// ellipsis when truncated.
func Excerpt(src string, n int) string {
	text := PlainText(src)
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:n])) + "…"
}

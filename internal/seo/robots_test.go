// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
)

func TestRobotsBuilderBuildDefault(t *testing.T) {
	content := NewRobotsBuilder(RobotsConfig{SiteURL: "https://lagrandiose.ma/"}).Build()

	if !strings.HasPrefix(content, "User-agent: *\n") {
		t.Error("Build() should start with 'User-agent: *'")
	}
	for _, path := range DefaultDisallowPaths {
		if !strings.Contains(content, "Disallow: "+path+"\n") {
			t.Errorf("Build() should disallow %q", path)
		}
	}
	if !strings.Contains(content, "Allow: /\n") {
		t.Error("Build() should contain 'Allow: /'")
	}
	if !strings.Contains(content, "Sitemap: https://lagrandiose.ma/sitemap.xml") {
		t.Errorf("Build() should reference the sitemap without a double slash, got:\n%s", content)
	}
}

func TestRobotsBuilderBuildDisallowAll(t *testing.T) {
	content := NewRobotsBuilder(RobotsConfig{
		SiteURL:     "https://staging.lagrandiose.ma",
		DisallowAll: true,
	}).Build()

	if content != "User-agent: *\nDisallow: /\n" {
		t.Errorf("Build() = %q, want a blanket disallow", content)
	}
}

func TestRobotsBuilderExtraPaths(t *testing.T) {
	content := NewRobotsBuilder(RobotsConfig{DisallowPaths: []string{"/uploads/private"}}).Build()

	if !strings.Contains(content, "Disallow: /uploads/private\n") {
		t.Error("Build() should include extra disallow paths")
	}
	if strings.Contains(content, "Sitemap:") {
		t.Error("Build() without a site URL should not reference a sitemap")
	}
	if len(DefaultDisallowPaths) != 5 {
		t.Errorf("DefaultDisallowPaths modified by Build(): %v", DefaultDisallowPaths)
	}
}

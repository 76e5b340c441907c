// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n provides the UI message catalogs for the public site and admin.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed locales
var localesFS embed.FS

// Message is a single translatable UI string.
type Message struct {
	ID          string `json:"id"`
	Translation string `json:"translation"`
}

// MessageFile is the structure of a locales/<lang>/messages.json file.
type MessageFile struct {
	Language string    `json:"language"`
	Messages []Message `json:"messages"`
}

// KeyMissingTranslation is the placeholder shown where content has no
// translation in the requested locale.
const KeyMissingTranslation = "content.missing_translation"

// Catalog holds all translations for all supported languages.
type Catalog struct {
	mu           sync.RWMutex
	translations map[string]map[string]string // lang -> key -> translation
	matcher      language.Matcher
	supported    []language.Tag
	defaultLang  string
	logger       *slog.Logger
}

var catalog *Catalog

// SupportedLanguages lists the UI languages in matcher preference order.
var SupportedLanguages = []string{"fr", "en", "ar"}

// Init loads every catalog from the embedded filesystem.
func Init(logger *slog.Logger) error {
	c := &Catalog{
		translations: make(map[string]map[string]string),
		defaultLang:  "fr",
		logger:       logger,
	}

	tags := make([]language.Tag, 0, len(SupportedLanguages))
	for _, lang := range SupportedLanguages {
		tags = append(tags, language.MustParse(lang))
	}
	c.supported = tags
	c.matcher = language.NewMatcher(tags)

	for _, lang := range SupportedLanguages {
		if err := c.loadLanguage(lang); err != nil {
			return fmt.Errorf("loading language %s: %w", lang, err)
		}
	}

	catalog = c
	if logger != nil {
		logger.Info("i18n initialized", "languages", SupportedLanguages)
	}
	return nil
}

func (c *Catalog) loadLanguage(lang string) error {
	path := fmt.Sprintf("locales/%s/messages.json", lang)
	data, err := localesFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var msgFile MessageFile
	if err := json.Unmarshal(data, &msgFile); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	m := make(map[string]string, len(msgFile.Messages))
	for _, msg := range msgFile.Messages {
		m[msg.ID] = msg.Translation
	}
	c.translations[lang] = m
	return nil
}

// SetDefaultLanguage changes the language used when a key or language is missing.
func SetDefaultLanguage(lang string) {
	if catalog == nil || !IsSupported(lang) {
		return
	}
	catalog.mu.Lock()
	catalog.defaultLang = lang
	catalog.mu.Unlock()
}

// DefaultLanguage returns the fallback language.
func DefaultLanguage() string {
	if catalog == nil {
		return "fr"
	}
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	return catalog.defaultLang
}

// T translates key into lang, falling back to the default language and then
// to the key itself. Optional args are applied with fmt.Sprintf.
func T(lang, key string, args ...any) string {
	if catalog == nil {
		return key
	}

	catalog.mu.RLock()
	translation, ok := catalog.translations[lang][key]
	if !ok && lang != catalog.defaultLang {
		translation, ok = catalog.translations[catalog.defaultLang][key]
		if ok && catalog.logger != nil {
			catalog.logger.Debug("missing translation, using default", "key", key, "lang", lang)
		}
	}
	catalog.mu.RUnlock()

	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(translation, args...)
	}
	return translation
}

// Placeholder returns the localized missing-translation text for lang.
func Placeholder(lang string) string {
	return T(lang, KeyMissingTranslation)
}

// MatchLanguage finds the best supported language for an Accept-Language
// header or a bare language code.
func MatchLanguage(acceptLang string) string {
	if catalog == nil {
		return "fr"
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		tag, err := language.Parse(acceptLang)
		if err != nil {
			return DefaultLanguage()
		}
		tags = []language.Tag{tag}
	}

	_, idx, conf := catalog.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(catalog.supported) {
		return DefaultLanguage()
	}
	return SupportedLanguages[idx]
}

// IsSupported checks if a language code is supported.
func IsSupported(lang string) bool {
	lang = strings.ToLower(lang)
	for _, supported := range SupportedLanguages {
		if supported == lang {
			return true
		}
	}
	return false
}

// TranslationCount returns the number of translations loaded for a language.
func TranslationCount(lang string) int {
	if catalog == nil {
		return 0
	}
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	return len(catalog.translations[lang])
}

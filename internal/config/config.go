// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// supportedLocales mirrors model.SupportedLocales; config cannot import model.
var supportedLocales = []string{"en", "fr", "ar"}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"GRANDIOSE_DB_PATH" envDefault:"./data/grandiose.db"`
	SessionSecret string `env:"GRANDIOSE_SESSION_SECRET,required"`
	ServerHost    string `env:"GRANDIOSE_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"GRANDIOSE_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"GRANDIOSE_ENV" envDefault:"development"`
	LogLevel      string `env:"GRANDIOSE_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"GRANDIOSE_UPLOADS_DIR" envDefault:"./uploads"`
	DefaultLocale string `env:"GRANDIOSE_DEFAULT_LOCALE" envDefault:"fr"`

	// School contact details shown in the landing page contact section
	SiteName     string   `env:"GRANDIOSE_SITE_NAME" envDefault:"La Grandiose"`
	SiteURL      string   `env:"GRANDIOSE_SITE_URL"` // Absolute base for the sitemap, empty derives it from the request
	ContactEmail string   `env:"GRANDIOSE_CONTACT_EMAIL" envDefault:"contact@lagrandiose.ma"`
	ContactPhone string   `env:"GRANDIOSE_CONTACT_PHONE" envDefault:"+212 5 22 00 00 00"`
	ContactAddr  string   `env:"GRANDIOSE_CONTACT_ADDRESS" envDefault:"Casablanca, Maroc"`
	CORSOrigins  []string `env:"GRANDIOSE_CORS_ORIGINS" envSeparator:","`

	// Cache configuration
	RedisURL     string `env:"GRANDIOSE_REDIS_URL"`                             // Optional Redis URL for distributed caching
	CachePrefix  string `env:"GRANDIOSE_CACHE_PREFIX" envDefault:"grandiose:"` // Redis key prefix
	CacheTTL     int    `env:"GRANDIOSE_CACHE_TTL" envDefault:"600"`           // Default cache TTL in seconds
	CacheMaxSize int    `env:"GRANDIOSE_CACHE_MAX_SIZE" envDefault:"5000"`     // Max memory cache entries

	// hCaptcha configuration
	HCaptchaSiteKey   string `env:"GRANDIOSE_HCAPTCHA_SITE_KEY"`
	HCaptchaSecretKey string `env:"GRANDIOSE_HCAPTCHA_SECRET_KEY"`

	// GeoIP configuration
	GeoIPDBPath string `env:"GRANDIOSE_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Email notifications
	SendGridAPIKey string `env:"GRANDIOSE_SENDGRID_API_KEY"`
	MailFrom       string `env:"GRANDIOSE_MAIL_FROM" envDefault:"no-reply@lagrandiose.ma"`
	NotifyEmail    string `env:"GRANDIOSE_NOTIFY_EMAIL"`

	// Metrics
	MetricsEnabled bool   `env:"GRANDIOSE_METRICS_ENABLED" envDefault:"true"`
	MetricsAddr    string `env:"GRANDIOSE_METRICS_ADDR"` // Separate listener, empty serves /metrics to admins

	// Scheduled jobs
	EventRetentionDays int  `env:"GRANDIOSE_EVENT_RETENTION_DAYS" envDefault:"90"`
	AutoSchoolYear     bool `env:"GRANDIOSE_AUTO_SCHOOL_YEAR" envDefault:"true"`

	// Seeding configuration
	AdminEmail    string `env:"GRANDIOSE_ADMIN_EMAIL" envDefault:"admin@lagrandiose.ma"`
	AdminPassword string `env:"GRANDIOSE_ADMIN_PASSWORD"`
	DoSeed        bool   `env:"GRANDIOSE_DO_SEED" envDefault:"false"` // Seed demo content
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// HCaptchaEnabled returns true if hCaptcha is configured.
func (c Config) HCaptchaEnabled() bool {
	return c.HCaptchaSiteKey != "" && c.HCaptchaSecretKey != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// SendGridEnabled returns true if notifications go through SendGrid instead of the log.
func (c Config) SendGridEnabled() bool {
	return c.SendGridAPIKey != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("GRANDIOSE_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("GRANDIOSE_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("GRANDIOSE_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	cfg.DefaultLocale = strings.ToLower(strings.TrimSpace(cfg.DefaultLocale))
	if !isSupportedLocale(cfg.DefaultLocale) {
		return nil, fmt.Errorf("GRANDIOSE_DEFAULT_LOCALE %q is not supported (want one of %s)",
			cfg.DefaultLocale, strings.Join(supportedLocales, ", "))
	}

	if cfg.EventRetentionDays < 1 {
		return nil, fmt.Errorf("GRANDIOSE_EVENT_RETENTION_DAYS must be positive, got %d", cfg.EventRetentionDays)
	}

	return cfg, nil
}

func isSupportedLocale(code string) bool {
	for _, l := range supportedLocales {
		if l == code {
			return true
		}
	}
	return false
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}

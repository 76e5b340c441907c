// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// Config selects and configures a backend.
type Config struct {
	RedisURL        string // empty selects the memory backend
	Prefix          string
	DefaultTTL      time.Duration
	MaxSize         int
	CleanupInterval time.Duration
}

// Info describes the backend New picked.
type Info struct {
	Backend    string `json:"backend"` // "memory" or "redis"
	IsFallback bool   `json:"is_fallback"`
}

// New returns a Redis cache when RedisURL is set and reachable, and a memory
// cache otherwise.
func New(cfg Config) (Cache, Info) {
	if cfg.RedisURL != "" {
		rc, err := NewRedisCache(RedisOptions{URL: cfg.RedisURL, Prefix: cfg.Prefix, DefaultTTL: cfg.DefaultTTL})
		if err == nil {
			return rc, Info{Backend: "redis"}
		}
		slog.Warn("redis cache unavailable, falling back to memory", "error", err)
		return newMemory(cfg), Info{Backend: "memory", IsFallback: true}
	}
	return newMemory(cfg), Info{Backend: "memory"}
}

func newMemory(cfg Config) *MemoryCache {
	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = time.Minute
	}
	return NewMemoryCache(MemoryOptions{DefaultTTL: cfg.DefaultTTL, MaxSize: cfg.MaxSize, CleanupInterval: interval})
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

// Observer is notified of every typed lookup, e.g. to export hit ratios.
type Observer interface {
	CacheResult(name string, hit bool)
}

// TypedCache stores JSON-encoded values of type T under a shared key prefix.
type TypedCache[T any] struct {
	backend  Cache
	name     string
	ttl      time.Duration
	observer Observer
}

// NewTypedCache creates a typed view of backend. Keys are stored as "name:key".
func NewTypedCache[T any](backend Cache, name string, ttl time.Duration, observer Observer) *TypedCache[T] {
	return &TypedCache[T]{backend: backend, name: name, ttl: ttl, observer: observer}
}

func (c *TypedCache[T]) key(k string) string {
	return c.name + ":" + k
}

// Get returns the cached value or ErrCacheMiss.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T
	data, err := c.backend.Get(ctx, c.key(key))
	if err != nil {
		return zero, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		_ = c.backend.Delete(ctx, c.key(key))
		return zero, ErrCacheMiss
	}
	return v, nil
}

// Set stores v under key.
func (c *TypedCache[T]) Set(ctx context.Context, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.backend.Set(ctx, c.key(key), data, c.ttl)
}

// GetOrSet returns the cached value for key, loading and storing it on a miss.
// Backend failures degrade to calling load directly.
func (c *TypedCache[T]) GetOrSet(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	v, err := c.Get(ctx, key)
	if err == nil {
		c.observe(true)
		return v, nil
	}
	c.observe(false)
	if !errors.Is(err, ErrCacheMiss) {
		slog.Warn("cache read failed", "cache", c.name, "key", key, "error", err)
	}

	v, err = load(ctx)
	if err != nil {
		return v, err
	}
	if err := c.Set(ctx, key, v); err != nil {
		slog.Warn("cache write failed", "cache", c.name, "key", key, "error", err)
	}
	return v, nil
}

// Invalidate removes every key of this typed cache.
func (c *TypedCache[T]) Invalidate(ctx context.Context) error {
	return c.backend.DeleteByPrefix(ctx, c.name+":")
}

func (c *TypedCache[T]) observe(hit bool) {
	if c.observer != nil {
		c.observer.CacheResult(c.name, hit)
	}
}

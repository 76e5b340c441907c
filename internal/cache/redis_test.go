// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(RedisOptions{URL: "redis://" + mr.Addr() + "/0", Prefix: "test:", DefaultTTL: time.Minute})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_GetSet(t *testing.T) {
	c, mr := newTestRedis(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrCacheMiss))

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	assert.True(t, mr.Exists("test:k"), "key should be stored with prefix")

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))

	ok, err := c.Has(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "k"))
	ok, _ = c.Has(ctx, "k")
	assert.False(t, ok)
}

func TestRedisCache_TTL(t *testing.T) {
	c, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 5*time.Second))
	mr.FastForward(6 * time.Second)

	_, err := c.Get(ctx, "k")
	assert.True(t, errors.Is(err, ErrCacheMiss))
}

func TestRedisCache_DeleteByPrefixAndClear(t *testing.T) {
	c, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("other:keep", "1"))
	for _, k := range []string{"blogs:fr:1", "blogs:en:1", "cycles:fr"} {
		require.NoError(t, c.Set(ctx, k, []byte("x"), 0))
	}

	require.NoError(t, c.DeleteByPrefix(ctx, "blogs:"))
	assert.False(t, mr.Exists("test:blogs:fr:1"))
	assert.True(t, mr.Exists("test:cycles:fr"))

	require.NoError(t, c.Clear(ctx))
	assert.False(t, mr.Exists("test:cycles:fr"))
	assert.True(t, mr.Exists("other:keep"), "Clear must only touch prefixed keys")
}

func TestRedisCache_Stats(t *testing.T) {
	c, _ := newTestRedis(t)
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_, _ = c.Get(ctx, "a")
	_, _ = c.Get(ctx, "b")

	s := c.Stats()
	assert.Equal(t, int64(1), s.Hits)
	assert.Equal(t, int64(1), s.Misses)
	assert.Equal(t, 1, s.Items)
	assert.InDelta(t, 50.0, s.HitRate, 0.01)
}

func TestRedisCache_Closed(t *testing.T) {
	c, _ := newTestRedis(t)
	require.NoError(t, c.Close())
	_, err := c.Get(context.Background(), "k")
	assert.True(t, errors.Is(err, ErrCacheClosed))
}

func TestNewRedisCache_InvalidURL(t *testing.T) {
	_, err := NewRedisCache(RedisOptions{URL: "not-a-url"})
	assert.Error(t, err)
	_, err = NewRedisCache(RedisOptions{})
	assert.Error(t, err)
}

func TestNew_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	c, info := New(Config{RedisURL: "redis://" + mr.Addr(), Prefix: "p:"})
	defer func() { _ = c.Close() }()
	assert.Equal(t, "redis", info.Backend)
	assert.False(t, info.IsFallback)
}

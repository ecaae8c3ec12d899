// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"folio/internal/models"
)

// DefaultTTL is how long a fetched category list stays cached.
const DefaultTTL = 5 * time.Minute

// CacheKey is the key under which the service caches the category list.
const CacheKey = "categories"

// Cache stores category lists by key. Implementations treat backend
// failures as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]models.Category, bool)
	Set(ctx context.Context, key string, value []models.Category)
	Clear(ctx context.Context)
}

type memoryEntry[V any] struct {
	value    V
	storedAt time.Time
}

// MemoryCache is an in-process TTL cache. Expired entries are evicted on
// read.
type MemoryCache[V any] struct {
	mu      sync.Mutex
	entries map[string]memoryEntry[V]
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates a cache whose entries expire after ttl. A zero ttl
// uses DefaultTTL.
func NewMemoryCache[V any](ttl time.Duration) *MemoryCache[V] {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache[V]{
		entries: make(map[string]memoryEntry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (c *MemoryCache[V]) WithClock(now func() time.Time) *MemoryCache[V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

// Get returns the value for key if it is younger than the TTL.
func (c *MemoryCache[V]) Get(_ context.Context, key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		slog.Debug("memory cache entry expired", "key", key)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, replacing any previous entry.
func (c *MemoryCache[V]) Set(_ context.Context, key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry[V]{value: value, storedAt: c.now()}
}

// Clear removes every entry.
func (c *MemoryCache[V]) Clear(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry[V])
	slog.Debug("memory cache cleared")
}

// Len returns the number of stored entries, expired or not.
func (c *MemoryCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

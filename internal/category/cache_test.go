// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import (
	"context"
	"sync"
	"testing"
	"time"

	"folio/internal/models"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemoryCacheSetAndGet(t *testing.T) {
	clock := newFakeClock()
	c := NewMemoryCache[[]models.Category](0).WithClock(clock.Now)
	ctx := context.Background()

	if _, ok := c.Get(ctx, CacheKey); ok {
		t.Fatal("expected miss on empty cache")
	}

	value := []models.Category{cat(1, "Tech", 0)}
	c.Set(ctx, CacheKey, value)

	clock.Advance(4*time.Minute + 59*time.Second)
	got, ok := c.Get(ctx, CacheKey)
	if !ok {
		t.Fatal("expected hit within TTL")
	}
	if len(got) != 1 || got[0].Name != "Tech" {
		t.Errorf("value: got %+v", got)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	clock := newFakeClock()
	c := NewMemoryCache[string](DefaultTTL).WithClock(clock.Now)
	ctx := context.Background()

	c.Set(ctx, CacheKey, "x")
	clock.Advance(DefaultTTL)

	if _, ok := c.Get(ctx, CacheKey); ok {
		t.Fatal("expected miss after TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be evicted, len=%d", c.Len())
	}
}

func TestMemoryCacheSetOverwritesAndRefreshes(t *testing.T) {
	clock := newFakeClock()
	c := NewMemoryCache[string](time.Minute).WithClock(clock.Now)
	ctx := context.Background()

	c.Set(ctx, "k", "old")
	clock.Advance(50 * time.Second)
	c.Set(ctx, "k", "new")
	clock.Advance(50 * time.Second)

	got, ok := c.Get(ctx, "k")
	if !ok || got != "new" {
		t.Errorf("got %q, %v; want %q, true", got, ok, "new")
	}
}

func TestMemoryCacheClear(t *testing.T) {
	c := NewMemoryCache[int](time.Hour)
	ctx := context.Background()

	c.Set(ctx, "a", 1)
	c.Set(ctx, "b", 2)
	c.Clear(ctx)

	for _, key := range []string{"a", "b", "never-set"} {
		if _, ok := c.Get(ctx, key); ok {
			t.Errorf("expected miss for %q after Clear", key)
		}
	}
}

func TestMemoryCacheDefaultTTL(t *testing.T) {
	c := NewMemoryCache[int](0)
	if c.ttl != DefaultTTL {
		t.Errorf("ttl: got %v, want %v", c.ttl, DefaultTTL)
	}
}

func TestMemoryCacheImplementsCache(t *testing.T) {
	var _ Cache = NewMemoryCache[[]models.Category](0)
}

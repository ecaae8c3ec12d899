// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// category.go provides a Valkey-backed cache for category lists. It lets
// several API processes share one cached list, and a write on any of them
// clears it for all.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"folio/internal/category"
	"folio/internal/models"
)

// categoryKeyPrefix is the Valkey key prefix for cached category lists.
const categoryKeyPrefix = "category:"

// CategoryCache stores JSON-encoded category lists in Valkey. Backend errors
// are logged and treated as misses.
type CategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCategoryCache creates a category cache backed by the given Valkey client.
// A zero ttl uses category.DefaultTTL.
func NewCategoryCache(client *redis.Client, ttl time.Duration) *CategoryCache {
	if ttl == 0 {
		ttl = category.DefaultTTL
	}
	return &CategoryCache{client: client, ttl: ttl}
}

// Get returns the cached list for key. Valkey expires entries after the TTL.
func (c *CategoryCache) Get(ctx context.Context, key string) ([]models.Category, bool) {
	val, err := c.client.Get(ctx, categoryKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		slog.Debug("category cache miss", "key", key)
		return nil, false
	}
	if err != nil {
		slog.Warn("category cache get error", "key", key, "error", err)
		return nil, false
	}

	var list []models.Category
	if err := json.Unmarshal(val, &list); err != nil {
		slog.Warn("category cache decode error, dropping entry", "key", key, "error", err)
		c.client.Del(ctx, categoryKeyPrefix+key)
		return nil, false
	}
	return list, true
}

// Set stores value under key with the configured TTL, replacing any
// previous entry.
func (c *CategoryCache) Set(ctx context.Context, key string, value []models.Category) {
	if value == nil {
		value = []models.Category{}
	}
	payload, err := json.Marshal(value)
	if err != nil {
		slog.Warn("category cache encode error", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, categoryKeyPrefix+key, payload, c.ttl).Err(); err != nil {
		slog.Warn("category cache set error", "key", key, "error", err)
	}
}

// Clear removes every cached category entry by scanning for the prefix.
func (c *CategoryCache) Clear(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, categoryKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("category cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("category cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	slog.Debug("category cache cleared", "deleted", deleted)
}

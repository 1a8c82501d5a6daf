// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// contentKeyPrefix is the Valkey key prefix for delivery responses.
	contentKeyPrefix = "delivery:"

	// DefaultContentTTL is how long a delivery response stays cached.
	DefaultContentTTL = 5 * time.Minute
)

// ContentCache stores rendered delivery responses of published content,
// keyed by slug. A nil *ContentCache is valid and never hits.
type ContentCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewContentCache creates a content cache backed by the given Valkey client.
func NewContentCache(client *redis.Client, ttl time.Duration) *ContentCache {
	if ttl == 0 {
		ttl = DefaultContentTTL
	}
	return &ContentCache{client: client, ttl: ttl}
}

// ContentKey returns the Valkey key for a content slug.
func ContentKey(slug string) string {
	return contentKeyPrefix + slug
}

// Get retrieves the cached response for slug. Errors count as a miss.
func (c *ContentCache) Get(ctx context.Context, slug string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, ContentKey(slug)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("content cache get error", "slug", slug, "error", err)
		return nil, false
	}
	slog.Debug("content cache hit", "slug", slug)
	return val, true
}

// Set stores the response for slug with the configured TTL.
func (c *ContentCache) Set(ctx context.Context, slug string, body []byte) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, ContentKey(slug), body, c.ttl).Err(); err != nil {
		slog.Warn("content cache set error", "slug", slug, "error", err)
	}
}

// Invalidate removes the cached response for slug.
func (c *ContentCache) Invalidate(ctx context.Context, slug string) error {
	if c == nil {
		return nil
	}
	if err := c.client.Del(ctx, ContentKey(slug)).Err(); err != nil {
		return fmt.Errorf("invalidate content %q: %w", slug, err)
	}
	slog.Debug("content cache invalidated", "slug", slug)
	return nil
}

// InvalidateAll removes every cached delivery response by scanning for the prefix.
func (c *ContentCache) InvalidateAll(ctx context.Context) error {
	if c == nil {
		return nil
	}
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, contentKeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("scan content cache: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete content cache keys: %w", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("content cache cleared", "deleted", deleted)
	}
	return nil
}

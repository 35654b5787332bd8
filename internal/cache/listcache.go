// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// listcache.go provides a Valkey-backed cache for post listing responses.
// Listing is by far the hottest endpoint; each distinct combination of
// page/limit/category/search/sort caches its serialized JSON body for a
// short TTL. Any post write clears the whole keyspace, since a single
// change can affect every page.

package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"inkwell/internal/query"
)

const (
	// listKeyPrefix namespaces listing keys in Valkey.
	listKeyPrefix = "postlist:"

	// DefaultListTTL is how long a cached listing stays valid. Short on
	// purpose: the invalidation on writes is coarse, not precise.
	DefaultListTTL = 60 * time.Second
)

// ListCache stores serialized listing response bodies in Valkey.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache creates a listing cache backed by the given Valkey client.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if ttl == 0 {
		ttl = DefaultListTTL
	}
	return &ListCache{client: client, ttl: ttl}
}

// Key derives the cache key for a set of normalized listing parameters.
func Key(p query.ListParams) string {
	p = p.Normalize()
	return fmt.Sprintf("p=%d&l=%d&c=%s&q=%s&s=%s", p.Page, p.Limit, p.Category, p.Search, p.Sort)
}

// Get retrieves a cached response body. Returns false on miss or error;
// cache failures are logged, never surfaced.
func (lc *ListCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := lc.client.Get(ctx, listKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("list cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("list cache hit", "key", key)
	return val, true
}

// Set stores a response body under the given key with the configured TTL.
func (lc *ListCache) Set(ctx context.Context, key string, body []byte) {
	if err := lc.client.Set(ctx, listKeyPrefix+key, body, lc.ttl).Err(); err != nil {
		slog.Warn("list cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached listing by scanning for the prefix.
// Called on every post create, update, delete, and comment append.
func (lc *ListCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := lc.client.Scan(ctx, cursor, listKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("list cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := lc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("list cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("list cache cleared", "deleted", deleted)
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// posts.go provides a Valkey-backed cache for rendered post responses.
// Public list and detail reads store their serialized JSON so repeat
// requests skip the database entirely; any post write flushes the lot.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// postKeyPrefix is the Valkey key prefix for cached post responses.
	postKeyPrefix = "posts:"

	// DefaultPostTTL is how long a cached response stays fresh.
	DefaultPostTTL = 1 * time.Minute
)

// PostCache manages serialized post responses in Valkey. Cache failures
// are logged and treated as misses; the database remains authoritative.
type PostCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPostCache creates a new post response cache backed by the given client.
func NewPostCache(client *redis.Client, ttl time.Duration) *PostCache {
	if ttl == 0 {
		ttl = DefaultPostTTL
	}
	return &PostCache{client: client, ttl: ttl}
}

// Get retrieves a cached response body. Returns false on miss.
func (pc *PostCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, postKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("post cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("post cache hit", "key", key)
	return val, true
}

// Set stores a serialized response body with the configured TTL.
func (pc *PostCache) Set(ctx context.Context, key string, body []byte) {
	if err := pc.client.Set(ctx, postKeyPrefix+key, body, pc.ttl).Err(); err != nil {
		slog.Warn("post cache set error", "key", key, "error", err)
	}
}

// Invalidate removes all cached post responses. Called on every post
// write: pagination and totals shift, so selective eviction is not worth it.
func (pc *PostCache) Invalidate(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, postKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("post cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("post cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("post cache cleared", "deleted", deleted)
	}
}

// ListKey returns the cache key for one page of the post listing. The
// free-form segments are escaped so a ":" in a search term cannot
// produce the same key as a different parameter combination.
func ListKey(page, pageSize int, search, category string) string {
	return fmt.Sprintf("list:%d:%d:%s:%s", page, pageSize, url.QueryEscape(search), url.QueryEscape(category))
}

// DetailKey returns the cache key for a single post response.
func DetailKey(id uuid.UUID) string {
	return "detail:" + id.String()
}

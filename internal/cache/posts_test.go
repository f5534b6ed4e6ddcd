// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, postKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestPostCacheSetGet(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPostCache(client, time.Minute)
	ctx := context.Background()

	key := ListKey(1, 10, "", "")
	body := []byte(`{"success":true,"data":[]}`)

	if _, ok := pc.Get(ctx, key); ok {
		t.Fatal("expected miss on empty cache")
	}

	pc.Set(ctx, key, body)

	got, ok := pc.Get(ctx, key)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if string(got) != string(body) {
		t.Errorf("body: got %q, want %q", got, body)
	}
}

func TestPostCacheInvalidate(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPostCache(client, time.Minute)
	ctx := context.Background()

	pc.Set(ctx, ListKey(1, 10, "", ""), []byte("a"))
	pc.Set(ctx, ListKey(2, 10, "golang", ""), []byte("b"))
	pc.Set(ctx, DetailKey(uuid.New()), []byte("c"))

	pc.Invalidate(ctx)

	if _, ok := pc.Get(ctx, ListKey(1, 10, "", "")); ok {
		t.Error("list page 1 still cached after Invalidate")
	}
	if _, ok := pc.Get(ctx, ListKey(2, 10, "golang", "")); ok {
		t.Error("filtered list still cached after Invalidate")
	}
}

func TestPostCacheExpiry(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPostCache(client, 100*time.Millisecond)
	ctx := context.Background()

	key := DetailKey(uuid.New())
	pc.Set(ctx, key, []byte("body"))

	if _, ok := pc.Get(ctx, key); !ok {
		t.Fatal("expected hit before TTL")
	}

	time.Sleep(150 * time.Millisecond)

	if _, ok := pc.Get(ctx, key); ok {
		t.Error("expected miss after TTL")
	}
}

func TestKeys(t *testing.T) {
	if got := ListKey(2, 10, "go", "abc"); got != "list:2:10:go:abc" {
		t.Errorf("ListKey: got %q", got)
	}

	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	if got := DetailKey(id); got != "detail:6ba7b810-9dad-11d1-80b4-00c04fd430c8" {
		t.Errorf("DetailKey: got %q", got)
	}

	// Distinct queries must never share a key.
	if ListKey(1, 10, "", "") == ListKey(2, 10, "", "") {
		t.Error("page must differentiate keys")
	}
	if ListKey(1, 10, "go", "") == ListKey(1, 10, "", "go") {
		t.Error("search and category must not collide")
	}
	if ListKey(1, 10, "a:b", "") == ListKey(1, 10, "a", "b") {
		t.Error("separator inside a search term must not collide with a category")
	}
}

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"github.com/steemit/socialschema/pkg/config"
)

func TestHashKey(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
	}{
		{
			name:  "single part",
			parts: []string{"test"},
		},
		{
			name:  "multiple parts",
			parts: []string{"test", "key", "with", "many", "parts"},
		},
		{
			name:  "empty parts",
			parts: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashed1 := HashKey(tt.parts...)
			hashed2 := HashKey(tt.parts...)

			if hashed1 != hashed2 {
				t.Errorf("HashKey() should be consistent, got %s and %s", hashed1, hashed2)
			}

			// 32 characters (MD5 hex)
			if len(hashed1) != 32 {
				t.Errorf("HashKey() should return 32 character hex string, got length %d", len(hashed1))
			}
		})
	}

	// Part boundaries matter.
	if HashKey("ab", "c") == HashKey("a", "bc") {
		t.Error("HashKey() should distinguish part boundaries")
	}
}

func TestCache_NamespaceKey(t *testing.T) {
	cache := &Cache{}

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "simple key",
			key:      "test",
			expected: "socialschema:test",
		},
		{
			name:     "key with colon",
			key:      "erd:abc",
			expected: "socialschema:erd:abc",
		},
		{
			name:     "empty key",
			key:      "",
			expected: "socialschema:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cache.namespaceKey(tt.key)
			if result != tt.expected {
				t.Errorf("namespaceKey() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestDisabledCache(t *testing.T) {
	c, err := New(&config.RedisConfig{Enabled: false})
	if err != nil {
		t.Fatalf("New with Redis disabled should not error: %v", err)
	}
	if c != nil {
		t.Fatal("New with Redis disabled should return a nil cache")
	}

	ctx := context.Background()
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheDisabled) {
		t.Errorf("Get on nil cache = %v, want ErrCacheDisabled", err)
	}
	if err := c.Set(ctx, "k", "v", time.Minute); !errors.Is(err, ErrCacheDisabled) {
		t.Errorf("Set on nil cache = %v, want ErrCacheDisabled", err)
	}
	if err := c.Delete(ctx, "k"); !errors.Is(err, ErrCacheDisabled) {
		t.Errorf("Delete on nil cache = %v, want ErrCacheDisabled", err)
	}
	if _, err := c.Exists(ctx, "k"); !errors.Is(err, ErrCacheDisabled) {
		t.Errorf("Exists on nil cache = %v, want ErrCacheDisabled", err)
	}
	if err := c.Health(ctx); !errors.Is(err, ErrCacheDisabled) {
		t.Errorf("Health on nil cache = %v, want ErrCacheDisabled", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close on nil cache = %v, want nil", err)
	}
}

func TestNewRejectsBadURL(t *testing.T) {
	if _, err := New(&config.RedisConfig{Enabled: true, URL: "not-a-redis-url"}); err == nil {
		t.Error("New should reject an unparseable Redis URL")
	}
}

func TestCacheOperations(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer c.Close()
	ctx := context.Background()

	if err := c.Health(ctx); err != nil {
		t.Fatalf("Health() error = %v", err)
	}

	if _, err := c.Get(ctx, "erd:missing"); !errors.Is(err, ErrMiss) {
		t.Errorf("Get on absent key = %v, want ErrMiss", err)
	}

	if err := c.Set(ctx, "erd:k", "digest", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if !mr.Exists("socialschema:erd:k") {
		t.Error("Set should store the key under the socialschema: namespace")
	}
	if ttl := mr.TTL("socialschema:erd:k"); ttl != time.Minute {
		t.Errorf("stored TTL = %v, want 1m", ttl)
	}

	got, err := c.Get(ctx, "erd:k")
	if err != nil || got != "digest" {
		t.Errorf("Get() = %q, %v; want digest, nil", got, err)
	}

	exists, err := c.Exists(ctx, "erd:k")
	if err != nil || !exists {
		t.Errorf("Exists() = %v, %v; want true, nil", exists, err)
	}

	if err := c.Delete(ctx, "erd:k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	exists, err = c.Exists(ctx, "erd:k")
	if err != nil || exists {
		t.Errorf("Exists() after Delete = %v, %v; want false, nil", exists, err)
	}
}

func TestNewConnects(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := New(&config.RedisConfig{Enabled: true, URL: "redis://" + mr.Addr() + "/0"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	if err := c.Health(context.Background()); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}

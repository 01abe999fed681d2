package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	c, err := NewRedisCache(context.Background(), "redis://"+s.Addr())
	if err != nil {
		t.Fatalf("NewRedisCache failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, s
}

func TestRedisCache(t *testing.T) {
	c, s := setupTestRedis(t)
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	if _, hit, err := c.Get(ctx, "layout:1"); hit || err != nil {
		t.Fatalf("Get on empty cache = %v, %v", hit, err)
	}
	if err := c.Set(ctx, "layout:1", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if !s.Exists(DefaultRedisPrefix + "layout:1") {
		t.Error("key should be stored under the prefix")
	}

	data, hit, err := c.Get(ctx, "layout:1")
	if err != nil || !hit || string(data) != "payload" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "layout:1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:1"); hit {
		t.Error("Get after Delete should miss")
	}
}

func TestRedisCacheExpiry(t *testing.T) {
	c, s := setupTestRedis(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	s.FastForward(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired key should miss")
	}
}

func TestRedisCacheClear(t *testing.T) {
	c, s := setupTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 150; i++ {
		if err := c.Set(ctx, "artifact:"+string(rune('a'+i%26))+string(rune('a'+i/26)), []byte("x"), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Set("other:key", "keep"); err != nil {
		t.Fatal(err)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if keys := s.Keys(); len(keys) != 1 || keys[0] != "other:key" {
		t.Errorf("keys after Clear = %v, want [other:key]", keys)
	}
}

func TestRedisCacheWithClient(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	c := NewRedisCacheWithClient(client, "scope:")
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get("scope:k"); got != "v" {
		t.Errorf("stored value = %q, want v", got)
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "http://nope"); err == nil {
		t.Error("NewRedisCache with a non-redis url should fail")
	}
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cfg := DefaultRedisConfig()
	cfg.Addr = mr.Addr()
	rc, err := NewRedisCacheWithConfig(cfg)
	if err != nil {
		t.Fatalf("new redis cache failed: %v", err)
	}
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

func TestRedisCacheBasicOps(t *testing.T) {
	rc, mr := newTestRedis(t)
	ctx := context.Background()

	if err := rc.Ping(ctx); err != nil {
		t.Fatalf("ping failed: %v", err)
	}

	got, err := rc.Get(ctx, "missing")
	if err != nil || got != "" {
		t.Fatalf("missing key should be empty without error, got %q %v", got, err)
	}

	if err := rc.Set(ctx, "view:1", "payload", time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if got, _ := rc.Get(ctx, "view:1"); got != "payload" {
		t.Fatalf("unexpected value %q", got)
	}
	if ttl := mr.TTL("view:1"); ttl != time.Minute {
		t.Fatalf("unexpected ttl %s", ttl)
	}

	if err := rc.Set(ctx, "view:1", "refreshed", time.Second); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	if got, _ := rc.Get(ctx, "view:1"); got != "refreshed" {
		t.Fatalf("unexpected value after overwrite %q", got)
	}
	mr.FastForward(2 * time.Second)
	if got, _ := rc.Get(ctx, "view:1"); got != "" {
		t.Fatalf("expected key to expire, got %q", got)
	}

	_ = rc.Set(ctx, "a", "1", 0)
	if err := rc.Del(ctx, "a"); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if mr.Exists("a") {
		t.Fatal("expected key removed")
	}
	if err := rc.Del(ctx); err != nil {
		t.Fatalf("empty del failed: %v", err)
	}
}

func TestNewRedisCacheValidation(t *testing.T) {
	if _, err := NewRedisCacheWithConfig(nil); err == nil {
		t.Fatal("expected nil config error")
	}
	if _, err := NewRedisCacheWithConfig(&RedisConfig{}); err == nil {
		t.Fatal("expected empty addr error")
	}
	if _, err := NewRedisCacheWithClient(nil); err == nil {
		t.Fatal("expected nil client error")
	}
}

func TestRedisConfigApplyDefaults(t *testing.T) {
	cfg := RedisConfig{Addr: "127.0.0.1:6379", PoolSize: 5}
	cfg.ApplyDefaults()
	if cfg.PoolSize != 5 {
		t.Fatalf("explicit pool size overwritten: %d", cfg.PoolSize)
	}
	if cfg.ReadTimeout != 3*time.Second || cfg.MaxRetries != 3 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

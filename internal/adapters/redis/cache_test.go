package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "cid_reviews/internal/adapters/redis"
)

func newCache(t *testing.T, ttl time.Duration) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0, ttl)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGet(t *testing.T) {
	c, mr := newCache(t, 24*time.Hour)
	ctx := context.Background()

	blob := []byte(`{"html_attributions":[],"status":"OK"}`)
	if err := c.Set(ctx, "123", blob); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := mr.Get("reviews:cid:123"); got != string(blob) {
		t.Fatalf("stored value: %q", got)
	}
	if ttl := mr.TTL("reviews:cid:123"); ttl != 24*time.Hour {
		t.Fatalf("expiry: %v", ttl)
	}

	e, ok, err := c.Get(ctx, "123")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(e.Data) != string(blob) {
		t.Fatalf("data: %q", e.Data)
	}
	if d := time.Since(e.StoredAt); d < -time.Second || d > time.Second {
		t.Fatalf("storedAt should be ~now, off by %v", d)
	}
}

func TestCache_StoredAtFromRemainingTTL(t *testing.T) {
	c, mr := newCache(t, 24*time.Hour)
	ctx := context.Background()
	if err := c.Set(ctx, "123", []byte("{}")); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(6 * time.Hour)

	e, ok, err := c.Get(ctx, "123")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	age := time.Since(e.StoredAt)
	if age < 6*time.Hour-time.Second || age > 6*time.Hour+time.Second {
		t.Fatalf("expected age ~6h, got %v", age)
	}
}

func TestCache_ExpiredIsMiss(t *testing.T) {
	c, mr := newCache(t, time.Hour)
	ctx := context.Background()
	_ = c.Set(ctx, "123", []byte("{}"))
	mr.FastForward(2 * time.Hour)

	if _, ok, err := c.Get(ctx, "123"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}

func TestCache_Del(t *testing.T) {
	c, mr := newCache(t, time.Hour)
	ctx := context.Background()
	_ = c.Set(ctx, "123", []byte("{}"))
	if err := c.Del(ctx, "123"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if mr.Exists("reviews:cid:123") {
		t.Fatalf("key still present")
	}
}

func TestCache_ServerDown(t *testing.T) {
	c, mr := newCache(t, time.Hour)
	mr.Close()
	if _, _, err := c.Get(context.Background(), "123"); err == nil {
		t.Fatalf("expected error with redis down")
	}
}

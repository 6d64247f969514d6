package redisad

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"cid_reviews/internal/domain"
)

const keyPrefix = "reviews:cid:"

// Cache stores blobs with a redis expiry equal to ttl. StoredAt is derived
// from the remaining TTL, so it is only as precise as redis' clock.
type Cache struct {
	c   *redis.Client
	ttl time.Duration
}

func New(addr, pass string, db int, ttl time.Duration) *Cache {
	return &Cache{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), ttl: ttl}
}

func (r *Cache) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Cache) Close() error { return r.c.Close() }

func (r *Cache) Get(ctx context.Context, key string) (domain.CacheEntry, bool, error) {
	k := keyPrefix + key
	pipe := r.c.Pipeline()
	get := pipe.Get(ctx, k)
	pttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return domain.CacheEntry{}, false, err
	}

	v, err := get.Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.CacheEntry{}, false, nil
	}
	if err != nil {
		return domain.CacheEntry{}, false, err
	}

	storedAt := time.Now()
	if left := pttl.Val(); left > 0 && r.ttl > 0 {
		storedAt = storedAt.Add(left - r.ttl)
	}
	return domain.CacheEntry{Key: key, Data: v, StoredAt: storedAt}, true, nil
}

func (r *Cache) Set(ctx context.Context, key string, data []byte) error {
	return r.c.Set(ctx, keyPrefix+key, data, r.ttl).Err()
}

func (r *Cache) Del(ctx context.Context, key string) error {
	return r.c.Del(ctx, keyPrefix+key).Err()
}

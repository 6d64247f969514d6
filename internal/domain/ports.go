package domain

import (
	"context"
	"errors"
	"time"
)

var ErrUnknownBackend = errors.New("unknown cache backend")

// PageFetcher retrieves the raw review page for a business.
type PageFetcher interface {
	FetchPage(ctx context.Context, cid string) ([]byte, error)
}

// ReviewProvider turns a fetched page into a place rating and its reviews.
type ReviewProvider interface {
	Reviews(ctx context.Context, cid string, page []byte) (Rating, []Review, error)
}

// Cache stores opaque JSON blobs keyed by CID. Freshness is decided by the caller from StoredAt.
type Cache interface {
	Get(ctx context.Context, key string) (CacheEntry, bool, error)
	Set(ctx context.Context, key string, data []byte) error
	Del(ctx context.Context, key string) error
}

// Purger is implemented by backends that do not expire entries on their own.
type Purger interface {
	Purge(ctx context.Context, olderThan time.Duration) (int64, error)
}

type CacheEntry struct {
	Key      string
	Data     []byte
	StoredAt time.Time
}

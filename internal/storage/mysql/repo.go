package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cid_reviews/internal/domain"
)

// Cache keeps review blobs in the review_cache table. The DSN must use
// parseTime=true so stored_at scans into time.Time.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Cache { return &Cache{db: db, now: time.Now} }

func (r *Cache) Get(ctx context.Context, key string) (domain.CacheEntry, bool, error) {
	var body []byte
	var storedAt time.Time
	err := r.db.QueryRowContext(ctx, getEntrySQL, key).Scan(&body, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CacheEntry{}, false, nil
	}
	if err != nil {
		return domain.CacheEntry{}, false, err
	}
	return domain.CacheEntry{Key: key, Data: body, StoredAt: storedAt}, true, nil
}

// Set is a single upsert, so concurrent writers never leave a partial row.
func (r *Cache) Set(ctx context.Context, key string, data []byte) error {
	_, err := r.db.ExecContext(ctx, upsertEntrySQL, key, data, r.now().UTC())
	return err
}

func (r *Cache) Del(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, deleteEntrySQL, key)
	return err
}

func (r *Cache) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, purgeEntriesSQL, r.now().Add(-olderThan).UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

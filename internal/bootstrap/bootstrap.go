// Package bootstrap turns a Config into a ready ReviewService.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"cid_reviews/internal/adapters/filecache"
	"cid_reviews/internal/adapters/fixture"
	"cid_reviews/internal/adapters/google"
	redisad "cid_reviews/internal/adapters/redis"
	"cid_reviews/internal/app"
	"cid_reviews/internal/domain"
	"cid_reviews/internal/shared"
	mysqlrepo "cid_reviews/internal/storage/mysql"
)

const pingTimeout = 5 * time.Second

// OpenCache connects the backend named by cfg.CacheBackend. The returned
// close func releases its connections.
func OpenCache(ctx context.Context, cfg shared.Config) (domain.Cache, func() error, error) {
	noop := func() error { return nil }

	switch cfg.CacheBackend {
	case "", "file":
		c, err := filecache.New(cfg.CacheDir, cfg.CacheFilePrefix)
		if err != nil {
			return nil, nil, err
		}
		return c, noop, nil

	case "redis":
		c := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.CacheTTL)
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := c.Ping(pctx); err != nil {
			_ = c.Close()
			return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		return c, c.Close, nil

	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("sql.Open: %w", err)
		}
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := db.PingContext(pctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("db ping: %w", err)
		}
		return mysqlrepo.New(db), db.Close, nil
	}
	return nil, nil, fmt.Errorf("%w: %q (want file, redis or mysql)", domain.ErrUnknownBackend, cfg.CacheBackend)
}

// NewReviewService wires the fetcher, the fixture provider and the cache.
func NewReviewService(ctx context.Context, cfg shared.Config) (*app.ReviewService, domain.Cache, func() error, error) {
	cache, closeFn, err := OpenCache(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	fetcher, err := google.New(google.Options{
		URLTemplate:        cfg.ReviewsURLTemplate,
		UserAgent:          cfg.UserAgent,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		Timeout:            cfg.FetchTimeout,
		RPS:                cfg.FetchRPS,
	})
	if err != nil {
		_ = closeFn()
		return nil, nil, nil, err
	}

	name := cfg.CacheBackend
	if name == "" {
		name = "file"
	}
	svc := app.NewReviewService(fetcher, fixture.New(), cache, app.Options{
		BusinessName: cfg.BusinessName,
		TTL:          cfg.CacheTTL,
		CacheErrors:  cfg.CacheErrors,
		CacheName:    name,
	})
	log.Debug().Str("backend", name).Dur("ttl", cfg.CacheTTL).Bool("cache_errors", cfg.CacheErrors).Msg("review service ready")
	return svc, cache, closeFn, nil
}

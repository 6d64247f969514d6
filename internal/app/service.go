package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"cid_reviews/internal/adapters/observability"
	"cid_reviews/internal/domain"
)

// Source tells where a response body came from.
type Source string

const (
	SourceCache Source = "HIT"
	SourceFetch Source = "MISS"
)

const requestFailed = "request failed: "

type Result struct {
	Body     []byte
	Source   Source
	StoredAt time.Time
	// Failed is set when Body is an error document.
	Failed bool
}

type Options struct {
	BusinessName string
	TTL          time.Duration
	// CacheErrors stores error documents like successful ones. When false
	// they are served once and cached error entries are ignored.
	CacheErrors bool
	// CacheName labels cache metrics (file, redis, mysql).
	CacheName string
}

// ReviewService is the cache gate in front of fetch-and-store.
type ReviewService struct {
	fetcher  domain.PageFetcher
	provider domain.ReviewProvider
	cache    domain.Cache
	opts     Options

	flights   singleflight.Group // Get misses
	refreshes singleflight.Group // Refresh calls
}

func NewReviewService(f domain.PageFetcher, p domain.ReviewProvider, c domain.Cache, opts Options) *ReviewService {
	if opts.CacheName == "" {
		opts.CacheName = "cache"
	}
	return &ReviewService{fetcher: f, provider: p, cache: c, opts: opts}
}

// Get returns the fresh cached blob for cid or fetches, stores and returns a
// new one. Concurrent misses for the same cid share one fetch. If ctx ends
// before the fetch does, Get answers with an error document; the fetch keeps
// going and stores its result for the next caller.
func (s *ReviewService) Get(ctx context.Context, cid string) (Result, error) {
	if r, ok := s.lookup(ctx, cid, true); ok {
		return r, nil
	}

	ch := s.flights.DoChan(cid, func() (any, error) {
		// one caller going away must not fail the others waiting on this flight
		fctx := context.WithoutCancel(ctx)
		// an earlier flight may have stored it after our lookup
		if r, ok := s.lookup(fctx, cid, false); ok {
			return r, nil
		}
		return s.refresh(fctx, cid)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Result{}, res.Err
		}
		if res.Shared {
			log.Debug().Str("cid", cid).Msg("joined in-flight fetch")
		}
		return res.Val.(Result), nil
	case <-ctx.Done():
		log.Warn().Err(ctx.Err()).Str("cid", cid).Msg("gave up waiting for fetch")
		body, err := ErrorEnvelope(requestFailed + ctx.Err().Error())
		if err != nil {
			return Result{}, err
		}
		return Result{Body: body, Source: SourceFetch, Failed: true}, nil
	}
}

// Refresh skips the cache gate and always fetches. Concurrent refreshes of
// one cid share a fetch, but a refresh never joins a Get flight, which may
// have been answered from the cache.
func (s *ReviewService) Refresh(ctx context.Context, cid string) (Result, error) {
	v, err, _ := s.refreshes.Do(cid, func() (any, error) {
		return s.refresh(context.WithoutCancel(ctx), cid)
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

// Invalidate drops the stored entry for cid.
func (s *ReviewService) Invalidate(ctx context.Context, cid string) error {
	if err := s.cache.Del(ctx, cid); err != nil {
		return err
	}
	observability.ObserveCache(s.opts.CacheName, "del")
	return nil
}

// lookup returns the cached result when it is fresh. Only the first lookup
// of a Get records miss/stale events; the in-flight re-check would count the
// same miss again.
func (s *ReviewService) lookup(ctx context.Context, cid string, record bool) (Result, bool) {
	observe := func(event string) {
		if record || event == "hit" {
			observability.ObserveCache(s.opts.CacheName, event)
		}
	}

	e, ok, err := s.cache.Get(ctx, cid)
	if err != nil {
		log.Warn().Err(err).Str("cid", cid).Msg("cache read failed, fetching")
		return Result{}, false
	}
	if !ok {
		observe("miss")
		return Result{}, false
	}
	if time.Since(e.StoredAt) >= s.opts.TTL {
		observe("stale")
		return Result{}, false
	}
	failed := IsErrorPayload(e.Data)
	if failed && !s.opts.CacheErrors {
		observe("stale")
		return Result{}, false
	}
	observe("hit")
	return Result{Body: e.Data, Source: SourceCache, StoredAt: e.StoredAt, Failed: failed}, true
}

func (s *ReviewService) refresh(ctx context.Context, cid string) (Result, error) {
	body, failed, err := s.build(ctx, cid)
	if err != nil {
		return Result{}, err
	}
	res := Result{Body: body, Source: SourceFetch, StoredAt: time.Now(), Failed: failed}

	if failed && !s.opts.CacheErrors {
		return res, nil
	}
	if err := s.cache.Set(ctx, cid, body); err != nil {
		log.Error().Err(err).Str("cid", cid).Msg("cache write failed")
		return res, nil
	}
	observability.ObserveCache(s.opts.CacheName, "set")
	return res, nil
}

// build fetches the page and renders either the reviews or the error document.
// The returned error is only set when rendering itself fails.
func (s *ReviewService) build(ctx context.Context, cid string) ([]byte, bool, error) {
	page, err := s.fetcher.FetchPage(ctx, cid)
	if err != nil {
		log.Warn().Err(err).Str("cid", cid).Msg("reviews fetch failed")
		b, mErr := ErrorEnvelope(requestFailed + err.Error())
		return b, true, mErr
	}

	rating, reviews, err := s.provider.Reviews(ctx, cid, page)
	if err != nil {
		log.Warn().Err(err).Str("cid", cid).Msg("reviews extraction failed")
		b, mErr := ErrorEnvelope(err.Error())
		return b, true, mErr
	}

	b, err := ReviewsEnvelope(s.opts.BusinessName, rating, reviews)
	return b, false, err
}

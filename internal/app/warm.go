package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

type WarmReport struct {
	Refreshed []string
	Failed    []string
}

// Warm refreshes every cid with at most workers fetches in flight.
// It stops launching new fetches once ctx is done.
func (s *ReviewService) Warm(ctx context.Context, cids []string, workers int) (WarmReport, error) {
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		rep WarmReport
	)

	var acquireErr error
	for _, cid := range cids {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			acquireErr = err
			break
		}

		wg.Add(1)
		go func(cid string) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := s.Refresh(ctx, cid)
			mu.Lock()
			defer mu.Unlock()
			if err != nil || res.Failed {
				log.Warn().Str("cid", cid).Err(err).Msg("warm failed")
				rep.Failed = append(rep.Failed, cid)
				return
			}
			log.Info().Str("cid", cid).Msg("warm ok")
			rep.Refreshed = append(rep.Refreshed, cid)
		}(cid)
	}

	wg.Wait()
	return rep, acquireErr
}

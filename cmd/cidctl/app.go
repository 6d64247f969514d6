package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"cid_reviews/internal/app"
	"cid_reviews/internal/bootstrap"
	"cid_reviews/internal/domain"
	"cid_reviews/internal/shared"
)

func newApp(cfg shared.Config, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "cidctl",
		Usage: "inspect and manage the Google CID reviews cache",
		Commands: []*cli.Command{
			getCommand(cfg, out),
			warmCommand(cfg, out),
			purgeCommand(cfg, out),
		},
	}
}

// withService opens the configured backend for the lifetime of fn.
func withService(ctx context.Context, cfg shared.Config, fn func(*app.ReviewService, domain.Cache) error) error {
	svc, cache, closeFn, err := bootstrap.NewReviewService(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeFn(); err != nil {
			log.Warn().Err(err).Msg("cache close failed")
		}
	}()
	return fn(svc, cache)
}

func getCommand(cfg shared.Config, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "print the reviews JSON for a CID",
		UsageText: "cidctl get [--cid CID]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "cid",
				Usage: "business CID",
				Value: cfg.BusinessCID,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cid := c.String("cid")
			return withService(ctx, cfg, func(svc *app.ReviewService, _ domain.Cache) error {
				res, err := svc.Get(ctx, cid)
				if err != nil {
					return err
				}
				log.Debug().Str("cid", cid).Str("source", string(res.Source)).Msg("get")
				_, err = fmt.Fprintln(out, string(res.Body))
				return err
			})
		},
	}
}

func warmCommand(cfg shared.Config, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "warm",
		Usage:     "refetch and store several CIDs",
		UsageText: "cidctl warm --cid A --cid B [--workers N]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "cid",
				Usage: "business CID, repeatable",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "concurrent fetches",
				Value: cfg.WarmWorkers,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cids := c.StringSlice("cid")
			if len(cids) == 0 {
				cids = []string{cfg.BusinessCID}
			}
			return withService(ctx, cfg, func(svc *app.ReviewService, _ domain.Cache) error {
				rep, err := svc.Warm(ctx, cids, c.Int("workers"))
				fmt.Fprintf(out, "refreshed: %d failed: %d\n", len(rep.Refreshed), len(rep.Failed))
				if err != nil {
					return err
				}
				if len(rep.Failed) > 0 {
					return fmt.Errorf("warm failed for %s", strings.Join(rep.Failed, ","))
				}
				return nil
			})
		},
	}
}

func purgeCommand(cfg shared.Config, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "purge",
		Usage:     "remove cache entries",
		UsageText: "cidctl purge [--max-age 24h] [--cid CID ...]",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "max-age",
				Usage: "remove entries stored longer ago than this",
				Value: cfg.CacheTTL,
			},
			&cli.StringSliceFlag{
				Name:  "cid",
				Usage: "remove just these CIDs, regardless of age",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return withService(ctx, cfg, func(svc *app.ReviewService, cache domain.Cache) error {
				if cids := c.StringSlice("cid"); len(cids) > 0 {
					for _, cid := range cids {
						if err := svc.Invalidate(ctx, cid); err != nil {
							return fmt.Errorf("invalidate %s: %w", cid, err)
						}
					}
					fmt.Fprintf(out, "removed: %d\n", len(cids))
					return nil
				}

				p, ok := cache.(domain.Purger)
				if !ok {
					// redis expires entries itself
					fmt.Fprintf(out, "backend %s expires entries on its own\n", cfg.CacheBackend)
					return nil
				}
				maxAge := c.Duration("max-age")
				n, err := p.Purge(ctx, maxAge)
				if err != nil {
					return err
				}
				log.Info().Int64("removed", n).Dur("max_age", maxAge).Msg("purge done")
				fmt.Fprintf(out, "removed: %d\n", n)
				return nil
			})
		},
	}
}

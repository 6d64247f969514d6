package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"cid_reviews/internal/adapters/observability"
	"cid_reviews/internal/shared"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	cfg, err := shared.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	// stdout carries the JSON; logs go to stderr
	log.Logger = observability.NewLogger(cfg.AppEnv, os.Stderr)
	cfg.LogWarnings(log.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(cfg, os.Stdout).Run(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("cidctl failed")
		return 1
	}
	return 0
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "cid_reviews/internal/adapters/http_server"
	"cid_reviews/internal/adapters/observability"
	"cid_reviews/internal/bootstrap"
	"cid_reviews/internal/shared"
)

// headroom on top of the fetch timeout for cache I/O and rendering
const requestSlack = 5 * time.Second

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, os.Stdout)
	cfg.LogWarnings(log.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	svc, _, closeCache, err := bootstrap.NewReviewService(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.CacheBackend).Msg("cache backend init failed")
	}
	defer func() {
		if err := closeCache(); err != nil {
			log.Warn().Err(err).Msg("cache close failed")
		}
	}()
	log.Info().Str("backend", cfg.CacheBackend).Str("default_cid", cfg.BusinessCID).Msg("cache ready")

	// http
	srv := server.New(cfg.FetchTimeout + requestSlack)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Reviews: svc, DefaultCID: cfg.BusinessCID})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(sctx); err != nil {
			log.Warn().Err(err).Msg("http shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}

package observability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const namespace = "cidreviews"

// Front door: every request, whichever route served it.
var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Requests answered by the reviews endpoint, by route pattern, method and status.",
	}, []string{"route", "method", "status"})

	HTTPLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Time to answer a request, including any reviews page fetch on a miss.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// Upstream: fetches of the public reviews page.
var (
	ExternalRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "external_requests_total",
		Help:      "Reviews page fetches by upstream status; status 0 is a transport failure.",
	}, []string{"service", "endpoint", "status"})

	// page fetches are slower than local requests
	ExternalLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "external_request_duration_seconds",
		Help:      "Duration of a reviews page fetch, body read included.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20},
	}, []string{"service", "endpoint"})
)

// CacheEvents counts what the cache gate decided per backend. A Get is one
// of hit, miss or stale; set and del follow writes and invalidations.
var CacheEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "cache_events_total",
	Help:      "Review cache decisions and writes by backend (file, redis, mysql).",
}, []string{"cache", "event"})

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Serve exposes reg on a separate listener. Empty addr means the main router's
// /metrics is the only one.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("metrics server failed")
		}
	}()
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveExternal records one outbound call. status 0 means the transport failed.
func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) {
	CacheEvents.WithLabelValues(cache, event).Inc()
}

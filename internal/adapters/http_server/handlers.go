// internal/adapters/http_server/handlers.go
package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"cid_reviews/internal/app"
)

const contentTypeJSON = "application/json; charset=UTF-8"

// internalErrorBody is served if the envelope itself cannot be rendered.
var internalErrorBody = []byte(`{"error":"internal error"}`)

var healthyBody = []byte(`{"status":"ok"}`)

type Handlers struct {
	Reviews    *app.ReviewService
	DefaultCID string
}

// MountHandlers registers the routes. Anything not matched by a more specific
// route, whatever the method, is answered with the default business' reviews.
func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", healthz)
	s.mux.HandleFunc("/v1/places/{cid}/reviews", h.placeReviews)
	s.mux.HandleFunc("/*", h.defaultReviews)
	s.mux.MethodNotAllowed(h.defaultReviews)
	s.mux.NotFound(h.defaultReviews)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(healthyBody)
}

func (h *Handlers) defaultReviews(w http.ResponseWriter, r *http.Request) {
	h.writeReviews(w, r, h.DefaultCID)
}

func (h *Handlers) placeReviews(w http.ResponseWriter, r *http.Request) {
	h.writeReviews(w, r, chi.URLParam(r, "cid"))
}

// writeReviews always answers 200; failures travel inside the JSON body.
func (h *Handlers) writeReviews(w http.ResponseWriter, r *http.Request, cid string) {
	body := internalErrorBody
	res, err := h.Reviews.Get(r.Context(), cid)
	if err != nil {
		log.Error().Err(err).Str("cid", cid).Msg("render reviews failed")
	} else {
		body = res.Body
		w.Header().Set("X-Cache", string(res.Source))
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write reviews body")
	}
}

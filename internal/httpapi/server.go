// Package httpapi wires the store and SSE manager into the HTTP surface
// described in spec §4.6: POST /ingest, GET /events, GET /healthz.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ariadne-dev/ariadne/internal/sse"
	"github.com/ariadne-dev/ariadne/internal/store"
)

var errStreamingUnsupported = errors.New("response writer does not support streaming")

// Server holds the dependencies the HTTP handlers need. It is constructed
// once at startup and passed around explicitly rather than reached through
// package-level state (spec §9's redesign note).
type Server struct {
	store      *store.Store
	manager    *sse.Manager
	corsOrigin string
	logger     *slog.Logger
	startedAt  time.Time
	version    string
}

// New constructs a Server.
func New(st *store.Store, mgr *sse.Manager, corsOrigin, version string, logger *slog.Logger) *Server {
	return &Server{
		store:      st,
		manager:    mgr,
		corsOrigin: corsOrigin,
		logger:     logger,
		startedAt:  time.Now(),
		version:    version,
	}
}

// Handler builds the root http.Handler, with the CORS policy applied to
// every route.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ingest", s.handleIngest)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return corsMiddleware(s.corsOrigin, mux)
}

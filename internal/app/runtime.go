// Package app wires Ariadne's pipeline together (store, SSE manager,
// HTTP surface) and owns the listen/shutdown lifecycle, the way the
// teacher's Runtime owns its db/ingest/push lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ariadne-dev/ariadne/internal/config"
	"github.com/ariadne-dev/ariadne/internal/httpapi"
	"github.com/ariadne-dev/ariadne/internal/metrics"
	"github.com/ariadne-dev/ariadne/internal/sse"
	"github.com/ariadne-dev/ariadne/internal/store"
)

// metricsInterval is how often the background collector logs a pipeline
// snapshot.
const metricsInterval = 15 * time.Second

// Runtime owns the store, SSE manager, and HTTP server for one process
// lifetime.
type Runtime struct {
	cfg       *config.Config
	logger    *slog.Logger
	version   string
	startedAt time.Time

	store      *store.Store
	manager    *sse.Manager
	httpServer *http.Server

	bgCancel context.CancelFunc
	bgWG     sync.WaitGroup
}

// New constructs a Runtime; nothing is opened or listening until Run.
func New(cfg *config.Config, logger *slog.Logger, version string) *Runtime {
	return &Runtime{
		cfg:       cfg,
		logger:    logger,
		version:   version,
		startedAt: time.Now(),
	}
}

// Run starts the store, SSE manager, and HTTP server and blocks until ctx
// is cancelled or the server fails, then shuts everything down cleanly.
func (r *Runtime) Run(ctx context.Context) error {
	r.store = store.New(r.cfg.MaxEvents)
	r.manager = sse.NewManager(r.logger, r.cfg.HeartbeatInterval, r.cfg.QueueCapacity)

	bgCtx, bgCancel := context.WithCancel(context.Background())
	r.bgCancel = bgCancel
	r.bgWG.Add(1)
	go func() {
		defer r.bgWG.Done()
		r.manager.RunHeartbeat(bgCtx)
	}()

	collector := metrics.NewCollector(metricsInterval, r.logger, r.store, r.manager)
	r.bgWG.Add(1)
	go func() {
		defer r.bgWG.Done()
		if err := collector.Run(bgCtx); err != nil {
			r.logger.Warn("metrics collector stopped", "error", err)
		}
	}()

	apiServer := httpapi.New(r.store, r.manager, r.cfg.CORSOrigin, r.version, r.logger)
	addr := r.cfg.Host + ":" + r.cfg.Port
	r.httpServer = &http.Server{
		Addr:    addr,
		Handler: apiServer.Handler(),
	}

	serverErr := make(chan error, 1)
	go func() {
		r.logger.Info("listening", "addr", addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		shutdownErr := r.shutdown(context.Background())
		if err != nil {
			return errors.Join(fmt.Errorf("http server failed: %w", err), shutdownErr)
		}
		return shutdownErr
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
		return r.shutdown(context.Background())
	}
}

func (r *Runtime) shutdown(ctx context.Context) error {
	var joined error

	if r.httpServer != nil {
		httpCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := r.httpServer.Shutdown(httpCtx); err != nil {
			joined = errors.Join(joined, fmt.Errorf("http shutdown: %w", err))
		}
	}

	if r.manager != nil {
		r.manager.Shutdown()
	}

	if r.bgCancel != nil {
		r.bgCancel()
		done := make(chan struct{})
		go func() {
			r.bgWG.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(3 * time.Second):
			joined = errors.Join(joined, errors.New("background loop shutdown timeout"))
		}
	}

	r.logger.Info("shutdown complete",
		"uptime", time.Since(r.startedAt).String(),
		"events_stored", r.store.Count(),
	)
	return joined
}

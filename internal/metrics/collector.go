// Package metrics periodically logs Ariadne's own operational counters —
// store occupancy, live subscriber count, backpressure drops, process RSS
// — the way the teacher's Collector samples cgroup CPU/memory/disk on a
// ticker and emits what it finds, adapted here to describe this service's
// own pipeline instead of host resource usage.
package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/ariadne-dev/ariadne/internal/hardening"
)

// StoreStats is the subset of store.Store the collector samples.
type StoreStats interface {
	Count() int
	Capacity() int
}

// SubscriberStats is the subset of sse.Manager the collector samples.
type SubscriberStats interface {
	Count() int
	DroppedTotal() int64
}

// Collector samples the pipeline's operational counters on a ticker and
// logs them at info level.
type Collector struct {
	interval time.Duration
	logger   *slog.Logger
	store    StoreStats
	subs     SubscriberStats
}

// NewCollector constructs a Collector.
func NewCollector(interval time.Duration, logger *slog.Logger, store StoreStats, subs SubscriberStats) *Collector {
	return &Collector{
		interval: interval,
		logger:   logger,
		store:    store,
		subs:     subs,
	}
}

// Run samples and logs once per tick until ctx is cancelled.
func (c *Collector) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.sample()
		}
	}
}

func (c *Collector) sample() {
	rss, rssErr := hardening.CurrentRSSBytes()

	attrs := []any{
		"events_stored", c.store.Count(),
		"events_capacity", c.store.Capacity(),
		"subscribers", c.subs.Count(),
		"events_dropped_total", c.subs.DroppedTotal(),
	}
	if rssErr == nil {
		attrs = append(attrs, "rss_bytes", rss)
	}
	c.logger.Info("pipeline snapshot", attrs...)
}

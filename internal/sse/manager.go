package sse

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ariadne-dev/ariadne/internal/event"
)

// DefaultHeartbeatInterval is the minimum cadence of heartbeat comment
// frames on an idle connection (spec §4.5, §5).
const DefaultHeartbeatInterval = 15 * time.Second

// DefaultQueueCapacity is Q, the per-subscriber pending-event cap
// (spec §5).
const DefaultQueueCapacity = 5000

// Manager owns the set of active subscriptions and fans ingested events
// out to them. It replaces the teacher's module-level singletons with an
// explicit long-lived value constructed at startup (spec §9).
type Manager struct {
	logger            *slog.Logger
	heartbeatInterval time.Duration
	queueCapacity     int

	mu   sync.Mutex
	subs map[string]*Subscription

	dropped atomic.Int64

	closeOnce sync.Once
	done      chan struct{}
}

// NewManager constructs a Manager. heartbeatInterval and queueCapacity fall
// back to their spec defaults when zero, which lets production code omit
// them while tests tighten both for speed.
func NewManager(logger *slog.Logger, heartbeatInterval time.Duration, queueCapacity int) *Manager {
	if heartbeatInterval <= 0 {
		heartbeatInterval = DefaultHeartbeatInterval
	}
	if queueCapacity <= 0 {
		queueCapacity = DefaultQueueCapacity
	}
	return &Manager{
		logger:            logger,
		heartbeatInterval: heartbeatInterval,
		queueCapacity:     queueCapacity,
		subs:              make(map[string]*Subscription),
		done:              make(chan struct{}),
	}
}

// Subscribe registers a new subscription and returns it.
func (m *Manager) Subscribe(filter *Filter) *Subscription {
	sub := newSubscription(filter, m.queueCapacity)
	m.mu.Lock()
	m.subs[sub.id] = sub
	m.mu.Unlock()
	return sub
}

// Unsubscribe deregisters and releases the named subscription's queue.
// Safe to call more than once for the same id.
func (m *Manager) Unsubscribe(id string) {
	m.mu.Lock()
	sub, ok := m.subs[id]
	if ok {
		delete(m.subs, id)
	}
	m.mu.Unlock()
	if ok {
		sub.close()
	}
}

// Count returns the number of currently active subscriptions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// DroppedTotal returns the cumulative number of events dropped by
// backpressure across all subscribers.
func (m *Manager) DroppedTotal() int64 {
	return m.dropped.Load()
}

// Broadcast fans e out to every subscription whose filter matches it
// (spec §4.5 "Broadcast (fan-out) contract"). The registry mutex is held
// only long enough to snapshot the subscriber list; per-subscription work
// happens outside the lock so one slow subscriber can never block another
// or block ingest (spec §5).
func (m *Manager) Broadcast(e event.Event) {
	m.mu.Lock()
	targets := make([]*Subscription, 0, len(m.subs))
	for _, sub := range m.subs {
		targets = append(targets, sub)
	}
	m.mu.Unlock()

	for _, sub := range targets {
		if !sub.filter.Match(e) {
			continue
		}
		if dropped := sub.queue.pushEvent(e); dropped {
			m.dropped.Add(1)
			sub.queue.pushComment(BackpressureComment)
		}
	}
}

// RunHeartbeat drives the background heartbeat ticker described in spec
// §4.5/§5. It scans subscriptions periodically and enqueues a heartbeat
// comment for any whose sink has been idle for at least the heartbeat
// interval. The actual write happens on the subscription's own connection
// goroutine once it drains the queue, so this loop never touches a socket
// and is resilient to subscriptions disappearing mid-scan (spec §7).
func (m *Manager) RunHeartbeat(ctx context.Context) {
	ticker := time.NewTicker(m.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.done:
			return
		case <-ticker.C:
			m.mu.Lock()
			targets := make([]*Subscription, 0, len(m.subs))
			for _, sub := range m.subs {
				targets = append(targets, sub)
			}
			m.mu.Unlock()

			for _, sub := range targets {
				if sub.idleSince() >= m.heartbeatInterval {
					sub.queue.pushComment(heartbeatCommentText)
				}
			}
		}
	}
}

// Done returns a channel closed when the manager shuts down, so active
// GET /events handlers can terminate their subscriptions promptly.
func (m *Manager) Done() <-chan struct{} { return m.done }

// Shutdown terminates every active subscription and stops the heartbeat
// loop.
func (m *Manager) Shutdown() {
	m.closeOnce.Do(func() { close(m.done) })

	m.mu.Lock()
	subs := m.subs
	m.subs = make(map[string]*Subscription)
	m.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
}

package sse

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Subscription is one live SSE client registration (spec §4.5). The
// subscription owns its filter and pending-output queue; the HTTP layer
// owns the actual socket and drains the queue into it. uuid.NewString
// gives each subscription the same kind of opaque, collision-free label
// the teacher assigns trace ids with in internal/ingest/worker.go.
type Subscription struct {
	id     string
	filter *Filter
	queue  *boundedQueue

	mu              sync.Mutex
	lastHeartbeatAt time.Time

	connected atomic.Bool
}

func newSubscription(filter *Filter, queueCapacity int) *Subscription {
	s := &Subscription{
		id:     uuid.NewString(),
		filter: filter,
		queue:  newBoundedQueue(queueCapacity),
	}
	s.lastHeartbeatAt = time.Now()
	s.connected.Store(true)
	return s
}

// ID returns the subscription's logging label.
func (s *Subscription) ID() string { return s.id }

// Notify returns the channel that wakes whenever a frame is enqueued.
func (s *Subscription) Notify() <-chan struct{} { return s.queue.notify }

// drain removes and returns all pending frames in FIFO order.
func (s *Subscription) drain() []frame { return s.queue.drain() }

// QueueLen reports the current number of buffered event frames.
func (s *Subscription) QueueLen() int { return s.queue.eventLen() }

// Touch records that a frame was just written to the sink, resetting the
// idle clock the heartbeat loop checks.
func (s *Subscription) Touch() {
	s.mu.Lock()
	s.lastHeartbeatAt = time.Now()
	s.mu.Unlock()
}

func (s *Subscription) idleSince() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastHeartbeatAt)
}

// Connected reports whether the subscription is still registered.
func (s *Subscription) Connected() bool { return s.connected.Load() }

func (s *Subscription) close() { s.connected.Store(false) }

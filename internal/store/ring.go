// Package store holds the bounded in-memory event buffer (C3) and the
// trace-indexed event store built on top of it (C4).
package store

import (
	"sync"

	"github.com/ariadne-dev/ariadne/internal/event"
)

// Ring is a fixed-capacity FIFO over events. Append is O(1); once full it
// silently overwrites the oldest slot. Exactly one writer is expected
// (the ingest path); GetAll may be called concurrently by readers and
// always returns a consistent snapshot, per spec §4.3.
type Ring struct {
	mu       sync.Mutex
	items    []event.Event
	capacity int
	writeIdx int
	size     int
}

// NewRing constructs a ring of the given capacity. A non-positive capacity
// is clamped to 1.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring{
		items:    make([]event.Event, capacity),
		capacity: capacity,
	}
}

// Append stores e at the next write position, overwriting the oldest entry
// once the ring is full.
func (r *Ring) Append(e event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[r.writeIdx] = e
	r.writeIdx = (r.writeIdx + 1) % r.capacity
	if r.size < r.capacity {
		r.size++
	}
}

// GetAll returns a snapshot of the ring's contents in arrival order.
func (r *Ring) GetAll() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]event.Event, r.size)
	if r.size < r.capacity {
		copy(out, r.items[:r.size])
		return out
	}
	n := copy(out, r.items[r.writeIdx:])
	copy(out[n:], r.items[:r.writeIdx])
	return out
}

// Count returns the number of entries currently held (<= Capacity).
func (r *Ring) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Capacity returns the fixed capacity M.
func (r *Ring) Capacity() int {
	return r.capacity
}

// Clear empties the ring.
func (r *Ring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make([]event.Event, r.capacity)
	r.writeIdx = 0
	r.size = 0
}

package store

import (
	"sync"

	"github.com/ariadne-dev/ariadne/internal/event"
)

// TraceView is a consistent snapshot of one trace's envelope and spans.
type TraceView struct {
	Trace *event.Event
	Spans []event.Event
}

// traceSlot is the mutable entry held per trace_id in the secondary index.
type traceSlot struct {
	trace *event.Event
	spans []event.Event
}

// Store composes a Ring (C3) with a secondary trace_id -> slot index (C4).
// The index is append-only for the life of the process: ring eviction does
// not prune it. That asymmetry is deliberate (spec §4.4, §9) — the index
// is an advisory convenience over "recent history", not an authoritative
// mirror of the ring.
type Store struct {
	ring *Ring

	mu    sync.RWMutex
	index map[string]*traceSlot
}

// New constructs a Store whose ring has the given capacity.
func New(capacity int) *Store {
	return &Store{
		ring:  NewRing(capacity),
		index: make(map[string]*traceSlot),
	}
}

// Append stores e in the ring and updates the trace index. A trace
// envelope replaces any prior envelope for the same trace_id; a span is
// appended to that trace's span list.
func (s *Store) Append(e event.Event) {
	s.ring.Append(e)

	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.index[e.TraceID]
	if !ok {
		slot = &traceSlot{}
		s.index[e.TraceID] = slot
	}
	if e.IsTrace() {
		ec := e
		slot.trace = &ec
	} else {
		slot.spans = append(slot.spans, e)
	}
}

// GetAll returns a snapshot of the ring in arrival order.
func (s *Store) GetAll() []event.Event {
	return s.ring.GetAll()
}

// Count returns the number of events currently held in the ring.
func (s *Store) Count() int {
	return s.ring.Count()
}

// Capacity returns the ring's fixed capacity.
func (s *Store) Capacity() int {
	return s.ring.Capacity()
}

// Clear empties both the ring and the trace index.
func (s *Store) Clear() {
	s.ring.Clear()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = make(map[string]*traceSlot)
}

// Trace returns a snapshot of the named trace's envelope and spans. The
// second return value is false if the trace_id has never been seen.
func (s *Store) Trace(traceID string) (TraceView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slot, ok := s.index[traceID]
	if !ok {
		return TraceView{}, false
	}
	view := TraceView{
		Spans: append([]event.Event(nil), slot.spans...),
	}
	if slot.trace != nil {
		tc := *slot.trace
		view.Trace = &tc
	}
	return view, true
}

// Package sse implements the SSE connection manager (C5): per-connection
// subscriptions, filters, heartbeats, and drop-oldest backpressure.
package sse

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ariadne-dev/ariadne/internal/event"
)

// Filter narrows which events a subscription receives, per spec §4.5.1.
// A nil *Filter matches everything.
type Filter struct {
	TraceID string
	Kinds   map[string]struct{}
	Since   *time.Time
}

// Match reports whether e passes f. All present filter fields are
// conjunctive. traceId applies to every event; kinds and since apply only
// to spans, and trace events always pass them.
func (f *Filter) Match(e event.Event) bool {
	if f == nil {
		return true
	}
	if f.TraceID != "" && e.TraceID != f.TraceID {
		return false
	}
	if !e.IsSpan() {
		return true
	}
	if len(f.Kinds) > 0 {
		if e.Kind == "" {
			return false
		}
		if _, ok := f.Kinds[e.Kind]; !ok {
			return false
		}
	}
	if f.Since != nil && e.StartedAt != "" {
		t, err := time.Parse(time.RFC3339, e.StartedAt)
		if err == nil && t.Before(*f.Since) {
			return false
		}
	}
	return true
}

// ParseFilter builds a Filter from GET /events query parameters:
// traceId, kinds (comma-separated), since (RFC 3339). An invalid since
// yields an error per spec §4.6. Returns (nil, nil) when no filter
// parameters are present.
func ParseFilter(q url.Values) (*Filter, error) {
	traceID := strings.TrimSpace(q.Get("traceId"))

	var kinds map[string]struct{}
	if raw := q.Get("kinds"); raw != "" {
		kinds = make(map[string]struct{})
		for _, k := range strings.Split(raw, ",") {
			k = strings.TrimSpace(k)
			if k != "" {
				kinds[k] = struct{}{}
			}
		}
	}

	var since *time.Time
	if raw := q.Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid since parameter: %w", err)
		}
		since = &t
	}

	if traceID == "" && kinds == nil && since == nil {
		return nil, nil
	}
	return &Filter{TraceID: traceID, Kinds: kinds, Since: since}, nil
}

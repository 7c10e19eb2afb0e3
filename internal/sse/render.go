package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ariadne-dev/ariadne/internal/event"
)

// ConnectedFrame is the first frame written to every new subscription
// (spec §4.5, §9): a control frame shaped like an event so that existing
// consumers which filter on `type:"connected"` keep working unmodified.
func ConnectedFrame(now time.Time) []byte {
	body := fmt.Sprintf(`{"type":"connected","timestamp":%q}`, now.UTC().Format(time.RFC3339))
	return dataFrame(body)
}

// eventFrame renders e as a compact-JSON `data:` frame.
func eventFrame(e event.Event) ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return dataFrame(string(body)), nil
}

// commentFrame renders an SSE comment line, e.g. heartbeats and
// backpressure warnings.
func commentFrame(text string) []byte {
	return []byte(":" + text + "\n\n")
}

// dataFrame renders a `data:` frame. Per spec §4.5 "Flush", any embedded
// newlines are escaped onto a single physical line rather than split into
// multiple prefixed `data:` lines, which keeps framing predictable for
// simple line-oriented SSE clients.
func dataFrame(body string) []byte {
	body = strings.ReplaceAll(body, "\n", "\\n")
	return []byte("data: " + body + "\n\n")
}

// Flush drains every pending frame on s and writes it to w in order,
// stopping at the first write error (the subscription is considered
// terminated at that point; spec §7). It performs no flushing of w itself
// — callers own that, since only they know whether w also implements
// http.Flusher.
func (s *Subscription) Flush(w io.Writer) (int, error) {
	frames := s.drain()
	n := 0
	for _, f := range frames {
		var b []byte
		if f.event != nil {
			var err error
			b, err = eventFrame(*f.event)
			if err != nil {
				continue
			}
		} else {
			b = commentFrame(f.comment)
		}
		if _, err := w.Write(b); err != nil {
			return n, err
		}
		n++
		s.Touch()
	}
	return n, nil
}

// WriteConnected writes the initial connected control frame.
func (s *Subscription) WriteConnected(w io.Writer, now time.Time) error {
	if _, err := w.Write(ConnectedFrame(now)); err != nil {
		return err
	}
	s.Touch()
	return nil
}

package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/ariadne-dev/ariadne/internal/apierr"
	"github.com/ariadne-dev/ariadne/internal/event"
)

// MaxBodyBytes is the §5/§6 body-size ceiling for POST /ingest.
const MaxBodyBytes = 256 * 1024

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > MaxBodyBytes {
		apierr.WriteSimple(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	limited := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	body, err := io.ReadAll(limited)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			apierr.WriteSimple(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		apierr.WriteInternal(w, err)
		return
	}

	rawEvents, err := event.ParseBody(body)
	if err != nil {
		apierr.WriteMalformedJSON(w, "request body is not valid JSON")
		return
	}

	decoded := make([]event.Event, 0, len(rawEvents))
	var details []apierr.Detail
	for i, raw := range rawEvents {
		ev, err := event.Decode(raw)
		if err != nil {
			details = append(details, apierr.Detail{Path: indexPath(i), Message: "event is not a valid JSON object"})
			continue
		}
		ev = event.Truncate(ev)
		for _, verr := range event.Validate(ev) {
			details = append(details, apierr.Detail{Path: indexPath(i) + "." + verr.Path, Message: verr.Message})
		}
		decoded = append(decoded, ev)
	}

	if len(details) > 0 {
		// All-or-nothing per request (spec §7, §9 Open Questions): nothing
		// from this batch is stored or broadcast.
		apierr.WriteValidationFailed(w, details)
		return
	}

	for _, ev := range decoded {
		s.store.Append(ev)
		s.manager.Broadcast(ev)
	}

	apierr.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(decoded),
	})
}

func indexPath(i int) string {
	return "events[" + strconv.Itoa(i) + "]"
}

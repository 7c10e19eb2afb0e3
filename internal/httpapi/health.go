package httpapi

import (
	"net/http"
	"time"

	"github.com/ariadne-dev/ariadne/internal/apierr"
)

// handleHealthz reports liveness plus current store size (spec §4.6),
// supplemented with subscriber count and uptime the way the teacher's
// HealthHandler surfaces queue depth and drop counts alongside status.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	apierr.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"events": map[string]any{
			"count":    s.store.Count(),
			"capacity": s.store.Capacity(),
		},
		"subscribers":    s.manager.Count(),
		"uptime_seconds": time.Since(s.startedAt).Seconds(),
		"dropped_events": s.manager.DroppedTotal(),
		"version":        s.version,
	})
}

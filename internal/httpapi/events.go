package httpapi

import (
	"net/http"
	"time"

	"github.com/ariadne-dev/ariadne/internal/apierr"
	"github.com/ariadne-dev/ariadne/internal/sse"
)

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := sse.ParseFilter(r.URL.Query())
	if err != nil {
		apierr.WriteSimple(w, http.StatusBadRequest, "Invalid since parameter")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		apierr.WriteInternal(w, errStreamingUnsupported)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	sub := s.manager.Subscribe(filter)
	defer s.manager.Unsubscribe(sub.ID())

	if err := sub.WriteConnected(w, time.Now()); err != nil {
		s.logger.Debug("sse write failed on connect", "subscription", sub.ID(), "error", err)
		return
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.manager.Done():
			return
		case <-sub.Notify():
			if _, err := sub.Flush(w); err != nil {
				s.logger.Debug("sse write failed", "subscription", sub.ID(), "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

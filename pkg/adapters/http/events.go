package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aretw0/carousel/pkg/domain"
	"github.com/oapi-codegen/runtime"
)

// SubscribeEvents handles the GET /carousels/{id}/events request (SSE).
// The first event carries the full snapshot as a diff; later events carry
// only the groups listed in the optional watch parameter.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	c, ok := s.carousel(w, r)
	if !ok {
		return
	}
	var watch []string
	if err := runtime.BindQueryParameter("form", false, false, "watch", r.URL.Query(), &watch); err != nil {
		s.badRequest(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	snap := c.Snapshot()
	s.logger.Info("SSE: Subscribing to carousel updates", "carousel_id", snap.ID)

	ch, cancel := s.Streams.Subscribe(snap.ID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	if initial := domain.Diff(nil, snap); initial != nil {
		writeEvent(w, initial)
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "carousel_id", snap.ID)
			return
		case diff, ok := <-ch:
			if !ok {
				return
			}
			if !diff.Matches(watch) {
				continue
			}
			writeEvent(w, diff)
			flusher.Flush()
			if diff.Closed != nil && *diff.Closed {
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, diff *domain.SnapshotDiff) {
	data, err := json.Marshal(diff)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}

package http

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// livePollInterval paces frames for animators that cannot push them.
const livePollInterval = 16 * time.Millisecond

// Frame is one visible offset reading pushed over /live.
type Frame struct {
	Offset   float64 `json:"offset"`
	Position int     `json:"position"`
	Logical  int     `json:"logical"`
}

// Live handles the GET /carousels/{id}/live websocket. Each frame of the
// animation is sent as JSON; frames are dropped for slow readers.
func (s *Server) Live(w http.ResponseWriter, r *http.Request) {
	c, ok := s.carousel(w, r)
	if !ok {
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Live: upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	offsets := make(chan float64, 64)
	push := func(v float64) {
		select {
		case offsets <- v:
		default:
		}
	}
	if cancel, ok := c.OnFrame(push); ok {
		defer cancel()
	} else {
		ticker := time.NewTicker(livePollInterval)
		defer ticker.Stop()
		go func() {
			last := c.VisibleOffset()
			for {
				select {
				case <-r.Context().Done():
					return
				case <-ticker.C:
					if v := c.VisibleOffset(); v != last {
						last = v
						push(v)
					}
				}
			}
		}()
	}

	// The reader only notices the peer going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(v float64) error {
		snap := c.Snapshot()
		return conn.WriteJSON(Frame{Offset: v, Position: snap.State.Position, Logical: snap.Logical})
	}
	if err := send(c.VisibleOffset()); err != nil {
		return
	}
	for {
		select {
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case v := <-offsets:
			if err := send(v); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.logger.Debug("Live: write failed", "err", err)
				}
				return
			}
		}
	}
}

package http

import (
	"log/slog"
	"sync"

	"github.com/aretw0/carousel/pkg/domain"
)

// StreamManager fans snapshot diffs out to the SSE clients of each carousel.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- *domain.SnapshotDiff]struct{} // CarouselID -> Set of Channels
	logger      *slog.Logger

	lastMu sync.Mutex
	last   map[string]*domain.Snapshot
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- *domain.SnapshotDiff]struct{}),
		logger:      logger,
		last:        make(map[string]*domain.Snapshot),
	}
}

// Subscribe registers a buffered channel for id. The returned function
// removes and closes it.
func (sm *StreamManager) Subscribe(id string) (<-chan *domain.SnapshotDiff, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan *domain.SnapshotDiff, 16)
	if _, ok := sm.subscribers[id]; !ok {
		sm.subscribers[id] = make(map[chan<- *domain.SnapshotDiff]struct{})
	}
	sm.subscribers[id][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[id]; ok {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(sm.subscribers, id)
				}
			}
			close(ch)
		})
	}
}

// Subscribers returns how many clients follow id.
func (sm *StreamManager) Subscribers(id string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[id])
}

// Broadcast delivers diff to every subscriber of its carousel.
func (sm *StreamManager) Broadcast(diff *domain.SnapshotDiff) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[diff.ID] {
		select {
		case ch <- diff:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping diff", "carousel_id", diff.ID)
		}
	}
}

// Observe is a session observer: it diffs snap against the last snapshot
// seen for id and broadcasts the change, if any.
func (sm *StreamManager) Observe(id string, snap *domain.Snapshot) {
	sm.lastMu.Lock()
	diff := domain.Diff(sm.last[id], snap)
	if snap.Closed {
		delete(sm.last, id)
	} else {
		sm.last[id] = snap
	}
	sm.lastMu.Unlock()

	if diff == nil {
		return
	}
	sm.logger.Debug("StreamManager: Broadcasting", "carousel_id", id, "subscribers", sm.Subscribers(id))
	sm.Broadcast(diff)
}

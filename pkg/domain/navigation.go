package domain

import "time"

// NavigationState is the mutable bookkeeping of a controller.
// At rest LastCommittedOffset == -width * Position.
type NavigationState struct {
	Position            int     `json:"position"`
	LastCommittedOffset float64 `json:"last_committed_offset"`
	IsThrottled         bool    `json:"is_throttled"`
	ThrottleCounter     int     `json:"throttle_counter"`
}

// Snapshot is a value copy of a controller, suitable for persistence and
// streaming. It never aliases controller memory.
type Snapshot struct {
	ID        string          `json:"id,omitempty"`
	Logical   int             `json:"logical"`
	Count     int             `json:"count"`
	Layout    Layout          `json:"layout"`
	State     NavigationState `json:"state"`
	Offset    float64         `json:"offset"`
	Width     float64         `json:"width"`
	Animating bool            `json:"animating"`
	Autoplay  AutoplayPhase   `json:"autoplay"`
	Closed    bool            `json:"closed,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AutoplayPhase is the state of the autoplay scheduler.
type AutoplayPhase string

const (
	AutoplayIdle         AutoplayPhase = "idle"
	AutoplayArmedPending AutoplayPhase = "armed_pending"
	AutoplayRunning      AutoplayPhase = "running"
)

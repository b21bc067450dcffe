package domain

import "strings"

// SnapshotDiff represents the changes between two snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type SnapshotDiff struct {
	// ID is always present to identify the target.
	ID string `json:"id"`

	Logical  *int     `json:"logical,omitempty"`
	Position *int     `json:"position,omitempty"`
	Offset   *float64 `json:"offset,omitempty"`

	Throttled       *bool `json:"throttled,omitempty"`
	ThrottleCounter *int  `json:"throttle_counter,omitempty"`

	Autoplay  *AutoplayPhase `json:"autoplay,omitempty"`
	Animating *bool          `json:"animating,omitempty"`
	Closed    *bool          `json:"closed,omitempty"`
}

// Diff calculates the difference between prev and next.
// If prev is nil, it returns a diff representing the entire next snapshot (initial load).
// It returns nil when nothing changed.
func Diff(prev, next *Snapshot) *SnapshotDiff {
	if next == nil {
		return nil
	}

	diff := &SnapshotDiff{ID: next.ID}

	if prev == nil || prev.Logical != next.Logical {
		diff.Logical = &next.Logical
	}
	if prev == nil || prev.State.Position != next.State.Position {
		diff.Position = &next.State.Position
	}
	if prev == nil || prev.Offset != next.Offset {
		diff.Offset = &next.Offset
	}
	if prev == nil || prev.State.IsThrottled != next.State.IsThrottled {
		diff.Throttled = &next.State.IsThrottled
	}
	if prev == nil || prev.State.ThrottleCounter != next.State.ThrottleCounter {
		diff.ThrottleCounter = &next.State.ThrottleCounter
	}
	if prev == nil || prev.Autoplay != next.Autoplay {
		diff.Autoplay = &next.Autoplay
	}
	if prev == nil || prev.Animating != next.Animating {
		diff.Animating = &next.Animating
	}
	if prev == nil {
		if next.Closed {
			diff.Closed = &next.Closed
		}
	} else if prev.Closed != next.Closed {
		diff.Closed = &next.Closed
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return d.Logical == nil &&
		d.Position == nil &&
		d.Offset == nil &&
		d.Throttled == nil &&
		d.ThrottleCounter == nil &&
		d.Autoplay == nil &&
		d.Animating == nil &&
		d.Closed == nil
}

// Matches reports whether the diff touches any of the watched groups:
// "position", "throttle", "autoplay" or "status". An empty watch list matches everything.
func (d *SnapshotDiff) Matches(watch []string) bool {
	if len(watch) == 0 {
		return true
	}
	for _, field := range watch {
		switch strings.TrimSpace(field) {
		case "position":
			if d.Logical != nil || d.Position != nil || d.Offset != nil {
				return true
			}
		case "throttle":
			if d.Throttled != nil || d.ThrottleCounter != nil {
				return true
			}
		case "autoplay":
			if d.Autoplay != nil {
				return true
			}
		case "status":
			if d.Animating != nil || d.Closed != nil {
				return true
			}
		}
	}
	return false
}

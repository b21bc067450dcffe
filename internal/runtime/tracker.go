package runtime

import (
	"github.com/aretw0/carousel/pkg/domain"
	"github.com/aretw0/carousel/pkg/ports"
)

// Tracker owns the physical position and the last committed offset.
// It never animates; callers drive the Driver with what it commits.
type Tracker struct {
	layout     domain.Layout
	width      float64
	position   int
	lastOffset float64
	policy     ports.RepositionPolicy
}

// NewTracker places the tracker on the centre-block replica of logical.
func NewTracker(layout domain.Layout, width float64, logical int, policy ports.RepositionPolicy) *Tracker {
	t := &Tracker{layout: layout, width: width, policy: policy}
	if !layout.Empty() {
		t.Commit(layout.Home(logical))
	}
	return t
}

func (t *Tracker) Position() int                { return t.position }
func (t *Tracker) Width() float64               { return t.width }
func (t *Tracker) LastCommittedOffset() float64 { return t.lastOffset }

// CurrentLogical returns position mod N.
func (t *Tracker) CurrentLogical() int {
	return t.layout.ToLogical(t.position)
}

// OffsetOf is the resting offset of position.
func (t *Tracker) OffsetOf(position int) float64 {
	return restingOffset(t.width, position)
}

// restingOffset is where position rests for a stride of width.
func restingOffset(width float64, position int) float64 {
	if position == 0 {
		return 0
	}
	return -width * float64(position)
}

// Commit makes position authoritative before any animation toward it starts.
func (t *Tracker) Commit(position int) {
	t.position = position
	t.lastOffset = t.OffsetOf(position)
}

// Target returns position+delta if it stays inside the physical range.
func (t *Tracker) Target(delta int) (int, bool) {
	next := t.position + delta
	if t.layout.Empty() || !t.layout.InRange(next) {
		return t.position, false
	}
	return next, true
}

// NeedsReposition reports whether position sits in a clone block near a loop seam.
func (t *Tracker) NeedsReposition(position int) bool {
	return t.policy.NeedsReposition(position, t.layout)
}

// Reposition re-centres the current position when it needs to. The caller
// applies the new offset instantly.
func (t *Tracker) Reposition() (from, to int, moved bool) {
	from = t.position
	if !t.NeedsReposition(from) {
		return from, from, false
	}
	to = t.policy.Recenter(from, t.layout)
	if !t.layout.InRange(to) {
		return from, from, false
	}
	t.Commit(to)
	return from, to, to != from
}

// SetWidth changes the stride and re-commits the current position.
func (t *Tracker) SetWidth(width float64) {
	t.width = width
	t.Commit(t.position)
}

// State returns the navigation bookkeeping owned by the tracker.
func (t *Tracker) State() domain.NavigationState {
	return domain.NavigationState{
		Position:            t.position,
		LastCommittedOffset: t.lastOffset,
	}
}

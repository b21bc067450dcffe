package runtime

import "github.com/aretw0/carousel/pkg/ports"

// ThrottleGuard suspends gesture input after a run of interrupted
// transitions and releases it on the next finished one.
type ThrottleGuard struct {
	policy    ports.ThrottlePolicy
	count     int
	counter   int
	last      int
	hasLast   bool
	throttled bool
}

// NewThrottleGuard creates a guard for count logical items.
func NewThrottleGuard(policy ports.ThrottlePolicy, count int) *ThrottleGuard {
	return &ThrottleGuard{policy: policy, count: count}
}

func (g *ThrottleGuard) Throttled() bool { return g.throttled }
func (g *ThrottleGuard) Counter() int    { return g.counter }

// Interrupted records an interrupted completion observed at position.
// It returns true when this event tripped the guard.
func (g *ThrottleGuard) Interrupted(position int) bool {
	if g.hasLast && position == g.last {
		return false
	}
	g.last = position
	g.hasLast = true
	g.counter++
	if g.policy.ShouldThrottle(g.counter, g.count) && !g.throttled {
		g.throttled = true
		return true
	}
	return false
}

// Finished records a finished completion. It returns true when this event
// released the guard.
func (g *ThrottleGuard) Finished() bool {
	if !g.throttled {
		return false
	}
	g.throttled = false
	g.counter = 0
	return true
}

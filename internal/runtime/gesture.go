package runtime

import "github.com/aretw0/carousel/pkg/domain"

// GestureResolver classifies a drag release. It never mutates state.
type GestureResolver struct {
	DragToss float64
	Friction float64
}

// Resolution is the outcome of a release: the direction, the position to
// commit and the offset to animate to.
type Resolution struct {
	Direction    domain.Direction
	Projected    float64
	Target       int
	TargetOffset float64
	Clamped      bool
}

// Project biases the translation with the velocity and scales by friction.
func (g GestureResolver) Project(s domain.GestureSample) float64 {
	friction := g.Friction
	if friction <= 0 {
		friction = 1
	}
	return (s.Translation + g.DragToss*s.Velocity) / friction
}

// Resolve classifies s for a carousel resting at position. Both thresholds
// are inclusive: -width/2 advances and +width/2 retreats.
func (g GestureResolver) Resolve(s domain.GestureSample, width float64, position int, layout domain.Layout) Resolution {
	projected := g.Project(s)
	threshold := width / 2

	res := Resolution{
		Direction:    domain.Stay,
		Projected:    projected,
		Target:       position,
		TargetOffset: restingOffset(width, position),
	}

	switch {
	case width <= 0:
		// No stride to measure against: stay put.
	case projected <= -threshold:
		next := position + 1
		if !layout.InRange(next) {
			res.Clamped = true
			return res
		}
		res.Direction = domain.Advance
		res.Target = next
		res.TargetOffset = restingOffset(width, next)
	case projected >= threshold:
		res.Direction = domain.Retreat
		if position == 0 {
			// Nothing to the left: return to the origin without moving.
			res.Clamped = true
			res.TargetOffset = 0
			return res
		}
		res.Target = position - 1
		res.TargetOffset = restingOffset(width, position-1)
	}
	return res
}


package ports

import "github.com/aretw0/carousel/pkg/domain"

// Animator is the animation capability the controller drives.
//
// Run must not invoke done synchronously; completion is delivered from
// another goroutine (or a clock callback) exactly once per run, unless the
// run is superseded by another Run or by Stop, in which case done may be
// invoked with false or not at all.
type Animator interface {
	// Value returns the current animated value.
	Value() float64

	// SetValue jumps to v without animating, cancelling any run in flight.
	SetValue(v float64)

	// Run animates from the current value toward target.
	Run(target float64, motion domain.Motion, done func(finished bool))

	// Stop halts the run in flight and returns the value it reached.
	Stop() float64
}

// FrameSource is implemented by animators that can push every value they
// produce, so renderers can follow the visible offset continuously.
type FrameSource interface {
	// OnFrame registers fn and returns a function removing it.
	OnFrame(fn func(value float64)) (cancel func())
}

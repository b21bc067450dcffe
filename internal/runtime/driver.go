package runtime

import (
	"github.com/aretw0/carousel/pkg/domain"
	"github.com/aretw0/carousel/pkg/ports"
)

// Driver owns the single in-flight animation of a controller.
//
// Every method must be called with the controller serialised. Completions
// from the animator are funnelled back through post, and a generation counter
// drops the ones belonging to superseded runs.
type Driver struct {
	animator ports.Animator
	post     func(func())
	onDone   func(finished bool)

	gen    uint64
	active bool
	motion domain.Motion
	target float64
}

// NewDriver wires animator completions to onDone through post.
func NewDriver(animator ports.Animator, post func(func()), onDone func(finished bool)) *Driver {
	return &Driver{animator: animator, post: post, onDone: onDone}
}

func (d *Driver) Active() bool            { return d.active }
func (d *Driver) Target() float64         { return d.target }
func (d *Driver) Mode() domain.MotionMode { return d.motion.Mode }
func (d *Driver) Value() float64          { return d.animator.Value() }

// AnimateTo starts a run toward target. A run already in flight is
// interrupted first and reports finished=false.
func (d *Driver) AnimateTo(target float64, m domain.Motion) {
	if d.active {
		d.Interrupt()
	}
	d.gen++
	g := d.gen
	d.active = true
	d.motion = m
	d.target = target
	d.animator.Run(target, m, func(finished bool) {
		d.post(func() { d.complete(g, finished) })
	})
}

func (d *Driver) complete(g uint64, finished bool) {
	if g != d.gen || !d.active {
		return
	}
	d.active = false
	d.onDone(finished)
}

// Interrupt halts the run in flight, pins the value where it stopped and
// reports finished=false. It returns the captured value and whether a run
// was actually interrupted.
func (d *Driver) Interrupt() (float64, bool) {
	if !d.active {
		return d.animator.Value(), false
	}
	v := d.animator.Stop()
	d.animator.SetValue(v)
	d.gen++
	d.active = false
	d.onDone(false)
	return v, true
}

// Retarget restarts the run in flight from value toward target with the
// same motion. The superseded run is dropped without reporting an
// interruption. It is a no-op when nothing is in flight.
func (d *Driver) Retarget(value, target float64) {
	if !d.active {
		return
	}
	m := d.motion
	d.Cancel()
	d.animator.SetValue(value)
	d.AnimateTo(target, m)
}

// Jump sets the value instantly, interrupting any run in flight.
func (d *Driver) Jump(v float64) {
	if d.active {
		d.Interrupt()
	}
	d.animator.SetValue(v)
}

// Cancel drops the run in flight without reporting it.
func (d *Driver) Cancel() {
	d.gen++
	if d.active {
		d.active = false
		d.animator.Stop()
	}
}

// Package motion is a frame-stepped ports.Animator. Release motions are
// integrated with a harmonica spring; snap motions are eased tweens. Frames
// are scheduled on a ports.Clock, so a clock.Manual makes runs deterministic.
package motion

import (
	"math"
	"sync"
	"time"

	"github.com/aretw0/carousel/pkg/domain"
	"github.com/aretw0/carousel/pkg/ports"
	"github.com/charmbracelet/harmonica"
)

const (
	DefaultFPS = 60
	// maxRunTime bounds a spring that can never come to rest.
	maxRunTime = 5 * time.Second
)

// Animator implements ports.Animator and ports.FrameSource.
type Animator struct {
	clock ports.Clock
	fps   int
	frame time.Duration

	mu        sync.Mutex
	value     float64
	run       *run
	listeners map[int]func(float64)
	nextID    int
}

type run struct {
	from     float64
	target   float64
	motion   domain.Motion
	velocity float64
	spring   harmonica.Spring
	elapsed  time.Duration
	done     func(bool)
	timer    ports.Timer
}

// Option configures the Animator.
type Option func(*Animator)

// WithFPS sets the frame rate used to step motions.
func WithFPS(fps int) Option {
	return func(a *Animator) {
		if fps > 0 {
			a.fps = fps
		}
	}
}

// WithInitialValue sets the value before the first run.
func WithInitialValue(v float64) Option {
	return func(a *Animator) {
		a.value = v
	}
}

// New creates an Animator stepping frames on clock.
func New(clock ports.Clock, opts ...Option) *Animator {
	a := &Animator{
		clock:     clock,
		fps:       DefaultFPS,
		listeners: make(map[int]func(float64)),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.frame = time.Second / time.Duration(a.fps)
	return a
}

var (
	_ ports.Animator    = (*Animator)(nil)
	_ ports.FrameSource = (*Animator)(nil)
)

func (a *Animator) Value() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.value
}

func (a *Animator) SetValue(v float64) {
	a.mu.Lock()
	superseded := a.cancelLocked()
	a.value = v
	listeners := a.listenersLocked()
	a.mu.Unlock()

	a.notify(listeners, v)
	a.interrupted(superseded)
}

func (a *Animator) Run(target float64, m domain.Motion, done func(finished bool)) {
	a.mu.Lock()
	superseded := a.cancelLocked()
	r := &run{
		from:   a.value,
		target: target,
		motion: m,
		done:   done,
	}
	if m.Mode != domain.MotionSnap {
		damping := m.Damping
		if damping <= 0 {
			damping = 1
		}
		r.spring = harmonica.NewSpring(harmonica.FPS(a.fps), m.Stiffness, damping)
		r.velocity = m.Velocity
	}
	a.run = r
	r.timer = a.clock.AfterFunc(a.frame, func() { a.step(r) })
	a.mu.Unlock()

	a.interrupted(superseded)
}

func (a *Animator) Stop() float64 {
	a.mu.Lock()
	superseded := a.cancelLocked()
	v := a.value
	a.mu.Unlock()

	a.interrupted(superseded)
	return v
}

// OnFrame registers fn to receive every value the animator produces.
func (a *Animator) OnFrame(fn func(value float64)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.listeners, id)
	}
}

func (a *Animator) step(r *run) {
	a.mu.Lock()
	if a.run != r {
		a.mu.Unlock()
		return
	}

	r.elapsed += a.frame
	finished := false

	switch r.motion.Mode {
	case domain.MotionSnap:
		progress := 1.0
		if r.motion.Duration > 0 {
			progress = float64(r.elapsed) / float64(r.motion.Duration)
		}
		if progress >= 1 {
			a.value = r.target
			finished = true
		} else {
			eased := progress
			if r.motion.Easing != nil {
				eased = r.motion.Easing(progress)
			}
			a.value = r.from + (r.target-r.from)*eased
		}
	default:
		a.value, r.velocity = r.spring.Update(a.value, r.velocity, r.target)
		atRest := math.Abs(r.velocity) <= r.motion.RestSpeed &&
			math.Abs(a.value-r.target) <= r.motion.RestDisplacement
		if atRest || r.elapsed >= maxRunTime {
			a.value = r.target
			finished = true
		}
	}

	v := a.value
	var done func(bool)
	if finished {
		a.run = nil
		done = r.done
	} else {
		r.timer = a.clock.AfterFunc(a.frame, func() { a.step(r) })
	}
	listeners := a.listenersLocked()
	a.mu.Unlock()

	a.notify(listeners, v)
	if done != nil {
		done(true)
	}
}

// cancelLocked drops the run in flight and returns its completion callback.
func (a *Animator) cancelLocked() func(bool) {
	r := a.run
	if r == nil {
		return nil
	}
	a.run = nil
	if r.timer != nil {
		r.timer.Stop()
	}
	return r.done
}

// interrupted reports a superseded run asynchronously, as ports.Animator requires.
func (a *Animator) interrupted(done func(bool)) {
	if done == nil {
		return
	}
	a.clock.AfterFunc(0, func() { done(false) })
}

func (a *Animator) listenersLocked() []func(float64) {
	if len(a.listeners) == 0 {
		return nil
	}
	out := make([]func(float64), 0, len(a.listeners))
	for _, fn := range a.listeners {
		out = append(out, fn)
	}
	return out
}

func (a *Animator) notify(listeners []func(float64), v float64) {
	for _, fn := range listeners {
		fn(v)
	}
}

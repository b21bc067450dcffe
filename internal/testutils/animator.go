package testutils

import (
	"sync"

	"github.com/aretw0/carousel/pkg/domain"
)

// Run is one recorded StubAnimator.Run call.
type Run struct {
	From   float64
	Target float64
	Motion domain.Motion
}

// StubAnimator is a scripted ports.Animator. Runs never complete on their
// own: tests call Finish to deliver a finished completion. Superseded and
// stopped runs are dropped silently.
type StubAnimator struct {
	mu      sync.Mutex
	value   float64
	runs    []Run
	pending func(bool)
	target  float64
}

func NewStubAnimator() *StubAnimator {
	return &StubAnimator{}
}

func (a *StubAnimator) Value() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.value
}

func (a *StubAnimator) SetValue(v float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.value = v
	a.pending = nil
}

func (a *StubAnimator) Run(target float64, m domain.Motion, done func(bool)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.runs = append(a.runs, Run{From: a.value, Target: target, Motion: m})
	a.pending = done
	a.target = target
}

func (a *StubAnimator) Stop() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = nil
	return a.value
}

// Jump moves the value mid-run, as if some frames had been rendered.
func (a *StubAnimator) Jump(v float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.value = v
}

// Finish lands the pending run on its target and reports finished=true.
// It returns false when nothing is running.
func (a *StubAnimator) Finish() bool {
	a.mu.Lock()
	done := a.pending
	if done == nil {
		a.mu.Unlock()
		return false
	}
	a.pending = nil
	a.value = a.target
	a.mu.Unlock()

	done(true)
	return true
}

// Active reports whether a run is pending.
func (a *StubAnimator) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending != nil
}

// Runs returns a copy of every recorded run.
func (a *StubAnimator) Runs() []Run {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Run(nil), a.runs...)
}

// LastRun returns the most recent run.
func (a *StubAnimator) LastRun() (Run, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.runs) == 0 {
		return Run{}, false
	}
	return a.runs[len(a.runs)-1], true
}

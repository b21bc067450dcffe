package runtime

import (
	"time"

	"github.com/aretw0/carousel/pkg/domain"
	"github.com/aretw0/carousel/pkg/ports"
)

// Autoplay owns every timer of a controller: the wait before arming
// (apparition, delay, release cooldown) and the interval ticker.
// At most one timer is pending at any time.
type Autoplay struct {
	clock    ports.Clock
	post     func(func())
	interval time.Duration

	onTick  func()
	onPhase func(domain.AutoplayPhase)

	phase domain.AutoplayPhase
	timer ports.Timer
	gen   uint64
	ticks int
}

// NewAutoplay builds an idle scheduler. Callbacks run through post.
func NewAutoplay(clock ports.Clock, post func(func()), interval time.Duration, onTick func(), onPhase func(domain.AutoplayPhase)) *Autoplay {
	return &Autoplay{
		clock:    clock,
		post:     post,
		interval: interval,
		onTick:   onTick,
		onPhase:  onPhase,
		phase:    domain.AutoplayIdle,
	}
}

func (a *Autoplay) Phase() domain.AutoplayPhase { return a.phase }
func (a *Autoplay) Ticks() int                  { return a.ticks }

// Arm cancels whatever is pending and starts ticking after wait has elapsed.
// The first tick lands one interval after that.
func (a *Autoplay) Arm(wait time.Duration) {
	a.cancelAll()
	a.setPhase(domain.AutoplayArmedPending)
	a.schedule(wait, func() {
		a.setPhase(domain.AutoplayRunning)
		a.scheduleTick()
	})
}

// Disable stops every timer and returns to Idle.
func (a *Autoplay) Disable() {
	a.cancelAll()
	a.setPhase(domain.AutoplayIdle)
}

// Stop is Disable without the phase notification, used at teardown.
func (a *Autoplay) Stop() {
	a.cancelAll()
	a.phase = domain.AutoplayIdle
}

func (a *Autoplay) scheduleTick() {
	a.schedule(a.interval, func() {
		a.ticks++
		// Reschedule first so a tick that disables autoplay cancels the next one.
		a.scheduleTick()
		a.onTick()
	})
}

func (a *Autoplay) schedule(d time.Duration, fn func()) {
	g := a.gen
	a.timer = a.clock.AfterFunc(d, func() {
		a.post(func() {
			if g != a.gen {
				return
			}
			fn()
		})
	})
}

func (a *Autoplay) cancelAll() {
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *Autoplay) setPhase(p domain.AutoplayPhase) {
	if a.phase == p {
		return
	}
	a.phase = p
	if a.onPhase != nil {
		a.onPhase(p)
	}
}

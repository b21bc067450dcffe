package runtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/carousel/internal/logging"
	"github.com/aretw0/carousel/pkg/adapters/clock"
	"github.com/aretw0/carousel/pkg/adapters/motion"
	"github.com/aretw0/carousel/pkg/domain"
	"github.com/aretw0/carousel/pkg/policy"
	"github.com/aretw0/carousel/pkg/ports"
)

// Controller is the navigation state machine of one carousel.
//
// Public calls, clock timers and animator completions are serialised behind
// a single mutex. Lifecycle hooks are queued while the lock is held and run
// after it is released, so they may call back into the controller.
type Controller struct {
	mu sync.Mutex

	id     string
	cfg    domain.Config
	layout domain.Layout
	start  int

	clock    ports.Clock
	animator ports.Animator
	release  ports.ReleaseStrategy
	snap     ports.SnapStrategy
	throttle ports.ThrottlePolicy
	recenter ports.RepositionPolicy
	hooks    domain.LifecycleHooks
	logger   *slog.Logger

	tracker  *Tracker
	resolver GestureResolver
	guard    *ThrottleGuard
	driver   *Driver
	autoplay *Autoplay

	autoplayOn bool
	mounted    bool
	laidOut    bool
	closed     bool
	dragging   bool
	origin     float64
	animStart  time.Time
	outbox     []func()
	updatedAt  time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithID tags every event and snapshot with id.
func WithID(id string) Option {
	return func(c *Controller) { c.id = id }
}

// WithLogger sets the controller logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHooks registers lifecycle hooks.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(c *Controller) { c.hooks = h }
}

// WithClock replaces the wall clock.
func WithClock(clk ports.Clock) Option {
	return func(c *Controller) { c.clock = clk }
}

// WithAnimator replaces the default frame-stepped animator.
func WithAnimator(a ports.Animator) Option {
	return func(c *Controller) { c.animator = a }
}

// WithReleaseStrategy replaces the spring used after a drag release.
func WithReleaseStrategy(s ports.ReleaseStrategy) Option {
	return func(c *Controller) { c.release = s }
}

// WithSnapStrategy replaces the tween used by autoplay and programmatic navigation.
func WithSnapStrategy(s ports.SnapStrategy) Option {
	return func(c *Controller) { c.snap = s }
}

// WithThrottlePolicy replaces the throttle trip rule.
func WithThrottlePolicy(p ports.ThrottlePolicy) Option {
	return func(c *Controller) { c.throttle = p }
}

// WithRepositionPolicy replaces the loop-seam re-centre rule.
func WithRepositionPolicy(p ports.RepositionPolicy) Option {
	return func(c *Controller) { c.recenter = p }
}

// WithStartIndex sets the logical item shown first.
func WithStartIndex(logical int) Option {
	return func(c *Controller) { c.start = logical }
}

// NewController builds a controller for count logical items. Zero items give
// a controller on which every transition is a no-op.
func NewController(count int, cfg domain.Config, opts ...Option) *Controller {
	cfg = cfg.Normalize()
	c := &Controller{
		cfg:      cfg,
		layout:   domain.NewLayout(count, cfg),
		release:  policy.SpringRelease{},
		snap:     policy.TimedSnap{},
		throttle: policy.PeriodicThrottle{},
		recenter: policy.MidBlockReposition{},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.clock == nil {
		c.clock = clock.New()
	}
	if c.animator == nil {
		c.animator = motion.New(c.clock)
	}

	c.tracker = NewTracker(c.layout, cfg.Stride(), c.start, c.recenter)
	c.resolver = GestureResolver{DragToss: cfg.DragToss, Friction: cfg.Friction}
	c.guard = NewThrottleGuard(c.throttle, count)
	c.driver = NewDriver(c.animator, c.dispatch, c.onAnimationSettled)
	c.autoplay = NewAutoplay(c.clock, c.dispatch, cfg.AutoplayInterval, c.onAutoplayTick, c.onAutoplayPhase)
	c.autoplayOn = cfg.Autoplay
	c.animator.SetValue(c.tracker.LastCommittedOffset())
	c.updatedAt = c.clock.Now()
	return c
}

// dispatch runs fn under the lock, then flushes queued hooks.
func (c *Controller) dispatch(fn func()) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	fn()
	out := c.outbox
	c.outbox = nil
	c.mu.Unlock()

	for _, f := range out {
		f()
	}
}

func (c *Controller) inert() bool {
	return c.layout.Empty()
}

func (c *Controller) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: c.clock.Now(), Type: t, CarouselID: c.id}
}

func (c *Controller) touch() {
	c.updatedAt = c.clock.Now()
}

// ID returns the controller id.
func (c *Controller) ID() string { return c.id }

// Config returns the normalised configuration.
func (c *Controller) Config() domain.Config { return c.cfg }

// PhysicalLayout returns the loop layout.
func (c *Controller) PhysicalLayout() domain.Layout { return c.layout }

// Mount applies the initial offset and schedules autoplay after the
// apparition delay.
func (c *Controller) Mount() {
	c.dispatch(func() {
		if c.mounted || c.inert() {
			return
		}
		c.mounted = true
		c.driver.Jump(c.tracker.LastCommittedOffset())
		if c.autoplayOn {
			c.autoplay.Arm(c.cfg.ApparitionDelay + c.cfg.AutoplayDelay)
		}
		c.logger.Debug("carousel mounted", "id", c.id, "position", c.tracker.Position())
	})
}

// Layout reports the measured container size. Only the first call is
// honoured; use Resize to change the stride later.
func (c *Controller) Layout(width, height float64) {
	c.dispatch(func() {
		if c.laidOut || c.inert() {
			return
		}
		c.laidOut = true
		c.applyWidth(width)
	})
}

// Resize changes the container width and re-commits the current position.
// At rest the offset moves instantly; a run in flight is retargeted.
func (c *Controller) Resize(width float64) {
	c.dispatch(func() {
		if c.inert() {
			return
		}
		c.laidOut = true
		c.applyWidth(width)
	})
}

// applyWidth re-commits the current position at the new stride. A run in
// flight keeps going toward the re-committed offset, so a width change
// never counts as an interruption.
func (c *Controller) applyWidth(width float64) {
	if width <= 0 {
		return
	}
	prev := c.tracker.Width()
	c.cfg.ContainerWidth = width
	c.tracker.SetWidth(c.cfg.Stride())
	committed := c.tracker.LastCommittedOffset()

	switch {
	case c.driver.Active():
		v := c.driver.Value()
		if prev > 0 {
			v *= c.tracker.Width() / prev
		}
		c.driver.Retarget(v, committed)
	case c.dragging:
		c.origin = committed
		c.driver.Jump(committed)
	default:
		c.driver.Jump(committed)
	}
	c.touch()
}

// TouchStart stops autoplay without starting a drag.
func (c *Controller) TouchStart() {
	c.dispatch(func() {
		if c.inert() {
			return
		}
		c.autoplay.Disable()
	})
}

// GestureBegin starts a drag. Any animation in flight is interrupted and the
// drag resumes from the value it reached.
func (c *Controller) GestureBegin() {
	c.dispatch(c.begin)
}

func (c *Controller) begin() {
	if c.inert() || c.guard.Throttled() {
		return
	}
	c.autoplay.Disable()
	c.origin, _ = c.driver.Interrupt()

	if c.guard.Throttled() {
		// The interruption tripped the guard: drop the drag and settle back
		// on the committed offset. That settle releases the guard.
		c.dragging = false
		c.animateTo(c.tracker.LastCommittedOffset(), c.snap.Snap(c.cfg))
		return
	}
	c.dragging = true
}

// GestureMove follows the finger. The visible offset is the drag origin plus
// the translation scaled by friction.
func (c *Controller) GestureMove(translation float64) {
	c.dispatch(func() {
		if c.inert() || c.guard.Throttled() {
			return
		}
		if !c.dragging {
			c.begin()
			if !c.dragging {
				return
			}
		}
		c.driver.Jump(c.origin + translation/c.cfg.Friction)
	})
}

// GestureEnd resolves the release, commits the target position and starts
// the release spring toward it.
func (c *Controller) GestureEnd(sample domain.GestureSample) {
	c.dispatch(func() {
		if c.inert() || c.guard.Throttled() {
			return
		}
		if !c.dragging {
			c.begin()
			if !c.dragging {
				return
			}
		}
		c.dragging = false

		from := c.tracker.Position()
		res := c.resolver.Resolve(sample, c.tracker.Width(), from, c.layout)
		c.tracker.Commit(res.Target)
		c.touch()

		ev := &domain.GestureEvent{
			EventBase: c.base(domain.EventGesture),
			Sample:    sample,
			Direction: res.Direction,
			From:      from,
			To:        res.Target,
			Target:    res.TargetOffset,
			Clamped:   res.Clamped,
		}
		c.emitGesture(ev)
		c.logger.Debug("gesture released", "id", c.id, "direction", res.Direction.String(),
			"projected", res.Projected, "from", from, "to", res.Target)

		c.driver.Jump(c.origin + sample.Translation/c.cfg.Friction)
		c.animateTo(res.TargetOffset, c.release.Release(sample, c.cfg))

		if c.autoplayOn {
			c.autoplay.Arm(c.cfg.AutoplayCooldown + c.cfg.AutoplayDelay)
		}
	})
}

// Next snaps to the following position. It is a no-op past the end without
// looping, while dragging or while throttled.
func (c *Controller) Next() {
	c.dispatch(func() { c.step(1) })
}

// Prev snaps to the preceding position.
func (c *Controller) Prev() {
	c.dispatch(func() { c.step(-1) })
}

// GoTo snaps to logical inside the replica block currently shown.
func (c *Controller) GoTo(logical int) {
	c.dispatch(func() {
		if c.inert() || c.dragging || c.guard.Throttled() {
			return
		}
		if logical < 0 || logical >= c.layout.Count {
			return
		}
		pos := c.tracker.Position()
		target := pos - c.tracker.CurrentLogical() + logical
		if target == pos || !c.layout.InRange(target) {
			return
		}
		c.navigate(target)
	})
}

func (c *Controller) step(delta int) bool {
	if c.inert() || c.dragging || c.guard.Throttled() {
		return false
	}
	target, ok := c.tracker.Target(delta)
	if !ok {
		return false
	}
	c.navigate(target)
	return true
}

func (c *Controller) navigate(target int) {
	c.tracker.Commit(target)
	c.touch()
	c.animateTo(c.tracker.LastCommittedOffset(), c.snap.Snap(c.cfg))
}

// SetAutoplay turns autoplay on (armed after the configured delay) or off.
func (c *Controller) SetAutoplay(enabled bool) {
	c.dispatch(func() {
		if c.inert() {
			return
		}
		c.autoplayOn = enabled
		if enabled {
			c.autoplay.Arm(c.cfg.AutoplayDelay)
		} else {
			c.autoplay.Disable()
		}
	})
}

func (c *Controller) onAutoplayTick() {
	if c.inert() {
		return
	}
	moved := false
	if !c.dragging {
		if target, ok := c.tracker.Target(1); ok {
			c.navigate(target)
			moved = true
		}
	}
	ev := &domain.AutoplayEvent{
		EventBase: c.base(domain.EventAutoplay),
		Phase:     c.autoplay.Phase(),
		Tick:      true,
		Moved:     moved,
	}
	c.emitAutoplay(ev)
}

func (c *Controller) onAutoplayPhase(p domain.AutoplayPhase) {
	c.touch()
	c.emitAutoplay(&domain.AutoplayEvent{EventBase: c.base(domain.EventAutoplay), Phase: p})
}

func (c *Controller) animateTo(target float64, m domain.Motion) {
	from := c.driver.Value()
	c.driver.AnimateTo(target, m)
	c.animStart = c.clock.Now()
	c.emitAnimation(c.hooks.OnAnimationStart, &domain.AnimationEvent{
		EventBase: c.base(domain.EventAnimationStart),
		Mode:      m.Mode,
		From:      from,
		Target:    target,
		Position:  c.tracker.Position(),
	})
}

// onAnimationSettled is the driver completion. Interrupted completions feed
// the throttle guard; finished ones release it, re-centre near a loop seam
// and notify settle listeners.
func (c *Controller) onAnimationSettled(finished bool) {
	pos := c.tracker.Position()
	c.touch()

	if !finished {
		c.emitAnimation(c.hooks.OnInterrupt, &domain.AnimationEvent{
			EventBase: c.base(domain.EventInterrupt),
			Mode:      c.driver.Mode(),
			From:      c.driver.Value(),
			Target:    c.driver.Target(),
			Position:  pos,
		})
		if c.guard.Interrupted(pos) {
			c.logger.Debug("gesture throttled", "id", c.id, "counter", c.guard.Counter())
			c.emitThrottle(true)
		}
		return
	}

	if c.guard.Finished() {
		c.emitThrottle(false)
	}

	if from, to, moved := c.tracker.Reposition(); moved {
		c.driver.Jump(c.tracker.LastCommittedOffset())
		c.logger.Debug("repositioned", "id", c.id, "from", from, "to", to)
		ev := &domain.RepositionEvent{EventBase: c.base(domain.EventReposition), From: from, To: to}
		if h := c.hooks.OnReposition; h != nil {
			c.outbox = append(c.outbox, func() { h(context.Background(), ev) })
		}
	}

	ev := &domain.SettleEvent{
		EventBase: c.base(domain.EventSettle),
		Logical:   c.tracker.CurrentLogical(),
		Position:  c.tracker.Position(),
		Elapsed:   c.clock.Now().Sub(c.animStart),
	}
	c.logger.Debug("settled", "id", c.id, "logical", ev.Logical, "position", ev.Position)
	if h := c.hooks.OnSettle; h != nil {
		c.outbox = append(c.outbox, func() { h(context.Background(), ev) })
	}
}

func (c *Controller) emitGesture(ev *domain.GestureEvent) {
	if h := c.hooks.OnGesture; h != nil {
		c.outbox = append(c.outbox, func() { h(context.Background(), ev) })
	}
}

func (c *Controller) emitAnimation(h func(context.Context, *domain.AnimationEvent), ev *domain.AnimationEvent) {
	if h != nil {
		c.outbox = append(c.outbox, func() { h(context.Background(), ev) })
	}
}

func (c *Controller) emitThrottle(throttled bool) {
	ev := &domain.ThrottleEvent{
		EventBase: c.base(domain.EventThrottle),
		Throttled: throttled,
		Counter:   c.guard.Counter(),
	}
	if h := c.hooks.OnThrottle; h != nil {
		c.outbox = append(c.outbox, func() { h(context.Background(), ev) })
	}
}

func (c *Controller) emitAutoplay(ev *domain.AutoplayEvent) {
	if h := c.hooks.OnAutoplay; h != nil {
		c.outbox = append(c.outbox, func() { h(context.Background(), ev) })
	}
}

// Close cancels every timer and the animation in flight. Callbacks arriving
// afterwards are dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.autoplay.Stop()
	c.driver.Cancel()
	c.dragging = false
	c.closed = true
	c.touch()
}

// Closed reports whether Close has been called.
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Snapshot returns a value copy of the controller state.
func (c *Controller) Snapshot() *domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.tracker.State()
	state.IsThrottled = c.guard.Throttled()
	state.ThrottleCounter = c.guard.Counter()
	return &domain.Snapshot{
		ID:        c.id,
		Logical:   c.tracker.CurrentLogical(),
		Count:     c.layout.Count,
		Layout:    c.layout,
		State:     state,
		Offset:    c.animator.Value(),
		Width:     c.tracker.Width(),
		Animating: c.driver.Active(),
		Autoplay:  c.autoplay.Phase(),
		Closed:    c.closed,
		UpdatedAt: c.updatedAt,
	}
}

// Position returns the physical position.
func (c *Controller) Position() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracker.Position()
}

// CurrentLogical returns the logical index shown.
func (c *Controller) CurrentLogical() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracker.CurrentLogical()
}

// VisibleOffset returns the animated offset.
func (c *Controller) VisibleOffset() float64 {
	return c.animator.Value()
}

// ItemOffset returns the translation of the physical item at index i.
func (c *Controller) ItemOffset(i int) float64 {
	c.mu.Lock()
	w := c.tracker.Width()
	c.mu.Unlock()
	return c.animator.Value() + float64(i)*w
}

// OnFrame subscribes to every animated value when the animator can push
// frames. ok is false otherwise.
func (c *Controller) OnFrame(fn func(float64)) (cancel func(), ok bool) {
	fs, ok := c.animator.(ports.FrameSource)
	if !ok {
		return func() {}, false
	}
	return fs.OnFrame(fn), true
}

package runtime

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/aretw0/carousel/internal/testutils"
	"github.com/aretw0/carousel/pkg/adapters/clock"
	"github.com/aretw0/carousel/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	settles     []*domain.SettleEvent
	repositions []*domain.RepositionEvent
	throttles   []*domain.ThrottleEvent
	interrupts  int
	gestures    []*domain.GestureEvent
	autoplay    []*domain.AutoplayEvent
}

func (r *recorder) hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSettle:     func(_ context.Context, e *domain.SettleEvent) { r.settles = append(r.settles, e) },
		OnReposition: func(_ context.Context, e *domain.RepositionEvent) { r.repositions = append(r.repositions, e) },
		OnThrottle:   func(_ context.Context, e *domain.ThrottleEvent) { r.throttles = append(r.throttles, e) },
		OnInterrupt:  func(_ context.Context, _ *domain.AnimationEvent) { r.interrupts++ },
		OnGesture:    func(_ context.Context, e *domain.GestureEvent) { r.gestures = append(r.gestures, e) },
		OnAutoplay:   func(_ context.Context, e *domain.AutoplayEvent) { r.autoplay = append(r.autoplay, e) },
	}
}

type harness struct {
	c     *Controller
	anim  *testutils.StubAnimator
	clock *clock.Manual
	rec   *recorder
}

func newHarness(t *testing.T, count int, mutate func(*domain.Config), opts ...Option) *harness {
	t.Helper()
	cfg := domain.DefaultConfig()
	cfg.ContainerWidth = 100
	cfg.Autoplay = false
	if mutate != nil {
		mutate(&cfg)
	}
	h := &harness{
		anim:  testutils.NewStubAnimator(),
		clock: clock.NewManual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		rec:   &recorder{},
	}
	opts = append([]Option{
		WithID("test"),
		WithAnimator(h.anim),
		WithClock(h.clock),
		WithHooks(h.rec.hooks()),
	}, opts...)
	h.c = NewController(count, cfg, opts...)
	h.c.Mount()
	t.Cleanup(h.c.Close)
	return h
}

func noLoop(cfg *domain.Config) { cfg.Loop = false }

func (h *harness) swipe(translation, velocity float64) {
	h.c.GestureBegin()
	h.c.GestureMove(translation)
	h.c.GestureEnd(domain.GestureSample{Translation: translation, Velocity: velocity})
}

func TestController_AdvanceWithoutLoop(t *testing.T) {
	h := newHarness(t, 3, func(cfg *domain.Config) {
		cfg.Loop = false
		cfg.ContainerWidth = 300
	})

	h.swipe(-200, 0)

	// The target is committed before the animation starts.
	assert.Equal(t, 1, h.c.Position())
	run, ok := h.anim.LastRun()
	require.True(t, ok)
	assert.Equal(t, -300.0, run.Target)
	assert.Equal(t, -200.0, run.From)
	assert.Equal(t, domain.MotionRelease, run.Motion.Mode)
	assert.Empty(t, h.rec.settles)

	require.True(t, h.anim.Finish())
	require.Len(t, h.rec.settles, 1)
	assert.Equal(t, 1, h.rec.settles[0].Logical)
	assert.Equal(t, "test", h.rec.settles[0].CarouselID)
	assert.Equal(t, -300.0, h.c.VisibleOffset())
}

func TestController_RetreatAtZeroWithoutLoop(t *testing.T) {
	h := newHarness(t, 3, noLoop)

	h.swipe(80, 0)

	assert.Equal(t, 0, h.c.Position())
	run, ok := h.anim.LastRun()
	require.True(t, ok)
	assert.Equal(t, 0.0, run.Target)
	require.Len(t, h.rec.gestures, 1)
	assert.True(t, h.rec.gestures[0].Clamped)
}

func TestController_TieBreak(t *testing.T) {
	h := newHarness(t, 3, noLoop)

	h.swipe(-50, 0)
	h.anim.Finish()
	assert.Equal(t, 1, h.c.Position(), "-width/2 advances")

	h.swipe(50, 0)
	h.anim.Finish()
	assert.Equal(t, 0, h.c.Position(), "+width/2 retreats")
}

func TestController_LoopStartsInCentreBlock(t *testing.T) {
	h := newHarness(t, 3, nil)
	snap := h.c.Snapshot()
	assert.Equal(t, 6, snap.State.Position)
	assert.Equal(t, 0, snap.Logical)
	assert.Equal(t, 15, snap.Layout.Length())
	assert.Equal(t, -600.0, h.c.VisibleOffset())
}

func TestController_RepositionAtSeam(t *testing.T) {
	h := newHarness(t, 3, nil)

	// 6 -> 5 lands in the left clone block.
	h.swipe(80, 0)
	assert.Equal(t, 5, h.c.Position())
	h.anim.Finish()

	assert.Equal(t, 8, h.c.Position())
	assert.Equal(t, -800.0, h.c.VisibleOffset())
	require.Len(t, h.rec.repositions, 1)
	assert.Equal(t, 5, h.rec.repositions[0].From)
	assert.Equal(t, 8, h.rec.repositions[0].To)
	require.Len(t, h.rec.settles, 1)
	assert.Equal(t, 2, h.rec.settles[0].Logical)
	assert.Equal(t, 8, h.rec.settles[0].Position)

	// 8 -> 9 lands in the right clone block.
	h.swipe(-80, 0)
	h.anim.Finish()
	assert.Equal(t, 6, h.c.Position())
	assert.Equal(t, 0, h.c.CurrentLogical())
	assert.Len(t, h.rec.repositions, 2)
}

func TestController_NoRepositionOnInterrupt(t *testing.T) {
	h := newHarness(t, 3, nil)

	h.swipe(80, 0)
	assert.Equal(t, 5, h.c.Position())

	// A new drag interrupts the release: no re-centre, no settle.
	h.c.GestureBegin()
	assert.Equal(t, 5, h.c.Position())
	assert.Empty(t, h.rec.repositions)
	assert.Empty(t, h.rec.settles)
	assert.Equal(t, 1, h.rec.interrupts)
}

func TestController_RoundTrip(t *testing.T) {
	for _, loop := range []bool{true, false} {
		h := newHarness(t, 4, func(cfg *domain.Config) { cfg.Loop = loop })
		start := h.c.CurrentLogical()
		n := h.c.PhysicalLayout().Count
		if !loop {
			n-- // cannot advance past the last item
		}
		for i := 0; i < n; i++ {
			h.swipe(-60, 0)
			h.anim.Finish()
		}
		for i := 0; i < n; i++ {
			h.swipe(60, 0)
			h.anim.Finish()
		}
		assert.Equal(t, start, h.c.CurrentLogical(), "loop=%v", loop)
	}
}

func TestController_InterruptReseeds(t *testing.T) {
	h := newHarness(t, 3, nil)

	h.c.Next()
	h.anim.Jump(-640)

	h.c.GestureBegin()
	assert.Equal(t, -640.0, h.c.VisibleOffset(), "no jump on interrupt")
	h.c.GestureMove(-20)
	assert.Equal(t, -660.0, h.c.VisibleOffset())

	h.c.GestureEnd(domain.GestureSample{Translation: -20})
	run, _ := h.anim.LastRun()
	assert.Equal(t, -660.0, run.From)
	assert.Equal(t, 7, h.c.Position())
	assert.Equal(t, -700.0, run.Target)
}

func TestController_MoveAppliesFriction(t *testing.T) {
	h := newHarness(t, 3, func(cfg *domain.Config) { cfg.Friction = 2 })
	h.c.GestureBegin()
	h.c.GestureMove(-40)
	assert.Equal(t, -620.0, h.c.VisibleOffset())
}

func TestController_ThrottleCycle(t *testing.T) {
	h := newHarness(t, 3, nil)

	h.c.Next() // 7, nothing to interrupt
	h.c.Next() // 8, interrupts at 8
	h.c.Next() // 9
	assert.Empty(t, h.rec.throttles)
	h.c.Next() // 10, third change trips

	require.Len(t, h.rec.throttles, 1)
	assert.True(t, h.rec.throttles[0].Throttled)
	snap := h.c.Snapshot()
	assert.True(t, snap.State.IsThrottled)
	assert.Equal(t, 3, snap.State.ThrottleCounter)
	assert.Equal(t, 10, snap.State.Position)

	// Input is ignored while throttled.
	runs := len(h.anim.Runs())
	h.swipe(-80, 0)
	h.c.Next()
	assert.Equal(t, 10, h.c.Position())
	assert.Len(t, h.anim.Runs(), runs)

	// The next finished completion releases the guard.
	require.True(t, h.anim.Finish())
	snap = h.c.Snapshot()
	assert.False(t, snap.State.IsThrottled)
	assert.Equal(t, 0, snap.State.ThrottleCounter)
	require.Len(t, h.rec.throttles, 2)
	assert.False(t, h.rec.throttles[1].Throttled)
	assert.Equal(t, 7, snap.State.Position, "re-centred after release")
}

func TestController_ThrottleTripOnBeginResettles(t *testing.T) {
	h := newHarness(t, 3, nil)

	h.c.Next()         // 7
	h.c.Next()         // 8, counter 1
	h.c.Next()         // 9, counter 2
	h.c.GestureBegin() // interrupt at 9 again, not counted
	h.c.GestureEnd(domain.GestureSample{Translation: -80})
	assert.Equal(t, 10, h.c.Position())
	assert.False(t, h.c.Snapshot().State.IsThrottled)

	h.anim.Jump(-930)
	h.c.GestureBegin() // interrupt at 10, counter 3

	snap := h.c.Snapshot()
	require.True(t, snap.State.IsThrottled)
	assert.True(t, snap.Animating, "re-settling to the committed offset")
	run, _ := h.anim.LastRun()
	assert.Equal(t, -1000.0, run.Target)
	assert.Equal(t, domain.MotionSnap, run.Motion.Mode)

	h.c.GestureMove(-30)
	assert.Equal(t, -930.0, h.c.VisibleOffset(), "drag ignored while throttled")

	h.anim.Finish()
	assert.False(t, h.c.Snapshot().State.IsThrottled)
	assert.Equal(t, 7, h.c.Position())
}

func TestController_NextPrevGoTo(t *testing.T) {
	h := newHarness(t, 4, noLoop)

	h.c.Prev()
	assert.Empty(t, h.anim.Runs(), "prev at zero is a no-op")

	h.c.Next()
	h.anim.Finish()
	assert.Equal(t, 1, h.c.Position())
	run, _ := h.anim.LastRun()
	assert.Equal(t, domain.MotionSnap, run.Motion.Mode)

	h.c.GoTo(3)
	h.anim.Finish()
	assert.Equal(t, 3, h.c.Position())

	h.c.Next()
	assert.False(t, h.anim.Active(), "next at the end is a no-op")

	h.c.GoTo(9)
	h.c.GoTo(-1)
	assert.Equal(t, 3, h.c.Position())

	h.c.Prev()
	h.anim.Finish()
	assert.Equal(t, 2, h.c.Position())
	assert.Len(t, h.rec.settles, 3)
}

func TestController_GoToStaysInBlock(t *testing.T) {
	h := newHarness(t, 3, nil)
	h.c.GoTo(2)
	h.anim.Finish()
	assert.Equal(t, 8, h.c.Position())
	assert.Equal(t, 2, h.c.CurrentLogical())
}

func TestController_Autoplay(t *testing.T) {
	h := newHarness(t, 3, func(cfg *domain.Config) {
		cfg.Autoplay = true
		cfg.AutoplayInterval = 2 * time.Second
		cfg.ApparitionDelay = 500 * time.Millisecond
	})

	assert.Equal(t, domain.AutoplayArmedPending, h.c.Snapshot().Autoplay)
	h.clock.Advance(500 * time.Millisecond)
	assert.Equal(t, domain.AutoplayRunning, h.c.Snapshot().Autoplay)

	h.clock.Advance(2 * time.Second)
	assert.Equal(t, 7, h.c.Position())
	h.anim.Finish()
	h.clock.Advance(2 * time.Second)
	assert.Equal(t, 8, h.c.Position())
	h.anim.Finish()

	// Drag start disables autoplay, release re-arms it after the cooldown.
	h.c.GestureBegin()
	assert.Equal(t, domain.AutoplayIdle, h.c.Snapshot().Autoplay)
	h.clock.Advance(5 * time.Second)
	assert.Equal(t, 8, h.c.Position())

	h.c.GestureEnd(domain.GestureSample{})
	h.anim.Finish()
	assert.Equal(t, domain.AutoplayArmedPending, h.c.Snapshot().Autoplay)
	h.clock.Advance(300 * time.Millisecond)
	assert.Equal(t, domain.AutoplayRunning, h.c.Snapshot().Autoplay)
	h.clock.Advance(2 * time.Second)
	assert.Equal(t, 9, h.c.Position())
}

func TestController_AutoplayTickAtEndIsNoop(t *testing.T) {
	h := newHarness(t, 2, func(cfg *domain.Config) {
		cfg.Loop = false
		cfg.Autoplay = true
		cfg.AutoplayInterval = time.Second
	})

	h.clock.Advance(time.Second)
	h.anim.Finish()
	assert.Equal(t, 1, h.c.Position())

	runs := len(h.anim.Runs())
	h.clock.Advance(time.Second)
	assert.Equal(t, 1, h.c.Position())
	assert.Len(t, h.anim.Runs(), runs)
	assert.Equal(t, domain.AutoplayRunning, h.c.Snapshot().Autoplay)

	last := h.rec.autoplay[len(h.rec.autoplay)-1]
	assert.True(t, last.Tick)
	assert.False(t, last.Moved)
}

func TestController_TouchStartStopsAutoplay(t *testing.T) {
	h := newHarness(t, 3, func(cfg *domain.Config) { cfg.Autoplay = true })
	h.clock.Advance(0)
	h.c.TouchStart()
	assert.Equal(t, domain.AutoplayIdle, h.c.Snapshot().Autoplay)
	h.clock.Advance(10 * time.Second)
	assert.Equal(t, 6, h.c.Position())
}

func TestController_SetAutoplay(t *testing.T) {
	h := newHarness(t, 3, nil)
	assert.Equal(t, domain.AutoplayIdle, h.c.Snapshot().Autoplay)

	h.c.SetAutoplay(true)
	h.clock.Advance(domain.DefaultAutoplayInterval)
	assert.Equal(t, 7, h.c.Position())

	h.c.SetAutoplay(false)
	h.anim.Finish()
	h.clock.Advance(10 * time.Second)
	assert.Equal(t, 7, h.c.Position())
}

func TestController_Close(t *testing.T) {
	h := newHarness(t, 3, func(cfg *domain.Config) { cfg.Autoplay = true })
	h.c.Next()
	h.c.Close()

	assert.Equal(t, 0, h.clock.Pending())
	assert.False(t, h.anim.Active())
	assert.True(t, h.c.Snapshot().Closed)

	h.clock.Advance(time.Minute)
	h.c.Next()
	h.swipe(-80, 0)
	assert.Equal(t, 7, h.c.Position())
	assert.Empty(t, h.rec.settles)
}

func TestController_EmptyIsInert(t *testing.T) {
	h := newHarness(t, 0, func(cfg *domain.Config) { cfg.Autoplay = true })

	h.swipe(-80, -1000)
	h.c.Next()
	h.c.Prev()
	h.c.GoTo(0)
	h.c.Layout(300, 100)
	h.clock.Advance(time.Minute)

	assert.Empty(t, h.anim.Runs())
	snap := h.c.Snapshot()
	assert.Equal(t, 0, snap.Count)
	assert.Equal(t, 0, snap.State.Position)
	assert.Equal(t, domain.AutoplayIdle, snap.Autoplay)
}

func TestController_LayoutOnlyOnce(t *testing.T) {
	h := newHarness(t, 3, nil)

	h.c.Layout(200, 50)
	assert.Equal(t, -1200.0, h.c.VisibleOffset())

	h.c.Layout(400, 50)
	assert.Equal(t, 200.0, h.c.Snapshot().Width)

	h.c.Resize(400)
	assert.Equal(t, -2400.0, h.c.VisibleOffset())
	assert.Equal(t, -2400.0, h.c.Snapshot().State.LastCommittedOffset)
	assert.Equal(t, -2000.0, h.c.ItemOffset(1))
}

func TestController_ResizeMidFlight(t *testing.T) {
	h := newHarness(t, 3, nil)

	h.c.Next() // 7
	h.c.Next() // 8, counter 1
	h.c.Next() // 9, counter 2
	h.c.GestureBegin()
	h.c.GestureEnd(domain.GestureSample{Translation: -80})
	require.Equal(t, 10, h.c.Position())
	interrupts := h.rec.interrupts

	// A third counted interruption would trip the guard.
	h.c.Resize(200)

	snap := h.c.Snapshot()
	assert.False(t, snap.State.IsThrottled)
	assert.Equal(t, 2, snap.State.ThrottleCounter)
	assert.True(t, snap.Animating, "the release keeps going")
	assert.Equal(t, interrupts, h.rec.interrupts)
	assert.Equal(t, -2000.0, snap.State.LastCommittedOffset)

	run, ok := h.anim.LastRun()
	require.True(t, ok)
	assert.Equal(t, -1360.0, run.From, "the value is scaled to the new stride")
	assert.Equal(t, -2000.0, run.Target)
	assert.Equal(t, domain.MotionRelease, run.Motion.Mode)

	require.True(t, h.anim.Finish())
	snap = h.c.Snapshot()
	assert.Equal(t, 7, snap.State.Position, "re-centred after the settle")
	assert.Equal(t, -1400.0, snap.Offset)
	require.NotEmpty(t, h.rec.settles)
	assert.Equal(t, 1, h.rec.settles[len(h.rec.settles)-1].Logical)

	h.c.Next()
	assert.Equal(t, 8, h.c.Position(), "navigation still works")
}

func TestController_ResizeWhileThrottled(t *testing.T) {
	h := newHarness(t, 3, nil)

	h.c.Next()
	h.c.Next()
	h.c.Next()
	h.c.Next() // 10, trips
	require.True(t, h.c.Snapshot().State.IsThrottled)

	h.c.Resize(150)
	snap := h.c.Snapshot()
	assert.True(t, snap.State.IsThrottled)
	assert.True(t, snap.Animating)

	require.True(t, h.anim.Finish())
	snap = h.c.Snapshot()
	assert.False(t, snap.State.IsThrottled)
	assert.Equal(t, 7, snap.State.Position)
	assert.Equal(t, -1050.0, snap.Offset)
}

func TestController_FirstLayoutMidFlight(t *testing.T) {
	h := newHarness(t, 3, noLoop)

	h.c.Next()
	h.c.Layout(300, 100)

	snap := h.c.Snapshot()
	assert.True(t, snap.Animating)
	assert.Equal(t, -300.0, snap.State.LastCommittedOffset)
	run, _ := h.anim.LastRun()
	assert.Equal(t, -300.0, run.Target)
	assert.Equal(t, domain.MotionSnap, run.Motion.Mode)

	require.True(t, h.anim.Finish())
	require.Len(t, h.rec.settles, 1)
	assert.Equal(t, -300.0, h.c.VisibleOffset())
}

func TestController_ResizeWhileDragging(t *testing.T) {
	h := newHarness(t, 3, noLoop)

	h.c.GestureBegin()
	h.c.GestureMove(-30)
	h.c.Resize(200)
	h.c.GestureMove(-150)
	assert.Equal(t, -150.0, h.c.VisibleOffset(), "the drag follows from the re-committed origin")

	h.c.GestureEnd(domain.GestureSample{Translation: -150})
	assert.Equal(t, 1, h.c.Position())
	run, _ := h.anim.LastRun()
	assert.Equal(t, -200.0, run.Target)
}

func TestController_ZeroWidthDoesNotNavigateOnTap(t *testing.T) {
	h := newHarness(t, 3, func(cfg *domain.Config) {
		cfg.Loop = false
		cfg.ContainerWidth = 0
	})

	assert.Equal(t, domain.DefaultContainerWidth, h.c.Snapshot().Width)
	h.swipe(0, 0)
	h.anim.Finish()
	h.swipe(0, 0)
	h.anim.Finish()
	assert.Equal(t, 0, h.c.Position())
}

func TestController_ItemWidthOverridesLayout(t *testing.T) {
	h := newHarness(t, 3, func(cfg *domain.Config) { cfg.ItemWidth = 80 })
	h.c.Layout(300, 100)
	assert.Equal(t, 80.0, h.c.Snapshot().Width)
	assert.Equal(t, -480.0, h.c.VisibleOffset())
}

func TestController_RandomizedInvariants(t *testing.T) {
	for _, loop := range []bool{true, false} {
		rng := rand.New(rand.NewSource(42))
		h := newHarness(t, 5, func(cfg *domain.Config) {
			cfg.Loop = loop
			cfg.Autoplay = true
			cfg.AutoplayInterval = time.Second
		})
		layout := h.c.PhysicalLayout()
		widths := []float64{80, 100, 150, 320}

		for i := 0; i < 2000; i++ {
			switch rng.Intn(11) {
			case 0:
				h.c.GestureBegin()
			case 1:
				h.c.GestureMove(rng.Float64()*400 - 200)
			case 2:
				h.c.GestureEnd(domain.GestureSample{
					Translation: rng.Float64()*300 - 150,
					Velocity:    rng.Float64()*4000 - 2000,
				})
			case 3:
				h.c.Next()
			case 4:
				h.c.Prev()
			case 5:
				h.c.GoTo(rng.Intn(7) - 1)
			case 6, 7:
				h.anim.Finish()
			case 8:
				h.clock.Advance(time.Duration(rng.Intn(1500)) * time.Millisecond)
			case 9:
				h.c.Resize(widths[rng.Intn(len(widths))])
			case 10:
				h.c.Layout(widths[rng.Intn(len(widths))], 100)
			}

			snap := h.c.Snapshot()
			require.True(t, layout.InRange(snap.State.Position), "step %d: position %d", i, snap.State.Position)
			require.GreaterOrEqual(t, snap.Logical, 0)
			require.Less(t, snap.Logical, layout.Count)
			require.Equal(t, restingOffset(snap.Width, snap.State.Position), snap.State.LastCommittedOffset)
			if snap.State.IsThrottled {
				// Only a finished completion releases the guard.
				require.True(t, snap.Animating, "step %d: throttled with nothing in flight", i)
			}
			if !snap.Animating && !h.c.dragging {
				require.Equal(t, snap.State.LastCommittedOffset, snap.Offset, "step %d: at rest", i)
			}
		}
	}
}

package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventGesture        EventType = "gesture"
	EventAnimationStart EventType = "animation_start"
	EventInterrupt      EventType = "interrupt"
	EventSettle         EventType = "settle"
	EventReposition     EventType = "reposition"
	EventThrottle       EventType = "throttle"
	EventAutoplay       EventType = "autoplay"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp  time.Time `json:"timestamp"`
	Type       EventType `json:"type"`
	CarouselID string    `json:"carousel_id,omitempty"`
}

// GestureEvent reports how a release was resolved.
type GestureEvent struct {
	EventBase
	Sample    GestureSample `json:"sample"`
	Direction Direction     `json:"direction"`
	From      int           `json:"from"`
	To        int           `json:"to"`
	Target    float64       `json:"target"`
	// Clamped is set when the raw classification pointed outside the
	// physical range and was turned into a re-settle.
	Clamped bool `json:"clamped,omitempty"`
}

// AnimationEvent reports the start or the interruption of an animation.
type AnimationEvent struct {
	EventBase
	Mode     MotionMode `json:"mode"`
	From     float64    `json:"from"`
	Target   float64    `json:"target"`
	Position int        `json:"position"`
}

// SettleEvent is emitted once per finished, non-interrupted navigation.
type SettleEvent struct {
	EventBase
	Logical  int           `json:"logical"`
	Position int           `json:"position"`
	Elapsed  time.Duration `json:"elapsed"`
}

// RepositionEvent reports a silent loop-seam re-centre.
type RepositionEvent struct {
	EventBase
	From int `json:"from"`
	To   int `json:"to"`
}

// ThrottleEvent reports the guard tripping or releasing.
type ThrottleEvent struct {
	EventBase
	Throttled bool `json:"throttled"`
	Counter   int  `json:"counter"`
}

// AutoplayEvent reports a scheduler phase change or a tick.
type AutoplayEvent struct {
	EventBase
	Phase AutoplayPhase `json:"phase"`
	Tick  bool          `json:"tick,omitempty"`
	Moved bool          `json:"moved,omitempty"`
}

// LifecycleHooks defines callbacks for controller observability.
// Hooks run outside the controller lock and may call back into it.
type LifecycleHooks struct {
	OnGesture        func(context.Context, *GestureEvent)
	OnAnimationStart func(context.Context, *AnimationEvent)
	OnInterrupt      func(context.Context, *AnimationEvent)
	OnSettle         func(context.Context, *SettleEvent)
	OnReposition     func(context.Context, *RepositionEvent)
	OnThrottle       func(context.Context, *ThrottleEvent)
	OnAutoplay       func(context.Context, *AutoplayEvent)
}

// ComposeHooks fans every callback out to each of hooks, in order.
func ComposeHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnGesture: func(ctx context.Context, e *GestureEvent) {
			for _, h := range hooks {
				if h.OnGesture != nil {
					h.OnGesture(ctx, e)
				}
			}
		},
		OnAnimationStart: func(ctx context.Context, e *AnimationEvent) {
			for _, h := range hooks {
				if h.OnAnimationStart != nil {
					h.OnAnimationStart(ctx, e)
				}
			}
		},
		OnInterrupt: func(ctx context.Context, e *AnimationEvent) {
			for _, h := range hooks {
				if h.OnInterrupt != nil {
					h.OnInterrupt(ctx, e)
				}
			}
		},
		OnSettle: func(ctx context.Context, e *SettleEvent) {
			for _, h := range hooks {
				if h.OnSettle != nil {
					h.OnSettle(ctx, e)
				}
			}
		},
		OnReposition: func(ctx context.Context, e *RepositionEvent) {
			for _, h := range hooks {
				if h.OnReposition != nil {
					h.OnReposition(ctx, e)
				}
			}
		},
		OnThrottle: func(ctx context.Context, e *ThrottleEvent) {
			for _, h := range hooks {
				if h.OnThrottle != nil {
					h.OnThrottle(ctx, e)
				}
			}
		},
		OnAutoplay: func(ctx context.Context, e *AutoplayEvent) {
			for _, h := range hooks {
				if h.OnAutoplay != nil {
					h.OnAutoplay(ctx, e)
				}
			}
		},
	}
}

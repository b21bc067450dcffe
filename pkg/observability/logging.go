package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/carousel/pkg/domain"
)

// LoggingHooks logs every lifecycle event on logger. Settles, throttle
// changes and repositions log at Info; the chattier events at Debug.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGesture: func(ctx context.Context, e *domain.GestureEvent) {
			logger.DebugContext(ctx, "gesture",
				"carousel_id", e.CarouselID,
				"direction", e.Direction.String(),
				"from", e.From,
				"to", e.To,
				"clamped", e.Clamped,
			)
		},
		OnAnimationStart: func(ctx context.Context, e *domain.AnimationEvent) {
			logger.DebugContext(ctx, "animation_start",
				"carousel_id", e.CarouselID,
				"mode", string(e.Mode),
				"target", e.Target,
			)
		},
		OnInterrupt: func(ctx context.Context, e *domain.AnimationEvent) {
			logger.DebugContext(ctx, "interrupt", "carousel_id", e.CarouselID, "at", e.From)
		},
		OnSettle: func(ctx context.Context, e *domain.SettleEvent) {
			logger.InfoContext(ctx, "settle",
				"carousel_id", e.CarouselID,
				"logical", e.Logical,
				"position", e.Position,
				"elapsed", e.Elapsed,
			)
		},
		OnReposition: func(ctx context.Context, e *domain.RepositionEvent) {
			logger.InfoContext(ctx, "reposition", "carousel_id", e.CarouselID, "from", e.From, "to", e.To)
		},
		OnThrottle: func(ctx context.Context, e *domain.ThrottleEvent) {
			logger.InfoContext(ctx, "throttle",
				"carousel_id", e.CarouselID,
				"throttled", e.Throttled,
				"counter", e.Counter,
			)
		},
		OnAutoplay: func(ctx context.Context, e *domain.AutoplayEvent) {
			logger.DebugContext(ctx, "autoplay",
				"carousel_id", e.CarouselID,
				"phase", string(e.Phase),
				"tick", e.Tick,
				"moved", e.Moved,
			)
		},
	}
}

package carousel

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/carousel/internal/runtime"
	"github.com/aretw0/carousel/pkg/domain"
	"github.com/aretw0/carousel/pkg/ports"
)

// Carousel is the high-level entry point of the library.
// It pairs the item list with the runtime controller driving it.
type Carousel struct {
	items      []domain.Item
	cfg        domain.Config
	controller *runtime.Controller

	hooks       domain.LifecycleHooks
	onSettle    func(logical int)
	runtimeOpts []runtime.Option
}

// Option defines a functional option for configuring the Carousel.
type Option func(*Carousel)

// WithConfig replaces the default settings.
func WithConfig(cfg domain.Config) Option {
	return func(c *Carousel) {
		c.cfg = cfg
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Carousel) {
		c.hooks = hooks
	}
}

// WithSettleHandler is called with the logical index after every finished
// navigation.
func WithSettleHandler(fn func(logical int)) Option {
	return func(c *Carousel) {
		c.onSettle = fn
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Carousel) {
		c.runtimeOpts = append(c.runtimeOpts, runtime.WithLogger(logger))
	}
}

// WithID names the carousel in events and snapshots.
func WithID(id string) Option {
	return func(c *Carousel) {
		c.runtimeOpts = append(c.runtimeOpts, runtime.WithID(id))
	}
}

// WithClock injects the time source used by autoplay and animations.
func WithClock(clk ports.Clock) Option {
	return func(c *Carousel) {
		c.runtimeOpts = append(c.runtimeOpts, runtime.WithClock(clk))
	}
}

// WithAnimator injects the animation engine.
func WithAnimator(a ports.Animator) Option {
	return func(c *Carousel) {
		c.runtimeOpts = append(c.runtimeOpts, runtime.WithAnimator(a))
	}
}

// WithStartIndex sets the logical item shown first.
func WithStartIndex(logical int) Option {
	return func(c *Carousel) {
		c.runtimeOpts = append(c.runtimeOpts, runtime.WithStartIndex(logical))
	}
}

// WithStrategies overrides the navigation policies. Nil values keep the defaults.
func WithStrategies(release ports.ReleaseStrategy, snap ports.SnapStrategy, throttle ports.ThrottlePolicy, reposition ports.RepositionPolicy) Option {
	return func(c *Carousel) {
		if release != nil {
			c.runtimeOpts = append(c.runtimeOpts, runtime.WithReleaseStrategy(release))
		}
		if snap != nil {
			c.runtimeOpts = append(c.runtimeOpts, runtime.WithSnapStrategy(snap))
		}
		if throttle != nil {
			c.runtimeOpts = append(c.runtimeOpts, runtime.WithThrottlePolicy(throttle))
		}
		if reposition != nil {
			c.runtimeOpts = append(c.runtimeOpts, runtime.WithRepositionPolicy(reposition))
		}
	}
}

// New creates a carousel over items. An empty list yields a carousel on
// which every call is a no-op.
func New(items []domain.Item, opts ...Option) *Carousel {
	c := &Carousel{
		items: append([]domain.Item(nil), items...),
		cfg:   domain.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}

	hooks := c.hooks
	if c.onSettle != nil {
		settle := c.onSettle
		hooks = domain.ComposeHooks(hooks, domain.LifecycleHooks{
			OnSettle: func(_ context.Context, e *domain.SettleEvent) { settle(e.Logical) },
		})
	}

	rtOpts := append([]runtime.Option{runtime.WithHooks(hooks)}, c.runtimeOpts...)
	c.controller = runtime.NewController(len(c.items), c.cfg, rtOpts...)
	return c
}

// NewFromSource loads the items from src before building the carousel.
func NewFromSource(ctx context.Context, src ports.ItemSource, opts ...Option) (*Carousel, error) {
	items, err := src.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	return New(items, opts...), nil
}

// Controller exposes the underlying state machine.
func (c *Carousel) Controller() *runtime.Controller { return c.controller }

// Items returns the logical items.
func (c *Carousel) Items() []domain.Item {
	return append([]domain.Item(nil), c.items...)
}

// PhysicalItems returns the sequence a renderer should lay out, clones included.
func (c *Carousel) PhysicalItems() []domain.Item {
	l := c.controller.PhysicalLayout()
	return domain.Expand(c.Items(), l.Looping, l.Multiplier)
}

// Current returns the item shown. ok is false for an empty carousel.
func (c *Carousel) Current() (domain.Item, bool) {
	if len(c.items) == 0 {
		return domain.Item{}, false
	}
	return c.items[c.controller.CurrentLogical()], true
}

func (c *Carousel) Mount()                                 { c.controller.Mount() }
func (c *Carousel) Layout(width, height float64)           { c.controller.Layout(width, height) }
func (c *Carousel) Resize(width float64)                   { c.controller.Resize(width) }
func (c *Carousel) TouchStart()                            { c.controller.TouchStart() }
func (c *Carousel) GestureBegin()                          { c.controller.GestureBegin() }
func (c *Carousel) GestureMove(translation float64)        { c.controller.GestureMove(translation) }
func (c *Carousel) GestureEnd(sample domain.GestureSample) { c.controller.GestureEnd(sample) }
func (c *Carousel) Next()                                  { c.controller.Next() }
func (c *Carousel) Prev()                                  { c.controller.Prev() }
func (c *Carousel) GoTo(logical int)                       { c.controller.GoTo(logical) }
func (c *Carousel) SetAutoplay(enabled bool)               { c.controller.SetAutoplay(enabled) }
func (c *Carousel) Snapshot() *domain.Snapshot             { return c.controller.Snapshot() }
func (c *Carousel) VisibleOffset() float64                 { return c.controller.VisibleOffset() }
func (c *Carousel) ItemOffset(i int) float64               { return c.controller.ItemOffset(i) }
func (c *Carousel) Close()                                 { c.controller.Close() }

// OnFrame follows every animated value when the animator can push frames.
// ok is false otherwise, and callers should poll VisibleOffset instead.
func (c *Carousel) OnFrame(fn func(offset float64)) (cancel func(), ok bool) {
	return c.controller.OnFrame(fn)
}

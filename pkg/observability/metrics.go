package observability

import (
	"context"
	"errors"
	"strconv"

	"github.com/aretw0/carousel/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by carousel hooks.
type Metrics struct {
	Settles        prometheus.Counter
	SettleDuration prometheus.Histogram
	Gestures       *prometheus.CounterVec
	Animations     *prometheus.CounterVec
	Interrupts     prometheus.Counter
	Repositions    prometheus.Counter
	ThrottleTrips  prometheus.Counter
	AutoplayTicks  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
// Collectors already registered on reg are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Settles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carousel_settles_total",
			Help: "Total number of finished navigations",
		}),
		SettleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "carousel_settle_duration_seconds",
			Help:    "Time from animation start to settle",
			Buckets: []float64{0.05, 0.1, 0.2, 0.3, 0.5, 0.75, 1, 2},
		}),
		Gestures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carousel_gestures_total",
				Help: "Total number of drag releases by resolved direction",
			},
			[]string{"direction"},
		),
		Animations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carousel_animations_total",
				Help: "Total number of animations started by mode",
			},
			[]string{"mode"},
		),
		Interrupts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carousel_interrupts_total",
			Help: "Total number of interrupted animations",
		}),
		Repositions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carousel_repositions_total",
			Help: "Total number of loop-seam re-centres",
		}),
		ThrottleTrips: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carousel_throttle_trips_total",
			Help: "Total number of times gesture input was suspended",
		}),
		AutoplayTicks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carousel_autoplay_ticks_total",
				Help: "Total number of autoplay ticks",
			},
			[]string{"moved"},
		),
	}

	var err error
	if m.Settles, err = register(reg, m.Settles); err != nil {
		return nil, err
	}
	if m.SettleDuration, err = register(reg, m.SettleDuration); err != nil {
		return nil, err
	}
	if m.Gestures, err = register(reg, m.Gestures); err != nil {
		return nil, err
	}
	if m.Animations, err = register(reg, m.Animations); err != nil {
		return nil, err
	}
	if m.Interrupts, err = register(reg, m.Interrupts); err != nil {
		return nil, err
	}
	if m.Repositions, err = register(reg, m.Repositions); err != nil {
		return nil, err
	}
	if m.ThrottleTrips, err = register(reg, m.ThrottleTrips); err != nil {
		return nil, err
	}
	if m.AutoplayTicks, err = register(reg, m.AutoplayTicks); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGesture: func(_ context.Context, e *domain.GestureEvent) {
			m.Gestures.WithLabelValues(e.Direction.String()).Inc()
		},
		OnAnimationStart: func(_ context.Context, e *domain.AnimationEvent) {
			m.Animations.WithLabelValues(string(e.Mode)).Inc()
		},
		OnInterrupt: func(context.Context, *domain.AnimationEvent) {
			m.Interrupts.Inc()
		},
		OnSettle: func(_ context.Context, e *domain.SettleEvent) {
			m.Settles.Inc()
			m.SettleDuration.Observe(e.Elapsed.Seconds())
		},
		OnReposition: func(context.Context, *domain.RepositionEvent) {
			m.Repositions.Inc()
		},
		OnThrottle: func(_ context.Context, e *domain.ThrottleEvent) {
			if e.Throttled {
				m.ThrottleTrips.Inc()
			}
		},
		OnAutoplay: func(_ context.Context, e *domain.AutoplayEvent) {
			if e.Tick {
				m.AutoplayTicks.WithLabelValues(strconv.FormatBool(e.Moved)).Inc()
			}
		},
	}
}

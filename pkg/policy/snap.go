package policy

import (
	"time"

	"github.com/aretw0/carousel/pkg/domain"
)

// DefaultSnapDuration is the length of an autoplay or programmatic snap.
const DefaultSnapDuration = 200 * time.Millisecond

// TimedSnap is a fixed-duration tween.
type TimedSnap struct {
	Duration time.Duration
	// Easing defaults to EaseOut.
	Easing func(float64) float64
}

func (s TimedSnap) Snap(cfg domain.Config) domain.Motion {
	d := s.Duration
	if d <= 0 {
		d = DefaultSnapDuration
	}
	easing := s.Easing
	if easing == nil {
		easing = EaseOut
	}
	return domain.Motion{
		Mode:     domain.MotionSnap,
		Duration: d,
		Easing:   easing,
	}
}

package policy

import "github.com/aretw0/carousel/pkg/domain"

const (
	DefaultStiffness        = 12.0
	DefaultRestSpeed        = 1.7
	DefaultRestDisplacement = 0.4
)

// SpringRelease settles a released drag with a zero-bounce spring seeded
// with the release velocity scaled by friction.
type SpringRelease struct {
	// Stiffness is the angular frequency of the spring. Zero means DefaultStiffness.
	Stiffness float64
}

func (s SpringRelease) Release(sample domain.GestureSample, cfg domain.Config) domain.Motion {
	stiffness := s.Stiffness
	if stiffness <= 0 {
		stiffness = DefaultStiffness
	}
	friction := cfg.Friction
	if friction <= 0 {
		friction = 1
	}
	return domain.Motion{
		Mode:             domain.MotionRelease,
		Velocity:         sample.Velocity / friction,
		Stiffness:        stiffness,
		Damping:          1,
		RestSpeed:        DefaultRestSpeed,
		RestDisplacement: DefaultRestDisplacement,
	}
}

package domain

import "time"

// MotionMode selects how the animation engine interpolates.
type MotionMode string

const (
	// MotionRelease is a damped spring seeded with the release velocity.
	MotionRelease MotionMode = "release"
	// MotionSnap is a fixed-duration eased tween.
	MotionSnap MotionMode = "snap"
)

// Motion carries every parameter an animation engine needs to run one
// transition. Spring fields apply to MotionRelease, Duration and Easing to
// MotionSnap.
type Motion struct {
	Mode MotionMode `json:"mode"`

	Velocity         float64 `json:"velocity,omitempty"`
	Stiffness        float64 `json:"stiffness,omitempty"`
	Damping          float64 `json:"damping,omitempty"`
	RestSpeed        float64 `json:"rest_speed,omitempty"`
	RestDisplacement float64 `json:"rest_displacement,omitempty"`

	Duration time.Duration         `json:"duration,omitempty"`
	Easing   func(float64) float64 `json:"-"`
}

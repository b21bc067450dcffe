package domain

import "time"

// Config holds the tunables of a carousel.
//
// The overshoot settings are accepted and carried for compatibility with
// hosts that pass them, but the controller never clamps on them.
type Config struct {
	ItemWidth      float64 `json:"item_width" yaml:"item_width" mapstructure:"item_width"`
	ContainerWidth float64 `json:"container_width" yaml:"container_width" mapstructure:"container_width"`

	Loop                 bool `json:"loop" yaml:"loop" mapstructure:"loop"`
	LoopClonesMultiplier int  `json:"loop_clones_multiplier" yaml:"loop_clones_multiplier" mapstructure:"loop_clones_multiplier"`
	EnableSnap           bool `json:"enable_snap" yaml:"enable_snap" mapstructure:"enable_snap"`

	Autoplay         bool          `json:"autoplay" yaml:"autoplay" mapstructure:"autoplay"`
	AutoplayInterval time.Duration `json:"autoplay_interval" yaml:"autoplay_interval" mapstructure:"autoplay_interval"`
	AutoplayDelay    time.Duration `json:"autoplay_delay" yaml:"autoplay_delay" mapstructure:"autoplay_delay"`
	ApparitionDelay  time.Duration `json:"apparition_delay" yaml:"apparition_delay" mapstructure:"apparition_delay"`
	AutoplayCooldown time.Duration `json:"autoplay_cooldown" yaml:"autoplay_cooldown" mapstructure:"autoplay_cooldown"`

	DragToss float64 `json:"drag_toss" yaml:"drag_toss" mapstructure:"drag_toss"`
	Friction float64 `json:"friction" yaml:"friction" mapstructure:"friction"`
	Tension  float64 `json:"tension" yaml:"tension" mapstructure:"tension"`

	OvershootLeft     bool    `json:"overshoot_left" yaml:"overshoot_left" mapstructure:"overshoot_left"`
	OvershootRight    bool    `json:"overshoot_right" yaml:"overshoot_right" mapstructure:"overshoot_right"`
	OvershootFriction float64 `json:"overshoot_friction" yaml:"overshoot_friction" mapstructure:"overshoot_friction"`
}

const (
	DefaultContainerWidth   = 375.0
	DefaultAutoplayInterval = 2 * time.Second
	DefaultAutoplayCooldown = 300 * time.Millisecond
)

// DefaultConfig returns the stock carousel settings.
func DefaultConfig() Config {
	return Config{
		ContainerWidth:       DefaultContainerWidth,
		Loop:                 true,
		LoopClonesMultiplier: 2,
		EnableSnap:           true,
		Autoplay:             true,
		AutoplayInterval:     DefaultAutoplayInterval,
		AutoplayCooldown:     DefaultAutoplayCooldown,
		DragToss:             0.05,
		Friction:             1,
		Tension:              0.8,
		OvershootLeft:        true,
		OvershootRight:       true,
		OvershootFriction:    1,
	}
}

// Normalize replaces values the controller cannot work with by their
// defaults. It never fails.
func (c Config) Normalize() Config {
	def := DefaultConfig()
	if c.Friction <= 0 {
		c.Friction = def.Friction
	}
	if c.OvershootFriction <= 0 {
		c.OvershootFriction = def.OvershootFriction
	}
	if c.LoopClonesMultiplier < 1 {
		c.LoopClonesMultiplier = 1
	}
	if c.AutoplayInterval <= 0 {
		c.AutoplayInterval = def.AutoplayInterval
	}
	if c.AutoplayDelay < 0 {
		c.AutoplayDelay = 0
	}
	if c.ApparitionDelay < 0 {
		c.ApparitionDelay = 0
	}
	if c.AutoplayCooldown <= 0 {
		c.AutoplayCooldown = def.AutoplayCooldown
	}
	if c.ContainerWidth <= 0 {
		c.ContainerWidth = def.ContainerWidth
	}
	if c.ItemWidth < 0 {
		c.ItemWidth = 0
	}
	return c
}

// Stride is the distance between two consecutive positions.
func (c Config) Stride() float64 {
	if c.ItemWidth > 0 {
		return c.ItemWidth
	}
	return c.ContainerWidth
}

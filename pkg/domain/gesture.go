package domain

import "fmt"

// GesturePhase is the discrete transition reported by a gesture source.
type GesturePhase string

const (
	GestureBegin  GesturePhase = "begin"
	GestureActive GesturePhase = "active"
	GestureEnd    GesturePhase = "end"
)

// ParseGesturePhase validates a phase received from an outer surface.
func ParseGesturePhase(s string) (GesturePhase, error) {
	switch p := GesturePhase(s); p {
	case GestureBegin, GestureActive, GestureEnd:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown phase %q", ErrInvalidGesture, s)
}

// GestureSample is the horizontal drag reading at release.
type GestureSample struct {
	Translation float64 `json:"translation"`
	Velocity    float64 `json:"velocity"`
}

// Direction is the outcome of resolving a release.
type Direction int

const (
	Stay Direction = iota
	Advance
	Retreat
)

func (d Direction) String() string {
	switch d {
	case Advance:
		return "advance"
	case Retreat:
		return "retreat"
	default:
		return "stay"
	}
}

// MarshalText renders the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Package clock provides ports.Clock implementations: Real, backed by the
// runtime timers, and Manual, advanced explicitly by tests and simulations.
package clock

import (
	"time"

	"github.com/aretw0/carousel/pkg/ports"
)

// Real is a ports.Clock backed by time.AfterFunc.
type Real struct{}

// New returns the wall clock.
func New() Real { return Real{} }

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, f func()) ports.Timer {
	return time.AfterFunc(d, f)
}

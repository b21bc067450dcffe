package ports

import "github.com/aretw0/carousel/pkg/domain"

// ReleaseStrategy builds the motion used to settle after a drag release.
type ReleaseStrategy interface {
	Release(sample domain.GestureSample, cfg domain.Config) domain.Motion
}

// SnapStrategy builds the motion used by autoplay and programmatic navigation.
type SnapStrategy interface {
	Snap(cfg domain.Config) domain.Motion
}

// ThrottlePolicy decides whether a run of interrupted transitions should
// suspend gesture input. counter counts interrupted completions that moved
// the position; count is the number of logical items.
type ThrottlePolicy interface {
	ShouldThrottle(counter, count int) bool
}

// RepositionPolicy decides when a settled position is too close to a loop
// seam and where it should be silently moved to.
type RepositionPolicy interface {
	NeedsReposition(position int, layout domain.Layout) bool
	Recenter(position int, layout domain.Layout) int
}

package policy

import "github.com/aretw0/carousel/pkg/domain"

// MidBlockReposition moves any position that drifted into a clone block back
// to the same logical item in the centre block, leaving a full loop span of
// headroom on both sides.
type MidBlockReposition struct{}

func (MidBlockReposition) NeedsReposition(position int, l domain.Layout) bool {
	if !l.Looping || l.Empty() {
		return false
	}
	span := l.Span()
	return position >= l.Count+span || position <= span-1
}

func (MidBlockReposition) Recenter(position int, l domain.Layout) int {
	return l.Home(l.ToLogical(position))
}

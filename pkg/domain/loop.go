package domain

// Layout describes how N logical items map onto the navigable physical
// sequence. When Looping is set, Multiplier copies of the items sit on each
// side of the original block.
type Layout struct {
	Count      int  `json:"count"`
	Multiplier int  `json:"multiplier"`
	Looping    bool `json:"looping"`
}

// NewLayout derives the layout for count items under cfg.
// Looping only takes effect with snapping enabled and more than one item.
func NewLayout(count int, cfg Config) Layout {
	l := Layout{Count: count, Multiplier: cfg.LoopClonesMultiplier}
	l.Looping = cfg.EnableSnap && cfg.Loop && count > 1
	if !l.Looping {
		l.Multiplier = 0
	} else if l.Multiplier < 1 {
		l.Multiplier = 1
	}
	return l
}

// Empty reports whether there is nothing to navigate.
func (l Layout) Empty() bool {
	return l.Count <= 0
}

// Span is the number of cloned positions on each side of the original block.
func (l Layout) Span() int {
	return l.Count * l.Multiplier
}

// Length is the size of the physical sequence.
func (l Layout) Length() int {
	return l.Count + 2*l.Span()
}

// ToLogical maps a physical position to its logical index.
func (l Layout) ToLogical(position int) int {
	if l.Count <= 0 {
		return 0
	}
	m := position % l.Count
	if m < 0 {
		m += l.Count
	}
	return m
}

// Home returns the physical position representing logical inside the
// centre block. Without looping this is logical itself.
func (l Layout) Home(logical int) int {
	return l.Span() + l.ToLogical(logical)
}

// InRange reports whether position addresses the physical sequence.
func (l Layout) InRange(position int) bool {
	return position >= 0 && position < l.Length()
}

// Expand returns the physical sequence for items. Without looping, or with a
// single item, items is returned unchanged.
func Expand[T any](items []T, looping bool, multiplier int) []T {
	n := len(items)
	if !looping || n <= 1 || multiplier < 1 {
		return items
	}
	out := make([]T, 0, n*(1+2*multiplier))
	for i := 0; i < 1+2*multiplier; i++ {
		out = append(out, items...)
	}
	return out
}

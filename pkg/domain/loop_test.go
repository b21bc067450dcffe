package domain_test

import (
	"testing"

	"github.com/aretw0/carousel/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewLayout(t *testing.T) {
	cfg := domain.DefaultConfig()

	tests := []struct {
		name       string
		count      int
		mutate     func(*domain.Config)
		wantLoop   bool
		wantLength int
		wantHome   int
	}{
		{name: "Looping Default", count: 3, wantLoop: true, wantLength: 15, wantHome: 6},
		{name: "Single Item Never Loops", count: 1, wantLoop: false, wantLength: 1, wantHome: 0},
		{name: "Empty", count: 0, wantLoop: false, wantLength: 0, wantHome: 0},
		{name: "Loop Disabled", count: 3, mutate: func(c *domain.Config) { c.Loop = false }, wantLoop: false, wantLength: 3, wantHome: 0},
		{name: "Snap Disabled", count: 3, mutate: func(c *domain.Config) { c.EnableSnap = false }, wantLoop: false, wantLength: 3, wantHome: 0},
		{name: "Multiplier One", count: 4, mutate: func(c *domain.Config) { c.LoopClonesMultiplier = 1 }, wantLoop: true, wantLength: 12, wantHome: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cfg
			if tt.mutate != nil {
				tt.mutate(&c)
			}
			l := domain.NewLayout(tt.count, c)
			assert.Equal(t, tt.wantLoop, l.Looping)
			assert.Equal(t, tt.wantLength, l.Length())
			assert.Equal(t, tt.wantHome, l.Home(0))
		})
	}
}

func TestLayout_ToLogical(t *testing.T) {
	l := domain.NewLayout(3, domain.DefaultConfig())
	for pos := 0; pos < l.Length(); pos++ {
		logical := l.ToLogical(pos)
		assert.GreaterOrEqual(t, logical, 0)
		assert.Less(t, logical, 3)
		assert.Equal(t, pos%3, logical)
	}
	assert.Equal(t, 2, l.ToLogical(-1))
	assert.Equal(t, 0, domain.Layout{}.ToLogical(5))
}

func TestExpand(t *testing.T) {
	items := []string{"a", "b", "c"}

	assert.Equal(t, items, domain.Expand(items, false, 2))
	assert.Equal(t, []string{"a"}, domain.Expand([]string{"a"}, true, 2))

	got := domain.Expand(items, true, 2)
	assert.Len(t, got, 15)
	for i, v := range got {
		assert.Equal(t, items[i%3], v)
	}
}

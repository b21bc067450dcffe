package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/carousel"
	"github.com/aretw0/carousel/pkg/adapters/clock"
	"github.com/aretw0/carousel/pkg/adapters/memory"
	"github.com/aretw0/carousel/pkg/domain"
	"github.com/aretw0/carousel/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems(n int) []domain.Item {
	keys := []string{"a", "b", "c", "d", "e"}
	items := make([]domain.Item, n)
	for i := range items {
		items[i] = domain.Item{Key: keys[i]}
	}
	return items
}

func newManager(store *memory.Store, clk *clock.Manual, n int, opts ...session.Option) *session.Manager {
	cfg := domain.DefaultConfig()
	cfg.Autoplay = false
	opts = append([]session.Option{
		session.WithCarouselOptions(carousel.WithConfig(cfg), carousel.WithClock(clk)),
	}, opts...)
	return session.NewManager(testItems(n), store, opts...)
}

func TestManager_OpenGeneratesID(t *testing.T) {
	store := memory.NewStore()
	m := newManager(store, clock.NewManual(time.Unix(0, 0)), 3)
	ctx := context.Background()

	c, err := m.Open(ctx, "")
	require.NoError(t, err)
	id := c.Snapshot().ID
	assert.Len(t, id, 36)

	saved, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, saved.Logical)

	again, err := m.Open(ctx, id)
	require.NoError(t, err)
	assert.Same(t, c, again)
}

func TestManager_ResumesStoredPosition(t *testing.T) {
	store := memory.NewStore()
	clk := clock.NewManual(time.Unix(0, 0))
	ctx := context.Background()

	m := newManager(store, clk, 3)
	c, err := m.Open(ctx, "hero")
	require.NoError(t, err)

	c.Next()
	clk.Advance(time.Second)
	assert.Equal(t, 1, c.Snapshot().Logical)

	saved, err := store.Load(ctx, "hero")
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Logical, "settle persists")

	require.NoError(t, m.Close(ctx, "hero"))
	_, err = m.Get("hero")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	resumed, err := newManager(store, clk, 3).Open(ctx, "hero")
	require.NoError(t, err)
	defer resumed.Close()
	assert.Equal(t, 1, resumed.Snapshot().Logical)
	assert.Equal(t, 7, resumed.Snapshot().State.Position)
}

func TestManager_IgnoresStaleCount(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "x", &domain.Snapshot{ID: "x", Logical: 4, Count: 5}))

	m := newManager(store, clock.NewManual(time.Unix(0, 0)), 3)
	c, err := m.Open(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, 0, c.Snapshot().Logical)
}

func TestManager_ListAndDelete(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "stored", &domain.Snapshot{ID: "stored"}))

	m := newManager(store, clock.NewManual(time.Unix(0, 0)), 3)
	_, err := m.Open(ctx, "live")
	require.NoError(t, err)

	ids, err := m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"live", "stored"}, ids)

	require.NoError(t, m.Delete(ctx, "live"))
	ids, err = m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"stored"}, ids)

	assert.ErrorIs(t, m.Close(ctx, "live"), domain.ErrSessionNotFound)
}

func TestManager_Observe(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	m := newManager(memory.NewStore(), clk, 3)
	ctx := context.Background()

	var mu sync.Mutex
	var seen []*domain.Snapshot
	m.Observe(func(id string, snap *domain.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, "obs", id)
		seen = append(seen, snap)
	})

	c, err := m.Open(ctx, "obs")
	require.NoError(t, err)
	c.Next()
	clk.Advance(time.Second)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	last := seen[len(seen)-1]
	assert.Equal(t, 1, last.Logical)
	assert.False(t, last.Animating)
}

func TestManager_ExtraHooks(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	settles := 0
	m := newManager(memory.NewStore(), clk, 3, session.WithHooks(func(id string) domain.LifecycleHooks {
		return domain.LifecycleHooks{
			OnSettle: func(context.Context, *domain.SettleEvent) { settles++ },
		}
	}))

	c, err := m.Open(context.Background(), "hooks")
	require.NoError(t, err)
	c.Prev()
	clk.Advance(time.Second)
	assert.Equal(t, 1, settles)
	assert.Equal(t, 2, c.Snapshot().Logical)
}

func TestManager_ConcurrentOpen(t *testing.T) {
	m := newManager(memory.NewStore(), clock.NewManual(time.Unix(0, 0)), 3)
	ctx := context.Background()

	var wg sync.WaitGroup
	got := make([]*carousel.Carousel, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := m.Open(ctx, "shared")
			assert.NoError(t, err)
			got[i] = c
		}(i)
	}
	wg.Wait()

	for _, c := range got[1:] {
		assert.Same(t, got[0], c)
	}
}

func TestManager_Shutdown(t *testing.T) {
	store := memory.NewStore()
	m := newManager(store, clock.NewManual(time.Unix(0, 0)), 3)
	ctx := context.Background()

	a, err := m.Open(ctx, "a")
	require.NoError(t, err)
	_, err = m.Open(ctx, "b")
	require.NoError(t, err)

	require.NoError(t, m.Shutdown(ctx))
	assert.True(t, a.Snapshot().Closed)
	saved, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.True(t, saved.Closed)
}

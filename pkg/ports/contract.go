package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/carousel/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunPositionStoreContract runs a suite of tests to verify that a
// PositionStore implementation adheres to the defined interface contract.
func RunPositionStoreContract(t *testing.T, store PositionStore) {
	ctx := context.Background()
	id := "contract-test-carousel-" + time.Now().Format("20060102150405")

	snapshot := func(id string, logical int) *domain.Snapshot {
		layout := domain.Layout{Count: 3, Multiplier: 2, Looping: true}
		pos := layout.Home(logical)
		return &domain.Snapshot{
			ID:      id,
			Logical: logical,
			Count:   3,
			Layout:  layout,
			State: domain.NavigationState{
				Position:            pos,
				LastCommittedOffset: -300 * float64(pos),
			},
			Offset:    -300 * float64(pos),
			Width:     300,
			Autoplay:  domain.AutoplayRunning,
			UpdatedAt: time.Now().UTC().Truncate(time.Second),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		snap := snapshot(id, 2)

		err := store.Save(ctx, id, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, 2, loaded.Logical)
		assert.Equal(t, snap.State, loaded.State)
		assert.Equal(t, snap.Layout, loaded.Layout)
		assert.Equal(t, domain.AutoplayRunning, loaded.Autoplay)
		assert.True(t, snap.UpdatedAt.Equal(loaded.UpdatedAt), "UpdatedAt should round-trip")
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, id, snapshot(id, 0)))
		require.NoError(t, store.Save(ctx, id, snapshot(id, 1)))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, loaded.Logical)
	})

	t.Run("Load Isolation", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, id, snapshot(id, 1)))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		loaded.Logical = 99

		again, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, again.Logical, "mutating a loaded snapshot must not affect the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrPositionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, id, snapshot(id, 0))
		require.NoError(t, err)

		err = store.Delete(ctx, id)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrPositionNotFound, "Load after Delete should return ErrPositionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		_ = store.Save(ctx, id1, snapshot(id1, 0))
		_ = store.Save(ctx, id2, snapshot(id2, 1))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

package ports

import (
	"context"

	"github.com/aretw0/carousel/pkg/domain"
)

// PositionStore persists carousel snapshots.
// This enables a carousel to resume at the item it last settled on.
type PositionStore interface {
	// Save persists the snapshot for a given carousel ID.
	Save(ctx context.Context, id string, snap *domain.Snapshot) error

	// Load retrieves the snapshot for a given carousel ID.
	// Returns domain.ErrPositionNotFound if nothing was saved.
	Load(ctx context.Context, id string) (*domain.Snapshot, error)

	// Delete removes the snapshot for a given carousel ID.
	Delete(ctx context.Context, id string) error

	// List returns the IDs with a stored snapshot.
	List(ctx context.Context) ([]string, error)
}

// ItemSource yields the items of a deck.
type ItemSource interface {
	Items(ctx context.Context) ([]domain.Item, error)
}

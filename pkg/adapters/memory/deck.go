package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/carousel/pkg/domain"
)

// Deck implements ports.ItemSource over a fixed list.
type Deck struct {
	items []domain.Item
}

// NewDeck creates a Deck holding a copy of items.
func NewDeck(items ...domain.Item) *Deck {
	return &Deck{items: append([]domain.Item(nil), items...)}
}

// NewDeckFromKeys builds a Deck whose items are labelled by their keys.
// This is handy for tests and demos.
func NewDeckFromKeys(keys ...string) (*Deck, error) {
	items := make([]domain.Item, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k == "" {
			return nil, fmt.Errorf("item missing key")
		}
		if seen[k] {
			return nil, fmt.Errorf("duplicate item key %q", k)
		}
		seen[k] = true
		items = append(items, domain.Item{Key: k, Label: k})
	}
	return &Deck{items: items}, nil
}

// Items returns a copy of the deck.
func (d *Deck) Items(ctx context.Context) ([]domain.Item, error) {
	return append([]domain.Item(nil), d.items...), nil
}

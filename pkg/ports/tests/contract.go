package tests

import (
	"context"
	"testing"

	"github.com/aretw0/carousel/pkg/ports"
)

// ItemSourceContractTest is a reusable test suite that verifies if an adapter
// complies with ports.ItemSource. wantKeys lists the expected keys in order.
func ItemSourceContractTest(t *testing.T, source ports.ItemSource, wantKeys []string) {
	t.Helper()

	t.Run("Items_Order", func(t *testing.T) {
		items, err := source.Items(context.Background())
		if err != nil {
			t.Fatalf("unexpected error listing items: %v", err)
		}
		if len(items) != len(wantKeys) {
			t.Fatalf("expected %d items, got %d", len(wantKeys), len(items))
		}
		for i, it := range items {
			if it.Key != wantKeys[i] {
				t.Errorf("item %d: got key %q, want %q", i, it.Key, wantKeys[i])
			}
		}
	})

	t.Run("Items_UniqueKeys", func(t *testing.T) {
		items, err := source.Items(context.Background())
		if err != nil {
			t.Fatalf("unexpected error listing items: %v", err)
		}
		seen := make(map[string]bool, len(items))
		for _, it := range items {
			if seen[it.Key] {
				t.Errorf("duplicate key %q", it.Key)
			}
			seen[it.Key] = true
		}
	})

	t.Run("Items_Stable", func(t *testing.T) {
		first, err := source.Items(context.Background())
		if err != nil {
			t.Fatalf("unexpected error listing items: %v", err)
		}
		second, err := source.Items(context.Background())
		if err != nil {
			t.Fatalf("unexpected error listing items: %v", err)
		}
		if len(first) != len(second) {
			t.Fatalf("item count changed between calls: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i].Key != second[i].Key {
				t.Errorf("item %d key changed: %q vs %q", i, first[i].Key, second[i].Key)
			}
		}
	})
}

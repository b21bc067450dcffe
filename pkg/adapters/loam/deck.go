package loam

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/carousel/pkg/domain"
	"github.com/aretw0/loam"
)

// Deck adapts a Loam repository of markdown/JSON documents to ports.ItemSource.
// Each document becomes one item.
type Deck struct {
	Repo *loam.TypedRepository[ItemMetadata]
}

// New creates a Deck over an existing typed repository.
func New(repo *loam.TypedRepository[ItemMetadata]) *Deck {
	return &Deck{Repo: repo}
}

// Open initialises a read-only, strict Loam repository at path.
func Open(path string) (*Deck, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[ItemMetadata](repo)), nil
}

type entry struct {
	item    domain.Item
	order   float64
	ordered bool
}

// Items lists the deck in order. It returns domain.ErrEmptyDeck when the
// repository holds no visible document.
func (d *Deck) Items(ctx context.Context) ([]domain.Item, error) {
	docs, err := d.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	entries := make([]entry, 0, len(docs))
	for _, doc := range docs {
		if doc.Data.Hidden {
			continue
		}
		rawKey := doc.Data.Key
		if rawKey == "" {
			rawKey = doc.ID
		}
		key := trimExtension(rawKey)

		if existing, ok := seen[key]; ok {
			return nil, fmt.Errorf("collision detected: key '%s' is defined in both '%s' and '%s'", key, existing, doc.ID)
		}
		seen[key] = doc.ID

		label := doc.Data.Label
		if label == "" {
			label = firstLine(doc.Content)
		}
		if label == "" {
			label = key
		}

		item := domain.Item{Key: key, Label: label}
		if len(doc.Data.Payload) > 0 {
			item.Payload = doc.Data.Payload
		} else if body := strings.TrimSpace(doc.Content); body != "" {
			item.Payload = body
		}

		order, ok, err := toOrder(doc.Data.Order)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", doc.ID, err)
		}
		entries = append(entries, entry{item: item, order: order, ordered: ok})
	}

	if len(entries) == 0 {
		return nil, domain.ErrEmptyDeck
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.ordered != b.ordered {
			return a.ordered
		}
		if a.ordered && a.order != b.order {
			return a.order < b.order
		}
		return a.item.Key < b.item.Key
	})

	items := make([]domain.Item, len(entries))
	for i, e := range entries {
		items[i] = e.item
	}
	return items, nil
}

// toOrder accepts the numeric shapes Loam may hand back for "order".
func toOrder(v any) (float64, bool, error) {
	switch n := v.(type) {
	case nil:
		return 0, false, nil
	case int:
		return float64(n), true, nil
	case int64:
		return float64(n), true, nil
	case uint64:
		return float64(n), true, nil
	case float64:
		if math.IsNaN(n) {
			return 0, false, fmt.Errorf("invalid order")
		}
		return n, true, nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false, fmt.Errorf("invalid order %q: %w", n, err)
		}
		return f, true, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false, fmt.Errorf("invalid order %q: %w", n, err)
		}
		return f, true, nil
	default:
		return 0, false, fmt.Errorf("invalid order type %T", v)
	}
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext == ".md" || ext == ".json" || ext == ".yaml" || ext == ".yml" {
		return strings.TrimSuffix(id, ext)
	}
	return id
}

func firstLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if line != "" {
			return line
		}
	}
	return ""
}

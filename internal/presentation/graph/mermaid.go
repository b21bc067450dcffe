package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/carousel/pkg/domain"
)

// Overlay contains dynamic state data to visualize on the strip.
type Overlay struct {
	// Visited holds physical positions the carousel settled on.
	Visited []int
	// Current is the physical position at rest. Negative means none.
	Current int
}

// GenerateMermaid produces a Mermaid flowchart of the physical strip laid
// out for items. It applies semantic styling:
// - Original block: [Rectangle]
// - Clones: ([Stadium])
// - Seams: dotted "reposition" edges from the outermost settle points back
// into the centre block.
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(items []domain.Item, layout domain.Layout, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	physical := domain.Expand(items, layout.Looping, layout.Multiplier)
	span := layout.Span()
	clones := make([]string, 0, 2*span)

	for pos, item := range physical {
		opener, closer := "[", "]"
		clone := layout.Looping && (pos < span || pos >= span+layout.Count)
		if clone {
			opener, closer = "([", "])"
			clones = append(clones, nodeID(pos))
		}
		label := strings.ReplaceAll(item.Key, "\"", "'")
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", nodeID(pos), opener, label, closer))
		if pos > 0 {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", nodeID(pos-1), nodeID(pos)))
		}
	}

	if layout.Looping {
		low := span - 1
		high := span + layout.Count
		sb.WriteString(fmt.Sprintf("    %s -. reposition .-> %s\n", nodeID(low), nodeID(layout.Home(low))))
		sb.WriteString(fmt.Sprintf("    %s -. reposition .-> %s\n", nodeID(high), nodeID(layout.Home(high))))
		sb.WriteString("    classDef clone fill:#f5f5f5,stroke:#9e9e9e,stroke-dasharray:3 3,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s clone;\n", strings.Join(clones, ",")))
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[int]bool)
		for _, pos := range overlay.Visited {
			if pos < 0 || pos >= len(physical) || seen[pos] {
				continue
			}
			seen[pos] = true
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", nodeID(pos)))
		}

		if overlay.Current >= 0 && overlay.Current < len(physical) {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", nodeID(overlay.Current)))
		}
	}

	return sb.String()
}

func nodeID(pos int) string {
	return fmt.Sprintf("p%d", pos)
}

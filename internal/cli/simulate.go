package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/carousel"
	"github.com/aretw0/carousel/internal/config"
	"github.com/aretw0/carousel/internal/presentation/graph"
	"github.com/aretw0/carousel/pkg/adapters/clock"
	"github.com/aretw0/carousel/pkg/adapters/memory"
	"github.com/aretw0/carousel/pkg/domain"
	"gopkg.in/yaml.v3"
)

// DefaultSettle is how long the simulated clock runs after a step that
// starts a motion.
const DefaultSettle = time.Second

// Script is a headless gesture replay.
type Script struct {
	// Config is decoded over the carousel section of the loaded config.
	Config map[string]any `mapstructure:"config"`
	// Items replaces the configured deck with plain keys.
	Items  []string      `mapstructure:"items"`
	Settle time.Duration `mapstructure:"settle"`
	Steps  []Step        `mapstructure:"steps"`
}

// Sample is a release reading in a script.
type Sample struct {
	Translation float64 `mapstructure:"translation"`
	Velocity    float64 `mapstructure:"velocity"`
}

// Step is one scripted action. Exactly one field is expected to be set.
type Step struct {
	Swipe    *Sample       `mapstructure:"swipe"`
	Begin    bool          `mapstructure:"begin"`
	Move     *float64      `mapstructure:"move"`
	End      *Sample       `mapstructure:"end"`
	Touch    bool          `mapstructure:"touch"`
	Next     int           `mapstructure:"next"`
	Prev     int           `mapstructure:"prev"`
	GoTo     *int          `mapstructure:"goto"`
	Wait     time.Duration `mapstructure:"wait"`
	Autoplay *bool         `mapstructure:"autoplay"`
	Resize   float64       `mapstructure:"resize"`
}

// ParseScript decodes a YAML script.
func ParseScript(data []byte) (Script, error) {
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Script{}, fmt.Errorf("failed to parse script: %w", err)
	}
	var s Script
	if err := config.Decode(raw, &s); err != nil {
		return Script{}, fmt.Errorf("failed to decode script: %w", err)
	}
	if len(s.Steps) == 0 {
		return Script{}, fmt.Errorf("script has no steps")
	}
	if s.Settle <= 0 {
		s.Settle = DefaultSettle
	}
	return s, nil
}

// Row is the state recorded after a step.
type Row struct {
	Step      string
	At        time.Duration
	Position  int
	Logical   int
	Offset    float64
	Throttled bool
}

// Report is the outcome of a simulation.
type Report struct {
	Items   []domain.Item
	Layout  domain.Layout
	Width   float64
	Rows    []Row
	Events  []string
	Visited []int
	Final   *domain.Snapshot
}

// Simulate replays script against a carousel driven by a manual clock.
func Simulate(ctx context.Context, cfg config.Config, script Script) (*Report, error) {
	items, err := scriptItems(ctx, cfg, script)
	if err != nil {
		return nil, err
	}
	carouselCfg := cfg.Carousel
	if len(script.Config) > 0 {
		if err := config.Decode(script.Config, &carouselCfg); err != nil {
			return nil, fmt.Errorf("invalid script config: %w", err)
		}
	}

	start := time.Unix(0, 0)
	clk := clock.NewManual(start)
	rec := &recorder{clock: clk, start: start}

	c := carousel.New(items,
		carousel.WithID("simulation"),
		carousel.WithConfig(carouselCfg),
		carousel.WithClock(clk),
		carousel.WithLifecycleHooks(rec.hooks()),
	)
	defer c.Close()
	c.Mount()

	report := &Report{
		Items:  items,
		Layout: c.Controller().PhysicalLayout(),
		Width:  c.Controller().Config().Stride(),
	}
	report.Visited = append(report.Visited, c.Snapshot().State.Position)

	for _, step := range script.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		label, wait := apply(c, step, script.Settle)
		clk.Advance(wait)

		snap := c.Snapshot()
		report.Rows = append(report.Rows, Row{
			Step:      label,
			At:        clk.Now().Sub(start),
			Position:  snap.State.Position,
			Logical:   snap.Logical,
			Offset:    snap.Offset,
			Throttled: snap.State.IsThrottled,
		})
	}

	report.Events = rec.lines()
	report.Visited = append(report.Visited, rec.settledPositions()...)
	report.Final = c.Snapshot()
	return report, nil
}

func scriptItems(ctx context.Context, cfg config.Config, script Script) ([]domain.Item, error) {
	if len(script.Items) > 0 {
		deck, err := memory.NewDeckFromKeys(script.Items...)
		if err != nil {
			return nil, err
		}
		return deck.Items(ctx)
	}
	return loadItems(ctx, cfg)
}

// apply performs step and returns its label and how long to run the clock.
func apply(c *carousel.Carousel, step Step, settle time.Duration) (string, time.Duration) {
	switch {
	case step.Swipe != nil:
		c.GestureBegin()
		c.GestureMove(step.Swipe.Translation)
		c.GestureEnd(domain.GestureSample{Translation: step.Swipe.Translation, Velocity: step.Swipe.Velocity})
		return fmt.Sprintf("swipe %g @ %g", step.Swipe.Translation, step.Swipe.Velocity), settle
	case step.Begin:
		c.GestureBegin()
		return "begin", 0
	case step.Move != nil:
		c.GestureMove(*step.Move)
		return fmt.Sprintf("move %g", *step.Move), 0
	case step.End != nil:
		c.GestureEnd(domain.GestureSample{Translation: step.End.Translation, Velocity: step.End.Velocity})
		return fmt.Sprintf("end %g @ %g", step.End.Translation, step.End.Velocity), settle
	case step.Touch:
		c.TouchStart()
		return "touch", 0
	case step.Next > 0:
		for i := 0; i < step.Next; i++ {
			c.Next()
		}
		return fmt.Sprintf("next ×%d", step.Next), settle
	case step.Prev > 0:
		for i := 0; i < step.Prev; i++ {
			c.Prev()
		}
		return fmt.Sprintf("prev ×%d", step.Prev), settle
	case step.GoTo != nil:
		c.GoTo(*step.GoTo)
		return fmt.Sprintf("goto %d", *step.GoTo), settle
	case step.Autoplay != nil:
		c.SetAutoplay(*step.Autoplay)
		return fmt.Sprintf("autoplay %t", *step.Autoplay), 0
	case step.Resize > 0:
		c.Resize(step.Resize)
		return fmt.Sprintf("resize %g", step.Resize), 0
	case step.Wait > 0:
		return fmt.Sprintf("wait %s", step.Wait), step.Wait
	}
	return "noop", 0
}

// recorder keeps a timeline of lifecycle events on the simulated clock.
type recorder struct {
	clock *clock.Manual
	start time.Time

	mu      sync.Mutex
	events  []string
	settled []int
}

func (r *recorder) add(format string, args ...any) {
	at := r.clock.Now().Sub(r.start)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf("`%7s` ", at.Round(time.Millisecond))+fmt.Sprintf(format, args...))
}

func (r *recorder) hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGesture: func(_ context.Context, e *domain.GestureEvent) {
			clamped := ""
			if e.Clamped {
				clamped = " (clamped)"
			}
			r.add("gesture **%s** %d → %d%s", e.Direction, e.From, e.To, clamped)
		},
		OnInterrupt: func(_ context.Context, e *domain.AnimationEvent) {
			r.add("interrupted at offset %.1f", e.From)
		},
		OnSettle: func(_ context.Context, e *domain.SettleEvent) {
			r.mu.Lock()
			r.settled = append(r.settled, e.Position)
			r.mu.Unlock()
			r.add("settled on item **%d** (position %d)", e.Logical, e.Position)
		},
		OnReposition: func(_ context.Context, e *domain.RepositionEvent) {
			r.add("repositioned %d → %d", e.From, e.To)
		},
		OnThrottle: func(_ context.Context, e *domain.ThrottleEvent) {
			if e.Throttled {
				r.add("gestures **throttled** after %d interruptions", e.Counter)
			} else {
				r.add("throttle released")
			}
		},
		OnAutoplay: func(_ context.Context, e *domain.AutoplayEvent) {
			if e.Tick {
				r.add("autoplay tick (moved: %t)", e.Moved)
				return
			}
			r.add("autoplay %s", e.Phase)
		},
	}
}

func (r *recorder) lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) settledPositions() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.settled...)
}

// Markdown renders the report.
func (r *Report) Markdown() string {
	var sb strings.Builder
	sb.WriteString("# Simulation report\n\n")
	sb.WriteString(fmt.Sprintf("**Items**: %d · **Looping**: %t · **Stride**: %g\n\n", len(r.Items), r.Layout.Looping, r.Width))

	sb.WriteString("## Steps\n\n")
	sb.WriteString("| # | Step | Time | Position | Item | Offset | Throttled |\n")
	sb.WriteString("|---|------|------|----------|------|--------|-----------|\n")
	for i, row := range r.Rows {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %d | %s | %.1f | %t |\n",
			i+1, row.Step, row.At, row.Position, itemLabel(r.Items, row.Logical), row.Offset, row.Throttled))
	}

	sb.WriteString("\n## Events\n\n")
	if len(r.Events) == 0 {
		sb.WriteString("_none_\n")
	}
	for _, e := range r.Events {
		sb.WriteString("- " + e + "\n")
	}

	if r.Final != nil {
		sb.WriteString(fmt.Sprintf("\n**Final**: item %s at position %d\n",
			itemLabel(r.Items, r.Final.Logical), r.Final.State.Position))
		sb.WriteString("\n## Strip\n\n```mermaid\n")
		sb.WriteString(graph.GenerateMermaid(r.Items, r.Layout, &graph.Overlay{
			Visited: r.Visited,
			Current: r.Final.State.Position,
		}))
		sb.WriteString("```\n")
	}
	return sb.String()
}

func itemLabel(items []domain.Item, logical int) string {
	if logical < 0 || logical >= len(items) {
		return "?"
	}
	if items[logical].Label != "" {
		return items[logical].Label
	}
	return items[logical].Key
}

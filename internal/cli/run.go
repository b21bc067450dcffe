package cli

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/aretw0/carousel"
	"github.com/aretw0/carousel/internal/config"
	"github.com/aretw0/carousel/internal/presentation/tui"
	"github.com/aretw0/carousel/pkg/domain"
	tea "github.com/charmbracelet/bubbletea"
)

// RunOptions configures the run command.
type RunOptions struct {
	Config    config.Config
	SessionID string
	Headless  bool
	Debug     bool
	// Columns is the strip width in terminal cells for interactive mode.
	Columns int
	Out     io.Writer
}

// Run opens a carousel and drives it until ctx is cancelled (or the user
// quits the interactive strip). In headless mode every settle is printed.
func Run(ctx context.Context, opts RunOptions) error {
	logger := CreateLogger(opts.Config.Log, opts.Debug)

	cfg := opts.Config
	if !opts.Headless {
		// One offset unit per terminal cell.
		columns := opts.Columns
		if columns <= 0 {
			columns = 60
		}
		cfg.Carousel.ContainerWidth = float64(columns)
		cfg.Carousel.ItemWidth = 0
	}

	// Settles may fire from timer goroutines before the model exists.
	var model atomic.Pointer[tui.Model]
	settles := make(chan int, 16)
	app, err := NewApp(ctx, cfg, logger, carousel.WithSettleHandler(func(l int) {
		if m := model.Load(); m != nil {
			m.Notify(l)
			return
		}
		select {
		case settles <- l:
		default:
		}
	}))
	if err != nil {
		return err
	}
	defer app.Close()

	c, err := app.Manager.Open(ctx, opts.SessionID)
	if err != nil {
		return fmt.Errorf("failed to open carousel: %w", err)
	}

	if opts.Headless {
		return runHeadless(ctx, app.Items, c, settles, opts.Out)
	}

	m := tui.NewModel(c, int(cfg.Carousel.ContainerWidth))
	model.Store(m)
	tui.PrintBanner(opts.Out)
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(opts.Out))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("interactive session failed: %w", err)
	}
	return nil
}

func runHeadless(ctx context.Context, items []domain.Item, c *carousel.Carousel, settles <-chan int, out io.Writer) error {
	snap := c.Snapshot()
	printSystemMessage(out, "Carousel '%s' active at item %d of %d.", snap.ID, snap.Logical+1, snap.Count)

	for {
		select {
		case <-ctx.Done():
			printSystemMessage(out, "Stopped at item %d.", c.Snapshot().Logical+1)
			return nil
		case l := <-settles:
			label := items[l].Label
			if label == "" {
				label = items[l].Key
			}
			fmt.Fprintf(out, "settled %d %s\n", l, label)
		}
	}
}

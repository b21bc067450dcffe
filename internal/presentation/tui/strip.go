package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/carousel"
	"github.com/aretw0/carousel/pkg/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// frameInterval is the redraw pace while the program runs.
const frameInterval = 16 * time.Millisecond

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2dd4bf"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3a3a3"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#737373")).Italic(true)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#facc15"))
)

// SettledMsg reports a settle on a logical index.
type SettledMsg struct{ Logical int }

type frameMsg time.Time

// Model is the bubbletea model of the interactive strip. The carousel
// must be laid out with a container width equal to View columns, so one
// offset unit maps onto one terminal cell.
type Model struct {
	carousel *carousel.Carousel
	settles  chan int
	columns  int

	settled  []int
	autoplay bool
	quitting bool
}

// NewModel builds the model for c, whose container is columns cells wide.
func NewModel(c *carousel.Carousel, columns int) *Model {
	return &Model{
		carousel: c,
		settles:  make(chan int, 16),
		columns:  columns,
		autoplay: c.Controller().Config().Autoplay,
	}
}

// Notify forwards a settle into the program. It is meant to be used as the
// carousel settle handler and never blocks.
func (m *Model) Notify(logical int) {
	select {
	case m.settles <- logical:
	default:
	}
}

// Settled returns the logical indexes settled on so far, in order.
func (m *Model) Settled() []int {
	return append([]int(nil), m.settled...)
}

func (m *Model) waitForSettle() tea.Cmd {
	return func() tea.Msg {
		return SettledMsg{Logical: <-m.settles}
	}
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// Init starts the frame ticker and the settle listener.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.waitForSettle())
}

// Update handles key presses, frames and settles.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case frameMsg:
		if m.quitting {
			return m, nil
		}
		return m, tick()
	case SettledMsg:
		m.settled = append(m.settled, msg.Logical)
		return m, m.waitForSettle()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	width := float64(m.columns)
	switch key := msg.String(); key {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return tea.Quit
	case "left", "h":
		m.swipe(0.6*width, 0)
	case "right", "l":
		m.swipe(-0.6*width, 0)
	case " ":
		// A short fast flick: the velocity carries it past half a stride.
		m.swipe(-0.1*width, -12*width)
	case "n":
		m.carousel.Next()
	case "p":
		m.carousel.Prev()
	case "a":
		m.autoplay = !m.autoplay
		m.carousel.SetAutoplay(m.autoplay)
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.carousel.Items()) {
				m.carousel.GoTo(i)
			}
		}
	}
	return nil
}

func (m *Model) swipe(translation, velocity float64) {
	m.carousel.TouchStart()
	m.carousel.GestureBegin()
	m.carousel.GestureMove(translation)
	m.carousel.GestureEnd(domain.GestureSample{Translation: translation, Velocity: velocity})
}

// View renders the visible window of the strip.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	b.WriteString(titleStyle.Render("carousel"))
	b.WriteString("\n")
	b.WriteString(frameStyle.Render(m.window()))
	b.WriteString("\n")

	snap := m.carousel.Snapshot()
	label := ""
	if item, ok := m.carousel.Current(); ok {
		label = item.Label
		if label == "" {
			label = item.Key
		}
	}
	status := fmt.Sprintf("item %d/%d %q  position %d  offset %.1f  autoplay %s",
		snap.Logical+1, snap.Count, label, snap.State.Position, snap.Offset, snap.Autoplay)
	if snap.State.IsThrottled {
		status += "  throttled"
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/→ swipe · space flick · n/p next/prev · 1-9 go to · a autoplay · q quit"))
	b.WriteString("\n")
	return b.String()
}

// window cuts the columns currently in view out of the full strip.
func (m *Model) window() string {
	stride := int(m.carousel.Controller().Config().Stride())
	if stride < 3 {
		stride = 3
	}
	var strip []rune
	for _, item := range m.carousel.PhysicalItems() {
		label := item.Label
		if label == "" {
			label = item.Key
		}
		cell := []rune(lipgloss.PlaceHorizontal(stride-1, lipgloss.Center, truncate(label, stride-1)))
		strip = append(strip, cell...)
		strip = append(strip, '│')
	}

	start := int(-m.carousel.VisibleOffset())
	out := make([]rune, m.columns)
	for i := range out {
		j := start + i
		if j >= 0 && j < len(strip) {
			out[i] = strip[j]
		} else {
			out[i] = ' '
		}
	}
	return string(out)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/carousel"
	"github.com/aretw0/carousel/internal/testutils"
	"github.com/aretw0/carousel/pkg/adapters/clock"
	"github.com/aretw0/carousel/pkg/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStrip(t *testing.T) (*Model, *testutils.StubAnimator) {
	t.Helper()
	cfg := domain.DefaultConfig()
	cfg.Autoplay = false
	cfg.ContainerWidth = 30
	stub := testutils.NewStubAnimator()

	var m *Model
	c := carousel.New(
		[]domain.Item{{Key: "a", Label: "Alpha"}, {Key: "b", Label: "Beta"}, {Key: "c", Label: "Gamma"}},
		carousel.WithConfig(cfg),
		carousel.WithClock(clock.NewManual(time.Unix(0, 0))),
		carousel.WithAnimator(stub),
		carousel.WithSettleHandler(func(logical int) { m.Notify(logical) }),
	)
	t.Cleanup(c.Close)
	m = NewModel(c, 30)
	c.Mount()
	return m, stub
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain feeds pending settles into the model like the program would.
func drain(m *Model) {
	for {
		select {
		case l := <-m.settles:
			m.Update(SettledMsg{Logical: l})
		default:
			return
		}
	}
}

func TestModel_SwipeAndNavigate(t *testing.T) {
	m, stub := newStrip(t)

	m.Update(key("right"))
	require.True(t, stub.Finish())
	drain(m)
	assert.Equal(t, []int{1}, m.Settled())
	assert.Contains(t, m.View(), `"Beta"`)

	m.Update(key("left"))
	require.True(t, stub.Finish())

	m.Update(key(" "))
	require.True(t, stub.Finish())

	m.Update(key("n"))
	require.True(t, stub.Finish())

	m.Update(key("p"))
	require.True(t, stub.Finish())

	m.Update(key("3"))
	require.True(t, stub.Finish())
	drain(m)

	assert.Equal(t, []int{1, 0, 1, 2, 1, 2}, m.Settled())

	// Out of range digits are ignored.
	m.Update(key("9"))
	assert.False(t, stub.Active())
}

func TestModel_AutoplayToggleAndQuit(t *testing.T) {
	m, _ := newStrip(t)

	m.Update(key("a"))
	assert.NotEqual(t, domain.AutoplayIdle, m.carousel.Snapshot().Autoplay)
	m.Update(key("a"))
	assert.Equal(t, domain.AutoplayIdle, m.carousel.Snapshot().Autoplay)

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestModel_Window(t *testing.T) {
	m, _ := newStrip(t)

	w := m.window()
	assert.Equal(t, 30, len([]rune(w)))
	assert.Contains(t, w, "Alpha")
	assert.True(t, strings.HasSuffix(w, "│"))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), `\___\__,_|`)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab…", truncate("abcd", 3))
	assert.Equal(t, "a", truncate("abcd", 1))
}

package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aretw0/carousel"
	"github.com/aretw0/carousel/internal/testutils"
	"github.com/aretw0/carousel/pkg/adapters/clock"
	"github.com/aretw0/carousel/pkg/adapters/memory"
	"github.com/aretw0/carousel/pkg/domain"
	"github.com/aretw0/carousel/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, loop bool) (*Server, *testutils.StubAnimator) {
	t.Helper()
	cfg := domain.DefaultConfig()
	cfg.Autoplay = false
	cfg.Loop = loop

	stub := testutils.NewStubAnimator()
	items := []domain.Item{{Key: "a", Label: "Alpha"}, {Key: "b", Label: "Beta"}, {Key: "c", Label: "Gamma"}}
	m := session.NewManager(items, memory.NewStore(), session.WithCarouselOptions(
		carousel.WithConfig(cfg),
		carousel.WithClock(clock.NewManual(time.Unix(0, 0))),
		carousel.WithAnimator(stub),
	))
	t.Cleanup(func() { m.Shutdown(context.Background()) })
	return NewServer(m), stub
}

func call(t *testing.T, s *Server, body string) map[string]any {
	t.Helper()
	resp := s.MCPServer().HandleMessage(context.Background(), json.RawMessage(body))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestServer_ListTools(t *testing.T) {
	s, _ := newTestServer(t, true)

	out := call(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	result, ok := out["result"].(map[string]any)
	require.True(t, ok, "unexpected response %v", out)

	var names []string
	for _, tool := range result["tools"].([]any) {
		names = append(names, tool.(map[string]any)["name"].(string))
	}
	assert.ElementsMatch(t, []string{
		"open_carousel", "get_state", "next", "prev", "goto", "swipe", "set_autoplay", "close_carousel",
	}, names)
}

func TestServer_ToolErrorForUnknownCarousel(t *testing.T) {
	s, _ := newTestServer(t, true)

	out := call(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"next","arguments":{"id":"missing"}}}`)
	result, ok := out["result"].(map[string]any)
	require.True(t, ok, "unexpected response %v", out)
	assert.Equal(t, true, result["isError"])
}

func TestServer_Navigation(t *testing.T) {
	s, stub := newTestServer(t, false)
	ctx := context.Background()

	opened, err := s.handleOpen(ctx, mcp.CallToolRequest{}, idArgs{ID: "hero"})
	require.NoError(t, err)
	assert.Equal(t, 0, opened.Snapshot.Logical)
	assert.Equal(t, "Alpha", opened.Current.Label)

	_, err = s.handleNext(ctx, mcp.CallToolRequest{}, idArgs{ID: "hero"})
	require.NoError(t, err)
	require.True(t, stub.Finish())

	st, err := s.handleState(ctx, mcp.CallToolRequest{}, idArgs{ID: "hero"})
	require.NoError(t, err)
	assert.Equal(t, 1, st.Snapshot.Logical)
	assert.Equal(t, "b", st.Current.Key)

	_, err = s.handlePrev(ctx, mcp.CallToolRequest{}, idArgs{ID: "hero"})
	require.NoError(t, err)
	require.True(t, stub.Finish())

	_, err = s.handleGoTo(ctx, mcp.CallToolRequest{}, gotoArgs{ID: "hero", Index: 2})
	require.NoError(t, err)
	require.True(t, stub.Finish())

	st, err = s.handleState(ctx, mcp.CallToolRequest{}, idArgs{ID: "hero"})
	require.NoError(t, err)
	assert.Equal(t, 2, st.Snapshot.Logical)

	_, err = s.handleGoTo(ctx, mcp.CallToolRequest{}, gotoArgs{ID: "hero", Index: 1.5})
	assert.Error(t, err)
	_, err = s.handleGoTo(ctx, mcp.CallToolRequest{}, gotoArgs{ID: "hero", Index: 3})
	assert.Error(t, err)
}

func TestServer_Swipe(t *testing.T) {
	s, stub := newTestServer(t, false)
	ctx := context.Background()

	_, err := s.handleOpen(ctx, mcp.CallToolRequest{}, idArgs{ID: "hero"})
	require.NoError(t, err)

	// Retreat at the first item re-settles on the committed offset.
	st, err := s.handleSwipe(ctx, mcp.CallToolRequest{}, swipeArgs{ID: "hero", Translation: 250})
	require.NoError(t, err)
	assert.Equal(t, 0, st.Snapshot.State.Position)
	require.True(t, stub.Finish())

	st, err = s.handleSwipe(ctx, mcp.CallToolRequest{}, swipeArgs{ID: "hero", Translation: -250, Velocity: -100})
	require.NoError(t, err)
	assert.True(t, st.Snapshot.Animating)
	require.True(t, stub.Finish())

	st, err = s.handleState(ctx, mcp.CallToolRequest{}, idArgs{ID: "hero"})
	require.NoError(t, err)
	assert.Equal(t, 1, st.Snapshot.Logical)
}

func TestServer_AutoplayAndClose(t *testing.T) {
	s, _ := newTestServer(t, true)
	ctx := context.Background()

	_, err := s.handleOpen(ctx, mcp.CallToolRequest{}, idArgs{ID: "hero"})
	require.NoError(t, err)

	st, err := s.handleAutoplay(ctx, mcp.CallToolRequest{}, autoplayArgs{ID: "hero", Enabled: true})
	require.NoError(t, err)
	assert.NotEqual(t, domain.AutoplayIdle, st.Snapshot.Autoplay)

	out := call(t, s, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"close_carousel","arguments":{"id":"hero"}}}`)
	result := out["result"].(map[string]any)
	assert.NotEqual(t, true, result["isError"])

	_, err = s.handleState(ctx, mcp.CallToolRequest{}, idArgs{ID: "hero"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestServer_Resources(t *testing.T) {
	s, _ := newTestServer(t, true)
	ctx := context.Background()
	_, err := s.handleOpen(ctx, mcp.CallToolRequest{}, idArgs{ID: "hero"})
	require.NoError(t, err)

	out := call(t, s, `{"jsonrpc":"2.0","id":4,"method":"resources/read","params":{"uri":"carousel://sessions"}}`)
	result, ok := out["result"].(map[string]any)
	require.True(t, ok, "unexpected response %v", out)
	contents := result["contents"].([]any)
	require.Len(t, contents, 1)
	assert.JSONEq(t, `["hero"]`, contents[0].(map[string]any)["text"].(string))

	out = call(t, s, `{"jsonrpc":"2.0","id":5,"method":"resources/read","params":{"uri":"carousel://sessions/hero"}}`)
	result, ok = out["result"].(map[string]any)
	require.True(t, ok, "unexpected response %v", out)
	text := result["contents"].([]any)[0].(map[string]any)["text"].(string)
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal([]byte(text), &snap))
	assert.Equal(t, "hero", snap.ID)
}

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/carousel"
	"github.com/aretw0/carousel/internal/logging"
	"github.com/aretw0/carousel/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	sessionsURI        = "carousel://sessions"
	sessionTemplateURI = "carousel://sessions/{id}"
)

// StateResponse is the structured result of every carousel tool.
type StateResponse struct {
	Snapshot *domain.Snapshot `json:"snapshot" jsonschema_description:"Value copy of the carousel state"`
	Current  *domain.Item     `json:"current,omitempty" jsonschema_description:"The item the carousel rests on, or is heading to"`
}

// Sessions is the part of session.Manager exposed as tools.
type Sessions interface {
	Open(ctx context.Context, id string) (*carousel.Carousel, error)
	Get(id string) (*carousel.Carousel, error)
	Close(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
}

// Server exposes hosted carousels as an MCP Server.
type Server struct {
	sessions  Sessions
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(sessions Sessions, opts ...Option) *Server {
	s := &Server{
		sessions: sessions,
		logger:   logging.NewNop(),
		mcpServer: server.NewMCPServer("carousel-mcp", strings.TrimSpace(carousel.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves on the given port using SSE until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type idArgs struct {
	ID string `json:"id"`
}

type gotoArgs struct {
	ID    string  `json:"id"`
	Index float64 `json:"index"`
}

type swipeArgs struct {
	ID          string  `json:"id"`
	Translation float64 `json:"translation"`
	Velocity    float64 `json:"velocity"`
}

type autoplayArgs struct {
	ID      string `json:"id"`
	Enabled bool   `json:"enabled"`
}

func (s *Server) registerTools() {
	idParam := mcp.WithString("id", mcp.Required(), mcp.Description("Carousel session ID"))

	s.mcpServer.AddTool(mcp.NewTool("open_carousel",
		mcp.WithDescription("Open a carousel, resuming at its stored item. A new ID is generated when omitted."),
		mcp.WithString("id", mcp.Description("Carousel session ID (optional)")),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleOpen))

	s.mcpServer.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Read the current snapshot of a carousel."),
		idParam,
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleState))

	s.mcpServer.AddTool(mcp.NewTool("next",
		mcp.WithDescription("Animate to the next item. A no-op on the last item of a non-looping carousel."),
		idParam,
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleNext))

	s.mcpServer.AddTool(mcp.NewTool("prev",
		mcp.WithDescription("Animate to the previous item. A no-op on the first item of a non-looping carousel."),
		idParam,
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handlePrev))

	s.mcpServer.AddTool(mcp.NewTool("goto",
		mcp.WithDescription("Animate to a logical item index."),
		idParam,
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based logical index")),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleGoTo))

	s.mcpServer.AddTool(mcp.NewTool("swipe",
		mcp.WithDescription("Perform a complete drag: begin, then release with the given translation and velocity. Negative values swipe toward the next item."),
		idParam,
		mcp.WithNumber("translation", mcp.Required(), mcp.Description("Horizontal drag distance at release")),
		mcp.WithNumber("velocity", mcp.Description("Horizontal velocity at release")),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleSwipe))

	s.mcpServer.AddTool(mcp.NewTool("set_autoplay",
		mcp.WithDescription("Enable or disable autoplay."),
		idParam,
		mcp.WithBoolean("enabled", mcp.Required()),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleAutoplay))

	s.mcpServer.AddTool(mcp.NewTool("close_carousel",
		mcp.WithDescription("Persist the position of a carousel and close it."),
		idParam,
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := s.sessions.Close(ctx, id); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("close failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("closed %s", id)), nil
	})
}

func state(c *carousel.Carousel) StateResponse {
	resp := StateResponse{Snapshot: c.Snapshot()}
	if item, ok := c.Current(); ok {
		resp.Current = &item
	}
	return resp
}

func (s *Server) get(id string) (*carousel.Carousel, error) {
	if id == "" {
		return nil, errors.New("id is required")
	}
	c, err := s.sessions.Get(id)
	if err != nil {
		return nil, fmt.Errorf("carousel %q: %w", id, err)
	}
	return c, nil
}

func (s *Server) handleOpen(ctx context.Context, _ mcp.CallToolRequest, args idArgs) (StateResponse, error) {
	c, err := s.sessions.Open(ctx, args.ID)
	if err != nil {
		return StateResponse{}, fmt.Errorf("open failed: %w", err)
	}
	return state(c), nil
}

func (s *Server) handleState(_ context.Context, _ mcp.CallToolRequest, args idArgs) (StateResponse, error) {
	c, err := s.get(args.ID)
	if err != nil {
		return StateResponse{}, err
	}
	return state(c), nil
}

func (s *Server) handleNext(_ context.Context, _ mcp.CallToolRequest, args idArgs) (StateResponse, error) {
	c, err := s.get(args.ID)
	if err != nil {
		return StateResponse{}, err
	}
	c.Next()
	return state(c), nil
}

func (s *Server) handlePrev(_ context.Context, _ mcp.CallToolRequest, args idArgs) (StateResponse, error) {
	c, err := s.get(args.ID)
	if err != nil {
		return StateResponse{}, err
	}
	c.Prev()
	return state(c), nil
}

func (s *Server) handleGoTo(_ context.Context, _ mcp.CallToolRequest, args gotoArgs) (StateResponse, error) {
	c, err := s.get(args.ID)
	if err != nil {
		return StateResponse{}, err
	}
	index := int(args.Index)
	if float64(index) != args.Index || index < 0 || index >= len(c.Items()) {
		return StateResponse{}, fmt.Errorf("index %v out of range [0, %d)", args.Index, len(c.Items()))
	}
	c.GoTo(index)
	return state(c), nil
}

func (s *Server) handleSwipe(_ context.Context, _ mcp.CallToolRequest, args swipeArgs) (StateResponse, error) {
	c, err := s.get(args.ID)
	if err != nil {
		return StateResponse{}, err
	}
	c.GestureBegin()
	c.GestureMove(args.Translation)
	c.GestureEnd(domain.GestureSample{Translation: args.Translation, Velocity: args.Velocity})
	s.logger.Debug("MCP swipe", "carousel_id", args.ID, "translation", args.Translation, "velocity", args.Velocity)
	return state(c), nil
}

func (s *Server) handleAutoplay(_ context.Context, _ mcp.CallToolRequest, args autoplayArgs) (StateResponse, error) {
	c, err := s.get(args.ID)
	if err != nil {
		return StateResponse{}, err
	}
	c.SetAutoplay(args.Enabled)
	return state(c), nil
}

func (s *Server) registerResources() {
	// EXPOSE: carousel://sessions
	s.mcpServer.AddResource(mcp.NewResource(sessionsURI, "Carousel Sessions",
		mcp.WithResourceDescription("IDs of every live or stored carousel"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.sessions.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}
		jsonBytes, _ := json.Marshal(ids)
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      sessionsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	// EXPOSE: carousel://sessions/{id}
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(sessionTemplateURI, "Carousel Snapshot",
		mcp.WithTemplateDescription("Snapshot of one live carousel"),
		mcp.WithTemplateMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := strings.TrimPrefix(request.Params.URI, sessionsURI+"/")
		c, err := s.get(id)
		if err != nil {
			return nil, err
		}
		jsonBytes, _ := json.Marshal(c.Snapshot())
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

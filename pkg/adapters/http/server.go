package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/carousel"
	"github.com/aretw0/carousel/internal/logging"
	"github.com/aretw0/carousel/pkg/domain"
	"github.com/aretw0/carousel/pkg/session"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sessions is the part of session.Manager the API drives.
type Sessions interface {
	Open(ctx context.Context, id string) (*carousel.Carousel, error)
	Get(id string) (*carousel.Carousel, error)
	Close(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
	Observe(fn session.Observer)
}

// Server serves the carousel REST API.
type Server struct {
	Sessions Sessions
	Streams  *StreamManager

	spec     *openapi3.T
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// HandlerOption configures the handler built by NewHandler.
type HandlerOption func(*Server)

// WithMetrics exposes g at /metrics.
func WithMetrics(g prometheus.Gatherer) HandlerOption {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger configures the request logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler builds the HTTP handler over sessions. It subscribes to
// sessions so that every change reaches the SSE streams.
func NewHandler(sessions Sessions, opts ...HandlerOption) (http.Handler, error) {
	server := &Server{
		Sessions: sessions,
		logger:   logging.NewNop(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(server)
	}

	spec, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}
	server.spec = spec
	server.Streams = NewStreamManager(server.logger)
	sessions.Observe(server.Streams.Observe)

	r := chi.NewRouter()
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	if server.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)

	r.Route("/carousels", func(r chi.Router) {
		r.Get("/", server.ListCarousels)
		r.Post("/", server.OpenCarousel)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", server.GetCarousel)
			r.Delete("/", server.CloseCarousel)
			r.Post("/gesture", server.SubmitGesture)
			r.Post("/next", server.Next)
			r.Post("/prev", server.Prev)
			r.Post("/goto", server.GoTo)
			r.Post("/layout", server.ReportLayout)
			r.Post("/autoplay", server.SetAutoplay)
			r.Get("/events", server.SubscribeEvents)
			r.Get("/live", server.Live)
		})
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "carousel-http",
		"version":     strings.TrimSpace(carousel.Version),
		"api_version": apiVersion,
	})
}

// ListCarousels handles the GET /carousels request.
func (s *Server) ListCarousels(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"ids": ids})
}

type openRequest struct {
	ID string `json:"id"`
}

// OpenCarousel handles the POST /carousels request.
func (s *Server) OpenCarousel(w http.ResponseWriter, r *http.Request) {
	var body openRequest
	if err := decodeBody(r, &body, true); err != nil {
		s.badRequest(w, err)
		return
	}
	c, err := s.Sessions.Open(r.Context(), body.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c.Snapshot())
}

// GetCarousel handles the GET /carousels/{id} request.
func (s *Server) GetCarousel(w http.ResponseWriter, r *http.Request) {
	c, ok := s.carousel(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c.Snapshot())
}

// CloseCarousel handles the DELETE /carousels/{id} request.
func (s *Server) CloseCarousel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	if err := s.Sessions.Close(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type gestureRequest struct {
	Phase       string  `json:"phase"`
	Translation float64 `json:"translation"`
	Velocity    float64 `json:"velocity"`
}

// SubmitGesture handles the POST /carousels/{id}/gesture request.
func (s *Server) SubmitGesture(w http.ResponseWriter, r *http.Request) {
	c, ok := s.carousel(w, r)
	if !ok {
		return
	}
	var body gestureRequest
	if err := decodeBody(r, &body, false); err != nil {
		s.badRequest(w, err)
		return
	}
	phase, err := domain.ParseGesturePhase(body.Phase)
	if err != nil {
		s.writeError(w, err)
		return
	}

	switch phase {
	case domain.GestureBegin:
		c.GestureBegin()
	case domain.GestureActive:
		c.GestureMove(body.Translation)
	case domain.GestureEnd:
		c.GestureEnd(domain.GestureSample{Translation: body.Translation, Velocity: body.Velocity})
	}
	writeJSON(w, http.StatusOK, c.Snapshot())
}

// Next handles the POST /carousels/{id}/next request.
func (s *Server) Next(w http.ResponseWriter, r *http.Request) {
	c, ok := s.carousel(w, r)
	if !ok {
		return
	}
	c.Next()
	writeJSON(w, http.StatusOK, c.Snapshot())
}

// Prev handles the POST /carousels/{id}/prev request.
func (s *Server) Prev(w http.ResponseWriter, r *http.Request) {
	c, ok := s.carousel(w, r)
	if !ok {
		return
	}
	c.Prev()
	writeJSON(w, http.StatusOK, c.Snapshot())
}

// GoTo handles the POST /carousels/{id}/goto?index=N request.
func (s *Server) GoTo(w http.ResponseWriter, r *http.Request) {
	c, ok := s.carousel(w, r)
	if !ok {
		return
	}
	var index int
	if err := runtime.BindQueryParameter("form", true, true, "index", r.URL.Query(), &index); err != nil {
		s.badRequest(w, err)
		return
	}
	if index < 0 || index >= len(c.Items()) {
		s.badRequest(w, fmt.Errorf("index %d out of range [0, %d)", index, len(c.Items())))
		return
	}
	c.GoTo(index)
	writeJSON(w, http.StatusOK, c.Snapshot())
}

type layoutRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Resize bool    `json:"resize"`
}

// ReportLayout handles the POST /carousels/{id}/layout request.
func (s *Server) ReportLayout(w http.ResponseWriter, r *http.Request) {
	c, ok := s.carousel(w, r)
	if !ok {
		return
	}
	var body layoutRequest
	if err := decodeBody(r, &body, false); err != nil {
		s.badRequest(w, err)
		return
	}
	if body.Width <= 0 {
		s.badRequest(w, errors.New("width must be positive"))
		return
	}
	if body.Resize {
		c.Resize(body.Width)
	} else {
		c.Layout(body.Width, body.Height)
	}
	writeJSON(w, http.StatusOK, c.Snapshot())
}

type autoplayRequest struct {
	Enabled *bool `json:"enabled"`
}

// SetAutoplay handles the POST /carousels/{id}/autoplay request.
func (s *Server) SetAutoplay(w http.ResponseWriter, r *http.Request) {
	c, ok := s.carousel(w, r)
	if !ok {
		return
	}
	var body autoplayRequest
	if err := decodeBody(r, &body, false); err != nil {
		s.badRequest(w, err)
		return
	}
	if body.Enabled == nil {
		s.badRequest(w, errors.New("enabled is required"))
		return
	}
	c.SetAutoplay(*body.Enabled)
	writeJSON(w, http.StatusOK, c.Snapshot())
}

// -- Helpers --

func pathID(r *http.Request) (string, error) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath})
	if err != nil {
		return "", err
	}
	return id, nil
}

// carousel resolves the {id} path parameter, writing the error response
// itself when it fails.
func (s *Server) carousel(w http.ResponseWriter, r *http.Request) (*carousel.Carousel, bool) {
	id, err := pathID(r)
	if err != nil {
		s.badRequest(w, err)
		return nil, false
	}
	c, err := s.Sessions.Get(id)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return c, true
}

func decodeBody(r *http.Request, dst any, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if optional && errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrPositionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidGesture):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "err", err)
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func (s *Server) badRequest(w http.ResponseWriter, err error) {
	s.logger.Warn("Rejected request", "err", err)
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/aretw0/tabula"
	"github.com/aretw0/tabula/internal/logging"
	"github.com/aretw0/tabula/internal/presentation/graph"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/fsm"
)

// Engine defines the part of the Tabula engine the server exposes.
type Engine interface {
	Validate(ctx context.Context, machine, input string) (domain.Result, error)
	Machines() []string
	Machine(name string) (*fsm.Machine, error)
}

// Server serves validation requests over HTTP.
type Server struct {
	Engine       Engine
	Logger       *slog.Logger
	apiVersion   string
	maxBodyBytes int64
	limiter      *ipRateLimiter
	metrics      http.Handler
}

// Option configures the HTTP server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithRateLimit limits every client address to r requests per second with the given burst.
func WithRateLimit(r float64, burst int) Option {
	return func(s *Server) {
		if r > 0 {
			s.limiter = newIPRateLimiter(rate.Limit(r), burst)
		}
	}
}

// envelopeBytes covers the JSON around the input in a validate request.
const envelopeBytes = 1024

// WithMaxBodyBytes bounds the size of request bodies.
// Non-positive values keep the default of 1 MiB.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithInputLimit sizes the body limit for inputs of at most n bytes, leaving
// room for JSON escapes (up to six bytes per input byte) and the envelope.
// Zero means the engine does not limit inputs; the default body limit stays.
func WithInputLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = 6*int64(n) + envelopeBytes
		}
	}
}

// WithMetricsHandler mounts h on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// MachineSummary is the listing entry of a machine.
type MachineSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	States      int      `json:"states"`
	Columns     []string `json:"columns"`
}

type validateRequest struct {
	Machine string  `json:"machine"`
	Input   *string `json:"input"`
}

// NewHandler creates a new HTTP handler for the engine.
// It fails if the embedded API description does not validate.
func NewHandler(engine Engine, opts ...Option) (http.Handler, error) {
	doc, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}

	s := &Server{
		Engine:       engine,
		apiVersion:   doc.Info.Version,
		maxBodyBytes: 1 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		s.Logger = logging.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Group(func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.middleware)
		}
		r.Post("/validate", s.Validate)
		r.Get("/machines", s.ListMachines)
		r.Get("/machines/{name}", s.GetMachine)
		r.Get("/machines/{name}/graph", s.GetMachineGraph)
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Validate handles the POST /validate request.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	var body validateRequest
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		s.Logger.Warn("Validate: Invalid request body", "error", err)
		return
	}
	if body.Machine == "" || body.Input == nil {
		writeError(w, http.StatusBadRequest, "machine and input are required")
		return
	}

	res, err := s.Engine.Validate(r.Context(), body.Machine, *body.Input)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListMachines handles the GET /machines request.
func (s *Server) ListMachines(w http.ResponseWriter, r *http.Request) {
	names := s.Engine.Machines()
	out := make([]MachineSummary, 0, len(names))
	for _, name := range names {
		m, err := s.Engine.Machine(name)
		if err != nil {
			continue // removed since listing
		}
		table := m.Table()
		cols := make([]string, 0, table.NumColumns())
		for _, c := range table.Columns() {
			cols = append(cols, table.ColumnName(c))
		}
		out = append(out, MachineSummary{
			Name:        name,
			Description: table.Description(),
			States:      table.NumStates(),
			Columns:     cols,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// GetMachine handles the GET /machines/{name} request.
func (s *Server) GetMachine(w http.ResponseWriter, r *http.Request) {
	m, err := s.Engine.Machine(chi.URLParam(r, "name"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m.Table().Definition())
}

// GetMachineGraph handles the GET /machines/{name}/graph request.
func (s *Server) GetMachineGraph(w http.ResponseWriter, r *http.Request) {
	m, err := s.Engine.Machine(chi.URLParam(r, "name"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	hideSink := strings.EqualFold(r.URL.Query().Get("hide_sink"), "true")

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(m.Table(), graph.Options{HideSink: hideSink}))
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "tabula-http",
		"version":     strings.TrimSpace(tabula.Version),
		"api_version": s.apiVersion,
	})
}

func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownMachine):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInputTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
		s.Logger.Error("Validate failed", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

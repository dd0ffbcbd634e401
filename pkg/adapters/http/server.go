// Package http exposes compiled definitions over a read-only HTTP API.
package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/aretw0/lexfsm/internal/compiler"
	"github.com/aretw0/lexfsm/internal/presentation/graph"
	"github.com/aretw0/lexfsm/internal/runtime"
	"github.com/aretw0/lexfsm/pkg/domain"
	"github.com/aretw0/lexfsm/pkg/lexer"
	"github.com/aretw0/lexfsm/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxInputBytes bounds the body of a tokenize request.
const maxInputBytes = 1 << 20

// Definitions is the read side of a registry.
type Definitions interface {
	Get(name string) (*domain.Definition, bool)
	Names() []string
}

// Server serves the API routes.
type Server struct {
	Definitions Definitions
	Streams     *StreamManager
	Metrics     *observability.Metrics
	Gatherer    prometheus.Gatherer
	Logger      *slog.Logger
	Version     string
}

// Option configures a Server.
type Option func(*Server)

// WithStreams sets the manager behind GET /events.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithMetrics records engine metrics and serves gatherer on GET /metrics.
func WithMetrics(m *observability.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Metrics = m
		s.Gatherer = gatherer
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = v
	}
}

// NewHandler creates a new HTTP handler for the definitions.
func NewHandler(defs Definitions, opts ...Option) http.Handler {
	server := &Server{
		Definitions: defs,
		Streams:     NewStreamManager(),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Version:     "dev",
	}
	for _, opt := range opts {
		opt(server)
	}
	return server.Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/events", s.SubscribeEvents)

	r.Route("/definitions", func(r chi.Router) {
		r.Get("/", s.ListDefinitions)
		r.Get("/{name}", s.GetDefinition)
		r.Get("/{name}/graph", s.GetGraph)
		r.Post("/{name}/tokenize", s.Tokenize)
	})

	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
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

// DefinitionSummary is an entry of GET /definitions.
type DefinitionSummary struct {
	Name    string `json:"name"`
	States  int    `json:"states"`
	Symbols int    `json:"symbols"`
	Start   string `json:"start"`
}

// StateView is a state of GET /definitions/{name}.
type StateView struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Kind      string   `json:"kind"`
	Fallback  int      `json:"fallback"`
	Callbacks []string `json:"callbacks"`
	Row       []int    `json:"row,omitempty"`
	Chain     *int     `json:"chain,omitempty"`
}

// DefinitionView is the body of GET /definitions/{name}.
type DefinitionView struct {
	Name    string      `json:"name"`
	Start   int         `json:"start"`
	Symbols []string    `json:"symbols"`
	States  []StateView `json:"states"`
}

// TokenizeRequest is the JSON body of POST /definitions/{name}/tokenize.
// Plain text bodies are tokenized as is.
type TokenizeRequest struct {
	Input         string `json:"input"`
	IgnoreUnknown bool   `json:"ignore_unknown"`
}

// TokenizeResponse is the body of POST /definitions/{name}/tokenize.
type TokenizeResponse struct {
	RunID      string        `json:"run_id"`
	Definition string        `json:"definition"`
	Tokens     []lexer.Token `json:"tokens"`
	Error      string        `json:"error,omitempty"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "lexfsm-http",
		"version": s.Version,
	})
}

// ListDefinitions handles the GET /definitions request.
func (s *Server) ListDefinitions(w http.ResponseWriter, r *http.Request) {
	names := s.Definitions.Names()
	out := make([]DefinitionSummary, 0, len(names))
	for _, name := range names {
		def, ok := s.Definitions.Get(name)
		if !ok {
			continue
		}
		out = append(out, DefinitionSummary{
			Name:    name,
			States:  def.NumStates(),
			Symbols: def.NumSymbols(),
			Start:   def.StateName(def.Start()),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetDefinition handles the GET /definitions/{name} request.
// With ?format=text it returns the canonical text description.
func (s *Server) GetDefinition(w http.ResponseWriter, r *http.Request) {
	def, ok := s.lookup(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("format") == "text" {
		var buf bytes.Buffer
		if err := compiler.EncodeText(&buf, def); err != nil {
			s.writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
		return
	}

	view := DefinitionView{
		Name:    def.Name(),
		Start:   def.Start(),
		Symbols: def.Symbols(),
		States:  make([]StateView, def.NumStates()),
	}
	for id, st := range def.States() {
		sv := StateView{
			ID:        id,
			Name:      st.Name,
			Kind:      string(st.Row.Kind()),
			Fallback:  st.Fallback,
			Callbacks: st.Callbacks,
		}
		if sv.Callbacks == nil {
			sv.Callbacks = []string{}
		}
		switch row := st.Row.(type) {
		case domain.ListRow:
			sv.Row = row
		case domain.NullRow:
			sv.Chain = &row.Target
		}
		view.States[id] = sv
	}
	s.writeJSON(w, http.StatusOK, view)
}

// GetGraph handles the GET /definitions/{name}/graph request.
// ?current=<id> highlights a state.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	def, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var overlay *graph.GraphOverlay
	if current := r.URL.Query().Get("current"); current != "" {
		id, err := strconv.Atoi(current)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid current state %q", current))
			return
		}
		overlay = &graph.GraphOverlay{CurrentState: id}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, graph.GenerateMermaid(def, overlay))
}

// Tokenize handles the POST /definitions/{name}/tokenize request.
func (s *Server) Tokenize(w http.ResponseWriter, r *http.Request) {
	def, ok := s.lookup(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxInputBytes))
	if err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	req := TokenizeRequest{Input: string(body)}
	if isJSON(r) {
		req = TokenizeRequest{}
		if err := json.Unmarshal(body, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
			return
		}
	}
	if r.URL.Query().Get("ignore_unknown") == "true" {
		req.IgnoreUnknown = true
	}

	var engineOpts []runtime.EngineOption
	if s.Metrics != nil {
		engineOpts = append(engineOpts, runtime.WithLifecycleHooks(s.Metrics.Hooks()))
	}
	var lexOpts []lexer.Option
	if req.IgnoreUnknown {
		lexOpts = append(lexOpts, lexer.WithIgnoreUnknown())
	}
	lx := lexer.New(runtime.NewEngine(def, engineOpts...), lexOpts...)

	resp := TokenizeResponse{
		RunID:      uuid.NewString(),
		Definition: def.Name(),
		Tokens:     []lexer.Token{},
	}
	err = lx.Run(r.Context(), bytes.NewReader([]byte(req.Input)), func(tok lexer.Token) bool {
		resp.Tokens = append(resp.Tokens, tok)
		if s.Metrics != nil {
			s.Metrics.ObserveToken(def.Name(), tok.Type)
		}
		return true
	})

	status := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		status = http.StatusUnprocessableEntity
		if errors.Is(err, r.Context().Err()) {
			status = http.StatusServiceUnavailable
		}
		s.Logger.Warn("tokenize failed", "definition", def.Name(), "run_id", resp.RunID, "err", err)
	}
	s.Logger.Debug("tokenized", "definition", def.Name(), "run_id", resp.RunID, "tokens", len(resp.Tokens))
	s.writeJSON(w, status, resp)
}

// isJSON reports whether the request body is JSON, ignoring media type parameters.
func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*domain.Definition, bool) {
	name := chi.URLParam(r, "name")
	def, ok := s.Definitions.Get(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", domain.ErrDescriptionNotFound, name))
		return nil, false
	}
	return def, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-tailor/internal/compiler"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/rules"
	"github.com/jonathan/resume-tailor/internal/scoring"
	"github.com/jonathan/resume-tailor/internal/tailoring"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies; a résumé with analysis is well under this
const maxBodyBytes = 2 << 20

// RunStore is the persistence the server needs
type RunStore interface {
	SaveRun(ctx context.Context, result *types.HybridTailorResult) (uuid.UUID, error)
	SaveFailure(ctx context.Context, resumeID, jobID, stage, message string) (uuid.UUID, error)
	GetRun(ctx context.Context, id uuid.UUID) (*db.Run, error)
	ListRuns(ctx context.Context, resumeID string, limit int) ([]db.RunSummary, error)
}

// Config holds server configuration
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigin   string
}

// Deps are the components behind the routes. Engine is required; a nil Tailor
// or Store turns the routes that need them into 503 responses.
type Deps struct {
	Engine   *rules.Engine
	Compiler *compiler.Compiler
	Scorer   *scoring.Scorer
	Tailor   *tailoring.Tailor
	Store    RunStore
	Metrics  *observability.Metrics
	Logger   zerolog.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	engine     *rules.Engine
	compiler   *compiler.Compiler
	scorer     *scoring.Scorer
	tailor     *tailoring.Tailor
	store      RunStore
	metrics    *observability.Metrics
	corsOrigin string
	logger     zerolog.Logger
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Engine == nil {
		return nil, fmt.Errorf("rule engine is required")
	}

	s := &Server{
		engine:     deps.Engine,
		compiler:   deps.Compiler,
		scorer:     deps.Scorer,
		tailor:     deps.Tailor,
		store:      deps.Store,
		metrics:    deps.Metrics,
		corsOrigin: cfg.CORSOrigin,
		logger:     deps.Logger.With().Str("component", "server").Logger(),
	}
	if s.compiler == nil {
		s.compiler = compiler.New(deps.Logger)
	}
	if s.scorer == nil {
		s.scorer = scoring.DefaultScorer()
	}
	if s.corsOrigin == "" {
		s.corsOrigin = "*"
	}

	readTimeout, writeTimeout := cfg.ReadTimeout, cfg.WriteTimeout
	if readTimeout <= 0 {
		readTimeout = 30 * time.Second
	}
	if writeTimeout <= 0 {
		writeTimeout = 3 * time.Minute // tailoring waits on the model
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Deterministic core
	mux.HandleFunc("GET /v1/rules", s.handleListRules)
	mux.HandleFunc("POST /v1/rules/evaluate", s.handleEvaluateRules)
	mux.HandleFunc("POST /v1/instructions/compile", s.handleCompile)
	mux.HandleFunc("POST /v1/score", s.handleScore)
	mux.HandleFunc("POST /v1/score/compare", s.handleCompare)

	// LLM-backed pipeline
	mux.HandleFunc("POST /v1/tailor", s.handleTailor)

	// Stored runs
	mux.HandleFunc("GET /v1/runs", s.handleListRuns)
	mux.HandleFunc("GET /v1/runs/{id}", s.handleGetRun)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	return s.withLogging(s.withCORS(mux))
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("Server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info().Msg("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		event := s.logger.Info()
		if rec.status >= http.StatusInternalServerError {
			event = s.logger.Error()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("Request handled")
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"rules":     len(s.engine.Rules()),
		"tailoring": s.tailor != nil,
		"storage":   s.store != nil,
	})
}

// decode reads a JSON body into dst
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("Error encoding JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail maps err to a status and writes it
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Int("status", status).Msg("Request failed")
	}
	s.errorResponse(w, status, err.Error())
}

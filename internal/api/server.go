// Package api serves secret generation over HTTP.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MJE43/session-secret-go/internal/bindings"
	"github.com/MJE43/session-secret-go/internal/charset"
	"github.com/MJE43/session-secret-go/internal/engine"
	"github.com/MJE43/session-secret-go/internal/logger"
	"github.com/MJE43/session-secret-go/internal/version"
)

// TokenSource supplies the bearer token expected by BearerAuthMiddleware.
type TokenSource interface {
	Get() (string, error)
}

// Server handles HTTP requests
type Server struct {
	app            *bindings.App
	src            *engine.Source
	tokens         TokenSource
	errorHandler   *ErrorHandler
	logger         *slog.Logger
	securityLogger *SecurityLogger
	metrics        *opMetrics
	startTime      time.Time
	timeout        time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithTokenSource requires a bearer token on every /api/v1 route.
func WithTokenSource(ts TokenSource) Option {
	return func(s *Server) { s.tokens = ts }
}

// WithSource sets the random source probed by the health checks.
func WithSource(src *engine.Source) Option {
	return func(s *Server) { s.src = src }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// NewServer creates a new API server
func NewServer(app *bindings.App, opts ...Option) *Server {
	s := &Server{
		app:       app,
		src:       engine.Default(),
		logger:    logger.Default(),
		metrics:   newOpMetrics(),
		startTime: time.Now(),
		timeout:   60 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.securityLogger = NewSecurityLogger(s.logger)
	s.errorHandler = NewErrorHandler(s.logger, s.securityLogger)

	s.securityLogger.LogSystemStartup(map[string]interface{}{
		"classes_available": len(charset.All()),
		"database_enabled":  app.Store() != nil,
		"token_required":    s.tokens != nil,
	})

	return s
}

// Routes sets up the HTTP routes with proper middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.SecurityLoggingMiddleware)
	r.Use(s.errorHandler.RecoveryHandler)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(s.CORSMiddleware)

	r.Get("/health", s.handleHealthCheck)
	r.Get("/health/ready", s.handleReadiness)
	r.Get("/health/live", s.handleLiveness)
	r.Get("/metrics", s.handleMetrics)

	r.Route("/api/v1", func(r chi.Router) {
		if s.tokens != nil {
			r.Use(s.BearerAuthMiddleware)
		}

		r.Get("/classes", s.handleListClasses)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)

		r.Group(func(r chi.Router) {
			r.Use(NoStoreMiddleware)
			r.Post("/generate", s.handleGenerate)
			r.Post("/trust", s.handleTrust)
		})
	})

	return r
}

// writeJSON writes a JSON response with proper headers
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Engine-Version", version.EngineVersion)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("response_encode_failed", "error", err)
	}
}

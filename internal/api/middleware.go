package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MJE43/session-secret-go/internal/authtoken"
	"github.com/MJE43/session-secret-go/internal/logger"
	"github.com/MJE43/session-secret-go/internal/version"
)

// SecurityLoggingMiddleware logs requests without exposing sensitive data
func (s *Server) SecurityLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		r = r.WithContext(logger.WithContext(r.Context(), s.logger.With("request_id", requestID)))

		s.logger.Debug("request_start",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestID,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		s.metrics.record(r.Method+" "+route, ww.Status(), duration)

		s.logger.Info("request_completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", duration,
			"request_id", requestID,
			"bytes_written", ww.BytesWritten(),
			"engine_version", version.EngineVersion,
		)
	})
}

// CORSMiddleware handles CORS headers for browser clients
func (s *Server) CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NoStoreMiddleware keeps secret-bearing responses out of caches
func NoStoreMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		next.ServeHTTP(w, r)
	})
}

// BearerAuthMiddleware requires "Authorization: Bearer <token>" matching the
// token currently held by the token source.
func (s *Server) BearerAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expected, err := s.tokens.Get()
		if err != nil {
			if errors.Is(err, authtoken.ErrNoToken) {
				s.errorHandler.HandleError(w, r,
					NewError(ErrTypeServiceUnavailable, "API token is required but none is configured").
						WithRequestID(middleware.GetReqID(r.Context())).
						Build(),
					http.StatusServiceUnavailable)
				return
			}
			s.errorHandler.HandleError(w, r, err, http.StatusInternalServerError)
			return
		}

		header := r.Header.Get("Authorization")
		given, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || given == "" {
			s.errorHandler.HandleUnauthorized(w, r, "missing bearer token")
			return
		}
		if subtle.ConstantTimeCompare([]byte(given), []byte(expected)) != 1 {
			s.errorHandler.HandleUnauthorized(w, r, "token mismatch")
			return
		}

		next.ServeHTTP(w, r)
	})
}

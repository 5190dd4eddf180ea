package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MJE43/session-secret-go/internal/bindings"
	"github.com/MJE43/session-secret-go/internal/charset"
	"github.com/MJE43/session-secret-go/internal/logger"
	"github.com/MJE43/session-secret-go/internal/secret"
	"github.com/MJE43/session-secret-go/internal/store"
	"github.com/MJE43/session-secret-go/internal/version"
)

// ErrorBuilder helps construct structured errors with context
type ErrorBuilder struct {
	errType   string
	message   string
	context   map[string]interface{}
	requestID string
	cause     error
}

// NewError creates a new error builder
func NewError(errType, message string) *ErrorBuilder {
	return &ErrorBuilder{
		errType: errType,
		message: message,
		context: make(map[string]interface{}),
	}
}

// WithContext adds context information to the error
func (eb *ErrorBuilder) WithContext(key string, value interface{}) *ErrorBuilder {
	eb.context[key] = value
	return eb
}

// WithRequestID adds request ID to the error
func (eb *ErrorBuilder) WithRequestID(requestID string) *ErrorBuilder {
	eb.requestID = requestID
	return eb
}

// WithCause adds the underlying cause error
func (eb *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	eb.cause = err
	if err != nil {
		eb.context["cause"] = err.Error()
	}
	return eb
}

// Build creates the final EngineError
func (eb *ErrorBuilder) Build() EngineError {
	return EngineError{
		Type:      eb.errType,
		Message:   eb.message,
		Context:   eb.context,
		RequestID: eb.requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ErrorHandler provides centralized error handling with logging
type ErrorHandler struct {
	logger         *slog.Logger
	securityLogger *SecurityLogger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, securityLogger *SecurityLogger) *ErrorHandler {
	return &ErrorHandler{
		logger:         logger,
		securityLogger: securityLogger,
	}
}

// HandleError maps err onto a status and error type and writes the response.
// Errors that are already an EngineError are written with defaultStatus.
func (eh *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error, defaultStatus int) {
	requestID := middleware.GetReqID(r.Context())

	var engineErr EngineError
	if errors.As(err, &engineErr) {
		eh.logError(r, engineErr, defaultStatus)
		eh.writeErrorResponse(w, defaultStatus, engineErr)
		return
	}

	status, errType, message := classifyError(err, defaultStatus)
	builder := NewError(errType, message).
		WithRequestID(requestID).
		WithContext("path", r.URL.Path).
		WithContext("method", r.Method)

	var lenErr *secret.InvalidLengthError
	if errors.As(err, &lenErr) {
		builder.WithContext("field", lenErr.Field).
			WithContext("value", lenErr.Value).
			WithContext("min", lenErr.Min)
	}
	if status >= http.StatusInternalServerError {
		builder.WithCause(err)
	}

	engineErr = builder.Build()
	eh.logError(r, engineErr, status)
	eh.writeErrorResponse(w, status, engineErr)
}

func classifyError(err error, defaultStatus int) (int, string, string) {
	var cfgErr *charset.ConfigurationError
	var lenErr *secret.InvalidLengthError

	switch {
	case errors.As(err, &cfgErr):
		return http.StatusBadRequest, ErrTypeConfiguration, cfgErr.Error()
	case errors.As(err, &lenErr):
		return http.StatusBadRequest, ErrTypeInvalidLength, lenErr.Error()
	case errors.Is(err, store.ErrRunNotFound):
		return http.StatusNotFound, ErrTypeNotFound, "Run not found"
	case errors.Is(err, bindings.ErrNoStore):
		return http.StatusServiceUnavailable, ErrTypeServiceUnavailable, "Run store is not enabled"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout, ErrTypeTimeout, "Operation timed out"
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, ErrTypeTimeout, "Request cancelled"
	default:
		return defaultStatus, ErrTypeInternal, "Internal server error"
	}
}

// HandleValidationError handles validation-specific errors
func (eh *ErrorHandler) HandleValidationError(w http.ResponseWriter, r *http.Request, field, message string) {
	requestID := middleware.GetReqID(r.Context())

	engineErr := NewError(ErrTypeValidation, fmt.Sprintf("Validation failed: %s", message)).
		WithRequestID(requestID).
		WithContext("field", field).
		WithContext("path", r.URL.Path).
		WithContext("method", r.Method).
		Build()

	eh.securityLogger.LogSecurityEvent(
		requestID,
		"validation_failure",
		message,
		map[string]interface{}{
			"field": field,
			"path":  r.URL.Path,
		},
		r.RemoteAddr,
	)

	eh.logError(r, engineErr, http.StatusBadRequest)
	eh.writeErrorResponse(w, http.StatusBadRequest, engineErr)
}

// HandleUnauthorized rejects a request that failed bearer token checks
func (eh *ErrorHandler) HandleUnauthorized(w http.ResponseWriter, r *http.Request, reason string) {
	requestID := middleware.GetReqID(r.Context())

	engineErr := NewError(ErrTypeUnauthorized, "Missing or invalid bearer token").
		WithRequestID(requestID).
		WithContext("path", r.URL.Path).
		Build()

	eh.securityLogger.LogSecurityEvent(
		requestID,
		"auth_failure",
		reason,
		map[string]interface{}{"path": r.URL.Path},
		r.RemoteAddr,
	)

	w.Header().Set("WWW-Authenticate", `Bearer realm="secretgen"`)
	eh.logError(r, engineErr, http.StatusUnauthorized)
	eh.writeErrorResponse(w, http.StatusUnauthorized, engineErr)
}

func (eh *ErrorHandler) logError(r *http.Request, engineErr EngineError, status int) {
	category := GetErrorCategory(engineErr.Type)

	level := slog.LevelError
	if category == CategoryValidation || category == CategoryAuth {
		level = slog.LevelWarn
	}

	attrs := []any{
		"type", engineErr.Type,
		"category", category,
		"status", status,
		"method", r.Method,
		"path", r.URL.Path,
		"remote_ip", r.RemoteAddr,
		"message", engineErr.Message,
	}
	for key, value := range eh.securityLogger.sanitizeContext(engineErr.Context) {
		if key == "path" || key == "method" {
			continue
		}
		attrs = append(attrs, key, value)
	}

	logger.From(r.Context()).Log(r.Context(), level, "error_occurred", attrs...)
}

func (eh *ErrorHandler) writeErrorResponse(w http.ResponseWriter, status int, engineErr EngineError) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Engine-Version", version.EngineVersion)
	w.Header().Set("X-Error-Type", engineErr.Type)
	w.Header().Set("X-Error-Category", string(GetErrorCategory(engineErr.Type)))
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(engineErr); err != nil {
		eh.logger.Error("error_response_encode_failed", "error", err)
	}
}

// RecoveryHandler provides panic recovery with structured error logging
func (eh *ErrorHandler) RecoveryHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				requestID := middleware.GetReqID(r.Context())

				eh.logger.Error("panic_recovered",
					"request_id", requestID,
					"path", r.URL.Path,
					"method", r.Method,
					"panic", fmt.Sprintf("%v", rvr),
				)

				engineErr := NewError(ErrTypeInternal, "Internal server error").
					WithRequestID(requestID).
					WithContext("path", r.URL.Path).
					WithContext("method", r.Method).
					Build()

				eh.writeErrorResponse(w, http.StatusInternalServerError, engineErr)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

package api

import (
	"github.com/MJE43/session-secret-go/internal/bindings"
	"github.com/MJE43/session-secret-go/internal/store"
)

// EngineError represents a structured error response with context
type EngineError struct {
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp,omitempty"`
}

// Error implements the error interface
func (e EngineError) Error() string {
	return e.Message
}

// Error types with proper categorization
const (
	// Input validation errors
	ErrTypeValidation    = "validation_error"
	ErrTypeInvalidLength = "invalid_length"
	ErrTypeConfiguration = "configuration_error"

	// Access errors
	ErrTypeUnauthorized = "unauthorized"
	ErrTypeNotFound     = "not_found"

	// System errors
	ErrTypeTimeout            = "timeout"
	ErrTypeInternal           = "internal_error"
	ErrTypeServiceUnavailable = "service_unavailable"
)

// ErrorCategory represents error categories for monitoring
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryAuth       ErrorCategory = "auth"
	CategorySystem     ErrorCategory = "system"
	CategoryTimeout    ErrorCategory = "timeout"
)

// GetErrorCategory returns the category for an error type
func GetErrorCategory(errType string) ErrorCategory {
	switch errType {
	case ErrTypeValidation, ErrTypeInvalidLength, ErrTypeConfiguration, ErrTypeNotFound:
		return CategoryValidation
	case ErrTypeUnauthorized:
		return CategoryAuth
	case ErrTypeTimeout:
		return CategoryTimeout
	default:
		return CategorySystem
	}
}

// GenerateRequest is the body of POST /api/v1/generate
type GenerateRequest struct {
	Length  int      `json:"length"`
	Count   int      `json:"count"`
	Classes []string `json:"classes"`
	Encode  bool     `json:"encode"`
}

// TrustRequest is the body of POST /api/v1/trust
type TrustRequest struct {
	Count  int  `json:"count"`
	Encode bool `json:"encode"`
}

// GenerateResponse carries the secrets of one request
type GenerateResponse struct {
	bindings.GenerateResult
	RequestID string `json:"request_id,omitempty"`
}

// ClassesResponse represents the character class metadata response
type ClassesResponse struct {
	Classes       []bindings.ClassInfo `json:"classes"`
	EngineVersion string               `json:"engine_version"`
}

// RunsResponse wraps a page of recorded runs
type RunsResponse struct {
	*store.RunsList
	EngineVersion string `json:"engine_version"`
}

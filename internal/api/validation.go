package api

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/MJE43/session-secret-go/internal/store"
)

// Request limits for the HTTP surface. The core generator has no upper bound.
const (
	MaxLength  = 4096
	MaxCount   = 1000
	MaxPerPage = 200

	maxBodyBytes = 1 << 20
)

// FieldError names the request field that failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// ValidateGenerateRequest enforces the HTTP limits on length and count.
// Class and minimum-length rules are left to the generator so that its
// typed errors reach the client.
func ValidateGenerateRequest(req *GenerateRequest) error {
	if req.Length > MaxLength {
		return &FieldError{Field: "length", Message: fmt.Sprintf("must be <= %d", MaxLength)}
	}
	return validateCount(req.Count)
}

// ValidateTrustRequest checks the count of a trust request. A zero count
// means one secret.
func ValidateTrustRequest(req *TrustRequest) error {
	if req.Count == 0 {
		req.Count = 1
	}
	return validateCount(req.Count)
}

func validateCount(count int) error {
	if count > MaxCount {
		return &FieldError{Field: "count", Message: fmt.Sprintf("must be <= %d", MaxCount)}
	}
	return nil
}

// ParseRunsQuery reads page, per_page and source from the query string.
func ParseRunsQuery(values url.Values) (store.RunsQuery, error) {
	var q store.RunsQuery

	if v := values.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return q, &FieldError{Field: "page", Message: "must be a positive integer"}
		}
		q.Page = n
	}
	if v := values.Get("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxPerPage {
			return q, &FieldError{Field: "per_page", Message: fmt.Sprintf("must be between 1 and %d", MaxPerPage)}
		}
		q.PerPage = n
	}
	switch src := values.Get("source"); src {
	case "", store.SourceCLI, store.SourceAPI, store.SourceTrust:
		q.Source = src
	default:
		return q, &FieldError{Field: "source", Message: "must be one of cli, api, trust"}
	}
	return q, nil
}

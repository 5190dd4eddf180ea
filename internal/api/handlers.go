package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/MJE43/session-secret-go/internal/bindings"
	"github.com/MJE43/session-secret-go/internal/store"
	"github.com/MJE43/session-secret-go/internal/version"
)

// handleGenerate generates secrets with caller supplied settings
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	var req GenerateRequest
	if !s.decodeBody(w, r, &req, false) {
		return
	}
	if err := ValidateGenerateRequest(&req); err != nil {
		s.handleFieldError(w, r, err)
		return
	}

	res, err := s.app.GenerateSecrets(r.Context(), bindings.GenerateRequest{
		Length:    req.Length,
		Count:     req.Count,
		Classes:   req.Classes,
		Encode:    req.Encode,
		Source:    store.SourceAPI,
		RequestID: requestID,
	})
	if err != nil {
		s.errorHandler.HandleError(w, r, err, http.StatusInternalServerError)
		return
	}

	s.securityLogger.LogGenerateOperation(requestID, res.RunID, "generate", res.Length, res.Count, res.Classes, res.Encoded)
	s.writeJSON(w, http.StatusOK, GenerateResponse{GenerateResult: res, RequestID: requestID})
}

// handleTrust generates secrets with randomized length and classes
func (s *Server) handleTrust(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	var req TrustRequest
	if !s.decodeBody(w, r, &req, true) {
		return
	}
	if err := ValidateTrustRequest(&req); err != nil {
		s.handleFieldError(w, r, err)
		return
	}

	res, err := s.app.TrustMe(r.Context(), req.Count, req.Encode)
	if err != nil {
		s.errorHandler.HandleError(w, r, err, http.StatusInternalServerError)
		return
	}

	s.securityLogger.LogGenerateOperation(requestID, res.RunID, "trust", res.Length, res.Count, res.Classes, res.Encoded)
	s.writeJSON(w, http.StatusOK, GenerateResponse{GenerateResult: res, RequestID: requestID})
}

// handleListClasses returns the character class table
func (s *Server) handleListClasses(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, ClassesResponse{
		Classes:       s.app.ListClasses(),
		EngineVersion: version.EngineVersion,
	})
}

// handleListRuns returns a page of recorded runs, newest first
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	query, err := ParseRunsQuery(r.URL.Query())
	if err != nil {
		s.handleFieldError(w, r, err)
		return
	}

	list, err := s.app.ListRuns(r.Context(), query)
	if err != nil {
		s.errorHandler.HandleError(w, r, err, http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, RunsResponse{RunsList: list, EngineVersion: version.EngineVersion})
}

// handleGetRun returns one recorded run
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		s.errorHandler.HandleValidationError(w, r, "id", "run id must be a UUID")
		return
	}

	run, err := s.app.GetRun(r.Context(), id)
	if err != nil {
		s.errorHandler.HandleError(w, r, err, http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

// decodeBody reports false after writing a validation error. With allowEmpty
// an empty body leaves v untouched.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if allowEmpty && errors.Is(err, io.EOF) {
		return true
	}
	if err != nil {
		s.errorHandler.HandleValidationError(w, r, "body", "invalid JSON format")
		return false
	}
	return true
}

func (s *Server) handleFieldError(w http.ResponseWriter, r *http.Request, err error) {
	var fe *FieldError
	if errors.As(err, &fe) {
		s.errorHandler.HandleValidationError(w, r, fe.Field, fe.Error())
		return
	}
	s.errorHandler.HandleError(w, r, err, http.StatusBadRequest)
}

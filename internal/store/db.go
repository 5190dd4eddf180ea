package store

import (
	"errors"
	"time"
)

// ErrRunNotFound is returned by GetRun when no run has the given id.
var ErrRunNotFound = errors.New("run not found")

// DB represents the database interface
type DB interface {
	Close() error
	Migrate() error
	SaveRun(run *Run) error
	GetRun(id string) (*Run, error)
	ListRuns(query RunsQuery) (*RunsList, error)
}

// RunsQuery represents query parameters for listing runs
type RunsQuery struct {
	Source  string `json:"source,omitempty"`
	Page    int    `json:"page"`
	PerPage int    `json:"perPage"`
}

// RunsList represents paginated runs response
type RunsList struct {
	Runs       []Run `json:"runs"`
	TotalCount int   `json:"totalCount"`
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
	TotalPages int   `json:"totalPages"`
}

// Run records the settings of one generation request. The secrets themselves
// are never persisted.
type Run struct {
	ID            string    `json:"id" db:"id"`
	Source        string    `json:"source" db:"source"`
	Length        int       `json:"length" db:"length"`
	Count         int       `json:"count" db:"count"`
	Classes       []string  `json:"classes" db:"classes"`
	Encoded       bool      `json:"encoded" db:"encoded"`
	RequestID     string    `json:"request_id,omitempty" db:"request_id"`
	EngineVersion string    `json:"engine_version" db:"engine_version"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Run sources.
const (
	SourceCLI   = "cli"
	SourceAPI   = "api"
	SourceTrust = "trust"
)

package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func TestSaveAndGetRun(t *testing.T) {
	db := newTestDB(t)

	run := &Run{
		Source:        SourceAPI,
		Length:        24,
		Count:         3,
		Classes:       []string{"uppercase", "digits"},
		Encoded:       true,
		RequestID:     "req-1",
		EngineVersion: "1.0.0",
	}
	if err := db.SaveRun(run); err != nil {
		t.Fatalf("Failed to save run: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected SaveRun to assign an id")
	}
	if run.CreatedAt.IsZero() {
		t.Fatal("expected SaveRun to assign created_at")
	}

	got, err := db.GetRun(run.ID)
	if err != nil {
		t.Fatalf("Failed to get run: %v", err)
	}
	if got.Source != SourceAPI || got.Length != 24 || got.Count != 3 || !got.Encoded {
		t.Errorf("unexpected run: %+v", got)
	}
	if len(got.Classes) != 2 || got.Classes[0] != "uppercase" || got.Classes[1] != "digits" {
		t.Errorf("classes = %v", got.Classes)
	}
	if got.RequestID != "req-1" {
		t.Errorf("request id = %q", got.RequestID)
	}
	if !got.CreatedAt.Equal(run.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, run.CreatedAt)
	}
}

func TestGetRunNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetRun("missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestListRuns(t *testing.T) {
	db := newTestDB(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	runs := []*Run{
		{ID: "run1", Source: SourceCLI, Length: 8, Count: 1, Classes: []string{"digits"}, EngineVersion: "1.0.0", CreatedAt: base},
		{ID: "run2", Source: SourceAPI, Length: 16, Count: 2, Classes: []string{"lowercase"}, EngineVersion: "1.0.0", CreatedAt: base.Add(time.Minute)},
		{ID: "run3", Source: SourceCLI, Length: 32, Count: 4, Classes: []string{"special"}, EngineVersion: "1.0.0", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, run := range runs {
		if err := db.SaveRun(run); err != nil {
			t.Fatalf("Failed to save run %s: %v", run.ID, err)
		}
	}

	result, err := db.ListRuns(RunsQuery{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if result.TotalCount != 3 || len(result.Runs) != 3 {
		t.Fatalf("Expected 3 runs, got total=%d len=%d", result.TotalCount, len(result.Runs))
	}
	if result.Runs[0].ID != "run3" || result.Runs[2].ID != "run1" {
		t.Errorf("expected newest first, got %s..%s", result.Runs[0].ID, result.Runs[2].ID)
	}

	result, err = db.ListRuns(RunsQuery{Source: SourceCLI, Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("Failed to list cli runs: %v", err)
	}
	if result.TotalCount != 2 || len(result.Runs) != 2 {
		t.Errorf("Expected 2 cli runs, got total=%d len=%d", result.TotalCount, len(result.Runs))
	}

	result, err = db.ListRuns(RunsQuery{Page: 2, PerPage: 2})
	if err != nil {
		t.Fatalf("Failed to list runs with pagination: %v", err)
	}
	if len(result.Runs) != 1 || result.Runs[0].ID != "run1" {
		t.Errorf("Expected run1 alone on page 2, got %+v", result.Runs)
	}
	if result.TotalPages != 2 {
		t.Errorf("Expected 2 total pages, got %d", result.TotalPages)
	}
}

func TestListRunsDefaults(t *testing.T) {
	db := newTestDB(t)

	result, err := db.ListRuns(RunsQuery{})
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if result.Page != 1 || result.PerPage != 50 {
		t.Errorf("expected page 1 / perPage 50, got %d / %d", result.Page, result.PerPage)
	}
	if result.Runs == nil || len(result.Runs) != 0 {
		t.Errorf("expected empty, non-nil runs, got %v", result.Runs)
	}
}

func TestMigrationIdempotency(t *testing.T) {
	db := newTestDB(t)

	for i := 0; i < 2; i++ {
		if err := db.Migrate(); err != nil {
			t.Fatalf("Failed to migrate again: %v", err)
		}
	}

	run := &Run{ID: "migration-test", Source: SourceTrust, Length: 12, Count: 1, Classes: []string{"digits"}, EngineVersion: "1.0.0"}
	if err := db.SaveRun(run); err != nil {
		t.Fatalf("Failed to save run after multiple migrations: %v", err)
	}
	if _, err := db.GetRun("migration-test"); err != nil {
		t.Fatalf("Failed to get run after multiple migrations: %v", err)
	}
}

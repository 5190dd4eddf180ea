package bindings

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MJE43/session-secret-go/internal/engine"
	"github.com/MJE43/session-secret-go/internal/logger"
	"github.com/MJE43/session-secret-go/internal/store"
)

const (
	appDirName = "secretgen"
	dbName     = "runs.db"
)

// App is the function-call surface shared by the CLI and the HTTP API.
type App struct {
	db      store.DB
	ownsDB  bool
	src     *engine.Source
	dataDir string
	log     *slog.Logger
}

// Option configures an App.
type Option func(*App)

// WithStore attaches an already migrated store. Shutdown leaves it open.
func WithStore(db store.DB) Option {
	return func(a *App) { a.db = db }
}

// WithSource replaces the crypto/rand backed source.
func WithSource(src *engine.Source) Option {
	return func(a *App) { a.src = src }
}

// WithDataDir sets where Startup opens the run database.
func WithDataDir(dir string) Option {
	return func(a *App) { a.dataDir = dir }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.log = l }
}

func New(opts ...Option) *App {
	a := &App{
		src: engine.Default(),
		log: logger.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DefaultDataDir is the per-user directory holding the run database.
func DefaultDataDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}
	return filepath.Join(configDir, appDirName)
}

// Startup opens and migrates the run database unless a store was attached
// with WithStore.
func (a *App) Startup(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.db != nil {
		return nil
	}

	dir := a.dataDir
	if dir == "" {
		dir = DefaultDataDir()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	db, err := store.NewSQLiteDB(filepath.Join(dir, dbName))
	if err != nil {
		return err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return err
	}

	a.db = db
	a.ownsDB = true
	a.log.Debug("store_opened", "path", filepath.Join(dir, dbName))
	return nil
}

// Shutdown closes the database opened by Startup.
func (a *App) Shutdown(ctx context.Context) error {
	if a.db == nil || !a.ownsDB {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	a.ownsDB = false
	return err
}

// Store returns the attached store, or nil before Startup.
func (a *App) Store() store.DB {
	return a.db
}

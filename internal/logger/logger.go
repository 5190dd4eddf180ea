// Package logger builds the log/slog loggers used by the CLI and HTTP server.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/golang-cz/devslog"
	"github.com/phsym/console-slog"
)

var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	l, _ := New(ConfigDefault()) //nolint:errcheck
	SetDefault(l)
}

// Level mirrors the slog levels we accept.
type Level int

var (
	Debug = Level(slog.LevelDebug)
	Info  = Level(slog.LevelInfo)
	Warn  = Level(slog.LevelWarn)
	Error = Level(slog.LevelError)
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

var validLevels = map[Level]bool{
	Debug: true,
	Info:  true,
	Warn:  true,
	Error: true,
}

var strLevels = map[string]Level{
	"debug": Debug,
	"info":  Info,
	"warn":  Warn,
	"error": Error,
}

// ParseLevel converts a level name (case-insensitive) to a Level.
func ParseLevel(s string) (Level, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	l, ok := strLevels[k]
	if !ok {
		return 0, fmt.Errorf("invalid log level: %s", k)
	}
	return l, nil
}

// Format selects the slog handler.
type Format string

var (
	// FormatJSON uses the standard slog JSONHandler
	FormatJSON Format = "json"
	// FormatConsole uses console-slog for compact colored lines
	FormatConsole Format = "console"
	// FormatDev uses devslog with source locations
	FormatDev Format = "dev"
	// FormatNone discards everything
	FormatNone Format = "none"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatJSON, FormatConsole, FormatDev, FormatNone:
		return f, nil
	case "":
		return FormatConsole, nil
	default:
		return "", fmt.Errorf("unsupported log format: %s", s)
	}
}

// Config is configuration for a logger.
type Config struct {
	Level       Level
	Format      Format
	Destination io.Writer
	Color       bool
}

// LogValue of config
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", c.Level.String()),
		slog.Any("format", c.Format),
		slog.Bool("color", c.Color),
	)
}

// ConfigDefault logs at info level to stderr with the console handler.
func ConfigDefault() Config {
	return Config{
		Level:       Info,
		Format:      FormatConsole,
		Destination: os.Stderr,
		Color:       true,
	}
}

// New takes a Config and returns a validated logger.
func New(cfg Config) (*slog.Logger, error) {
	if cfg.Destination == nil {
		cfg.Destination = os.Stderr
	}
	if !validLevels[cfg.Level] {
		return nil, fmt.Errorf("unsupported log level: %d", cfg.Level)
	}

	opts := slog.HandlerOptions{
		Level: slog.Level(cfg.Level),
	}

	var handler slog.Handler
	switch cfg.Format {
	case FormatConsole:
		handler = console.NewHandler(cfg.Destination, &console.HandlerOptions{
			Level:   slog.Level(cfg.Level),
			NoColor: !cfg.Color,
		})
	case FormatJSON:
		handler = slog.NewJSONHandler(cfg.Destination, &opts)
	case FormatDev:
		opts.AddSource = true
		handler = devslog.NewHandler(cfg.Destination, &devslog.Options{
			HandlerOptions:  &opts,
			NewLineAfterLog: true,
			NoColor:         !cfg.Color,
		})
	case "", FormatNone:
		handler = slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	default:
		return nil, fmt.Errorf("unsupported log format: %s", cfg.Format)
	}

	return slog.New(handler), nil
}

type ctxKey struct{}

// WithContext stores l on ctx.
func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From returns the logger stored on ctx, or Default.
func From(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return Default()
	}
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return Default()
}

// Default returns the package-wide logger.
func Default() *slog.Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the package-wide logger.
func SetDefault(l *slog.Logger) {
	defaultLogger.Store(l)
}

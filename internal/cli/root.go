// Package cli contains the secretgen commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/MJE43/session-secret-go/internal/authtoken"
	"github.com/MJE43/session-secret-go/internal/bindings"
	"github.com/MJE43/session-secret-go/internal/logger"
)

const tokenFallbackFile = "token_fallback.json"

// rootOptions is shared by every subcommand.
type rootOptions struct {
	v   *viper.Viper
	log *slog.Logger
}

// Execute runs the secretgen command tree.
func Execute(ctx context.Context) error {
	cmd, err := NewRootCommand()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return cmd.ExecuteContext(ctx)
}

// NewRootCommand builds the secretgen command tree with a fresh viper instance.
func NewRootCommand() (*cobra.Command, error) {
	v, err := newViper()
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	o := &rootOptions{v: v, log: logger.Default()}

	cmd := &cobra.Command{
		Use:          "secretgen [COMMAND]",
		Short:        "Generate session secrets",
		Long:         "Generate random session secrets that contain at least one character from every enabled class, optionally base64 encoded.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.setupLogger(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.String("log-level", v.GetString(VLogLevel), "Log level: debug, info, warn, error")
	pf.String("log-format", v.GetString(VLogFormat), "Log format: console, dev, json, none")
	pf.Bool("no-color", v.GetBool(VNoColor), "Disable colored log output")
	pf.String("data-dir", v.GetString(VDataDir), "Directory for the run database (default: user config dir)")
	pf.Bool("no-store", v.GetBool(VNoStore), "Do not record runs")
	if err := bindFlags(v, pf, map[string]string{
		VLogLevel:  "log-level",
		VLogFormat: "log-format",
		VNoColor:   "no-color",
		VDataDir:   "data-dir",
		VNoStore:   "no-store",
	}); err != nil {
		return nil, err
	}

	subs := []func(*rootOptions) (*cobra.Command, error){
		newGenerateCommand,
		newTrustCommand,
		newClassesCommand,
		newRunsCommand,
		newServeCommand,
		newTokenCommand,
		newVersionCommand,
	}
	for _, newSub := range subs {
		sub, err := newSub(o)
		if err != nil {
			return nil, err
		}
		cmd.AddCommand(sub)
	}
	return cmd, nil
}

func (o *rootOptions) setupLogger(cmd *cobra.Command) error {
	level, err := logger.ParseLevel(o.v.GetString(VLogLevel))
	if err != nil {
		return err
	}
	format, err := logger.ParseFormat(o.v.GetString(VLogFormat))
	if err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	color := !o.v.GetBool(VNoColor) && isTerminal(errOut)
	l, err := logger.New(logger.Config{
		Level:       level,
		Format:      format,
		Destination: errOut,
		Color:       color,
	})
	if err != nil {
		return err
	}
	logger.SetDefault(l)
	o.log = l
	cmd.SetContext(logger.WithContext(cmd.Context(), l))

	if o.v.GetBool(VNoColor) || !isTerminal(cmd.OutOrStdout()) {
		pterm.DisableColor()
	}
	o.log.Debug("logger_configured", "config", logger.Config{Level: level, Format: format, Color: color})
	return nil
}

func (o *rootOptions) dataDir() string {
	if dir := o.v.GetString(VDataDir); dir != "" {
		return dir
	}
	return bindings.DefaultDataDir()
}

// newApp starts an App, with a run store unless --no-store is set. The
// returned func shuts it down.
func (o *rootOptions) newApp(ctx context.Context, requireStore bool) (*bindings.App, func(), error) {
	if o.v.GetBool(VNoStore) {
		if requireStore {
			return nil, nil, fmt.Errorf("this command needs the run store; drop --no-store")
		}
		return bindings.New(bindings.WithLogger(logger.From(ctx))), func() {}, nil
	}

	app := bindings.New(bindings.WithDataDir(o.dataDir()), bindings.WithLogger(logger.From(ctx)))
	if err := app.Startup(ctx); err != nil {
		return nil, nil, fmt.Errorf("open run store: %w", err)
	}
	return app, func() {
		if err := app.Shutdown(context.Background()); err != nil {
			o.log.Warn("store_close_failed", "error", err)
		}
	}, nil
}

func (o *rootOptions) tokenStore() *authtoken.KeyringStore {
	return authtoken.NewKeyringStore(o.v.GetString(VKeyringService), filepath.Join(o.dataDir(), tokenFallbackFile))
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/MJE43/session-secret-go/internal/api"
	"github.com/MJE43/session-secret-go/internal/authtoken"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(o *rootOptions) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: "Serve secret generation over HTTP. With --token-required every /api/v1 route needs\n" +
			"'Authorization: Bearer <token>' where the token comes from 'secretgen token rotate'.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", o.v.GetString(VServeAddr))
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			return o.serve(ctx, ln)
		},
	}

	f := cmd.Flags()
	f.String("addr", o.v.GetString(VServeAddr), "Listen address")
	f.Bool("token-required", o.v.GetBool(VServeTokenRequired), "Require a bearer token on /api/v1 routes")
	if err := bindFlags(o.v, f, map[string]string{
		VServeAddr:          "addr",
		VServeTokenRequired: "token-required",
	}); err != nil {
		return nil, err
	}
	return cmd, nil
}

// serve runs the API on ln until ctx is cancelled, then shuts down gracefully.
func (o *rootOptions) serve(ctx context.Context, ln net.Listener) error {
	app, done, err := o.newApp(ctx, false)
	if err != nil {
		ln.Close()
		return err
	}
	defer done()

	opts := []api.Option{api.WithLogger(o.log)}
	if o.v.GetBool(VServeTokenRequired) {
		tokens := o.tokenStore()
		if _, err := tokens.Get(); err != nil {
			ln.Close()
			if errors.Is(err, authtoken.ErrNoToken) {
				return fmt.Errorf("token required but none stored; run 'secretgen token rotate' first")
			}
			return err
		}
		opts = append(opts, api.WithTokenSource(tokens))
	}

	srv := &http.Server{
		Handler:           api.NewServer(app, opts...).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		o.log.Info("server_listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		o.log.Info("server_shutdown")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

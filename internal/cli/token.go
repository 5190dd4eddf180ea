package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MJE43/session-secret-go/internal/authtoken"
)

func newTokenCommand(o *rootOptions) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the API bearer token kept in the OS keychain",
	}

	rotate := &cobra.Command{
		Use:   "rotate",
		Short: "Generate and store a new API token, printing it once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tok, err := o.tokenStore().Rotate()
			if err != nil {
				return err
			}
			o.log.Info("token_rotated", "length", len(tok))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the stored API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tok, err := o.tokenStore().Get()
			if errors.Is(err, authtoken.ErrNoToken) {
				return fmt.Errorf("no token stored; run 'secretgen token rotate'")
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.tokenStore().Clear(); err != nil {
				return err
			}
			o.log.Info("token_cleared")
			return nil
		},
	}

	cmd.AddCommand(rotate, show, clearCmd)
	return cmd, nil
}

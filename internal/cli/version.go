package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/MJE43/session-secret-go/internal/version"
)

func newVersionCommand(_ *rootOptions) (*cobra.Command, error) {
	var outputFormat string

	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print the version",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			switch outputFormat {
			case "":
				_, err := fmt.Fprintln(cmd.OutOrStdout(), info.EngineVersion)
				return err
			case "json":
				b, err := json.Marshal(map[string]any{
					"version":   info.EngineVersion,
					"gitCommit": info.GitCommit,
					"buildTime": info.BuildTime,
					"platform":  runtime.GOOS + "/" + runtime.GOARCH,
					"goVersion": runtime.Version(),
				})
				if err != nil {
					return fmt.Errorf("could not marshal json output: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return err
			default:
				return fmt.Errorf("unsupported output format %q", outputFormat)
			}
		},
	}
	cmd.Flags().StringVarP(&outputFormat, "output-format", "o", "", "Output format: json")
	return cmd, nil
}

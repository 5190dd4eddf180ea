package cli

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/MJE43/session-secret-go/internal/bindings"
	"github.com/MJE43/session-secret-go/internal/logger"
)

func newClassesCommand(o *rootOptions) (*cobra.Command, error) {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classes",
		Short: "List the character classes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			classes := bindings.New(bindings.WithLogger(logger.From(cmd.Context()))).ListClasses()
			if asJSON {
				return writeJSON(cmd, classes)
			}

			data := pterm.TableData{{"ID", "LABEL", "SIZE", "SYMBOLS"}}
			for _, c := range classes {
				data = append(data, []string{c.ID, c.Label, strconv.Itoa(c.Size), c.Symbols})
			}
			return pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(data).Render()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd, nil
}

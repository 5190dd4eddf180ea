package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/MJE43/session-secret-go/internal/store"
)

func newRunsCommand(o *rootOptions) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded generation runs (settings only, never secrets)",
	}

	var (
		page, perPage int
		source        string
		asJSON        bool
	)
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recorded runs, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, done, err := o.newApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer done()

			res, err := app.ListRuns(cmd.Context(), store.RunsQuery{Source: source, Page: page, PerPage: perPage})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, res)
			}

			data := pterm.TableData{{"ID", "CREATED", "SOURCE", "LENGTH", "COUNT", "CLASSES", "BASE64"}}
			for _, r := range res.Runs {
				data = append(data, []string{
					r.ID,
					r.CreatedAt.Local().Format(time.DateTime),
					r.Source,
					strconv.Itoa(r.Length),
					strconv.Itoa(r.Count),
					strings.Join(r.Classes, ","),
					strconv.FormatBool(r.Encoded),
				})
			}
			if err := pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(data).Render(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d (%d runs)\n", res.Page, max(res.TotalPages, 1), res.TotalCount)
			return err
		},
	}
	list.Flags().IntVar(&page, "page", 1, "Page number")
	list.Flags().IntVar(&perPage, "per-page", 20, "Runs per page")
	list.Flags().StringVar(&source, "source", "", "Only runs from this source: cli, api, trust")
	list.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	show := &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show one recorded run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid run id %q: %w", args[0], err)
			}

			app, done, err := o.newApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer done()

			run, err := app.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd, run)
		},
	}

	cmd.AddCommand(list, show)
	return cmd, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

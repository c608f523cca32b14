package cmd

import (
	"fmt"

	sessionsrender "github.com/aquatix/whosthere/internal/adapters/render/sessions"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show where the last run stopped and how many sessions are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			summary, err := app.query.Summary(cmd.Context())
			if err != nil {
				return err
			}

			if format != formatTable {
				return writeStructured(cmd.OutOrStdout(), format, summary)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), sessionsrender.RenderSummary(summary, app.statePath, sessionsrender.RenderOptions{
				Location: app.location,
			}))
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table, json or yaml")

	return cmd
}

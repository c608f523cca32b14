package cmd

import (
	"context"
	"fmt"

	sessionsrender "github.com/aquatix/whosthere/internal/adapters/render/sessions"
	"github.com/aquatix/whosthere/internal/application"
	"github.com/aquatix/whosthere/internal/domain"
	"github.com/spf13/cobra"
)

type sessionsQuery func(ctx context.Context) ([]application.SessionRow, error)

func newSessionsCmd(app *app) *cobra.Command {
	var format string

	current := func(ctx context.Context) ([]application.SessionRow, error) {
		return app.query.Current(ctx)
	}

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Show reconstructed client sessions (default: current)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSessions(cmd, app, "Present now", format, current)
		},
	}

	cmd.PersistentFlags().StringVar(&format, "format", formatTable, "Output format: table, json or yaml")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "current",
			Short: "Show clients that are present now",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runSessions(cmd, app, "Present now", format, current)
			},
		},
		&cobra.Command{
			Use:   "latest",
			Short: "Show the most recent session of every client",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runSessions(cmd, app, "Latest sessions", format, func(ctx context.Context) ([]application.SessionRow, error) {
					return app.query.Latest(ctx)
				})
			},
		},
		newSessionsHistoryCmd(app, &format),
	)

	return cmd
}

func newSessionsHistoryCmd(app *app, format *string) *cobra.Command {
	var clients []string
	var filter application.HistoryFilter

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show every recorded session, optionally for selected clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter.Clients = make([]domain.ClientID, 0, len(clients))
			for _, id := range clients {
				filter.Clients = append(filter.Clients, domain.ClientID(id))
			}

			return runSessions(cmd, app, "Session history", *format, func(ctx context.Context) ([]application.SessionRow, error) {
				return app.query.History(ctx, filter)
			})
		},
	}

	cmd.Flags().StringSliceVar(&clients, "client", nil, "Client id to include (repeatable)")
	cmd.Flags().BoolVar(&filter.KnownOnly, "known", false, "Only clients listed in the name mapping")
	cmd.Flags().BoolVar(&filter.LatestOnly, "latest", false, "Only the most recent session per client")

	return cmd
}

func runSessions(cmd *cobra.Command, app *app, title string, format string, query sessionsQuery) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	rows, err := query(cmd.Context())
	if err != nil {
		return err
	}

	if format != formatTable {
		return writeStructured(cmd.OutOrStdout(), format, rows)
	}

	rendered, err := app.renderSessions(rows, sessionsrender.RenderOptions{
		Title:    title,
		Location: app.location,
		Now:      app.now(),
	})
	if err != nil {
		return fmt.Errorf("render sessions: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

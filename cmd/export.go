package cmd

import (
	"errors"
	"fmt"

	sqlitesink "github.com/aquatix/whosthere/internal/adapters/sink/sqlite"
	"github.com/spf13/cobra"
)

func newExportCmd(app *app) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every session to a SQLite database",
		Long: "export upserts all sessions, open ones included, into a SQLite database. " +
			"Exporting again updates sessions that were closed in the meantime.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			db, err := sqlitesink.New(dbPath)
			if err != nil {
				return fmt.Errorf("open export database: %w", err)
			}
			defer func() {
				if closeErr := db.Close(); closeErr != nil {
					err = errors.Join(err, fmt.Errorf("close export database: %w", closeErr))
				}
			}()

			report, err := app.query.Export(cmd.Context(), sqlitesink.NewSessionSink(db))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "exported %d sessions to %s (export %s)\n", report.Sessions, dbPath, report.ID)
			return err
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Path of the SQLite database")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aquatix/whosthere/internal/application"
	"github.com/spf13/cobra"
)

func newParseCmd(app *app) *cobra.Command {
	var ingestCmd application.IngestCommand

	cmd := &cobra.Command{
		Use:     "parse",
		Aliases: []string{"parselogs"},
		Short:   "Fold new scan log lines into the session state",
		Long: "parse reads the scan logs in the log directory, starting where the previous run " +
			"stopped, and updates the stored sessions. Run it as often as you like; lines that " +
			"were already folded are skipped.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runParse(cmd, app, ingestCmd)
		},
	}

	cmd.Flags().String("logdir", "", "Directory holding the scan logs (config: logs.dir)")
	cmd.Flags().String("prefix", "", "File name prefix of the scan logs (config: logs.prefix)")
	cmd.Flags().BoolVar(&ingestCmd.Rebuild, "rebuild", false, "Ignore the saved state and fold every log from the start")
	cmd.Flags().BoolVar(&ingestCmd.DryRun, "dry-run", false, "Fold the logs without saving the state")

	return cmd
}

func runParse(cmd *cobra.Command, app *app, ingestCmd application.IngestCommand) error {
	var report application.IngestReport
	ingest := func(ctx context.Context) error {
		var err error
		report, err = app.ingest.Ingest(ctx, ingestCmd)
		return err
	}

	var err error
	if isTerminal(cmd.ErrOrStderr()) {
		err = runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Folding scan logs...", ingest)
	} else {
		err = ingest(cmd.Context())
	}

	if err != nil && !report.Saved {
		return err
	}

	if writeErr := writeIngestReport(cmd.OutOrStdout(), report, ingestCmd.DryRun); writeErr != nil {
		return errors.Join(err, writeErr)
	}

	return err
}

func writeIngestReport(w io.Writer, report application.IngestReport, dryRun bool) error {
	cursor := "none"
	if report.Cursor.Source != "" {
		cursor = fmt.Sprintf("%s line %d", report.Cursor.Source, report.Cursor.Offset)
	}

	lines := []string{
		fmt.Sprintf("folded %d new lines from %d log files (%d already seen)",
			report.Stats.LinesFolded, len(report.Sources), report.Stats.LinesSkipped),
		fmt.Sprintf("sessions opened: %d, closed: %d", report.Stats.SessionsOpened, report.Stats.SessionsClosed),
		fmt.Sprintf("clients: %d, present now: %d", report.Clients, report.OpenSessions),
		"cursor: " + cursor,
	}
	if dryRun {
		lines = append(lines, "dry run: state not saved")
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Execute runs the CLI. An interrupt cancels the running command, which still
// saves whatever it folded so far.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	app := &app{}

	rootCmd := &cobra.Command{
		Use:   "whosthere",
		Short: "whosthere: who was on the network, and when",
		Long: "whosthere reads periodic wireless scan logs and reconstructs, per client, " +
			"the contiguous sessions it was present on the network. Each run only folds " +
			"lines it has not seen before.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			wired, err := wireApp(cmd, opts)
			if err != nil {
				return err
			}
			*app = *wired
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Config file (default $HOME/.whosthere/config.toml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (config: log.level)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newParseCmd(app),
		newSessionsCmd(app),
		newStatusCmd(app),
		newExportCmd(app),
	)

	return rootCmd
}

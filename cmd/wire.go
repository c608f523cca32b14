package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aquatix/whosthere/internal/adapters/logdir"
	"github.com/aquatix/whosthere/internal/adapters/names"
	sessionsrender "github.com/aquatix/whosthere/internal/adapters/render/sessions"
	tomlrepo "github.com/aquatix/whosthere/internal/adapters/repo/toml"
	"github.com/aquatix/whosthere/internal/application"
	"github.com/aquatix/whosthere/internal/config"
	"github.com/aquatix/whosthere/internal/ports"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type app struct {
	ingest         *application.IngestService
	query          *application.QueryService
	renderSessions func([]application.SessionRow, sessionsrender.RenderOptions) (string, error)
	logger         *slog.Logger
	location       *time.Location
	statePath      string
	now            func() time.Time
}

// flagBindings maps config keys to the command line flags that override them.
var flagBindings = map[string]string{
	config.KeyLogsDir:    "logdir",
	config.KeyLogsPrefix: "prefix",
	config.KeyLogLevel:   "log-level",
}

func wireApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	v, err := config.New(opts.configFile)
	if err != nil {
		return nil, err
	}

	for key, name := range flagBindings {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	logger := config.NewLogger(cmd.ErrOrStderr(), cfg.Log.Level)

	stateRepo, err := tomlrepo.NewStateRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire state repository: %w", err)
	}

	fs := afero.NewOsFs()
	logs := logdir.NewSource(fs, cfg.Logs.Dir, cfg.Logs.Prefix)
	directory := names.NewDirectory(fs, cfg.Names.Path)

	logger.Debug("configuration loaded",
		"config_file", v.ConfigFileUsed(),
		"logs_dir", cfg.Logs.Dir,
		"logs_prefix", cfg.Logs.Prefix,
		"state_path", stateRepo.Path(),
		"names_path", cfg.Names.Path,
		"timezone", location.String(),
	)

	return &app{
		ingest:         application.NewIngestService(stateRepo, logs, logger),
		query:          application.NewQueryService(stateRepo, directory, ports.SystemClock{}, logger),
		renderSessions: sessionsrender.Render,
		logger:         logger,
		location:       location,
		statePath:      stateRepo.Path(),
		now:            time.Now,
	}, nil
}

package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aquatix/whosthere/internal/domain"
	"github.com/aquatix/whosthere/internal/ports"
)

type IngestService struct {
	state  ports.StateRepository
	logs   ports.LogSource
	logger *slog.Logger
}

func NewIngestService(state ports.StateRepository, logs ports.LogSource, logger *slog.Logger) *IngestService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &IngestService{state: state, logs: logs, logger: logger}
}

// Ingest folds every log source from the stored cursor onwards into the
// engine state and saves it. Sources sorting before the cursor's source were
// fully consumed on an earlier run and are skipped.
//
// When a source contains a malformed line, everything before it is still
// saved and the *domain.MalformedLineError is returned.
func (s *IngestService) Ingest(ctx context.Context, cmd IngestCommand) (IngestReport, error) {
	state, err := s.loadState(ctx, cmd.Rebuild)
	if err != nil {
		return IngestReport{}, err
	}

	names, err := s.logs.List(ctx)
	if err != nil {
		return IngestReport{}, fmt.Errorf("list log sources: %w", err)
	}

	report := IngestReport{}
	resumeFrom := state.Cursor.Source
	for _, name := range names {
		if resumeFrom != "" && name < resumeFrom {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, s.finish(ctx, cmd, state, &report, err)
		}

		lines, err := s.logs.ReadLines(ctx, name)
		if err != nil {
			return report, s.finish(ctx, cmd, state, &report, fmt.Errorf("read log source %s: %w", name, err))
		}

		stats, err := state.Advance(name, lines)
		report.Stats = report.Stats.Add(stats)
		report.Sources = append(report.Sources, name)
		s.logger.Debug("folded log source",
			"source", name,
			"lines", len(lines),
			"folded", stats.LinesFolded,
			"skipped", stats.LinesSkipped,
			"opened", stats.SessionsOpened,
			"closed", stats.SessionsClosed,
		)
		if err != nil {
			if errors.Is(err, domain.ErrStaleResume) {
				return report, err
			}
			return report, s.finish(ctx, cmd, state, &report, err)
		}
	}

	if err := s.finish(ctx, cmd, state, &report, nil); err != nil {
		return report, err
	}

	s.logger.Info("ingest complete",
		"sources", len(report.Sources),
		"folded", report.Stats.LinesFolded,
		"opened", report.Stats.SessionsOpened,
		"closed", report.Stats.SessionsClosed,
		"cursor_source", report.Cursor.Source,
		"cursor_line", report.Cursor.Offset,
	)

	return report, nil
}

func (s *IngestService) loadState(ctx context.Context, rebuild bool) (domain.EngineState, error) {
	if rebuild {
		s.logger.Info("rebuilding state from the first log source")
		return domain.NewEngineState(), nil
	}

	state, err := s.state.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrStateNotFound) {
			return domain.EngineState{}, fmt.Errorf("load engine state: %w", err)
		}
		s.logger.Info("no saved state found, starting fresh")
		return domain.NewEngineState(), nil
	}

	return state, nil
}

// finish records the final cursor and persists the state, joining a save
// failure with the error that ended the run.
func (s *IngestService) finish(ctx context.Context, cmd IngestCommand, state domain.EngineState, report *IngestReport, runErr error) error {
	report.Cursor = state.Cursor
	report.OpenSessions = state.Clients.OpenCount()
	report.Clients = len(state.Clients)

	if cmd.DryRun {
		return runErr
	}

	// A canceled context must not prevent saving what was already folded.
	saveCtx := ctx
	if ctx.Err() != nil {
		saveCtx = context.WithoutCancel(ctx)
	}
	if err := s.state.Save(saveCtx, state); err != nil {
		saveErr := fmt.Errorf("save engine state: %w", err)
		if runErr != nil {
			return errors.Join(runErr, saveErr)
		}
		return saveErr
	}
	report.Saved = true

	if runErr != nil {
		s.logger.Warn("ingest stopped early, consumed lines were saved", "error", runErr, "cursor_source", state.Cursor.Source, "cursor_line", state.Cursor.Offset)
	}

	return runErr
}

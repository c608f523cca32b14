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

type QueryService struct {
	state  ports.StateRepository
	names  ports.NameDirectory
	clock  ports.Clock
	logger *slog.Logger
}

type ExportReport struct {
	ID       string
	Sessions int
}

func NewQueryService(state ports.StateRepository, names ports.NameDirectory, clock ports.Clock, logger *slog.Logger) *QueryService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &QueryService{state: state, names: names, clock: clock, logger: logger}
}

func (s *QueryService) Current(ctx context.Context) ([]SessionRow, error) {
	state, names, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	return toRows(state.Clients.CurrentSessions(), names), nil
}

func (s *QueryService) Latest(ctx context.Context) ([]SessionRow, error) {
	state, names, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	return toRows(state.Clients.LatestSessions(), names), nil
}

// History returns the sessions of the clients selected by filter. An empty
// filter selects every client.
func (s *QueryService) History(ctx context.Context, filter HistoryFilter) ([]SessionRow, error) {
	state, names, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	requested := domain.NewClientSet()
	for _, id := range filter.Clients {
		requested.Add(id.Canonical())
	}

	selected := domain.NewClientSet()
	for id := range state.Clients {
		canonical := id.Canonical()
		if len(requested) > 0 && !requested.Has(canonical) {
			continue
		}
		if filter.KnownOnly {
			if _, ok := names[canonical]; !ok {
				continue
			}
		}
		selected.Add(id)
	}

	return toRows(state.Clients.SessionsFor(selected, filter.LatestOnly), names), nil
}

func (s *QueryService) Summary(ctx context.Context) (Summary, error) {
	state, err := s.loadState(ctx)
	if err != nil {
		return Summary{}, err
	}

	sessions := 0
	for _, history := range state.Clients {
		sessions += len(history)
	}

	return Summary{
		Cursor:            state.Cursor,
		Clients:           len(state.Clients),
		Sessions:          sessions,
		OpenSessions:      state.Clients.OpenCount(),
		CurrentTimestamp:  state.Batch.CurrentTimestamp,
		PreviousTimestamp: state.Batch.PreviousTimestamp,
	}, nil
}

// Export writes every session, open ones included, to sink.
func (s *QueryService) Export(ctx context.Context, sink ports.SessionSink) (ExportReport, error) {
	state, names, err := s.load(ctx)
	if err != nil {
		return ExportReport{}, err
	}

	sessions := state.Clients.AllSessions()
	records := make([]ports.SessionRecord, 0, len(sessions))
	for _, entry := range sessions {
		records = append(records, ports.SessionRecord{
			ClientID: entry.ClientID,
			Name:     names[entry.ClientID.Canonical()],
			Session:  entry.Session,
		})
	}

	id, err := sink.WriteSessions(ctx, s.clock.Now(), records)
	if err != nil {
		return ExportReport{}, fmt.Errorf("export sessions: %w", err)
	}
	s.logger.Info("exported sessions", "export_id", id, "sessions", len(records))

	return ExportReport{ID: id, Sessions: len(records)}, nil
}

func (s *QueryService) load(ctx context.Context) (domain.EngineState, map[domain.ClientID]string, error) {
	state, err := s.loadState(ctx)
	if err != nil {
		return domain.EngineState{}, nil, err
	}

	names := map[domain.ClientID]string{}
	if s.names != nil {
		names, err = s.names.Names(ctx)
		if err != nil {
			return domain.EngineState{}, nil, fmt.Errorf("load client names: %w", err)
		}
	}

	return state, names, nil
}

func (s *QueryService) loadState(ctx context.Context) (domain.EngineState, error) {
	state, err := s.state.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrStateNotFound) {
			return domain.NewEngineState(), nil
		}
		return domain.EngineState{}, fmt.Errorf("load engine state: %w", err)
	}

	return state, nil
}

func toRows(sessions []domain.ClientSession, names map[domain.ClientID]string) []SessionRow {
	rows := make([]SessionRow, 0, len(sessions))
	for _, entry := range sessions {
		rows = append(rows, SessionRow{
			ClientID: entry.ClientID,
			Name:     names[entry.ClientID.Canonical()],
			Address:  entry.Session.Address,
			Start:    entry.Session.Start,
			End:      entry.Session.End,
		})
	}

	return rows
}

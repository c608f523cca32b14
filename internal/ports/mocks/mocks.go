package mocks

import (
	"context"
	"time"

	"github.com/aquatix/whosthere/internal/domain"
	"github.com/aquatix/whosthere/internal/ports"
	"github.com/stretchr/testify/mock"
)

// StateRepository is a mock for ports.StateRepository.
type StateRepository struct {
	mock.Mock
}

func (m *StateRepository) Load(ctx context.Context) (domain.EngineState, error) {
	args := m.Called(ctx)
	if state, ok := args.Get(0).(domain.EngineState); ok {
		return state, args.Error(1)
	}
	return domain.EngineState{}, args.Error(1)
}

func (m *StateRepository) Save(ctx context.Context, state domain.EngineState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

// LogSource is a mock for ports.LogSource.
type LogSource struct {
	mock.Mock
}

func (m *LogSource) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if names, ok := args.Get(0).([]string); ok {
		return names, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LogSource) ReadLines(ctx context.Context, name string) ([]string, error) {
	args := m.Called(ctx, name)
	if lines, ok := args.Get(0).([]string); ok {
		return lines, args.Error(1)
	}
	return nil, args.Error(1)
}

// NameDirectory is a mock for ports.NameDirectory.
type NameDirectory struct {
	mock.Mock
}

func (m *NameDirectory) Names(ctx context.Context) (map[domain.ClientID]string, error) {
	args := m.Called(ctx)
	if names, ok := args.Get(0).(map[domain.ClientID]string); ok {
		return names, args.Error(1)
	}
	return nil, args.Error(1)
}

// SessionSink is a mock for ports.SessionSink.
type SessionSink struct {
	mock.Mock
}

func (m *SessionSink) WriteSessions(ctx context.Context, exportedAt time.Time, records []ports.SessionRecord) (string, error) {
	args := m.Called(ctx, exportedAt, records)
	return args.String(0), args.Error(1)
}

// Clock is a mock for ports.Clock.
type Clock struct {
	mock.Mock
}

func (m *Clock) Now() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}

var (
	_ ports.StateRepository = (*StateRepository)(nil)
	_ ports.LogSource       = (*LogSource)(nil)
	_ ports.NameDirectory   = (*NameDirectory)(nil)
	_ ports.SessionSink     = (*SessionSink)(nil)
	_ ports.Clock           = (*Clock)(nil)
)

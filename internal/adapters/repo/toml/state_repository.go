package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aquatix/whosthere/internal/domain"
	"github.com/aquatix/whosthere/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	StatePathKey    = "state.path"
	stateFileMode   = 0o600
	stateDirMode    = 0o700
	stateConfigDir  = ".whosthere"
	stateConfigFile = "state.toml"
	tempFilePattern = ".state-*.toml.tmp"
)

type StateRepository struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.StateRepository = (*StateRepository)(nil)

func NewStateRepository(cfg *viper.Viper) (*StateRepository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := cfg.GetString(StatePathKey)
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(homeDir, stateConfigDir, stateConfigFile)
	}

	path, err := normalizeStatePath(path)
	if err != nil {
		return nil, err
	}

	return &StateRepository{path: path, mu: lockForPath(path)}, nil
}

func (r *StateRepository) Path() string {
	return r.path
}

func (r *StateRepository) Load(ctx context.Context) (domain.EngineState, error) {
	if err := ctx.Err(); err != nil {
		return domain.EngineState{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.EngineState{}, domain.ErrStateNotFound
		}
		return domain.EngineState{}, fmt.Errorf("read state file: %w", err)
	}

	var file stateFileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.EngineState{}, fmt.Errorf("decode state file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return domain.EngineState{}, err
	}
	file.applyDefaults()

	return fromStateSchema(file), nil
}

func (r *StateRepository) Save(ctx context.Context, state domain.EngineState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.writeSchema(toStateSchema(state))
}

func (r *StateRepository) writeSchema(file stateFileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.path), stateDirMode); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}

	if err := tempFile.Chmod(stateFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp state file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tempName, r.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	cleanup = false

	return nil
}

func normalizeStatePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve state path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func toStateSchema(state domain.EngineState) stateFileSchema {
	macs := make(map[string][]sessionSchema, len(state.Clients))
	for id, sessions := range state.Clients {
		encoded := make([]sessionSchema, 0, len(sessions))
		for _, session := range sessions {
			encoded = append(encoded, sessionSchema{
				SessionStart: string(session.Start),
				SessionEnd:   string(session.End),
				IP:           session.Address,
			})
		}
		macs[string(id)] = encoded
	}

	return stateFileSchema{
		Version:     currentStateSchemaVersion,
		CurrentFile: state.Cursor.Source,
		CurrentLine: state.Cursor.Offset,
		Session: batchSchema{
			Timestamp:         string(state.Batch.CurrentTimestamp),
			PreviousTimestamp: string(state.Batch.PreviousTimestamp),
			Previous:          clientIDsToStrings(state.Batch.PreviousMembers),
			Current:           clientIDsToStrings(state.Batch.CurrentMembers),
		},
		Macs: macs,
	}
}

func fromStateSchema(file stateFileSchema) domain.EngineState {
	state := domain.NewEngineState()
	for id, sessions := range file.Macs {
		decoded := make([]domain.Session, 0, len(sessions))
		for _, session := range sessions {
			decoded = append(decoded, domain.Session{
				Start:   domain.Timestamp(session.SessionStart),
				End:     domain.Timestamp(session.SessionEnd),
				Address: session.IP,
			})
		}
		state.Clients[domain.ClientID(id)] = decoded
	}

	state.Batch.CurrentTimestamp = domain.Timestamp(file.Session.Timestamp)
	state.Batch.PreviousTimestamp = domain.Timestamp(file.Session.PreviousTimestamp)
	for _, id := range file.Session.Current {
		state.Batch.CurrentMembers.Add(domain.ClientID(id))
	}
	for _, id := range file.Session.Previous {
		state.Batch.PreviousMembers.Add(domain.ClientID(id))
	}
	state.Cursor = domain.ResumeCursor{Source: file.CurrentFile, Offset: file.CurrentLine}

	return state
}

func clientIDsToStrings(set domain.ClientSet) []string {
	ids := set.Sorted()
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		result = append(result, string(id))
	}

	return result
}

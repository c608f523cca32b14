package toml

import "fmt"

const currentStateSchemaVersion = 1

// stateFileSchema uses the key names of the older state.json and
// session.json files, so scripts that read those keep working.
type stateFileSchema struct {
	Version     int                        `toml:"version"`
	CurrentFile string                     `toml:"current_file"`
	CurrentLine int                        `toml:"current_line"`
	Session     batchSchema                `toml:"session"`
	Macs        map[string][]sessionSchema `toml:"macs"`
}

func (s *stateFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentStateSchemaVersion
	}
	if s.Macs == nil {
		s.Macs = map[string][]sessionSchema{}
	}
}

func (s stateFileSchema) validateVersion() error {
	if s.Version > currentStateSchemaVersion {
		return fmt.Errorf("unsupported state schema version %d (current %d)", s.Version, currentStateSchemaVersion)
	}

	return nil
}

type batchSchema struct {
	Timestamp         string   `toml:"timestamp"`
	PreviousTimestamp string   `toml:"previous_timestamp"`
	Previous          []string `toml:"previous"`
	Current           []string `toml:"current"`
}

type sessionSchema struct {
	SessionStart string `toml:"session_start"`
	SessionEnd   string `toml:"session_end,omitempty"`
	IP           string `toml:"ip"`
}

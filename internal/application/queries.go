package application

import "github.com/aquatix/whosthere/internal/domain"

type IngestReport struct {
	Sources      []string
	Stats        domain.AdvanceStats
	Cursor       domain.ResumeCursor
	Clients      int
	OpenSessions int
	Saved        bool
}

type SessionRow struct {
	ClientID domain.ClientID  `json:"client_id" yaml:"client_id"`
	Name     string           `json:"name,omitempty" yaml:"name,omitempty"`
	Address  string           `json:"address" yaml:"address"`
	Start    domain.Timestamp `json:"session_start" yaml:"session_start"`
	End      domain.Timestamp `json:"session_end,omitempty" yaml:"session_end,omitempty"`
}

func (r SessionRow) Open() bool {
	return r.End == ""
}

type Summary struct {
	Cursor            domain.ResumeCursor `json:"cursor" yaml:"cursor"`
	Clients           int                 `json:"clients" yaml:"clients"`
	Sessions          int                 `json:"sessions" yaml:"sessions"`
	OpenSessions      int                 `json:"open_sessions" yaml:"open_sessions"`
	CurrentTimestamp  domain.Timestamp    `json:"current_timestamp,omitempty" yaml:"current_timestamp,omitempty"`
	PreviousTimestamp domain.Timestamp    `json:"previous_timestamp,omitempty" yaml:"previous_timestamp,omitempty"`
}

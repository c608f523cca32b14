package application

import "github.com/aquatix/whosthere/internal/domain"

type IngestCommand struct {
	// Rebuild ignores the saved state and folds every source from scratch.
	Rebuild bool
	// DryRun folds into memory without saving the state.
	DryRun bool
}

type HistoryFilter struct {
	Clients    []domain.ClientID
	KnownOnly  bool
	LatestOnly bool
}

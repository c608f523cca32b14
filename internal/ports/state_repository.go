package ports

import (
	"context"

	"github.com/aquatix/whosthere/internal/domain"
)

// StateRepository persists the engine state between runs. Load returns
// domain.ErrStateNotFound when nothing was saved yet.
type StateRepository interface {
	Load(ctx context.Context) (domain.EngineState, error)
	Save(ctx context.Context, state domain.EngineState) error
}

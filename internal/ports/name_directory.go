package ports

import (
	"context"

	"github.com/aquatix/whosthere/internal/domain"
)

type NameDirectory interface {
	Names(ctx context.Context) (map[domain.ClientID]string, error)
}

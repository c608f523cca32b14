package ports

import (
	"context"
	"time"

	"github.com/aquatix/whosthere/internal/domain"
)

type SessionRecord struct {
	ClientID domain.ClientID
	Name     string
	Session  domain.Session
}

type SessionSink interface {
	WriteSessions(ctx context.Context, exportedAt time.Time, records []SessionRecord) (string, error)
}

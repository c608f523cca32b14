package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aquatix/whosthere/internal/ports"
	"github.com/google/uuid"
)

// SessionSink upserts sessions keyed by client and start, so exporting the
// same history twice only refreshes end times and names.
type SessionSink struct {
	db    *DB
	newID func() string
}

var _ ports.SessionSink = (*SessionSink)(nil)

func NewSessionSink(db *DB) *SessionSink {
	return &SessionSink{db: db, newID: uuid.NewString}
}

// WriteSessions stores all records in one transaction and returns the export id
func (s *SessionSink) WriteSessions(ctx context.Context, exportedAt time.Time, records []ports.SessionRecord) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin export: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	exportID := s.newID()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO exports (id, exported_at, session_count) VALUES (?, ?, ?)`,
		exportID,
		exportedAt.UTC().Format(time.RFC3339),
		len(records),
	); err != nil {
		return "", fmt.Errorf("failed to record export: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sessions (client_id, session_start, session_end, address, name, export_id)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (client_id, session_start) DO UPDATE SET
			session_end = excluded.session_end,
			address = excluded.address,
			name = excluded.name,
			export_id = excluded.export_id
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare session upsert: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		end := sql.NullString{String: string(record.Session.End), Valid: !record.Session.Open()}
		if _, err := stmt.ExecContext(ctx,
			string(record.ClientID),
			string(record.Session.Start),
			end,
			record.Session.Address,
			record.Name,
			exportID,
		); err != nil {
			return "", fmt.Errorf("failed to upsert session %s@%s: %w", record.ClientID, record.Session.Start, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit export: %w", err)
	}

	return exportID, nil
}

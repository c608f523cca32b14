package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New opens the export database and makes sure its schema exists
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; also keeps ":memory:" databases on a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	wrapped := &DB{db}
	if err := wrapped.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return wrapped, nil
}

func (db *DB) migrate(ctx context.Context) error {
	migration := `
CREATE TABLE IF NOT EXISTS exports (
    id TEXT PRIMARY KEY,
    exported_at TEXT NOT NULL,
    session_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
    client_id TEXT NOT NULL,
    session_start TEXT NOT NULL,
    session_end TEXT,
    address TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    export_id TEXT NOT NULL,
    PRIMARY KEY (client_id, session_start),
    FOREIGN KEY (export_id) REFERENCES exports(id)
);
CREATE INDEX IF NOT EXISTS idx_sessions_end ON sessions(session_end);
CREATE INDEX IF NOT EXISTS idx_sessions_export ON sessions(export_id);
`

	if _, err := db.ExecContext(ctx, migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

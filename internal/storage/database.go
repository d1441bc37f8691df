// Package storage persists the analysis-call audit log in SQLite.
// Uploaded images and generated reports are never stored — only the
// telemetry of each generation attempt.
package storage

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS analysis_calls (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    model         TEXT NOT NULL,
    success       BOOLEAN NOT NULL DEFAULT 0,
    duration_ms   INTEGER NOT NULL DEFAULT 0,
    error_message TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_analysis_calls_model ON analysis_calls(model);
CREATE INDEX IF NOT EXISTS idx_analysis_calls_created_at ON analysis_calls(created_at);
`

// NewDatabase opens the SQLite database and runs migrations. The schema is
// embedded in the binary, so no migration files exist at runtime.
//
// DSN pragmas: WAL mode allows concurrent reads while writing, and
// busy_timeout waits up to 5s on lock contention instead of failing.
func NewDatabase(dbPath string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", dbPath)

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Ping actually opens the connection (Open is lazy in database/sql)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// SQLite performs best with a single writer connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

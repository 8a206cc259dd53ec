package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const (
	driverName = "sqlite3"
	dsnOptions = "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"
	dirPerm    = 0o755

	errFailedCreateDirFmt    = "failed to create database directory: %w"
	errFailedOpenDatabaseFmt = "failed to open database: %w"
	errFailedPingDatabaseFmt = "failed to ping database: %w"
	errFailedEnsureSchemaFmt = "failed to ensure schema: %w"
)

// DB wraps a single-writer SQLite handle.
type DB struct {
	*sql.DB
}

func New(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, fmt.Errorf(errFailedCreateDirFmt, err)
	}

	db, err := sql.Open(driverName, path+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf(errFailedOpenDatabaseFmt, err)
	}

	// SQLite serializes writers; keep a single connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf(errFailedPingDatabaseFmt, err)
	}

	return &DB{db}, nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS file_info (
		id TEXT PRIMARY KEY,
		file_name TEXT NOT NULL,
		share_code TEXT UNIQUE NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('blob', 'externalLink')),
		blob_url TEXT,
		external_url TEXT,
		download_limit INTEGER NOT NULL DEFAULT 10 CHECK (download_limit > 0),
		download_count INTEGER NOT NULL DEFAULT 0 CHECK (download_count >= 0),
		expires_at INTEGER NOT NULL,
		upload_time INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_file_info_expires_at ON file_info(expires_at)`,
	`CREATE INDEX IF NOT EXISTS idx_file_info_upload_time ON file_info(upload_time DESC)`,
	`CREATE TABLE IF NOT EXISTS audit_events (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		resource_type TEXT NOT NULL,
		resource_id TEXT,
		action TEXT NOT NULL,
		status TEXT NOT NULL,
		ip_address TEXT,
		user_agent TEXT,
		request_id TEXT,
		metadata TEXT,
		error_message TEXT,
		created_at INTEGER NOT NULL
	)`,
}

// EnsureSchema creates the tables and indexes if they do not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf(errFailedEnsureSchemaFmt, err)
		}
	}
	return nil
}

package postgres

import "context"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS file_info (
		id UUID PRIMARY KEY,
		file_name VARCHAR(255) NOT NULL,
		share_code VARCHAR(10) UNIQUE NOT NULL,
		type VARCHAR(20) NOT NULL CHECK (type IN ('blob', 'externalLink')),
		blob_url TEXT,
		external_url TEXT,
		download_limit INTEGER NOT NULL DEFAULT 10 CHECK (download_limit > 0),
		download_count INTEGER NOT NULL DEFAULT 0 CHECK (download_count >= 0),
		expires_at TIMESTAMPTZ NOT NULL,
		upload_time TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_file_info_expires_at ON file_info(expires_at)`,
	`CREATE INDEX IF NOT EXISTS idx_file_info_upload_time ON file_info(upload_time DESC)`,
	`CREATE TABLE IF NOT EXISTS audit_events (
		id UUID PRIMARY KEY,
		event_type VARCHAR(64) NOT NULL,
		resource_type VARCHAR(32) NOT NULL,
		resource_id UUID,
		action VARCHAR(32) NOT NULL,
		status VARCHAR(16) NOT NULL,
		ip_address VARCHAR(64),
		user_agent TEXT,
		request_id VARCHAR(64),
		metadata JSONB,
		error_message TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_events_created_at ON audit_events(created_at DESC)`,
}

// EnsureSchema creates the tables and indexes if they do not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return errFailedEnsureSchema(err)
		}
	}
	return nil
}

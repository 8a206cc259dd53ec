package repository

import (
	"context"
	"fmt"

	"share-portal/internal/audit"
	"share-portal/internal/config"
	"share-portal/internal/domain/share"
	"share-portal/internal/repository/postgres"
	"share-portal/internal/repository/sqlite"
)

const errUnsupportedDriverFmt = "unsupported database driver %q"

// Backend bundles the stores built on one database handle.
type Backend struct {
	Shares share.Store
	Audit  audit.EventWriter

	close func()
}

// Open connects to the configured database, ensures the schema exists and
// returns the stores sharing that single pool.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*Backend, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return &Backend{
			Shares: postgres.NewShareRecordRepository(db),
			Audit:  postgres.NewAuditEventWriter(db),
			close:  db.Close,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return &Backend{
			Shares: sqlite.NewShareRecordRepository(db),
			Audit:  sqlite.NewAuditEventWriter(db),
			close:  func() { db.Close() },
		}, nil

	default:
		return nil, fmt.Errorf(errUnsupportedDriverFmt, cfg.Driver)
	}
}

func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

package postgres

import (
	"context"

	"share-portal/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the pool shared by the share and audit repositories.
type DB struct {
	Pool *pgxpool.Pool
}

// New connects with cfg and returns once the server has answered a ping.
// ctx bounds both the dial and the ping.
func New(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	poolConfig, err := poolConfigFor(cfg)
	if err != nil {
		return nil, err
	}
	return connect(ctx, poolConfig)
}

// NewFromURL connects to a single DSN with the default pool sizing.
func NewFromURL(ctx context.Context, databaseURL string) (*DB, error) {
	return New(ctx, &config.DatabaseConfig{URL: databaseURL})
}

func connect(ctx context.Context, poolConfig *pgxpool.Config) (*DB, error) {
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errFailedCreateConnectionPool(err)
	}

	db := &DB{Pool: pool}
	if err := db.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return db, nil
}

func poolConfigFor(cfg *config.DatabaseConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, errFailedParseDatabaseConfig(err)
	}

	// Zero keeps pgx's own sizing.
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 && int32(cfg.MinConns) <= poolConfig.MaxConns {
		poolConfig.MinConns = int32(cfg.MinConns)
	}
	poolConfig.HealthCheckPeriod = poolHealthCheckPeriod
	poolConfig.MaxConnLifetime = poolMaxConnLifetime
	poolConfig.MaxConnIdleTime = poolMaxConnIdleTime

	if _, ok := poolConfig.ConnConfig.RuntimeParams[runtimeParamApplicationName]; !ok {
		poolConfig.ConnConfig.RuntimeParams[runtimeParamApplicationName] = applicationName
	}

	return poolConfig, nil
}

// Ping checks the server answers within dbPingTimeout.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()

	if err := db.Pool.Ping(ctx); err != nil {
		return errFailedPingDatabase(err)
	}
	return nil
}

func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

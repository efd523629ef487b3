package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wishstock/wishlist/common/config"
	"github.com/wishstock/wishlist/common/logger"
)

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
// Repositories accept it so the same code runs inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB wraps pgxpool with common operations
type DB struct {
	*pgxpool.Pool
	log       *logger.Logger
	isoLevel  pgx.TxIsoLevel
	txTimeout time.Duration
}

// New creates a new database connection pool
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("database connected", "host", cfg.Database.Host, "db", cfg.Database.Database)

	return Wrap(pool, cfg.Store, log), nil
}

// Wrap builds a DB around an existing pool. Integration tests use it with
// containers they started themselves.
func Wrap(pool *pgxpool.Pool, store config.StoreConfig, log *logger.Logger) *DB {
	timeout := store.TxTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	iso := pgx.TxIsoLevel(store.IsolationLevel)
	if iso == "" {
		iso = pgx.ReadCommitted
	}
	return &DB{
		Pool:      pool,
		log:       log,
		isoLevel:  iso,
		txTimeout: timeout,
	}
}

// Close closes the database connection pool
func (db *DB) Close() {
	db.log.Info("closing database connection pool")
	db.Pool.Close()
}

// Health checks database health
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return db.Pool.Ping(ctx)
}

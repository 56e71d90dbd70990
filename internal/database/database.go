// Package database holds the PostgreSQL pool and the embedded schema
// migrations shared by the SQL-backed registry stores.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig sizes the connection pool
type PoolConfig struct {
	ConnString      string
	MaxConns        int
	MaxConnIdle     time.Duration
	MaxConnLifetime time.Duration
}

// NewPool opens a pool and pings it. The pool is closed again if the ping
// fails.
func NewPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	pgCfg, err := pgxpool.ParseConfig(cfg.ConnString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToParseConnString, err)
	}

	maxConns := min(cfg.MaxConns, math.MaxInt32)
	pgCfg.MaxConns = int32(max(maxConns, DefaultMinConnections))
	pgCfg.MinConns = DefaultMinConnections
	pgCfg.MaxConnIdleTime = cfg.MaxConnIdle
	pgCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreatePool, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToPingDatabase, err)
	}

	slog.InfoContext(ctx, LogMsgSuccessfullyConnectedToDatabase,
		"host", pgCfg.ConnConfig.Host,
		"database", pgCfg.ConnConfig.Database,
		"max_conns", pgCfg.MaxConns)
	return pool, nil
}

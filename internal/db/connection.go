// Package db contains code for connecting to the database.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/issuebridge/issuebridge-server/internal/config"
	"github.com/issuebridge/issuebridge-server/internal/db/sqlc"
	"github.com/issuebridge/issuebridge-server/internal/logger"
)

const (
	defaultMaxConns        = 25
	defaultMinConns        = 2
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnectTimeout  = 10 * time.Second
)

// Connection wraps the connection pool and the query interface
type Connection struct {
	Pool    *pgxpool.Pool
	Queries *sqlc.Queries
}

// NewConnection creates a new database connection pool from the provided configuration
func NewConnection(ctx context.Context, cfg *config.DatabaseConfig) (*Connection, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration is required")
	}

	connStr, err := cfg.GetConnectionString()
	if err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database configuration: %w", err)
	}

	poolCfg.MaxConns = defaultMaxConns
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}

	poolCfg.MinConns = defaultMinConns
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	}

	poolCfg.MaxConnLifetime = defaultConnMaxLifetime
	if cfg.ConnMaxLifetime != "" {
		lifetime, err := time.ParseDuration(cfg.ConnMaxLifetime)
		if err != nil {
			return nil, fmt.Errorf("invalid connection max lifetime: %w", err)
		}
		poolCfg.MaxConnLifetime = lifetime
	}
	poolCfg.ConnConfig.ConnectTimeout = defaultConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Infof("Database connection established: %s@%s:%d/%s",
		cfg.User, cfg.Host, cfg.Port, cfg.Database)

	return &Connection{
		Pool:    pool,
		Queries: sqlc.New(pool),
	}, nil
}

// Close closes the connection pool
func (c *Connection) Close() {
	if c.Pool != nil {
		logger.Info("Closing database connection")
		c.Pool.Close()
	}
}

// Ping verifies the database connection is still alive
func (c *Connection) Ping(ctx context.Context) error {
	if c.Pool == nil {
		return fmt.Errorf("database connection is nil")
	}
	return c.Pool.Ping(ctx)
}

// Package store provides the Postgres persistence layer: task storage
// for the API server plus the schema migration and reset tooling.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mojocode/mojocode/internal/logging"
)

// Conn wraps a single Postgres connection. The migration and reset
// tools hold exactly one connection for their whole lifetime.
type Conn struct {
	pg  *pgx.Conn
	log *logging.Logger
}

// Open dials the database URL with a single connection and pings it to
// fail fast.
func Open(ctx context.Context, databaseURL string, log *logging.Logger) (*Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pg, err := pgx.Connect(dialCtx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	defer cancelPing()
	if err := pg.Ping(pingCtx); err != nil {
		pg.Close(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &Conn{pg: pg, log: log.Sub("store")}, nil
}

// Close releases the connection. Safe to call after a failed operation.
func (c *Conn) Close(ctx context.Context) error {
	c.log.Debug().Msg("closing database connection")
	return c.pg.Close(ctx)
}

// Pool wraps a pgx connection pool for the API server.
type Pool struct {
	pg  *pgxpool.Pool
	log *logging.Logger
}

// OpenPool creates a connection pool against the database URL and pings
// it to fail fast.
func OpenPool(ctx context.Context, databaseURL string, log *logging.Logger) (*Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(dialCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	defer cancelPing()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &Pool{pg: pool, log: log.Sub("store")}, nil
}

// Close closes the pool.
func (p *Pool) Close() {
	if p.pg != nil {
		p.pg.Close()
	}
}

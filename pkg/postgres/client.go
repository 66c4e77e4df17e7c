package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Client wraps a pgx connection pool for reuse across repositories.
type Client struct {
	pool *pgxpool.Pool
}

// Config holds PostgreSQL connection configuration.
type Config struct {
	URL string
}

// NewClient creates and verifies a pooled PostgreSQL connection.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("postgres: connection URL is required")
	}

	pool, err := pgxpool.New(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping failed: %w", err)
	}

	return &Client{pool: pool}, nil
}

// Pool returns the underlying pgx pool for repository use.
func (c *Client) Pool() *pgxpool.Pool {
	return c.pool
}

// Ping verifies the connection is still alive.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.pool == nil {
		return fmt.Errorf("postgres: client is nil")
	}
	return c.pool.Ping(ctx)
}

// Close releases all pooled connections.
func (c *Client) Close() {
	if c != nil && c.pool != nil {
		c.pool.Close()
	}
}

// Package repository provides database access layer.
//
// Users live in PostgreSQL and products in MongoDB. Both stores take identifiers
// as strings and reject values that are malformed for their key type with
// ErrInvalidID.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// Common errors for repository operations.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidID       = errors.New("invalid identifier")
)

// Postgres provides access to the users table.
type Postgres struct {
	pool   *pgxpool.Pool
	schema string
	table  string
}

// NewPostgres creates a new Postgres store with a connection pool.
// schema names the PostgreSQL schema that owns the users table.
func NewPostgres(ctx context.Context, databaseURL, schema string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewPostgresWithPool(pool, schema), nil
}

// NewPostgresWithPool wraps an existing pool. The caller keeps ownership of
// the pool unless Close is called.
func NewPostgresWithPool(pool *pgxpool.Pool, schema string) *Postgres {
	if schema == "" {
		schema = "public"
	}
	return &Postgres{
		pool:   pool,
		schema: schema,
		table:  pq.QuoteIdentifier(schema) + "." + pq.QuoteIdentifier("users"),
	}
}

// Ping checks database connectivity with a trivial query.
func (p *Postgres) Ping(ctx context.Context) error {
	var ok int
	if err := p.pool.QueryRow(ctx, "SELECT 1").Scan(&ok); err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("unexpected health query result %d", ok)
	}
	return nil
}

// Close closes the database connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// EnsureSchema creates the users schema and table when they do not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	statements := []string{
		"CREATE SCHEMA IF NOT EXISTS " + pq.QuoteIdentifier(p.schema),
		`CREATE TABLE IF NOT EXISTS ` + p.table + ` (
			id    BIGSERIAL PRIMARY KEY,
			name  TEXT NOT NULL,
			email TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure users schema: %w", err)
		}
	}

	return nil
}

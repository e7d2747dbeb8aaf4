// Package db provides PostgreSQL storage for legal documents.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema creates the legal document table. The search vector is generated
// from the title and text with the French configuration.
const schema = `
CREATE TABLE IF NOT EXISTS legal_documents (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	title        TEXT NOT NULL,
	url          TEXT NOT NULL,
	source       TEXT NOT NULL,
	published_on DATE NOT NULL,
	doc_type     TEXT NOT NULL DEFAULT '',
	jurisdiction TEXT,
	body         TEXT NOT NULL,
	search       TSVECTOR GENERATED ALWAYS AS (
		setweight(to_tsvector('french', coalesce(title, '')), 'A') ||
		setweight(to_tsvector('french', coalesce(body, '')), 'B')
	) STORED,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (url, title)
);
CREATE INDEX IF NOT EXISTS legal_documents_search_idx ON legal_documents USING GIN (search);
CREATE INDEX IF NOT EXISTS legal_documents_published_idx ON legal_documents (published_on DESC);
`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// EnsureSchema creates the tables and indexes when missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

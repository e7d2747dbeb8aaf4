package db

import (
	"context"
	"fmt"
	"time"

	"github.com/outils-citoyens/outils-api/internal/legal"
	"github.com/outils-citoyens/outils-api/internal/types"
)

// candidateFactor widens the SQL result so freshness can rerank it.
const candidateFactor = 2

const upsertDocument = `
INSERT INTO legal_documents (title, url, source, published_on, doc_type, jurisdiction, body)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
ON CONFLICT (url, title) DO UPDATE SET
	source = EXCLUDED.source,
	published_on = EXCLUDED.published_on,
	doc_type = EXCLUDED.doc_type,
	jurisdiction = EXCLUDED.jurisdiction,
	body = EXCLUDED.body,
	updated_at = NOW()`

// searchDocuments ranks with normalization 32, rank/(rank+1), so scores
// stay in [0, 1) like the in-memory store.
const searchDocuments = `
SELECT title, url, source, published_on, doc_type, COALESCE(jurisdiction, ''), body,
       ts_rank_cd(search, query, 32) AS score
FROM legal_documents, plainto_tsquery('french', $1) AS query
WHERE search @@ query
  AND ($2::date IS NULL OR published_on >= $2::date)
ORDER BY score DESC, published_on DESC
LIMIT $3`

// LegalStore implements legal.Store on Postgres full-text search.
type LegalStore struct {
	db  *DB
	now func() time.Time
}

var _ legal.Store = (*LegalStore)(nil)

// NewLegalStore creates a store over db.
func NewLegalStore(db *DB) *LegalStore {
	return &LegalStore{db: db, now: time.Now}
}

// Name implements legal.Named.
func (s *LegalStore) Name() string { return "postgres" }

// Upsert inserts documents in one transaction, replacing those with the
// same URL and title.
func (s *LegalStore) Upsert(ctx context.Context, docs []types.LegalDoc) error {
	if len(docs) == 0 {
		return nil
	}
	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, d := range docs {
		if _, err := tx.Exec(ctx, upsertDocument,
			d.Title, d.URL, d.Source, d.Date, d.Type, d.Jurisdiction, d.Text,
		); err != nil {
			return fmt.Errorf("failed to upsert legal document %q: %w", d.Title, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit legal documents: %w", err)
	}
	return nil
}

// Search implements legal.Store.
func (s *LegalStore) Search(ctx context.Context, query string, k int, since time.Time) ([]types.ScoredDoc, error) {
	if k <= 0 {
		return nil, nil
	}
	rows, err := s.db.pool.Query(ctx, searchDocuments, query, sinceParam(since), k*candidateFactor)
	if err != nil {
		return nil, fmt.Errorf("failed to search legal documents: %w", err)
	}
	defer rows.Close()

	now := s.now()
	var hits []types.ScoredDoc
	for rows.Next() {
		var (
			d     types.LegalDoc
			score float64
		)
		if err := rows.Scan(&d.Title, &d.URL, &d.Source, &d.Date, &d.Type, &d.Jurisdiction, &d.Text, &score); err != nil {
			return nil, fmt.Errorf("failed to scan legal document: %w", err)
		}
		hits = append(hits, types.ScoredDoc{Doc: d, Score: score, Relevance: legal.Relevance(score, d.Date, now)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read legal documents: %w", err)
	}
	return legal.Rank(hits, k), nil
}

// Count returns the number of stored documents.
func (s *LegalStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM legal_documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count legal documents: %w", err)
	}
	return n, nil
}

// DeleteOlderThan removes documents published before cutoff.
func (s *LegalStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.pool.Exec(ctx, `DELETE FROM legal_documents WHERE published_on < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune legal documents: %w", err)
	}
	return tag.RowsAffected(), nil
}

// sinceParam maps a zero time to SQL NULL.
func sinceParam(since time.Time) *time.Time {
	if since.IsZero() {
		return nil
	}
	return &since
}

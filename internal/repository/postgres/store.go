// Package postgres implements repository.DocumentStore on PostgreSQL, keeping
// every collection in one JSONB table. Equality queries use JSONB containment
// (body @> predicates), which the GIN index on body serves.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rideshare/internal/repository"
	"rideshare/pkg/utils"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT        NOT NULL,
	id         TEXT        NOT NULL,
	body       JSONB       NOT NULL,
	seq        BIGSERIAL,
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS documents_body_idx ON documents USING GIN (body jsonb_path_ops);
`

type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool for dsn and makes sure the documents table exists.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := New(pool)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate documents table: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func encodeBody(doc repository.Document) (string, error) {
	body := make(repository.Document, len(doc))
	for k, v := range doc {
		if k != repository.IDField {
			body[k] = v
		}
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	return string(data), nil
}

func decodeBody(id string, raw []byte) (repository.Document, error) {
	var doc repository.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	doc[repository.IDField] = id
	return doc, nil
}

func (s *Store) Insert(ctx context.Context, collection string, doc repository.Document) (string, error) {
	body, err := encodeBody(doc)
	if err != nil {
		return "", err
	}
	id := utils.GenerateID()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3::jsonb)`,
		collection, id, body,
	)
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	return id, nil
}

func (s *Store) Put(ctx context.Context, collection, id string, doc repository.Document) error {
	body, err := encodeBody(doc)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, id) DO UPDATE SET body = EXCLUDED.body`,
		collection, id, body,
	)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, collection, id string) (repository.Document, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT body FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return decodeBody(id, raw)
}

// QueryByEquality returns matches in insertion order.
func (s *Store) QueryByEquality(ctx context.Context, collection string, predicates map[string]any) ([]repository.Document, error) {
	filter, err := json.Marshal(predicates)
	if err != nil {
		return nil, fmt.Errorf("marshal predicates: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, body FROM documents
		WHERE collection = $1 AND body @> $2::jsonb
		ORDER BY seq`,
		collection, string(filter),
	)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	results := make([]repository.Document, 0)
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		doc, err := decodeBody(id, raw)
		if err != nil {
			return nil, err
		}
		results = append(results, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}
	return results, nil
}

package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps documents as JSONB rows in the documents table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store backed by pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Compile-time check that PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)

const documentColumns = `id::text, version, data, created_at, updated_at`

// Get retrieves a document by id.
func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Document{}, ErrNotFound
	}

	query := `SELECT ` + documentColumns + ` FROM documents WHERE collection = $1 AND id = $2`

	doc, err := scanDocument(s.pool.QueryRow(ctx, query, collection, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("get %s document: %w", collection, err)
	}
	return doc, nil
}

// Create inserts a document with a generated UUID.
func (s *PostgresStore) Create(ctx context.Context, collection string, data json.RawMessage) (Document, error) {
	query := `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3::jsonb)
		RETURNING ` + documentColumns

	doc, err := scanDocument(s.pool.QueryRow(ctx, query, collection, uuid.NewString(), []byte(data)))
	if err != nil {
		return Document{}, fmt.Errorf("create %s document: %w", collection, err)
	}
	return doc, nil
}

// Merge applies a shallow JSONB merge guarded by the expected version.
func (s *PostgresStore) Merge(ctx context.Context, collection, id string, patch json.RawMessage, expectedVersion int64) (Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Document{}, ErrNotFound
	}

	query := `
		UPDATE documents SET
			data = data || $3::jsonb,
			version = version + 1,
			updated_at = now()
		WHERE collection = $1 AND id = $2 AND ($4::bigint = 0 OR version = $4)
		RETURNING ` + documentColumns

	doc, err := scanDocument(s.pool.QueryRow(ctx, query, collection, id, []byte(patch), expectedVersion))
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Document{}, fmt.Errorf("merge %s document: %w", collection, err)
	}

	var exists bool
	existsQuery := `SELECT EXISTS(SELECT 1 FROM documents WHERE collection = $1 AND id = $2)`
	if err := s.pool.QueryRow(ctx, existsQuery, collection, id).Scan(&exists); err != nil {
		return Document{}, fmt.Errorf("check %s document exists: %w", collection, err)
	}
	if !exists {
		return Document{}, ErrNotFound
	}
	return Document{}, ErrVersionConflict
}

// Delete removes a document (hard delete).
func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}

	result, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s document: %w", collection, err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns documents whose data contains every filter value.
func (s *PostgresStore) List(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	containment, err := filtersJSON(filters)
	if err != nil {
		return nil, fmt.Errorf("encode %s filters: %w", collection, err)
	}

	query := `SELECT ` + documentColumns + ` FROM documents WHERE collection = $1 AND data @> $2::jsonb`

	rows, err := s.pool.Query(ctx, query, collection, []byte(containment))
	if err != nil {
		return nil, fmt.Errorf("list %s documents: %w", collection, err)
	}
	defer rows.Close()

	var results []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s document: %w", collection, err)
		}
		results = append(results, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s documents: %w", collection, err)
	}
	return results, nil
}

func scanDocument(row pgx.Row) (Document, error) {
	var doc Document
	var data []byte
	if err := row.Scan(&doc.ID, &doc.Version, &data, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return Document{}, err
	}
	doc.Data = data
	return doc, nil
}

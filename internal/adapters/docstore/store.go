// Package docstore provides the document store used by the dispatch module:
// JSON documents addressed by (collection, id) with get, create, merge,
// delete and equality-filtered list. Every write bumps a version so callers
// can guard read-modify-write cycles with a compare-and-swap.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no document exists for (collection, id).
	ErrNotFound = errors.New("document not found")
	// ErrVersionConflict is returned when a merge's expected version is stale.
	ErrVersionConflict = errors.New("document version conflict")
)

// AnyVersion disables the compare-and-swap check on Merge.
const AnyVersion int64 = 0

// Document is a stored JSON object plus store-maintained metadata.
type Document struct {
	ID        string
	Version   int64
	Data      json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter is a top-level field equality condition.
type Filter struct {
	Field string
	Value any
}

// Eq builds an equality filter.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

// Store is the document store contract.
type Store interface {
	// Get returns the document or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Create stores data under a new store-assigned id.
	Create(ctx context.Context, collection string, data json.RawMessage) (Document, error)
	// Merge overlays the top-level keys of patch onto the document. A JSON null
	// value sets the key to null. When expectedVersion is not AnyVersion and
	// differs from the stored version, ErrVersionConflict is returned.
	Merge(ctx context.Context, collection, id string, patch json.RawMessage, expectedVersion int64) (Document, error)
	// Delete removes the document or returns ErrNotFound.
	Delete(ctx context.Context, collection, id string) error
	// List returns the documents matching every filter. Order is unspecified.
	List(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
}

func filtersJSON(filters []Filter) (json.RawMessage, error) {
	obj := make(map[string]any, len(filters))
	for _, f := range filters {
		obj[f.Field] = f.Value
	}
	return json.Marshal(obj)
}

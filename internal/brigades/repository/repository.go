// Package repository persists brigades and the assignment fields of reports
// in the document store.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"brigadas_backend/internal/adapters/docstore"
	"brigadas_backend/internal/brigades/domain"
	"brigadas_backend/platform/apperr"
)

const (
	brigadesCollection = "brigades"
	reportsCollection  = "reports"

	brigadeNotFoundMessage = "brigade not found"
	reportNotFoundMessage  = "report not found"
	staleBrigadeMessage    = "brigade was modified concurrently"
	storeFailureMessage    = "document store unavailable"
)

// Repo implements BrigadeRepository and ReportRepository over a docstore.Store.
type Repo struct {
	store docstore.Store
	now   func() time.Time
}

// New creates a new brigades repository.
func New(store docstore.Store) *Repo {
	return &Repo{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Compile-time checks that Repo implements both repositories.
var (
	_ BrigadeRepository = (*Repo)(nil)
	_ ReportRepository  = (*Repo)(nil)
)

// GetByID retrieves a brigade by its ID.
func (r *Repo) GetByID(ctx context.Context, id string) (domain.Brigade, error) {
	doc, err := r.store.Get(ctx, brigadesCollection, id)
	if err != nil {
		return domain.Brigade{}, mapStoreError(err, brigadeNotFoundMessage, "get brigade")
	}
	return decodeBrigade(doc)
}

// List retrieves brigades matching filters in store order.
func (r *Repo) List(ctx context.Context, filters ...docstore.Filter) ([]domain.Brigade, error) {
	docs, err := r.store.List(ctx, brigadesCollection, filters...)
	if err != nil {
		return nil, mapStoreError(err, brigadeNotFoundMessage, "list brigades")
	}

	brigades := make([]domain.Brigade, 0, len(docs))
	for _, doc := range docs {
		b, err := decodeBrigade(doc)
		if err != nil {
			return nil, err
		}
		brigades = append(brigades, b)
	}
	return brigades, nil
}

// Create stores a new brigade and returns it with its store-assigned id.
func (r *Repo) Create(ctx context.Context, brigade domain.Brigade) (domain.Brigade, error) {
	data, err := json.Marshal(brigade)
	if err != nil {
		return domain.Brigade{}, fmt.Errorf("encode brigade: %w", err)
	}

	doc, err := r.store.Create(ctx, brigadesCollection, data)
	if err != nil {
		return domain.Brigade{}, mapStoreError(err, brigadeNotFoundMessage, "create brigade")
	}
	return decodeBrigade(doc)
}

// Update merges fields into the brigade and stamps updatedAt.
func (r *Repo) Update(ctx context.Context, id string, fields BrigadeFields, expectedVersion int64) (domain.Brigade, error) {
	if fields.UpdatedAt.IsZero() {
		fields.UpdatedAt = r.now()
	}

	patch, err := json.Marshal(fields)
	if err != nil {
		return domain.Brigade{}, fmt.Errorf("encode brigade patch: %w", err)
	}

	doc, err := r.store.Merge(ctx, brigadesCollection, id, patch, expectedVersion)
	if err != nil {
		return domain.Brigade{}, mapStoreError(err, brigadeNotFoundMessage, "update brigade")
	}
	return decodeBrigade(doc)
}

// GetReport retrieves a report by its ID.
func (r *Repo) GetReport(ctx context.Context, id string) (domain.Report, error) {
	doc, err := r.store.Get(ctx, reportsCollection, id)
	if err != nil {
		return domain.Report{}, mapStoreError(err, reportNotFoundMessage, "get report")
	}

	var report domain.Report
	if err := json.Unmarshal(doc.Data, &report); err != nil {
		return domain.Report{}, fmt.Errorf("decode report %s: %w", doc.ID, err)
	}
	report.ID = doc.ID
	return report, nil
}

// MarkAssigned sets status asignado together with the brigade snapshot.
func (r *Repo) MarkAssigned(ctx context.Context, id string, snapshot domain.Snapshot) error {
	return r.patchReport(ctx, id, map[string]any{
		"status":          domain.ReportAsignado,
		"assignedBrigade": snapshot,
	})
}

// MarkPending returns the report to pendiente and clears the brigade snapshot.
func (r *Repo) MarkPending(ctx context.Context, id string) error {
	return r.patchReport(ctx, id, map[string]any{
		"status":          domain.ReportPendiente,
		"assignedBrigade": nil,
	})
}

// MarkResolved sets status resuelto and the resolution time.
func (r *Repo) MarkResolved(ctx context.Context, id string, resolvedAt time.Time) error {
	return r.patchReport(ctx, id, map[string]any{
		"status":     domain.ReportResuelto,
		"resolvedAt": resolvedAt,
	})
}

func (r *Repo) patchReport(ctx context.Context, id string, fields map[string]any) error {
	fields["updatedAt"] = r.now()

	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode report patch: %w", err)
	}

	if _, err := r.store.Merge(ctx, reportsCollection, id, patch, docstore.AnyVersion); err != nil {
		return mapStoreError(err, reportNotFoundMessage, "update report")
	}
	return nil
}

func decodeBrigade(doc docstore.Document) (domain.Brigade, error) {
	var b domain.Brigade
	if err := json.Unmarshal(doc.Data, &b); err != nil {
		return domain.Brigade{}, fmt.Errorf("decode brigade %s: %w", doc.ID, err)
	}
	b.ID = doc.ID
	b.Version = doc.Version
	return b, nil
}

func mapStoreError(err error, notFoundMessage, op string) error {
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return apperr.NotFound(notFoundMessage).WithOp(op)
	case errors.Is(err, docstore.ErrVersionConflict):
		return apperr.Conflict(staleBrigadeMessage).WithOp(op)
	default:
		return apperr.Store(storeFailureMessage, err).WithOp(op)
	}
}

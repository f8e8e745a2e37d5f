package repository

import (
	"context"
	"time"

	"brigadas_backend/internal/adapters/docstore"
	"brigadas_backend/internal/brigades/domain"
)

// BrigadeFields is a partial brigade update. Nil fields are left untouched.
type BrigadeFields struct {
	Name            *string                        `json:"name,omitempty"`
	Description     *string                        `json:"description,omitempty"`
	Type            *domain.BrigadeType            `json:"type,omitempty"`
	Status          *domain.Status                 `json:"status,omitempty"`
	Members         *[]domain.Member               `json:"members,omitempty"`
	Equipment       *[]string                      `json:"equipment,omitempty"`
	CoverageZones   *[]string                      `json:"coverageZones,omitempty"`
	WeeklySchedule  *map[string]domain.DaySchedule `json:"weeklySchedule,omitempty"`
	AssignedReports *[]string                      `json:"assignedReports,omitempty"`
	Stats           *domain.Stats                  `json:"stats,omitempty"`
	Active          *bool                          `json:"active,omitempty"`
	UpdatedAt       time.Time                      `json:"updatedAt"`
}

// BrigadeReader provides read operations for brigades.
type BrigadeReader interface {
	GetByID(ctx context.Context, id string) (domain.Brigade, error)
	// List applies the given equality filters at the store level.
	List(ctx context.Context, filters ...docstore.Filter) ([]domain.Brigade, error)
}

// BrigadeWriter provides write operations for brigades.
type BrigadeWriter interface {
	Create(ctx context.Context, brigade domain.Brigade) (domain.Brigade, error)
	// Update merges fields. A non-zero expectedVersion turns the write into a
	// compare-and-swap that fails with a conflict error on a stale version.
	Update(ctx context.Context, id string, fields BrigadeFields, expectedVersion int64) (domain.Brigade, error)
}

// BrigadeRepository combines all brigade repository operations.
type BrigadeRepository interface {
	BrigadeReader
	BrigadeWriter
}

// ReportRepository reads reports and applies the assignment-related writes.
// Reports are owned by another module; only these fields are touched.
type ReportRepository interface {
	GetReport(ctx context.Context, id string) (domain.Report, error)
	MarkAssigned(ctx context.Context, id string, snapshot domain.Snapshot) error
	MarkPending(ctx context.Context, id string) error
	MarkResolved(ctx context.Context, id string, resolvedAt time.Time) error
}

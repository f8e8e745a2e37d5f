package service

import (
	"cmp"
	"context"
	"slices"

	"brigadas_backend/internal/brigades/domain"
	"brigadas_backend/platform/apperr"
)

// Candidate is a brigade offered for a report, annotated with its workload.
type Candidate struct {
	Brigade   domain.Brigade
	Workload  int
	Available bool
}

// FindAvailable returns the active brigades able to take a report of category,
// least loaded first. A maxWorkload of zero or less uses the configured default.
func (s *Service) FindAvailable(ctx context.Context, category string, maxWorkload int) ([]Candidate, error) {
	cat, err := domain.ParseCategory(category)
	if err != nil {
		return nil, apperr.Validation(msgUnknownCategory).WithDetails(map[string]string{"category": category})
	}
	if maxWorkload <= 0 {
		maxWorkload = s.maxWorkload
	}

	active := true
	brigades, err := s.brigades.List(ctx, ListFilter{Active: &active}.storeFilter()...)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(brigades))
	for _, b := range brigades {
		if !b.Active || !b.Status.Dispatchable() || !b.Type.Serves(cat) {
			continue
		}
		workload := b.Workload()
		if workload >= maxWorkload {
			continue
		}
		candidates = append(candidates, Candidate{Brigade: b, Workload: workload, Available: true})
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		if c := cmp.Compare(a.Workload, b.Workload); c != 0 {
			return c
		}
		return cmp.Compare(a.Brigade.ID, b.Brigade.ID)
	})
	return candidates, nil
}

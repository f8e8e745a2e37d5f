package service

import (
	"context"

	"brigadas_backend/internal/brigades/domain"
)

// GetStatistics summarizes the brigades matching filter, recomputed on every
// call. An empty filter summarizes the active brigades.
func (s *Service) GetStatistics(ctx context.Context, filter ListFilter) (domain.Summary, error) {
	if filter.IsEmpty() {
		active := true
		filter.Active = &active
	}

	brigades, err := s.List(ctx, filter)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summarize(brigades), nil
}

package service

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"brigadas_backend/internal/adapters/docstore"
	"brigadas_backend/internal/brigades/domain"
	"brigadas_backend/internal/brigades/repository"
	"brigadas_backend/internal/brigades/transport"
	"brigadas_backend/platform/apperr"
	"brigadas_backend/platform/phone"
	"brigadas_backend/platform/sanitize"
)

const (
	msgInvalidBrigade  = "brigade data is invalid"
	msgBrigadeHasWork  = "brigade still has assigned reports"
	msgUnknownType     = "unknown brigade type"
	msgUnknownRole     = "unknown member role"
	msgUnknownCategory = "unknown report category"
)

// ListFilter selects brigades by equality. Nil fields are not applied.
type ListFilter struct {
	Active *bool
	Type   *domain.BrigadeType
	Status *domain.Status
}

// IsEmpty reports whether no filter is set.
func (f ListFilter) IsEmpty() bool {
	return f.Active == nil && f.Type == nil && f.Status == nil
}

// storeFilter returns the first set filter in active, type, status order.
func (f ListFilter) storeFilter() []docstore.Filter {
	switch {
	case f.Active != nil:
		return []docstore.Filter{docstore.Eq("active", *f.Active)}
	case f.Type != nil:
		return []docstore.Filter{docstore.Eq("type", string(*f.Type))}
	case f.Status != nil:
		return []docstore.Filter{docstore.Eq("status", string(*f.Status))}
	}
	return nil
}

func (f ListFilter) matches(b domain.Brigade) bool {
	if f.Active != nil && b.Active != *f.Active {
		return false
	}
	if f.Type != nil && b.Type != *f.Type {
		return false
	}
	if f.Status != nil && b.Status != *f.Status {
		return false
	}
	return true
}

// Create validates req and stores a new brigade created by actor.
func (s *Service) Create(ctx context.Context, req transport.CreateBrigadeRequest, actor string) (domain.Brigade, error) {
	req = sanitizeCreate(req)
	if err := s.val.Struct(req); err != nil {
		return domain.Brigade{}, invalidInput(msgInvalidBrigade, err)
	}

	brigadeType, _ := domain.ParseBrigadeType(req.Type)
	status := domain.StatusActiva
	if req.Status != "" {
		status, _ = domain.ParseStatus(req.Status)
	}

	schedule := domain.DefaultWeeklySchedule()
	for day, shift := range req.WeeklySchedule {
		schedule[day] = domain.DaySchedule{Start: shift.Start, End: shift.End, Active: shift.Active}
	}

	now := s.now()
	brigade := domain.Brigade{
		Name:            req.Name,
		Description:     req.Description,
		Type:            brigadeType,
		Status:          status,
		Members:         s.mapMembers(req.Members),
		Equipment:       nonNilStrings(req.Equipment),
		CoverageZones:   nonNilStrings(req.CoverageZones),
		WeeklySchedule:  schedule,
		AssignedReports: []string{},
		Stats:           domain.Stats{},
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
		CreatedBy:       actor,
	}

	created, err := s.brigades.Create(ctx, brigade)
	if err != nil {
		return domain.Brigade{}, err
	}

	s.log.WithContext(ctx).Info("brigade created", "brigadeId", created.ID, "type", created.Type)
	return created, nil
}

// GetByID returns a brigade by id.
func (s *Service) GetByID(ctx context.Context, id string) (domain.Brigade, error) {
	id = strings.TrimSpace(id)
	if err := requireIDs("get brigade", map[string]string{"id": id}); err != nil {
		return domain.Brigade{}, err
	}
	return s.brigades.GetByID(ctx, id)
}

// List returns brigades matching filter, most recently created first.
// Brigades created at the same instant are ordered by id.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]domain.Brigade, error) {
	brigades, err := s.brigades.List(ctx, filter.storeFilter()...)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Brigade, 0, len(brigades))
	for _, b := range brigades {
		if filter.matches(b) {
			out = append(out, b)
		}
	}

	slices.SortFunc(out, func(a, b domain.Brigade) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Update merges the descriptive fields of a brigade. Workload, status and
// activity are owned by other operations and cannot be changed here.
func (s *Service) Update(ctx context.Context, id string, req transport.UpdateBrigadeRequest) (domain.Brigade, error) {
	id = strings.TrimSpace(id)
	if err := requireIDs("update brigade", map[string]string{"id": id}); err != nil {
		return domain.Brigade{}, err
	}

	fields := repository.BrigadeFields{UpdatedAt: s.now()}
	if req.Name != nil {
		name := sanitize.Text(*req.Name)
		fields.Name = &name
	}
	if req.Description != nil {
		description := sanitize.Text(*req.Description)
		fields.Description = &description
	}
	if req.Type != nil {
		brigadeType, err := domain.ParseBrigadeType(*req.Type)
		if err != nil {
			return domain.Brigade{}, apperr.Validation(msgUnknownType).WithDetails(map[string]string{"type": *req.Type})
		}
		fields.Type = &brigadeType
	}
	if req.Members != nil {
		cleaned := sanitizeMembers(*req.Members)
		for _, m := range cleaned {
			if !domain.MemberRole(m.Role).Valid() {
				return domain.Brigade{}, apperr.Validation(msgUnknownRole).WithDetails(map[string]string{"role": m.Role})
			}
		}
		members := s.mapMembers(cleaned)
		fields.Members = &members
	}
	if req.Equipment != nil {
		equipment := nonNilStrings(sanitize.Strings(*req.Equipment))
		fields.Equipment = &equipment
	}
	if req.CoverageZones != nil {
		zones := nonNilStrings(sanitize.Strings(*req.CoverageZones))
		fields.CoverageZones = &zones
	}
	if req.WeeklySchedule != nil {
		schedule := make(map[string]domain.DaySchedule, len(*req.WeeklySchedule))
		for day, shift := range *req.WeeklySchedule {
			schedule[day] = domain.DaySchedule{Start: shift.Start, End: shift.End, Active: shift.Active}
		}
		fields.WeeklySchedule = &schedule
	}

	updated, err := s.brigades.Update(ctx, id, fields, docstore.AnyVersion)
	if err != nil {
		return domain.Brigade{}, err
	}

	s.log.WithContext(ctx).Info("brigade updated", "brigadeId", id)
	return updated, nil
}

// Delete soft-deletes a brigade. A brigade holding reports cannot be deleted.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if err := requireIDs("delete brigade", map[string]string{"id": id}); err != nil {
		return err
	}

	_, err := s.mutateBrigade(ctx, id, func(b domain.Brigade) (*repository.BrigadeFields, error) {
		if b.Workload() > 0 {
			return nil, apperr.Constraint(msgBrigadeHasWork).WithDetails(map[string]any{
				"assignedReports": b.AssignedReports,
			})
		}
		if !b.Active {
			return nil, nil
		}
		inactive := false
		return &repository.BrigadeFields{Active: &inactive}, nil
	})
	if err != nil {
		return err
	}

	s.log.WithContext(ctx).Info("brigade deactivated", "brigadeId", id)
	return nil
}

func (s *Service) mapMembers(reqs []transport.MemberRequest) []domain.Member {
	members := make([]domain.Member, 0, len(reqs))
	for _, m := range reqs {
		members = append(members, domain.Member{
			Name:   m.Name,
			Role:   domain.MemberRole(m.Role),
			Phone:  phone.NormalizeE164(m.Phone, s.phoneRegion),
			Email:  m.Email,
			IsLead: m.IsLead,
		})
	}
	return members
}

func sanitizeCreate(req transport.CreateBrigadeRequest) transport.CreateBrigadeRequest {
	req.Name = sanitize.Text(req.Name)
	req.Description = sanitize.Text(req.Description)
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	req.Members = sanitizeMembers(req.Members)
	req.Equipment = sanitize.Strings(req.Equipment)
	req.CoverageZones = sanitize.Strings(req.CoverageZones)
	return req
}

func sanitizeMembers(reqs []transport.MemberRequest) []transport.MemberRequest {
	if reqs == nil {
		return nil
	}
	out := make([]transport.MemberRequest, len(reqs))
	for i, m := range reqs {
		out[i] = transport.MemberRequest{
			Name:   sanitize.Text(m.Name),
			Role:   strings.ToLower(strings.TrimSpace(m.Role)),
			Phone:  strings.TrimSpace(m.Phone),
			Email:  strings.ToLower(strings.TrimSpace(m.Email)),
			IsLead: m.IsLead,
		}
	}
	return out
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

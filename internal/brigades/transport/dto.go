package transport

import (
	"time"

	"brigadas_backend/internal/brigades/domain"
)

type MemberRequest struct {
	Name   string `json:"name" yaml:"name" validate:"required,min=2,max=120"`
	Role   string `json:"role" yaml:"role" validate:"required,member_role"`
	Phone  string `json:"phone,omitempty" yaml:"phone" validate:"omitempty,max=30"`
	Email  string `json:"email,omitempty" yaml:"email" validate:"omitempty,email"`
	IsLead bool   `json:"isLead" yaml:"isLead"`
}

type DayScheduleRequest struct {
	Start  string `json:"start" yaml:"start" validate:"required,shift_time"`
	End    string `json:"end" yaml:"end" validate:"required,shift_time"`
	Active bool   `json:"active" yaml:"active"`
}

type CreateBrigadeRequest struct {
	Name           string                        `json:"name" yaml:"name" validate:"required,min=3,max=120"`
	Description    string                        `json:"description,omitempty" yaml:"description" validate:"max=500"`
	Type           string                        `json:"type" yaml:"type" validate:"required,brigade_type"`
	Status         string                        `json:"status,omitempty" yaml:"status" validate:"omitempty,brigade_status"`
	Members        []MemberRequest               `json:"members,omitempty" yaml:"members" validate:"omitempty,dive"`
	Equipment      []string                      `json:"equipment,omitempty" yaml:"equipment" validate:"omitempty,dive,max=120"`
	CoverageZones  []string                      `json:"coverageZones,omitempty" yaml:"coverageZones" validate:"omitempty,dive,max=120"`
	WeeklySchedule map[string]DayScheduleRequest `json:"weeklySchedule,omitempty" yaml:"weeklySchedule" validate:"omitempty,dive,keys,weekday,endkeys"`
}

type UpdateBrigadeRequest struct {
	Name           *string                        `json:"name,omitempty"`
	Description    *string                        `json:"description,omitempty"`
	Type           *string                        `json:"type,omitempty"`
	Members        *[]MemberRequest               `json:"members,omitempty"`
	Equipment      *[]string                      `json:"equipment,omitempty"`
	CoverageZones  *[]string                      `json:"coverageZones,omitempty"`
	WeeklySchedule *map[string]DayScheduleRequest `json:"weeklySchedule,omitempty"`
}

type ListBrigadesRequest struct {
	Active *bool  `form:"active"`
	Type   string `form:"type"`
	Status string `form:"status"`
}

type AvailableBrigadesRequest struct {
	Category    string `form:"category"`
	MaxWorkload int    `form:"maxWorkload"`
}

type AssignReportRequest struct {
	ReportID string `json:"reportId"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type BrigadeResponse struct {
	ID              string                        `json:"id"`
	Name            string                        `json:"name"`
	Description     string                        `json:"description"`
	Type            domain.BrigadeType            `json:"type"`
	Status          domain.Status                 `json:"status"`
	Members         []domain.Member               `json:"members"`
	Equipment       []string                      `json:"equipment"`
	CoverageZones   []string                      `json:"coverageZones"`
	WeeklySchedule  map[string]domain.DaySchedule `json:"weeklySchedule"`
	AssignedReports []string                      `json:"assignedReports"`
	Stats           domain.Stats                  `json:"stats"`
	Active          bool                          `json:"active"`
	CreatedAt       time.Time                     `json:"createdAt"`
	UpdatedAt       time.Time                     `json:"updatedAt"`
	CreatedBy       string                        `json:"createdBy"`
}

type CandidateResponse struct {
	BrigadeResponse
	Workload  int  `json:"workload"`
	Available bool `json:"available"`
}

type AssignmentResponse struct {
	BrigadeID       string `json:"brigadeId"`
	BrigadeName     string `json:"brigadeName"`
	ReportID        string `json:"reportId"`
	AlreadyAssigned bool   `json:"alreadyAssigned"`
}

type ReconcileResponse struct {
	BrigadeID string `json:"brigadeId"`
	ReportID  string `json:"reportId"`
	Repaired  bool   `json:"repaired"`
}

// ToBrigadeResponse maps a domain brigade to its API shape.
func ToBrigadeResponse(b domain.Brigade) BrigadeResponse {
	return BrigadeResponse{
		ID:              b.ID,
		Name:            b.Name,
		Description:     b.Description,
		Type:            b.Type,
		Status:          b.Status,
		Members:         nonNil(b.Members),
		Equipment:       nonNil(b.Equipment),
		CoverageZones:   nonNil(b.CoverageZones),
		WeeklySchedule:  b.WeeklySchedule,
		AssignedReports: nonNil(b.AssignedReports),
		Stats:           b.Stats,
		Active:          b.Active,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
		CreatedBy:       b.CreatedBy,
	}
}

// ToBrigadeResponses maps a list of domain brigades.
func ToBrigadeResponses(brigades []domain.Brigade) []BrigadeResponse {
	out := make([]BrigadeResponse, 0, len(brigades))
	for _, b := range brigades {
		out = append(out, ToBrigadeResponse(b))
	}
	return out
}

func nonNil[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}

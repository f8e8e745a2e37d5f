package domain

import (
	"slices"
	"time"
)

// Member is a person in a brigade.
type Member struct {
	Name   string     `json:"name"`
	Role   MemberRole `json:"role"`
	Phone  string     `json:"phone,omitempty"`
	Email  string     `json:"email,omitempty"`
	IsLead bool       `json:"isLead"`
}

// DaySchedule is the shift of a brigade for one weekday.
type DaySchedule struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Active bool   `json:"active"`
}

// Weekdays in schedule order.
var Weekdays = []string{"lunes", "martes", "miercoles", "jueves", "viernes", "sabado", "domingo"}

// DefaultWeeklySchedule returns weekday shifts 08:00-16:00 with the weekend off.
func DefaultWeeklySchedule() map[string]DaySchedule {
	schedule := make(map[string]DaySchedule, len(Weekdays))
	for i, day := range Weekdays {
		schedule[day] = DaySchedule{Start: "08:00", End: "16:00", Active: i < 5}
	}
	return schedule
}

// Stats holds the workload counters of a brigade.
type Stats struct {
	CompletedCount    int     `json:"completedCount"`
	InProcessCount    int     `json:"inProcessCount"`
	AvgResolutionDays float64 `json:"avgResolutionDays"`
	AvgRating         float64 `json:"avgRating"`
}

// Brigade is a field-response unit.
type Brigade struct {
	ID              string                 `json:"-"`
	Version         int64                  `json:"-"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	Type            BrigadeType            `json:"type"`
	Status          Status                 `json:"status"`
	Members         []Member               `json:"members"`
	Equipment       []string               `json:"equipment"`
	CoverageZones   []string               `json:"coverageZones"`
	WeeklySchedule  map[string]DaySchedule `json:"weeklySchedule"`
	AssignedReports []string               `json:"assignedReports"`
	Stats           Stats                  `json:"stats"`
	Active          bool                   `json:"active"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
	CreatedBy       string                 `json:"createdBy"`
}

// Workload is the number of reports currently held.
func (b Brigade) Workload() int {
	return len(b.AssignedReports)
}

// Holds reports whether reportID is currently assigned to the brigade.
func (b Brigade) Holds(reportID string) bool {
	return slices.Contains(b.AssignedReports, reportID)
}

// Lead returns the first member flagged as lead.
func (b Brigade) Lead() (Member, bool) {
	for _, m := range b.Members {
		if m.IsLead {
			return m, true
		}
	}
	return Member{}, false
}

// WithReport returns the assigned set with reportID added once.
func (b Brigade) WithReport(reportID string) []string {
	if b.Holds(reportID) {
		return slices.Clone(b.AssignedReports)
	}
	return append(slices.Clone(b.AssignedReports), reportID)
}

// WithoutReport returns the assigned set with every occurrence of reportID removed.
func (b Brigade) WithoutReport(reportID string) []string {
	out := make([]string, 0, len(b.AssignedReports))
	for _, id := range b.AssignedReports {
		if id != reportID {
			out = append(out, id)
		}
	}
	return out
}

// Snapshot is the brigade summary copied onto a report at assignment time.
type Snapshot struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Type       BrigadeType `json:"type"`
	AssignedAt time.Time   `json:"assignedAt"`
	AssignedBy string      `json:"assignedBy"`
}

// Report is the subset of a citizen report this module reads and writes.
type Report struct {
	ID              string       `json:"-"`
	Category        Category     `json:"category"`
	Address         string       `json:"address"`
	Status          ReportStatus `json:"status"`
	AssignedBrigade *Snapshot    `json:"assignedBrigade"`
	ResolvedAt      *time.Time   `json:"resolvedAt"`
}

// RunningMean folds value into a mean over count-1 previous samples.
func RunningMean(mean float64, count int, value float64) float64 {
	if count <= 1 {
		return value
	}
	return mean + (value-mean)/float64(count)
}

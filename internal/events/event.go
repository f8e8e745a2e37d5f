// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"brigadas_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Brigade Domain Events
// =============================================================================

const (
	ReportAssignedEvent       = "brigades.report.assigned"
	BrigadeStatusChangedEvent = "brigades.status.changed"
	ReportCompletedEvent      = "brigades.report.completed"
)

// ReportAssigned is published when a report is newly assigned to a brigade.
// Idempotent re-assignments do not publish it.
type ReportAssigned struct {
	BaseEvent
	BrigadeID   string `json:"brigadeId"`
	BrigadeName string `json:"brigadeName"`
	BrigadeType string `json:"brigadeType"`
	ReportID    string `json:"reportId"`
	Category    string `json:"category"`
	Address     string `json:"address"`
	AssignedBy  string `json:"assignedBy"`
	LeadName    string `json:"leadName,omitempty"`
	LeadEmail   string `json:"leadEmail,omitempty"`
}

func (e ReportAssigned) EventName() string { return ReportAssignedEvent }

// BrigadeStatusChanged is published when a brigade moves to a different status.
type BrigadeStatusChanged struct {
	BaseEvent
	BrigadeID string `json:"brigadeId"`
	From      string `json:"from"`
	To        string `json:"to"`
	ChangedBy string `json:"changedBy"`
}

func (e BrigadeStatusChanged) EventName() string { return BrigadeStatusChangedEvent }

// ReportCompleted is published when a brigade closes a report.
type ReportCompleted struct {
	BaseEvent
	BrigadeID      string  `json:"brigadeId"`
	ReportID       string  `json:"reportId"`
	ResolutionDays float64 `json:"resolutionDays"`
}

func (e ReportCompleted) EventName() string { return ReportCompletedEvent }

// Package notification provides event handlers that notify field staff in
// response to brigade domain events. Domain modules publish events and do not
// know about queues, e-mail providers or templates.
package notification

import (
	"context"

	"brigadas_backend/internal/email"
	"brigadas_backend/internal/events"
	"brigadas_backend/internal/scheduler"
	"brigadas_backend/platform/logger"
)

// Module turns assignment events into lead notices. With a queue the notice is
// enqueued and delivered by the worker; without one it is sent in-process.
type Module struct {
	sender  email.Sender
	notices scheduler.NoticeScheduler
	log     *logger.Logger
}

// New creates the notification module.
func New(sender email.Sender, log *logger.Logger) *Module {
	if sender == nil {
		sender = email.NoopSender{}
	}
	return &Module{sender: sender, log: log}
}

// SetNoticeScheduler routes notices through the task queue.
func (m *Module) SetNoticeScheduler(notices scheduler.NoticeScheduler) {
	m.notices = notices
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.ReportAssignedEvent, m)
	bus.Subscribe(events.BrigadeStatusChangedEvent, m)
	bus.Subscribe(events.ReportCompletedEvent, m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ReportAssigned:
		return m.handleReportAssigned(ctx, e)
	case events.BrigadeStatusChanged:
		m.log.WithContext(ctx).Info("brigade status changed", "brigadeId", e.BrigadeID, "from", e.From, "to", e.To, "changedBy", e.ChangedBy)
		return nil
	case events.ReportCompleted:
		m.log.WithContext(ctx).Info("report completed", "brigadeId", e.BrigadeID, "reportId", e.ReportID, "resolutionDays", e.ResolutionDays)
		return nil
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleReportAssigned(ctx context.Context, e events.ReportAssigned) error {
	if e.LeadEmail == "" {
		m.log.WithContext(ctx).Debug("brigade has no lead e-mail, skipping notice", "brigadeId", e.BrigadeID)
		return nil
	}

	if m.notices != nil {
		return m.notices.EnqueueAssignmentNotice(ctx, scheduler.AssignmentNoticePayload{
			BrigadeID:   e.BrigadeID,
			BrigadeName: e.BrigadeName,
			ReportID:    e.ReportID,
			Category:    e.Category,
			Address:     e.Address,
			AssignedBy:  e.AssignedBy,
			AssignedAt:  e.OccurredAt(),
			LeadName:    e.LeadName,
			LeadEmail:   e.LeadEmail,
		})
	}

	return m.sender.SendAssignmentNotice(ctx, e.LeadEmail, email.AssignmentNotice{
		LeadName:    e.LeadName,
		BrigadeName: e.BrigadeName,
		ReportID:    e.ReportID,
		Category:    e.Category,
		Address:     e.Address,
		AssignedBy:  e.AssignedBy,
		AssignedAt:  e.OccurredAt(),
	})
}

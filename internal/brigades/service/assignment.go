package service

import (
	"context"
	"errors"
	"strings"

	"brigadas_backend/internal/brigades/domain"
	"brigadas_backend/internal/brigades/repository"
	"brigadas_backend/internal/brigades/transport"
	"brigadas_backend/internal/events"
	"brigadas_backend/platform/apperr"
)

// casAttempts bounds the read-modify-write retries on a brigade version conflict.
const casAttempts = 3

const (
	msgAlreadyAssigned   = "already assigned"
	msgAssigned          = "report assigned"
	msgInactiveBrigade   = "brigade is inactive"
	msgHeldByOther       = "report is assigned to another brigade"
	msgReportClosed      = "report is already closed"
	msgNotHeld           = "report is not assigned to this brigade"
	msgUnassignedMissing = "report is not assigned to any brigade"
)

// mutateBrigade loads a brigade, asks mutate for the fields to write and
// writes them guarded by the loaded version. Version conflicts are retried
// from a fresh read. A nil field set means there is nothing to write.
func (s *Service) mutateBrigade(ctx context.Context, id string, mutate func(b domain.Brigade) (*repository.BrigadeFields, error)) (domain.Brigade, error) {
	var lastErr error
	for attempt := 0; attempt < casAttempts; attempt++ {
		b, err := s.brigades.GetByID(ctx, id)
		if err != nil {
			return domain.Brigade{}, err
		}

		fields, err := mutate(b)
		if err != nil {
			return domain.Brigade{}, err
		}
		if fields == nil {
			return b, nil
		}

		updated, err := s.brigades.Update(ctx, id, *fields, b.Version)
		if err == nil {
			return updated, nil
		}
		if !apperr.Is(err, apperr.KindConflict) {
			return domain.Brigade{}, err
		}
		lastErr = err
	}
	return domain.Brigade{}, lastErr
}

// holdingFields writes the held report set together with stats whose
// in-process count matches it.
func holdingFields(reports []string, stats domain.Stats) *repository.BrigadeFields {
	stats.InProcessCount = len(reports)
	return &repository.BrigadeFields{AssignedReports: &reports, Stats: &stats}
}

// Assign gives reportID to brigadeID on behalf of actor. Assigning a report
// the brigade already holds succeeds without writing anything.
func (s *Service) Assign(ctx context.Context, brigadeID, reportID, actor string) (transport.AssignmentResponse, string, error) {
	brigadeID = strings.TrimSpace(brigadeID)
	reportID = strings.TrimSpace(reportID)
	if err := requireIDs("assign report", map[string]string{"brigadeId": brigadeID, "reportId": reportID}); err != nil {
		return transport.AssignmentResponse{}, "", err
	}

	report, err := s.reports.GetReport(ctx, reportID)
	if err != nil {
		return transport.AssignmentResponse{}, "", err
	}
	if report.Status.IsClosed() {
		return transport.AssignmentResponse{}, "", apperr.Constraint(msgReportClosed).WithDetails(map[string]string{"status": string(report.Status)})
	}
	if report.AssignedBrigade != nil && report.AssignedBrigade.ID != brigadeID {
		return transport.AssignmentResponse{}, "", apperr.Constraint(msgHeldByOther).WithDetails(map[string]string{"brigadeId": report.AssignedBrigade.ID})
	}

	var (
		already bool
		current domain.Brigade
	)
	reserve := sagaStep{
		name: "reserve-brigade",
		forward: func(ctx context.Context) error {
			b, err := s.mutateBrigade(ctx, brigadeID, func(b domain.Brigade) (*repository.BrigadeFields, error) {
				if !b.Active {
					return nil, apperr.Constraint(msgInactiveBrigade)
				}
				if b.Holds(reportID) {
					already = true
					return nil, nil
				}
				return holdingFields(b.WithReport(reportID), b.Stats), nil
			})
			current = b
			return err
		},
		rollback: func(ctx context.Context) error {
			if already {
				return nil
			}
			_, err := s.mutateBrigade(ctx, brigadeID, func(b domain.Brigade) (*repository.BrigadeFields, error) {
				if !b.Holds(reportID) {
					return nil, nil
				}
				return holdingFields(b.WithoutReport(reportID), b.Stats), nil
			})
			return err
		},
	}
	writeReport := sagaStep{
		name: "mark-report-assigned",
		forward: func(ctx context.Context) error {
			if already {
				return nil
			}
			b, err := s.brigades.GetByID(ctx, brigadeID)
			if err != nil {
				return err
			}
			current = b
			return s.reports.MarkAssigned(ctx, reportID, domain.Snapshot{
				ID:         b.ID,
				Name:       b.Name,
				Type:       b.Type,
				AssignedAt: s.now(),
				AssignedBy: actor,
			})
		},
	}

	if err := newSaga("assign", s.log, reserve, writeReport).run(ctx); err != nil {
		s.scheduleRepairIfNeeded(ctx, err, brigadeID, reportID)
		return transport.AssignmentResponse{}, "", err
	}

	result := transport.AssignmentResponse{
		BrigadeID:       current.ID,
		BrigadeName:     current.Name,
		ReportID:        reportID,
		AlreadyAssigned: already,
	}
	if already {
		return result, msgAlreadyAssigned, nil
	}

	event := events.ReportAssigned{
		BaseEvent:   events.NewBaseEvent(),
		BrigadeID:   current.ID,
		BrigadeName: current.Name,
		BrigadeType: string(current.Type),
		ReportID:    reportID,
		Category:    string(report.Category),
		Address:     report.Address,
		AssignedBy:  actor,
	}
	if lead, ok := current.Lead(); ok {
		event.LeadName = lead.Name
		event.LeadEmail = lead.Email
	}
	s.publish(ctx, event)

	s.log.WithContext(ctx).Info("report assigned", "brigadeId", brigadeID, "reportId", reportID)
	return result, msgAssigned + " to " + current.Name, nil
}

// Unassign takes reportID away from brigadeID and returns the report to the
// pending queue. Removing a report the brigade does not hold only resets the report.
func (s *Service) Unassign(ctx context.Context, brigadeID, reportID string) error {
	brigadeID = strings.TrimSpace(brigadeID)
	reportID = strings.TrimSpace(reportID)
	if brigadeID == "" {
		return apperr.Validation(msgUnassignedMissing).WithOp("unassign report")
	}
	if err := requireIDs("unassign report", map[string]string{"reportId": reportID}); err != nil {
		return err
	}

	if _, err := s.reports.GetReport(ctx, reportID); err != nil {
		return err
	}

	var released bool
	release := sagaStep{
		name: "release-brigade",
		forward: func(ctx context.Context) error {
			_, err := s.mutateBrigade(ctx, brigadeID, func(b domain.Brigade) (*repository.BrigadeFields, error) {
				if !b.Holds(reportID) {
					return nil, nil
				}
				released = true
				return holdingFields(b.WithoutReport(reportID), b.Stats), nil
			})
			return err
		},
		rollback: func(ctx context.Context) error {
			if !released {
				return nil
			}
			_, err := s.mutateBrigade(ctx, brigadeID, func(b domain.Brigade) (*repository.BrigadeFields, error) {
				if b.Holds(reportID) {
					return nil, nil
				}
				return holdingFields(b.WithReport(reportID), b.Stats), nil
			})
			return err
		},
	}
	resetReport := sagaStep{
		name: "mark-report-pending",
		forward: func(ctx context.Context) error {
			return s.reports.MarkPending(ctx, reportID)
		},
	}

	if err := newSaga("unassign", s.log, release, resetReport).run(ctx); err != nil {
		s.scheduleRepairIfNeeded(ctx, err, brigadeID, reportID)
		return err
	}

	s.log.WithContext(ctx).Info("report unassigned", "brigadeId", brigadeID, "reportId", reportID, "released", released)
	return nil
}

// Complete closes reportID for brigadeID, counting it in the brigade's stats.
func (s *Service) Complete(ctx context.Context, brigadeID, reportID string) error {
	brigadeID = strings.TrimSpace(brigadeID)
	reportID = strings.TrimSpace(reportID)
	if err := requireIDs("complete report", map[string]string{"brigadeId": brigadeID, "reportId": reportID}); err != nil {
		return err
	}

	report, err := s.reports.GetReport(ctx, reportID)
	if err != nil {
		return err
	}

	resolvedAt := s.now()
	resolutionDays := -1.0
	if snap := report.AssignedBrigade; snap != nil && snap.ID == brigadeID && !snap.AssignedAt.IsZero() {
		resolutionDays = resolvedAt.Sub(snap.AssignedAt).Hours() / 24
	}

	var previous domain.Stats
	release := sagaStep{
		name: "release-brigade",
		forward: func(ctx context.Context) error {
			_, err := s.mutateBrigade(ctx, brigadeID, func(b domain.Brigade) (*repository.BrigadeFields, error) {
				if !b.Holds(reportID) {
					return nil, apperr.Constraint(msgNotHeld)
				}
				previous = b.Stats
				stats := b.Stats
				stats.CompletedCount++
				if resolutionDays >= 0 {
					stats.AvgResolutionDays = domain.RunningMean(stats.AvgResolutionDays, stats.CompletedCount, resolutionDays)
				}
				return holdingFields(b.WithoutReport(reportID), stats), nil
			})
			return err
		},
		rollback: func(ctx context.Context) error {
			_, err := s.mutateBrigade(ctx, brigadeID, func(b domain.Brigade) (*repository.BrigadeFields, error) {
				return holdingFields(b.WithReport(reportID), previous), nil
			})
			return err
		},
	}
	resolve := sagaStep{
		name: "mark-report-resolved",
		forward: func(ctx context.Context) error {
			return s.reports.MarkResolved(ctx, reportID, resolvedAt)
		},
	}

	if err := newSaga("complete", s.log, release, resolve).run(ctx); err != nil {
		s.scheduleRepairIfNeeded(ctx, err, brigadeID, reportID)
		return err
	}

	s.publish(ctx, events.ReportCompleted{
		BaseEvent:      events.NewBaseEvent(),
		BrigadeID:      brigadeID,
		ReportID:       reportID,
		ResolutionDays: max(resolutionDays, 0),
	})
	s.log.WithContext(ctx).Info("report completed", "brigadeId", brigadeID, "reportId", reportID)
	return nil
}

// ReconcileAssignment repairs a brigade/report pair that disagree about the
// assignment. A brigade holding a report that does not point back at it
// drops the report; a report pointing at a brigade that does not hold it
// returns to pending. It reports whether anything was written.
func (s *Service) ReconcileAssignment(ctx context.Context, brigadeID, reportID string) (transport.ReconcileResponse, error) {
	brigadeID = strings.TrimSpace(brigadeID)
	reportID = strings.TrimSpace(reportID)
	result := transport.ReconcileResponse{BrigadeID: brigadeID, ReportID: reportID}
	if err := requireIDs("reconcile assignment", map[string]string{"brigadeId": brigadeID, "reportId": reportID}); err != nil {
		return result, err
	}

	report, err := s.reports.GetReport(ctx, reportID)
	reportMissing := apperr.Is(err, apperr.KindNotFound)
	if err != nil && !reportMissing {
		return result, err
	}
	pointsBack := !reportMissing && report.AssignedBrigade != nil && report.AssignedBrigade.ID == brigadeID

	b, err := s.mutateBrigade(ctx, brigadeID, func(b domain.Brigade) (*repository.BrigadeFields, error) {
		if !b.Holds(reportID) || (pointsBack && !report.Status.IsClosed()) {
			return nil, nil
		}
		result.Repaired = true
		return holdingFields(b.WithoutReport(reportID), b.Stats), nil
	})
	if err != nil {
		return result, err
	}

	if pointsBack && report.Status == domain.ReportAsignado && !b.Holds(reportID) {
		if err := s.reports.MarkPending(ctx, reportID); err != nil {
			return result, err
		}
		result.Repaired = true
	}

	if result.Repaired {
		s.log.WithContext(ctx).Warn("assignment reconciled", "brigadeId", brigadeID, "reportId", reportID)
	}
	return result, nil
}

func (s *Service) scheduleRepairIfNeeded(ctx context.Context, err error, brigadeID, reportID string) {
	if !apperr.Is(err, apperr.KindCompensation) || s.repairs == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if qerr := s.repairs.EnqueueAssignmentRepair(ctx, brigadeID, reportID); qerr != nil {
		s.log.WithContext(ctx).Error("failed to enqueue assignment repair",
			"brigadeId", brigadeID, "reportId", reportID, "error", errors.Join(err, qerr))
	}
}

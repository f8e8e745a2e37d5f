// Package service implements the brigade dispatch use cases: the registry,
// availability ranking, the assignment saga, status changes and statistics.
package service

import (
	"context"
	"time"

	"brigadas_backend/internal/brigades/repository"
	"brigadas_backend/internal/events"
	"brigadas_backend/platform/config"
	"brigadas_backend/platform/logger"
	"brigadas_backend/platform/phone"
	"brigadas_backend/platform/validator"
)

const defaultMaxWorkload = 5

// RepairScheduler queues a reconciliation of a brigade/report pair left
// inconsistent by a failed rollback.
type RepairScheduler interface {
	EnqueueAssignmentRepair(ctx context.Context, brigadeID, reportID string) error
}

// Service provides business logic for brigades.
type Service struct {
	brigades    repository.BrigadeRepository
	reports     repository.ReportRepository
	eventBus    events.Bus
	val         *validator.Validator
	log         *logger.Logger
	repairs     RepairScheduler
	maxWorkload int
	phoneRegion string
	now         func() time.Time
}

// New creates a new brigades service.
func New(
	brigades repository.BrigadeRepository,
	reports repository.ReportRepository,
	eventBus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
	cfg config.DispatchConfig,
) *Service {
	registerValidations(val)

	svc := &Service{
		brigades:    brigades,
		reports:     reports,
		eventBus:    eventBus,
		val:         val,
		log:         log,
		maxWorkload: defaultMaxWorkload,
		phoneRegion: phone.DefaultRegion,
		now:         func() time.Time { return time.Now().UTC() },
	}
	if cfg != nil {
		if cfg.GetDispatchMaxWorkload() > 0 {
			svc.maxWorkload = cfg.GetDispatchMaxWorkload()
		}
		if cfg.GetDefaultPhoneRegion() != "" {
			svc.phoneRegion = cfg.GetDefaultPhoneRegion()
		}
	}
	return svc
}

// SetRepairScheduler wires the task queue used after a failed rollback.
func (s *Service) SetRepairScheduler(repairs RepairScheduler) {
	s.repairs = repairs
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(ctx, event)
}

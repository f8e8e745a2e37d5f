package service

import (
	"context"
	"strings"

	"brigadas_backend/internal/brigades/domain"
	"brigadas_backend/internal/brigades/repository"
	"brigadas_backend/internal/events"
	"brigadas_backend/platform/apperr"
)

const msgUnknownStatus = "unknown brigade status"

// SetStatus moves a brigade to status. Held reports are kept whatever the
// target status is; setting the current status again writes nothing.
func (s *Service) SetStatus(ctx context.Context, id, status, actor string) (domain.Brigade, error) {
	id = strings.TrimSpace(id)
	if err := requireIDs("set brigade status", map[string]string{"id": id}); err != nil {
		return domain.Brigade{}, err
	}

	target, err := domain.ParseStatus(status)
	if err != nil {
		return domain.Brigade{}, apperr.InvalidState(msgUnknownStatus).WithDetails(map[string]any{
			"status":  status,
			"allowed": domain.Statuses,
		})
	}

	var from domain.Status
	updated, err := s.mutateBrigade(ctx, id, func(b domain.Brigade) (*repository.BrigadeFields, error) {
		from = b.Status
		if !domain.CanTransition(from, target) {
			return nil, apperr.InvalidState(msgUnknownStatus).WithDetails(map[string]string{"from": string(from)})
		}
		if from == target {
			return nil, nil
		}
		return &repository.BrigadeFields{Status: &target}, nil
	})
	if err != nil {
		return domain.Brigade{}, err
	}
	if from == target {
		return updated, nil
	}

	s.publish(ctx, events.BrigadeStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		BrigadeID: id,
		From:      string(from),
		To:        string(target),
		ChangedBy: actor,
	})
	s.log.WithContext(ctx).Info("brigade status changed", "brigadeId", id, "from", from, "to", target)
	return updated, nil
}

package service

import (
	"context"

	"brigadas_backend/platform/apperr"
	"brigadas_backend/platform/logger"
)

// sagaStep is one write of a multi-aggregate operation. rollback undoes a
// completed forward action and may be nil for steps that need no undo.
type sagaStep struct {
	name     string
	forward  func(ctx context.Context) error
	rollback func(ctx context.Context) error
}

// saga runs steps in order. When a step fails, completed steps are rolled
// back in reverse order and the step's error is returned. When a rollback
// fails the result is a compensation error carrying both failures.
type saga struct {
	name  string
	steps []sagaStep
	log   *logger.Logger
}

func newSaga(name string, log *logger.Logger, steps ...sagaStep) *saga {
	return &saga{name: name, steps: steps, log: log}
}

func (sg *saga) run(ctx context.Context) error {
	for i, step := range sg.steps {
		if err := step.forward(ctx); err != nil {
			return sg.compensate(ctx, sg.steps[:i], step.name, err)
		}
	}
	return nil
}

func (sg *saga) compensate(ctx context.Context, done []sagaStep, failed string, cause error) error {
	if len(done) == 0 {
		return cause
	}
	// Rollbacks must run even when the caller has gone away.
	ctx = context.WithoutCancel(ctx)
	log := sg.log.WithContext(ctx)

	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.rollback == nil {
			continue
		}
		if err := step.rollback(ctx); err != nil {
			log.SagaCompensationFailed(sg.name, step.name, cause, err)
			return apperr.Compensation("rollback failed after "+failed+" failed", cause, err).WithOp(sg.name)
		}
	}

	log.SagaCompensated(sg.name, failed, cause)
	return cause
}

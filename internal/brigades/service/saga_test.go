package service

import (
	"context"
	"errors"
	"slices"
	"testing"

	"brigadas_backend/platform/apperr"
	"brigadas_backend/platform/logger"
)

func TestSagaRollsBackCompletedStepsInReverse(t *testing.T) {
	var trail []string
	step := func(name string, fail bool) sagaStep {
		return sagaStep{
			name: name,
			forward: func(context.Context) error {
				trail = append(trail, "do:"+name)
				if fail {
					return errStoreDown
				}
				return nil
			},
			rollback: func(context.Context) error {
				trail = append(trail, "undo:"+name)
				return nil
			},
		}
	}

	err := newSaga("test", logger.Discard(), step("a", false), step("b", false), step("c", true)).run(context.Background())
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected original error, got %v", err)
	}
	want := []string{"do:a", "do:b", "do:c", "undo:b", "undo:a"}
	if !slices.Equal(trail, want) {
		t.Fatalf("unexpected trail %v, want %v", trail, want)
	}
}

func TestSagaReportsFailedRollback(t *testing.T) {
	rollbackErr := errors.New("rollback refused")
	first := sagaStep{
		name:     "reserve",
		forward:  func(context.Context) error { return nil },
		rollback: func(context.Context) error { return rollbackErr },
	}
	second := sagaStep{
		name:    "write",
		forward: func(context.Context) error { return errStoreDown },
	}

	err := newSaga("test", logger.Discard(), first, second).run(context.Background())
	if apperr.GetKind(err) != apperr.KindCompensation {
		t.Fatalf("expected compensation failure, got %v", err)
	}
	if !errors.Is(err, errStoreDown) || !errors.Is(err, rollbackErr) {
		t.Fatalf("expected both errors to be kept, got %v", err)
	}
}

func TestSagaRollbackIgnoresCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var rollbackCtxErr error
	first := sagaStep{
		name:    "reserve",
		forward: func(context.Context) error { return nil },
		rollback: func(ctx context.Context) error {
			rollbackCtxErr = ctx.Err()
			return nil
		},
	}
	second := sagaStep{
		name: "write",
		forward: func(context.Context) error {
			cancel()
			return context.Canceled
		},
	}

	_ = newSaga("test", logger.Discard(), first, second).run(ctx)
	if rollbackCtxErr != nil {
		t.Fatalf("rollback saw a cancelled context: %v", rollbackCtxErr)
	}
}

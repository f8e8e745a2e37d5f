package service

import (
	"context"
	"slices"
	"sync/atomic"
	"testing"

	"brigadas_backend/internal/brigades/domain"
	"brigadas_backend/internal/events"
	"brigadas_backend/platform/apperr"
)

func TestSetStatusKeepsAssignments(t *testing.T) {
	env := newTestEnv(t)
	env.putBrigade(t, "b1", domain.Brigade{Name: "Uno", Type: domain.TypeBasura, Active: true, AssignedReports: []string{"r1"}})

	var published atomic.Int32
	env.bus.Subscribe(events.BrigadeStatusChangedEvent, events.HandlerFunc(func(_ context.Context, e events.Event) error {
		changed := e.(events.BrigadeStatusChanged)
		if changed.From == "activa" && changed.To == "mantenimiento" {
			published.Add(1)
		}
		return nil
	}))

	updated, err := env.svc.SetStatus(context.Background(), "b1", "Mantenimiento", "supervisor")
	if err != nil {
		t.Fatalf("SetStatus returned error: %v", err)
	}
	if updated.Status != domain.StatusMantenimiento || !slices.Equal(updated.AssignedReports, []string{"r1"}) {
		t.Fatalf("unexpected brigade: status=%s reports=%v", updated.Status, updated.AssignedReports)
	}

	writes := env.store.merges("brigades")
	if _, err := env.svc.SetStatus(context.Background(), "b1", "mantenimiento", "supervisor"); err != nil {
		t.Fatalf("same-state SetStatus returned error: %v", err)
	}
	if env.store.merges("brigades") != writes {
		t.Fatal("same-state transition must not write")
	}

	env.bus.Wait()
	if published.Load() != 1 {
		t.Fatalf("expected one status event, got %d", published.Load())
	}
}

func TestSetStatusRejectsUnknownState(t *testing.T) {
	env := newTestEnv(t)
	env.putBrigade(t, "b1", domain.Brigade{Name: "Uno", Type: domain.TypeBasura, Active: true})

	_, err := env.svc.SetStatus(context.Background(), "b1", "vacaciones", "supervisor")
	if apperr.GetKind(err) != apperr.KindInvalidState {
		t.Fatalf("expected invalid state, got %v", err)
	}
	if _, err := env.svc.SetStatus(context.Background(), "nope", "activa", "supervisor"); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetStatisticsDefaultsToActiveBrigades(t *testing.T) {
	env := newTestEnv(t)
	env.putBrigade(t, "b1", domain.Brigade{Type: domain.TypeBasura, Active: true, Members: make([]domain.Member, 3), AssignedReports: []string{"a"}, Stats: domain.Stats{CompletedCount: 2}})
	env.putBrigade(t, "b2", domain.Brigade{Type: domain.TypeMixta, Status: domain.StatusEnMision, Active: true, Members: make([]domain.Member, 2)})
	env.putBrigade(t, "b3", domain.Brigade{Type: domain.TypeBasura, Active: false, Stats: domain.Stats{CompletedCount: 9}})

	summary, err := env.svc.GetStatistics(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("GetStatistics returned error: %v", err)
	}
	if summary.TotalBrigades != 2 || summary.ActiveBrigades != 1 || summary.OnMissionBrigades != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if summary.TotalMembers != 5 || summary.TotalAssignedReports != 1 || summary.TotalCompletedReports != 2 {
		t.Fatalf("unexpected totals: %+v", summary)
	}
	if summary.ByType[domain.TypeBasura] != 1 || summary.ByType[domain.TypeMixta] != 1 {
		t.Fatalf("unexpected by-type counts: %v", summary.ByType)
	}
}

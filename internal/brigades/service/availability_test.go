package service

import (
	"context"
	"testing"

	"brigadas_backend/internal/brigades/domain"
	"brigadas_backend/platform/apperr"
)

func TestFindAvailableRanksByWorkload(t *testing.T) {
	env := newTestEnv(t)
	env.putBrigade(t, "b1", domain.Brigade{Name: "Drenaje 1", Type: domain.TypeDrenaje, Active: true, AssignedReports: []string{"x", "y", "z"}})
	env.putBrigade(t, "b2", domain.Brigade{Name: "Drenaje 2", Type: domain.TypeDrenaje, Active: true, AssignedReports: []string{"w"}})

	got, err := env.svc.FindAvailable(context.Background(), "drenaje", 5)
	if err != nil {
		t.Fatalf("FindAvailable returned error: %v", err)
	}
	if len(got) != 2 || got[0].Brigade.ID != "b2" || got[1].Brigade.ID != "b1" {
		t.Fatalf("expected [b2 b1], got %v", candidateIDs(got))
	}
	if got[0].Workload != 1 || got[1].Workload != 3 || !got[0].Available || !got[1].Available {
		t.Fatalf("unexpected annotations: %+v", got)
	}
}

func TestFindAvailableFilters(t *testing.T) {
	env := newTestEnv(t)
	env.putBrigade(t, "match", domain.Brigade{Type: domain.TypeBacheo, Active: true})
	env.putBrigade(t, "mixed", domain.Brigade{Type: domain.TypeMixta, Active: true, AssignedReports: []string{"a", "b"}})
	env.putBrigade(t, "full", domain.Brigade{Type: domain.TypeBacheo, Active: true, AssignedReports: []string{"a", "b", "c"}})
	env.putBrigade(t, "other-type", domain.Brigade{Type: domain.TypeBasura, Active: true})
	env.putBrigade(t, "mission", domain.Brigade{Type: domain.TypeBacheo, Status: domain.StatusEnMision, Active: true})
	env.putBrigade(t, "garage", domain.Brigade{Type: domain.TypeBacheo, Status: domain.StatusMantenimiento, Active: true})
	env.putBrigade(t, "deleted", domain.Brigade{Type: domain.TypeBacheo, Active: false})

	got, err := env.svc.FindAvailable(context.Background(), "bacheo", 3)
	if err != nil {
		t.Fatalf("FindAvailable returned error: %v", err)
	}
	ids := candidateIDs(got)
	if len(ids) != 2 || ids[0] != "match" || ids[1] != "mixed" {
		t.Fatalf("expected [match mixed], got %v", ids)
	}
	for _, c := range got {
		if c.Workload >= 3 {
			t.Fatalf("workload bound violated by %s (%d)", c.Brigade.ID, c.Workload)
		}
	}
}

func TestFindAvailableDefaultsAndErrors(t *testing.T) {
	env := newTestEnv(t)
	reports := []string{"1", "2", "3", "4"}
	env.putBrigade(t, "busy", domain.Brigade{Type: domain.TypeBasura, Active: true, AssignedReports: reports})
	env.putBrigade(t, "tie-b", domain.Brigade{Type: domain.TypeBasura, Active: true})
	env.putBrigade(t, "tie-a", domain.Brigade{Type: domain.TypeBasura, Active: true})

	got, err := env.svc.FindAvailable(context.Background(), "basura", 0)
	if err != nil {
		t.Fatalf("FindAvailable returned error: %v", err)
	}
	if ids := candidateIDs(got); len(ids) != 3 || ids[0] != "tie-a" || ids[1] != "tie-b" || ids[2] != "busy" {
		t.Fatalf("expected default bound of %d and id tie-break, got %v", defaultMaxWorkload, ids)
	}

	empty, err := env.svc.FindAvailable(context.Background(), "alumbrado", 5)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty result without error, got %v, %v", candidateIDs(empty), err)
	}

	if _, err := env.svc.FindAvailable(context.Background(), "mixta", 5); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for unknown category, got %v", err)
	}
}

func candidateIDs(candidates []Candidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Brigade.ID)
	}
	return out
}

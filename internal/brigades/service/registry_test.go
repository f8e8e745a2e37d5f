package service

import (
	"context"
	"slices"
	"testing"
	"time"

	"brigadas_backend/internal/brigades/domain"
	"brigadas_backend/internal/brigades/transport"
	"brigadas_backend/platform/apperr"
	"brigadas_backend/platform/validator"
)

func TestCreateAppliesDefaults(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.svc.Create(context.Background(), transport.CreateBrigadeRequest{
		Name: "  Cuadrilla <b>Norte</b> ",
		Type: "Bacheo",
		Members: []transport.MemberRequest{
			{Name: "Rosa", Role: "supervisor", Phone: "55 1234 5678", Email: " Rosa@Example.org ", IsLead: true},
		},
		WeeklySchedule: map[string]transport.DayScheduleRequest{
			"sabado": {Start: "09:00", End: "13:00", Active: true},
		},
	}, "admin")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if created.ID == "" || created.Name != "Cuadrilla Norte" || created.Type != domain.TypeBacheo {
		t.Fatalf("unexpected brigade: %+v", created)
	}
	if created.Status != domain.StatusActiva || !created.Active || created.CreatedBy != "admin" {
		t.Fatalf("unexpected defaults: status=%s active=%v createdBy=%q", created.Status, created.Active, created.CreatedBy)
	}
	if len(created.AssignedReports) != 0 || created.Stats != (domain.Stats{}) {
		t.Fatalf("expected empty workload, got %v %+v", created.AssignedReports, created.Stats)
	}
	if got := created.WeeklySchedule["lunes"]; got != (domain.DaySchedule{Start: "08:00", End: "16:00", Active: true}) {
		t.Fatalf("unexpected monday shift: %+v", got)
	}
	if got := created.WeeklySchedule["sabado"]; !got.Active || got.Start != "09:00" {
		t.Fatalf("expected saturday override, got %+v", got)
	}
	if got := created.WeeklySchedule["domingo"]; got.Active {
		t.Fatalf("expected sunday off, got %+v", got)
	}
	m := created.Members[0]
	if m.Phone != "+525512345678" || m.Email != "rosa@example.org" || m.Role != domain.RoleSupervisor {
		t.Fatalf("unexpected member normalization: %+v", m)
	}
	if !created.CreatedAt.Equal(fixedNow) {
		t.Fatalf("expected createdAt %v, got %v", fixedNow, created.CreatedAt)
	}
}

func TestCreateReportsEveryViolation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(context.Background(), transport.CreateBrigadeRequest{
		Name: "AB",
		Type: "fontaneria",
		Members: []transport.MemberRequest{
			{Name: "J", Role: "capitan"},
		},
	}, "admin")

	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	violations, ok := appErr.Details.([]validator.FieldViolation)
	if !ok {
		t.Fatalf("expected field violations in details, got %T", appErr.Details)
	}

	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	for _, want := range []string{"name", "type", "members[0].name", "members[0].role"} {
		if !slices.Contains(fields, want) {
			t.Errorf("expected violation for %s, got %v", want, fields)
		}
	}
	if brigades, _ := env.svc.List(context.Background(), ListFilter{}); len(brigades) != 0 {
		t.Fatalf("invalid create must not persist, got %d brigades", len(brigades))
	}
}

func TestListSortsAndFilters(t *testing.T) {
	env := newTestEnv(t)
	older := domain.Brigade{Name: "Antigua", Type: domain.TypeBasura, Active: true, CreatedAt: fixedNow.Add(-time.Hour)}
	env.putBrigade(t, "b-old", older)
	env.putBrigade(t, "b-z", domain.Brigade{Name: "Zeta", Type: domain.TypeBasura, Active: true, CreatedAt: fixedNow})
	env.putBrigade(t, "b-a", domain.Brigade{Name: "Alfa", Type: domain.TypeBasura, Active: true, CreatedAt: fixedNow})
	env.putBrigade(t, "b-mant", domain.Brigade{Name: "Taller", Type: domain.TypeBasura, Status: domain.StatusMantenimiento, Active: true, CreatedAt: fixedNow})
	env.putBrigade(t, "b-drop", domain.Brigade{Name: "Baja", Type: domain.TypeDrenaje, Active: false, CreatedAt: fixedNow})

	all, err := env.svc.List(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if got := ids(all); !slices.Equal(got, []string{"b-a", "b-drop", "b-mant", "b-z", "b-old"}) {
		t.Fatalf("unexpected order: %v", got)
	}

	active := true
	activa := domain.StatusActiva
	basura := domain.TypeBasura
	filtered, err := env.svc.List(context.Background(), ListFilter{Active: &active, Type: &basura, Status: &activa})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if got := ids(filtered); !slices.Equal(got, []string{"b-a", "b-z", "b-old"}) {
		t.Fatalf("unexpected filtered result: %v", got)
	}
}

func TestUpdateMergesDescriptiveFields(t *testing.T) {
	env := newTestEnv(t)
	env.putBrigade(t, "b1", domain.Brigade{Name: "Vieja", Type: domain.TypeBasura, Active: true, AssignedReports: []string{"r1"}, Equipment: []string{"Pala"}})

	name := "Nueva"
	brigadeType := "mixta"
	updated, err := env.svc.Update(context.Background(), "b1", transport.UpdateBrigadeRequest{Name: &name, Type: &brigadeType})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name != "Nueva" || updated.Type != domain.TypeMixta {
		t.Fatalf("unexpected update: %+v", updated)
	}
	if !slices.Equal(updated.Equipment, []string{"Pala"}) || !slices.Equal(updated.AssignedReports, []string{"r1"}) {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if !updated.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("expected updatedAt stamped, got %v", updated.UpdatedAt)
	}

	bad := "submarino"
	if _, err := env.svc.Update(context.Background(), "b1", transport.UpdateBrigadeRequest{Type: &bad}); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for unknown type, got %v", err)
	}
	if _, err := env.svc.Update(context.Background(), "missing", transport.UpdateBrigadeRequest{Name: &name}); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.putBrigade(t, "b3", domain.Brigade{Name: "Bacheo 3", Type: domain.TypeBacheo, Active: true, AssignedReports: []string{"r9"}})
	env.putReport(t, "r9", domain.Report{Category: domain.CategoryBacheo, Status: domain.ReportAsignado, AssignedBrigade: &domain.Snapshot{ID: "b3"}})

	if err := env.svc.Delete(ctx, "b3"); apperr.GetKind(err) != apperr.KindConstraint {
		t.Fatalf("expected constraint error, got %v", err)
	}
	if b := env.brigade(t, "b3"); !b.Active || !slices.Equal(b.AssignedReports, []string{"r9"}) {
		t.Fatalf("brigade must be unchanged, got active=%v reports=%v", b.Active, b.AssignedReports)
	}

	if err := env.svc.Unassign(ctx, "b3", "r9"); err != nil {
		t.Fatalf("Unassign returned error: %v", err)
	}
	if err := env.svc.Delete(ctx, "b3"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if b := env.brigade(t, "b3"); b.Active {
		t.Fatal("expected brigade to be inactive after delete")
	}
}

func TestGetByID(t *testing.T) {
	env := newTestEnv(t)
	env.putBrigade(t, "b1", domain.Brigade{Name: "Uno", Type: domain.TypeBasura, Active: true})

	if _, err := env.svc.GetByID(context.Background(), " "); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := env.svc.GetByID(context.Background(), "nope"); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	b, err := env.svc.GetByID(context.Background(), "b1")
	if err != nil || b.ID != "b1" || b.Name != "Uno" {
		t.Fatalf("unexpected result: %+v, %v", b, err)
	}
}

func ids(brigades []domain.Brigade) []string {
	out := make([]string, 0, len(brigades))
	for _, b := range brigades {
		out = append(out, b.ID)
	}
	return out
}

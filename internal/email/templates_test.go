package email

import (
	"strings"
	"testing"
	"time"
)

func TestRenderAssignmentNotice(t *testing.T) {
	content, err := renderAssignmentNotice(AssignmentNotice{
		LeadName:    "Rosa",
		BrigadeName: "Bacheo <Centro>",
		ReportID:    "r-42",
		Category:    "bacheo",
		Address:     "Av. Reforma 100",
		AssignedBy:  "admin",
		AssignedAt:  time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("renderAssignmentNotice returned error: %v", err)
	}

	for _, want := range []string{"Hola Rosa", "r-42", "Av. Reforma 100", "Bacheo &lt;Centro&gt;"} {
		if !strings.Contains(content, want) {
			t.Errorf("expected rendered notice to contain %q", want)
		}
	}
}

func TestRenderAssignmentNoticeWithoutLeadName(t *testing.T) {
	content, err := renderAssignmentNotice(AssignmentNotice{BrigadeName: "Drenaje", ReportID: "r-1"})
	if err != nil {
		t.Fatalf("renderAssignmentNotice returned error: %v", err)
	}
	if !strings.Contains(content, "Hola equipo") {
		t.Fatal("expected generic greeting")
	}
	if strings.Contains(content, "Fecha") {
		t.Fatal("expected no date row for a zero time")
	}
}

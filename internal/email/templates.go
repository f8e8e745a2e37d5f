package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// noticeLocation is the zone dispatch times are shown in.
var noticeLocation = loadLocation("America/Mexico_City")

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
}

type assignmentNoticeEmailData struct {
	baseEmailData
	LeadName    string
	BrigadeName string
	ReportID    string
	Category    string
	Address     string
	AssignedBy  string
	AssignedAt  string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func renderAssignmentNotice(notice AssignmentNotice) (string, error) {
	leadName := notice.LeadName
	if leadName == "" {
		leadName = "equipo"
	}
	return renderEmailTemplate("assignment_notice.html", assignmentNoticeEmailData{
		baseEmailData: baseEmailData{
			Title:   "Nuevo reporte asignado",
			Heading: "Nuevo reporte asignado",
		},
		LeadName:    leadName,
		BrigadeName: notice.BrigadeName,
		ReportID:    notice.ReportID,
		Category:    notice.Category,
		Address:     notice.Address,
		AssignedBy:  notice.AssignedBy,
		AssignedAt:  formatDispatchTime(notice.AssignedAt),
	})
}

func formatDispatchTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(noticeLocation).Format("02/01/2006 15:04")
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

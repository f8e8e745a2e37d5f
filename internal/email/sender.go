package email

import (
	"context"
	"time"
)

// AssignmentNotice is the content of the e-mail sent to a brigade lead when
// a report is assigned to the brigade.
type AssignmentNotice struct {
	LeadName    string
	BrigadeName string
	ReportID    string
	Category    string
	Address     string
	AssignedBy  string
	AssignedAt  time.Time
}

type Sender interface {
	SendAssignmentNotice(ctx context.Context, toEmail string, notice AssignmentNotice) error
}

// NoopSender drops every message. Used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendAssignmentNotice(ctx context.Context, toEmail string, notice AssignmentNotice) error {
	return nil
}

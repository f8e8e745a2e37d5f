package domain

import (
	"fmt"
	"strings"
)

// Status is the operational status of a brigade.
type Status string

const (
	StatusActiva        Status = "activa"
	StatusInactiva      Status = "inactiva"
	StatusEnMision      Status = "en_mision"
	StatusMantenimiento Status = "mantenimiento"
)

// Statuses lists every brigade status.
var Statuses = []Status{StatusActiva, StatusInactiva, StatusEnMision, StatusMantenimiento}

// Valid reports whether s is a known brigade status.
func (s Status) Valid() bool {
	switch s {
	case StatusActiva, StatusInactiva, StatusEnMision, StatusMantenimiento:
		return true
	}
	return false
}

// Dispatchable reports whether new reports may be offered to a brigade in status s.
func (s Status) Dispatchable() bool {
	return s == StatusActiva
}

// ParseStatus parses s case-insensitively.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown brigade status %q", s)
	}
	return st, nil
}

// CanTransition reports whether a brigade may move from one status to another.
// Every known status may move to every other one; supervisors can flag a brigade
// unavailable while it still holds reports.
func CanTransition(from, to Status) bool {
	return from.Valid() && to.Valid()
}

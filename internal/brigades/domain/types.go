// Package domain provides core business rules for the brigades bounded context.
package domain

import (
	"fmt"
	"strings"
)

// BrigadeType is the specialty of a brigade. It mirrors report categories,
// except TypeMixta which serves every category.
type BrigadeType string

const (
	TypeBasura    BrigadeType = "basura"
	TypeAlumbrado BrigadeType = "alumbrado"
	TypeDrenaje   BrigadeType = "drenaje"
	TypeBacheo    BrigadeType = "bacheo"
	TypeMixta     BrigadeType = "mixta"
)

// BrigadeTypes lists every brigade type in display order.
var BrigadeTypes = []BrigadeType{TypeBasura, TypeAlumbrado, TypeDrenaje, TypeBacheo, TypeMixta}

// Valid reports whether t is a known brigade type.
func (t BrigadeType) Valid() bool {
	switch t {
	case TypeBasura, TypeAlumbrado, TypeDrenaje, TypeBacheo, TypeMixta:
		return true
	}
	return false
}

// Serves reports whether a brigade of type t can attend a report of category.
func (t BrigadeType) Serves(category Category) bool {
	return t == TypeMixta || string(t) == string(category)
}

// ParseBrigadeType parses s case-insensitively.
func ParseBrigadeType(s string) (BrigadeType, error) {
	t := BrigadeType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown brigade type %q", s)
	}
	return t, nil
}

// Category is the category of a citizen report.
type Category string

const (
	CategoryBasura    Category = "basura"
	CategoryAlumbrado Category = "alumbrado"
	CategoryDrenaje   Category = "drenaje"
	CategoryBacheo    Category = "bacheo"
)

// Valid reports whether c is a known report category.
func (c Category) Valid() bool {
	switch c {
	case CategoryBasura, CategoryAlumbrado, CategoryDrenaje, CategoryBacheo:
		return true
	}
	return false
}

// ParseCategory parses s case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown report category %q", s)
	}
	return c, nil
}

// MemberRole is the role of a brigade member.
type MemberRole string

const (
	RoleSupervisor MemberRole = "supervisor"
	RoleTecnico    MemberRole = "tecnico"
	RoleOperario   MemberRole = "operario"
	RoleConductor  MemberRole = "conductor"
)

// Valid reports whether r is a known member role.
func (r MemberRole) Valid() bool {
	switch r {
	case RoleSupervisor, RoleTecnico, RoleOperario, RoleConductor:
		return true
	}
	return false
}

// ReportStatus is the lifecycle status of a citizen report.
type ReportStatus string

const (
	ReportPendiente ReportStatus = "pendiente"
	ReportAsignado  ReportStatus = "asignado"
	ReportEnProceso ReportStatus = "en_proceso"
	ReportResuelto  ReportStatus = "resuelto"
	ReportCancelado ReportStatus = "cancelado"
)

// IsClosed reports whether no brigade may be assigned to a report in status s.
func (s ReportStatus) IsClosed() bool {
	return s == ReportResuelto || s == ReportCancelado
}

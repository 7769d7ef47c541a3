package domain

import "time"

// Role is the fixed permission tier assigned to every account.
type Role string

const (
	RoleAnalista  Role = "ANALISTA"
	RoleComercial Role = "COMERCIAL"
	RoleGestao    Role = "GESTAO"
)

// Roles lists every valid tier, in declaration order.
func Roles() []Role {
	return []Role{RoleAnalista, RoleComercial, RoleGestao}
}

// Valid reports whether the role is one of the known tiers.
func (r Role) Valid() bool {
	switch r {
	case RoleAnalista, RoleComercial, RoleGestao:
		return true
	default:
		return false
	}
}

// User is the domain model for a registered account.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

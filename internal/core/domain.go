package core

import "strings"

// Role is the authorization role carried by a session. The backend issues it
// at login; everything else in this app treats it as an opaque enum.
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSubAdmin   Role = "SUB_ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// ParseRole maps a raw role string to a known Role. Unknown or empty values
// fall back to RoleUser, the least privileged role.
func ParseRole(s string) Role {
	switch Role(strings.TrimSpace(s)) {
	case RoleAdmin:
		return RoleAdmin
	case RoleSubAdmin:
		return RoleSubAdmin
	case RoleSuperAdmin:
		return RoleSuperAdmin
	default:
		return RoleUser
	}
}

// IsAdmin reports whether the role grants access to the admin surface.
func (r Role) IsAdmin() bool {
	switch r {
	case RoleAdmin, RoleSubAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// BudgetCategory is one spending category with a monthly limit and the
// running spend the backend maintains. This client only reads both figures.
type BudgetCategory struct {
	Name          string
	LimitAmount   float64
	CurrentAmount float64
}

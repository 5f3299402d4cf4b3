// Package entity contains the core business objects of the project.
package entity

import "slices"

// Role represents the membership tier a user can have in the system.
type Role string

const (
	// RoleCommon indicates a regular, free-tier member. This is the default at sign-up.
	RoleCommon Role = "COMMON"
	// RolePremium indicates a paid member, reached only through promotion.
	RolePremium Role = "PREMIUM"
	// RoleAdmin indicates an operator account. Never assigned through the API.
	RoleAdmin Role = "ADMIN"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleCommon, RolePremium, RoleAdmin:
		return true
	default:
		return false
	}
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// RoleFromString converts a string claim back to a Role, returning false for
// anything that is not a known tier.
func RoleFromString(s string) (Role, bool) {
	role := Role(s)

	return role, role.IsValid()
}

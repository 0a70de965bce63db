package domain

import "time"

// Role classifies a principal for quota and access decisions.
type Role string

const (
	RoleStandard Role = "standard"
	RoleElevated Role = "elevated"
)

// ParseRole maps an arbitrary role string onto the closed role set. Unknown
// values coerce to RoleStandard; the set is small and the default is the
// stricter of the two, so coercion is policy rather than a validation gap.
func ParseRole(s string) Role {
	if Role(s) == RoleElevated {
		return RoleElevated
	}
	return RoleStandard
}

// Valid reports whether the role is a member of the closed set.
func (r Role) Valid() bool {
	return r == RoleStandard || r == RoleElevated
}

// User is the domain model for registered principals. Username is unique,
// case-sensitive. PasswordHash is only ever read by the authenticator.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package domain

import (
	"fmt"
	"strings"
)

// Role is the authorization tag carried in a session token.
type Role string

const (
	RoleAdministrator Role = "ADMINISTRATOR"
	RoleTeacher       Role = "TEACHER"
	RoleStudent       Role = "STUDENT"
)

// Known reports whether r belongs to the closed set of roles.
func (r Role) Known() bool {
	switch r {
	case RoleAdministrator, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole validates a raw role tag. The returned Role always carries the
// raw tag (trimmed) so callers can keep it even when err is ErrUnrecognizedRole.
func ParseRole(raw string) (Role, error) {
	r := Role(strings.TrimSpace(raw))
	if !r.Known() {
		return r, fmt.Errorf("%w: %q", ErrUnrecognizedRole, raw)
	}
	return r, nil
}

// Landing areas the console navigates to after login.
const (
	AreaAdmin   = "/admin"
	AreaTeacher = "/teacher"
	AreaStudent = "/student"
	AreaDefault = "/"
)

// LandingArea maps a role to the area the UI should open. Unknown roles land
// on AreaDefault.
func LandingArea(r Role) string {
	switch r {
	case RoleAdministrator:
		return AreaAdmin
	case RoleTeacher:
		return AreaTeacher
	case RoleStudent:
		return AreaStudent
	default:
		return AreaDefault
	}
}

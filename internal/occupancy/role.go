// Package occupancy derives per-slot and per-lab occupancy for a calendar
// date from labs, their recurring availability slots and the bookings of
// that date, and shapes the result for the requesting role.  It performs
// no I/O of its own beyond the Source collaborator and never mutates any
// entity; every request recomputes occupancy from scratch.
package occupancy

import (
	"errors"
	"fmt"
)

// Role is the closed set of caller roles the resolver can shape a view
// for.  Role values are constructed through ParseRole so an unknown role
// string is an error at the boundary instead of a silent fallthrough
// somewhere in the filtering logic.
type Role int

const (
	RoleStudent Role = iota // sees only enabled labs with free capacity
	RoleAdmin               // sees everything, including disabled labs
	RoleLabAssistant        // sees only labs assigned to them
)

// ErrUnknownRole is returned when a role string does not name one of the
// supported roles.  Callers must treat this as a programming error and
// reject the request rather than defaulting to any view.
var ErrUnknownRole = errors.New("unknown role")

// ParseRole maps the role strings stored in user records and JWT claims
// onto the Role enumeration.
func ParseRole(s string) (Role, error) {
	switch s {
	case "student":
		return RoleStudent, nil
	case "admin":
		return RoleAdmin, nil
	case "lab_assistant":
		return RoleLabAssistant, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// String returns the wire name of the role.
func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleAdmin:
		return "admin"
	case RoleLabAssistant:
		return "lab_assistant"
	default:
		return "unknown"
	}
}

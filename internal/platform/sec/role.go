// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package sec

// # User Roles

// Role represents the authorization level declared on a user profile.
//
// The variant set is closed: every comparison site must handle exactly these
// five values, so an unrecognized role string is a detectable gap rather than
// a silent pass-through.
type Role string

const (
	// A pupil enrolled in one or more classes
	RoleLearner Role = "learner"

	// A guardian linked to one or more learners
	RoleParent Role = "parent"

	// A teacher who owns classes, assessments, and attendance sheets
	RoleEducator Role = "educator"

	// School administrator: user and class management
	RoleAdmin Role = "admin"

	// Principal: staff oversight and school-wide reporting
	RolePrincipal Role = "principal"
)

// Roles returns the full closed set of valid roles.
func Roles() []Role {
	return []Role{RoleLearner, RoleParent, RoleEducator, RoleAdmin, RolePrincipal}
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleLearner, RoleParent, RoleEducator, RoleAdmin, RolePrincipal:
		return true
	default:
		return false
	}
}

// IsStaff reports whether the role belongs to school personnel rather than
// a learner or guardian.
func (r Role) IsStaff() bool {
	switch r {
	case RoleEducator, RoleAdmin, RolePrincipal:
		return true
	case RoleLearner, RoleParent:
		return false
	default:
		return false
	}
}

// # Account Status

// Status represents the activation state of a user profile.
type Status string

const (
	// Awaiting email verification (staff, parents)
	StatusPending Status = "pending"

	// Fully activated account
	StatusActive Status = "active"

	// Deactivated by an administrator, can be re-activated
	StatusInactive Status = "inactive"

	// Locked out pending review
	StatusSuspended Status = "suspended"
)

// Statuses returns the full closed set of valid account statuses.
func Statuses() []Status {
	return []Status{StatusPending, StatusActive, StatusInactive, StatusSuspended}
}

// Valid reports whether s is a member of the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusInactive, StatusSuspended:
		return true
	default:
		return false
	}
}

// Authorized reports whether a profile in this status may pass a role gate.
//
// Learners are exempt from activation gating: their accounts are activated
// automatically at creation, so the status check applies to every other role.
func (s Status) Authorized(role Role) bool {
	if role == RoleLearner {
		return true
	}
	return s == StatusActive
}

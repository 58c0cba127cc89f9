// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

/*
Package enrollment manages learner membership of classes.

It owns the class-learner relation: enrolling, withdrawing, the roster view,
and the bulk CSV upload administrators use at the start of a term.
*/
package enrollment

import (
	"context"
	"time"

	"github.com/lesedi/thuto/internal/platform/apperr"
)

// Enrollment represents one learner's membership of one class.
type Enrollment struct {
	ID          string     `json:"id"`
	ClassID     string     `json:"class_id"`
	LearnerID   string     `json:"learner_id"`
	EnrolledAt  time.Time  `json:"enrolled_at"`
	WithdrawnAt *time.Time `json:"withdrawn_at,omitempty"`
}

// RosterEntry is one line of a class roster, joined with profile data.
type RosterEntry struct {
	LearnerID  string    `json:"learner_id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// RowError describes why a single CSV row was rejected during bulk enrollment.
type RowError struct {
	Row     int    `json:"row"` // 1-based data row number, excluding the header
	Message string `json:"message"`
}

// BulkResult summarizes a bulk enrollment upload.
type BulkResult struct {
	Enrolled int        `json:"enrolled"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors,omitempty"`
}

// Global field names for validation
const (
	FieldClassID   = "class_id"
	FieldLearnerID = "learner_id"
)

// ErrAlreadyEnrolled reports a duplicate active membership. Bulk uploads
// count it as a skipped row rather than a failure.
var ErrAlreadyEnrolled = apperr.Conflict("Learner is already enrolled in this class")

// Repository is the persistence contract for class membership.
type Repository interface {
	// Enroll inserts an active membership. Returns ErrAlreadyEnrolled when
	// the learner is already actively enrolled in the class.
	Enroll(context context.Context, enrollment *Enrollment) error

	// Withdraw closes an active membership. Idempotent: withdrawing a
	// learner who is not enrolled is not an error.
	Withdraw(context context.Context, classID, learnerID string) error

	// Roster lists active members of a class with their profile data,
	// ordered by full name.
	Roster(context context.Context, classID string) ([]RosterEntry, error)

	// CountActive returns the number of active memberships in a class.
	CountActive(context context.Context, classID string) (int, error)

	// ListByLearner returns all active memberships for one learner.
	ListByLearner(context context.Context, learnerID string) ([]Enrollment, error)
}

// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

/*
Package report builds oversight reports for school leadership.

Reports aggregate the other school modules: enrollment headcounts,
attendance rates, and assessment rollups over a date range or a school
term. Nothing in this package writes; it is a read-only view for
principals and administrators.
*/
package report

import (
	"context"

	"github.com/lesedi/thuto/internal/school/assessment"
	"github.com/lesedi/thuto/internal/school/attendance"
	"github.com/lesedi/thuto/internal/school/class"
)

// AttendanceReport is the attendance aggregate for one class and range.
type AttendanceReport struct {
	Present int     `json:"present"`
	Total   int     `json:"total"`
	Rate    float64 `json:"rate"` // 0..1, zero when no marks exist
}

// AssessmentReport is one assessment's grading rollup.
type AssessmentReport struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	TotalMarks        int     `json:"total_marks"`
	AverageScore      float64 `json:"average_score"`
	GradedSubmissions int     `json:"graded_submissions"`
}

// ClassReport is the full oversight view of one class over a range.
type ClassReport struct {
	Class          *class.Class       `json:"class"`
	From           string             `json:"from"`
	To             string             `json:"to"`
	Term           string             `json:"term,omitempty"`
	ActiveLearners int                `json:"active_learners"`
	Attendance     AttendanceReport   `json:"attendance"`
	Assessments    []AssessmentReport `json:"assessments"`
}

// ClassDirectory resolves the class a report is built for.
type ClassDirectory interface {
	FindByID(context context.Context, id string) (*class.Class, error)
}

// AttendanceStore is the slice of attendance persistence reports read from.
type AttendanceStore interface {
	StatsForClass(context context.Context, classID, from, to string) (*attendance.Stats, error)
	ListByClassRange(context context.Context, classID, from, to string) ([]attendance.Sheet, error)
}

// AssessmentStore is the slice of assessment persistence reports read from.
type AssessmentStore interface {
	ListByClass(context context.Context, classID string) ([]assessment.Assessment, error)
	Summarize(context context.Context, assessmentID string) (*assessment.Summary, error)
}

// EnrollmentStore is the slice of enrollment persistence reports read from.
type EnrollmentStore interface {
	CountActive(context context.Context, classID string) (int, error)
}

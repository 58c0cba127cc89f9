// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

// Package assessment manages class assessments and their grading.
//
// An assessment belongs to a class and carries a total mark. Grades are
// captured per learner and clamped to the assessment's mark range before
// they are stored.
package assessment

import (
	"context"
	"time"
)

// Assessment is a graded piece of work assigned to a class.
type Assessment struct {
	ID          string    `json:"id"`
	ClassID     string    `json:"class_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	TotalMarks  int       `json:"total_marks"`
	DueDate     time.Time `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Grade is one learner's recorded mark for an assessment.
type Grade struct {
	AssessmentID string    `json:"assessment_id"`
	LearnerID    string    `json:"learner_id"`
	Mark         int       `json:"mark"`
	Feedback     string    `json:"feedback,omitempty"`
	GradedBy     string    `json:"graded_by"`
	GradedAt     time.Time `json:"graded_at"`
}

// Summary is the grading rollup for one assessment.
type Summary struct {
	AverageScore      float64 `json:"average_score"`
	GradedSubmissions int     `json:"graded_submissions"`
}

// Field names used in validation errors.
const (
	FieldClassID    = "class_id"
	FieldTitle      = "title"
	FieldTotalMarks = "total_marks"
	FieldDueDate    = "due_date"
)

// Repository is the persistence contract for assessments and grades.
type Repository interface {
	Create(context context.Context, assessment *Assessment) error
	FindByID(context context.Context, id string) (*Assessment, error)
	ListByClass(context context.Context, classID string) ([]Assessment, error)
	Update(context context.Context, assessment *Assessment) error
	Delete(context context.Context, id string) error

	// SaveGrades upserts a batch of grades for one assessment.
	SaveGrades(context context.Context, grades []Grade) error
	ListGrades(context context.Context, assessmentID string) ([]Grade, error)
	Summarize(context context.Context, assessmentID string) (*Summary, error)
}

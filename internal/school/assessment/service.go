// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package assessment

import (
	"context"
	"log/slog"
	"time"

	"github.com/lesedi/thuto/internal/platform/apperr"
	"github.com/lesedi/thuto/internal/platform/validate"
	"github.com/lesedi/thuto/internal/school/class"
	"github.com/lesedi/thuto/pkg/uuid"
)

// ClassDirectory is the read-only class lookup used to anchor assessments
// to an existing class.
type ClassDirectory interface {
	FindByID(context context.Context, id string) (*class.Class, error)
}

// Service orchestrates assessment lifecycle and grading.
type Service struct {
	repo    Repository
	classes ClassDirectory
	logger  *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, classes ClassDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		classes: classes,
		logger:  logger,
	}
}

// CreateInput carries the fields needed to create an assessment.
type CreateInput struct {
	ClassID     string
	Title       string
	Description string
	TotalMarks  int
	DueDate     time.Time
}

/*
CreateAssessment records a new assessment against an existing class.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Assessment: The persisted entity
  - error: Validation error, or NotFound for an unknown class
*/
func (service *Service) CreateAssessment(context context.Context, input CreateInput) (*Assessment, error) {
	validator := validate.New().
		Required(FieldClassID, input.ClassID).
		UUID(FieldClassID, input.ClassID).
		Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, 200).
		Range(FieldTotalMarks, input.TotalMarks, 1, 1000).
		Custom(FieldDueDate, input.DueDate.IsZero(), "Due date is required")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.classes.FindByID(context, input.ClassID); err != nil {
		return nil, err
	}

	created := &Assessment{
		ID:          uuid.New(),
		ClassID:     input.ClassID,
		Title:       input.Title,
		Description: input.Description,
		TotalMarks:  input.TotalMarks,
		DueDate:     input.DueDate,
	}
	if err := service.repo.Create(context, created); err != nil {
		return nil, err
	}

	service.logger.Info("assessment_created",
		slog.String("assessment_id", created.ID),
		slog.String("class_id", created.ClassID),
	)
	return created, nil
}

/*
GetAssessment fetches one assessment together with its grading rollup.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Assessment: The entity
  - *Summary: Average score and graded submission count
  - error: NotFound if no match is found
*/
func (service *Service) GetAssessment(context context.Context, id string) (*Assessment, *Summary, error) {
	found, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, nil, err
	}
	summary, err := service.repo.Summarize(context, id)
	if err != nil {
		return nil, nil, err
	}
	return found, summary, nil
}

/*
ListByClass retrieves all assessments for a class, newest due date first.

Parameters:
  - context: context.Context
  - classID: string (UUID)

Returns:
  - []Assessment: Matching assessments
  - error: Repository level errors
*/
func (service *Service) ListByClass(context context.Context, classID string) ([]Assessment, error) {
	return service.repo.ListByClass(context, classID)
}

// UpdateInput carries the updatable fields of an assessment. Nil fields
// are left untouched.
type UpdateInput struct {
	Title       *string
	Description *string
	TotalMarks  *int
	DueDate     *time.Time
}

/*
UpdateAssessment applies a partial update to an assessment.

Description: Shrinking TotalMarks does not rescale existing grades; marks
above the new total remain as recorded history.

Parameters:
  - context: context.Context
  - id: string (UUID)
  - input: UpdateInput

Returns:
  - *Assessment: The updated entity
  - error: Validation error or NotFound
*/
func (service *Service) UpdateAssessment(context context.Context, id string, input UpdateInput) (*Assessment, error) {
	existing, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	validator := validate.New()
	if input.Title != nil {
		validator.Required(FieldTitle, *input.Title).MaxLen(FieldTitle, *input.Title, 200)
		existing.Title = *input.Title
	}
	if input.Description != nil {
		existing.Description = *input.Description
	}
	if input.TotalMarks != nil {
		validator.Range(FieldTotalMarks, *input.TotalMarks, 1, 1000)
		existing.TotalMarks = *input.TotalMarks
	}
	if input.DueDate != nil {
		validator.Custom(FieldDueDate, input.DueDate.IsZero(), "Due date is required")
		existing.DueDate = *input.DueDate
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

/*
DeleteAssessment removes an assessment and its grades.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - error: NotFound if the assessment does not exist
*/
func (service *Service) DeleteAssessment(context context.Context, id string) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}
	service.logger.Info("assessment_deleted", slog.String("assessment_id", id))
	return nil
}

// GradeInput is one learner's mark in a grading batch.
type GradeInput struct {
	LearnerID string `json:"learner_id"`
	Mark      int    `json:"mark"`
	Feedback  string `json:"feedback,omitempty"`
}

/*
SaveGrades upserts a batch of grades for an assessment.

Description: Each mark is clamped to the [0, TotalMarks] range of the
assessment before storage, so an out-of-range entry records the nearest
valid mark rather than failing the batch.

Parameters:
  - context: context.Context
  - assessmentID: string (UUID)
  - graderID: string (UUID of the acting educator)
  - inputs: []GradeInput

Returns:
  - []Grade: The stored grades with clamped marks
  - error: Validation error or NotFound
*/
func (service *Service) SaveGrades(context context.Context, assessmentID, graderID string, inputs []GradeInput) ([]Grade, error) {
	if len(inputs) == 0 {
		return nil, apperr.ValidationError("Grading batch must contain at least one entry")
	}

	target, err := service.repo.FindByID(context, assessmentID)
	if err != nil {
		return nil, err
	}

	validator := validate.New()
	for _, input := range inputs {
		validator.UUID("learner_id", input.LearnerID)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	grades := make([]Grade, 0, len(inputs))
	for _, input := range inputs {
		grades = append(grades, Grade{
			AssessmentID: assessmentID,
			LearnerID:    input.LearnerID,
			Mark:         clampMark(input.Mark, target.TotalMarks),
			Feedback:     input.Feedback,
			GradedBy:     graderID,
			GradedAt:     now,
		})
	}

	if err := service.repo.SaveGrades(context, grades); err != nil {
		return nil, err
	}

	service.logger.Info("grades_saved",
		slog.String("assessment_id", assessmentID),
		slog.Int("count", len(grades)),
	)
	return grades, nil
}

/*
ListGrades retrieves all recorded grades for an assessment.

Parameters:
  - context: context.Context
  - assessmentID: string (UUID)

Returns:
  - []Grade: Recorded grades
  - error: NotFound if the assessment does not exist
*/
func (service *Service) ListGrades(context context.Context, assessmentID string) ([]Grade, error) {
	if _, err := service.repo.FindByID(context, assessmentID); err != nil {
		return nil, err
	}
	return service.repo.ListGrades(context, assessmentID)
}

// clampMark bounds a mark to the assessment's valid range.
func clampMark(mark, totalMarks int) int {
	if mark < 0 {
		return 0
	}
	if mark > totalMarks {
		return totalMarks
	}
	return mark
}

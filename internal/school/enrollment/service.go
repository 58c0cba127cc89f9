// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package enrollment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lesedi/thuto/internal/platform/apperr"
	"github.com/lesedi/thuto/internal/platform/sec"
	"github.com/lesedi/thuto/internal/platform/validate"
	"github.com/lesedi/thuto/internal/school/class"
	"github.com/lesedi/thuto/internal/users/auth"
	"github.com/lesedi/thuto/pkg/uuid"
)

// ClassDirectory is the read-only view of classes the service needs for
// existence and capacity checks.
type ClassDirectory interface {
	FindByID(context context.Context, id string) (*class.Class, error)
}

// ProfileDirectory is the read-only view of user profiles used to resolve
// and vet learners before enrolling them.
type ProfileDirectory interface {
	FindByID(context context.Context, id string) (*auth.Profile, error)
	FindByEmail(context context.Context, email string) (*auth.Profile, error)
}

// Service implements enrollment operations.
type Service struct {
	repository Repository
	classes    ClassDirectory
	profiles   ProfileDirectory
	logger     *slog.Logger
}

/*
NewService

Creates an enrollment service.

Parameters:
  - repository: membership persistence
  - classes: class lookup for existence and capacity checks
  - profiles: profile lookup for learner vetting
  - logger: structured logger

Returns:
  - *Service: the initialized service
*/
func NewService(repository Repository, classes ClassDirectory, profiles ProfileDirectory, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		classes:    classes,
		profiles:   profiles,
		logger:     logger,
	}
}

/*
Enroll

Enrolls a learner in a class after vetting both sides of the relation.

The target profile must exist and hold the learner role; staff and parents
cannot be class members. When the class declares a capacity, enrollment is
refused once the active roster reaches it.

Parameters:
  - context: request context
  - classID: target class UUID
  - learnerID: learner profile UUID

Returns:
  - *Enrollment: the created membership
  - error: validation error, apperr.NotFound, or apperr.Conflict
*/
func (service *Service) Enroll(context context.Context, classID, learnerID string) (*Enrollment, error) {
	validator := validate.New().
		UUID(FieldClassID, classID).
		UUID(FieldLearnerID, learnerID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	target, err := service.classes.FindByID(context, classID)
	if err != nil {
		return nil, err
	}

	profile, err := service.profiles.FindByID(context, learnerID)
	if err != nil {
		return nil, err
	}
	if profile.Role != sec.RoleLearner {
		return nil, apperr.ValidationError("Only profiles with the learner role can be enrolled in a class")
	}

	if target.Capacity > 0 {
		active, err := service.repository.CountActive(context, classID)
		if err != nil {
			return nil, err
		}
		if active >= target.Capacity {
			return nil, apperr.Conflict(fmt.Sprintf("Class is at capacity (%d learners)", target.Capacity))
		}
	}

	membership := &Enrollment{
		ID:         uuid.New(),
		ClassID:    classID,
		LearnerID:  learnerID,
		EnrolledAt: time.Now(),
	}
	if err := service.repository.Enroll(context, membership); err != nil {
		return nil, err
	}

	service.logger.Info("learner_enrolled",
		slog.String("class_id", classID),
		slog.String("learner_id", learnerID),
	)
	return membership, nil
}

/*
Withdraw

Withdraws a learner from a class. Withdrawing a learner who is not
enrolled succeeds without effect.

Parameters:
  - context: request context
  - classID: target class UUID
  - learnerID: learner profile UUID

Returns:
  - error: validation error or repository failure
*/
func (service *Service) Withdraw(context context.Context, classID, learnerID string) error {
	validator := validate.New().
		UUID(FieldClassID, classID).
		UUID(FieldLearnerID, learnerID)
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repository.Withdraw(context, classID, learnerID); err != nil {
		return err
	}

	service.logger.Info("learner_withdrawn",
		slog.String("class_id", classID),
		slog.String("learner_id", learnerID),
	)
	return nil
}

/*
Roster

Returns the active roster of a class, ordered by learner name.

Parameters:
  - context: request context
  - classID: target class UUID

Returns:
  - []RosterEntry: active members with profile data
  - error: apperr.NotFound when the class does not exist
*/
func (service *Service) Roster(context context.Context, classID string) ([]RosterEntry, error) {
	if _, err := service.classes.FindByID(context, classID); err != nil {
		return nil, err
	}
	return service.repository.Roster(context, classID)
}

/*
ListForLearner

Returns all active memberships for one learner.

Parameters:
  - context: request context
  - learnerID: learner profile UUID

Returns:
  - []Enrollment: active memberships
  - error: repository failure
*/
func (service *Service) ListForLearner(context context.Context, learnerID string) ([]Enrollment, error) {
	return service.repository.ListByLearner(context, learnerID)
}

/*
BulkEnroll

Enrolls learners from an uploaded CSV file.

The file must carry a header row naming at least the learner_id, full_name,
and email columns. Rows are processed independently: a rejected row is
reported in the result and never aborts the upload. Learners who are
already enrolled are counted as skipped.

Parameters:
  - context: request context
  - classID: target class UUID
  - file: the CSV payload

Returns:
  - *BulkResult: per-row outcome summary
  - error: apperr.NotFound for an unknown class, or a malformed-file error
*/
func (service *Service) BulkEnroll(context context.Context, classID string, file io.Reader) (*BulkResult, error) {
	target, err := service.classes.FindByID(context, classID)
	if err != nil {
		return nil, err
	}

	rows, err := parseRosterCSV(file)
	if err != nil {
		return nil, err
	}

	result := &BulkResult{}
	for _, row := range rows {
		if row.Err != "" {
			result.Errors = append(result.Errors, RowError{Row: row.Number, Message: row.Err})
			continue
		}
		if err := service.enrollRow(context, target, row); err != nil {
			if errors.Is(err, ErrAlreadyEnrolled) {
				result.Skipped++
				continue
			}
			result.Errors = append(result.Errors, RowError{Row: row.Number, Message: rowMessage(err)})
			continue
		}
		result.Enrolled++
	}

	service.logger.Info("bulk_enrollment_processed",
		slog.String("class_id", classID),
		slog.Int("enrolled", result.Enrolled),
		slog.Int("skipped", result.Skipped),
		slog.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// enrollRow vets and enrolls one parsed CSV row.
func (service *Service) enrollRow(context context.Context, target *class.Class, row rosterRow) error {
	profile, err := service.profiles.FindByID(context, row.LearnerID)
	if err != nil {
		return err
	}
	if profile.Role != sec.RoleLearner {
		return apperr.ValidationError("Profile does not hold the learner role")
	}
	if profile.Email != row.Email {
		return apperr.ValidationError("Email does not match the learner's profile")
	}

	if target.Capacity > 0 {
		active, err := service.repository.CountActive(context, target.ID)
		if err != nil {
			return err
		}
		if active >= target.Capacity {
			return apperr.Conflict(fmt.Sprintf("Class is at capacity (%d learners)", target.Capacity))
		}
	}

	return service.repository.Enroll(context, &Enrollment{
		ID:         uuid.New(),
		ClassID:    target.ID,
		LearnerID:  row.LearnerID,
		EnrolledAt: time.Now(),
	})
}

// rowMessage flattens an error into a human-readable row message.
func rowMessage(err error) string {
	if appError := apperr.As(err); appError != nil {
		return appError.Message
	}
	return err.Error()
}

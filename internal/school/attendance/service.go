// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package attendance

import (
	"context"
	"log/slog"
	"time"

	"github.com/lesedi/thuto/internal/platform/apperr"
	"github.com/lesedi/thuto/internal/platform/validate"
	"github.com/lesedi/thuto/internal/school/class"
	"github.com/lesedi/thuto/pkg/uuid"
)

// ClassDirectory is the read-only class lookup used to anchor sheets to
// an existing class.
type ClassDirectory interface {
	FindByID(context context.Context, id string) (*class.Class, error)
}

// HolidayChecker reports whether a date falls outside the school calendar.
type HolidayChecker interface {
	IsSchoolHoliday(date time.Time) bool
}

// Service orchestrates attendance capture and retrieval.
type Service struct {
	repo     Repository
	classes  ClassDirectory
	calendar HolidayChecker
	logger   *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, classes ClassDirectory, calendar HolidayChecker, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		classes:  classes,
		calendar: calendar,
		logger:   logger,
	}
}

/*
Take records the attendance register for a class on a date.

Description: Retaking attendance for the same class and date replaces the
earlier sheet. Dates falling on a weekend, a public holiday, or outside
every school term are rejected.

Parameters:
  - context: context.Context
  - classID: string (UUID)
  - date: string (YYYY-MM-DD)
  - takenBy: string (UUID of the acting educator)
  - records: []Record

Returns:
  - *Sheet: The stored sheet
  - error: Validation error or NotFound for an unknown class
*/
func (service *Service) Take(context context.Context, classID, date, takenBy string, records []Record) (*Sheet, error) {
	validator := validate.New().
		Required(FieldClassID, classID).
		UUID(FieldClassID, classID).
		Required(FieldDate, date).
		Date(FieldDate, date).
		Custom(FieldRecords, len(records) == 0, "Attendance sheet must contain at least one record")
	for _, record := range records {
		validator.UUID("learner_id", record.LearnerID)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, validate.RequiredError(FieldDate, "Must be a date in YYYY-MM-DD format")
	}
	if service.calendar.IsSchoolHoliday(day) {
		return nil, apperr.ValidationError("Attendance cannot be taken on a school holiday")
	}

	if _, err := service.classes.FindByID(context, classID); err != nil {
		return nil, err
	}

	sheet := &Sheet{
		ID:      uuid.New(),
		ClassID: classID,
		Date:    date,
		Records: records,
		TakenBy: takenBy,
		TakenAt: time.Now(),
	}
	if err := service.repo.Upsert(context, sheet); err != nil {
		return nil, err
	}

	service.logger.Info("attendance_taken",
		slog.String("class_id", classID),
		slog.String("date", date),
		slog.Int("records", len(records)),
	)
	return sheet, nil
}

/*
Get fetches the attendance sheet for one class on one date.

Parameters:
  - context: context.Context
  - classID: string (UUID)
  - date: string (YYYY-MM-DD)

Returns:
  - *Sheet: The sheet
  - error: NotFound when no sheet was taken for that date
*/
func (service *Service) Get(context context.Context, classID, date string) (*Sheet, error) {
	validator := validate.New().
		UUID(FieldClassID, classID).
		Date(FieldDate, date)
	if err := validator.Err(); err != nil {
		return nil, err
	}
	return service.repo.FindByClassAndDate(context, classID, date)
}

/*
ListRange lists a class's sheets between two dates inclusive.

Parameters:
  - context: context.Context
  - classID: string (UUID)
  - from: string (YYYY-MM-DD)
  - to: string (YYYY-MM-DD)

Returns:
  - []Sheet: Sheets in the range, oldest first
  - error: Validation error or repository failure
*/
func (service *Service) ListRange(context context.Context, classID, from, to string) ([]Sheet, error) {
	validator := validate.New().
		UUID(FieldClassID, classID).
		Date("from", from).
		Date("to", to).
		Custom("to", to < from, "End date must not precede the start date")
	if err := validator.Err(); err != nil {
		return nil, err
	}
	return service.repo.ListByClassRange(context, classID, from, to)
}

// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package report

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"strconv"

	"github.com/lesedi/thuto/internal/platform/apperr"
	"github.com/lesedi/thuto/internal/platform/validate"
	"github.com/lesedi/thuto/internal/school/calendar"
)

// Service assembles reports from the school module stores.
type Service struct {
	classes     ClassDirectory
	attendance  AttendanceStore
	assessments AssessmentStore
	enrollments EnrollmentStore
	calendar    *calendar.Calendar
	logger      *slog.Logger
}

// NewService constructs a new [Service].
func NewService(
	classes ClassDirectory,
	attendance AttendanceStore,
	assessments AssessmentStore,
	enrollments EnrollmentStore,
	schoolCalendar *calendar.Calendar,
	logger *slog.Logger,
) *Service {
	return &Service{
		classes:     classes,
		attendance:  attendance,
		assessments: assessments,
		enrollments: enrollments,
		calendar:    schoolCalendar,
		logger:      logger,
	}
}

/*
ClassReport assembles the oversight report for one class over a range.

Parameters:
  - context: context.Context
  - classID: string (UUID)
  - from: string (YYYY-MM-DD)
  - to: string (YYYY-MM-DD)

Returns:
  - *ClassReport: Headcount, attendance rate, and assessment rollups
  - error: Validation error or NotFound for an unknown class
*/
func (service *Service) ClassReport(context context.Context, classID, from, to string) (*ClassReport, error) {
	validator := validate.New().
		UUID("class_id", classID).
		Date("from", from).
		Date("to", to).
		Custom("to", to < from, "End date must not precede the start date")
	if err := validator.Err(); err != nil {
		return nil, err
	}
	return service.buildReport(context, classID, from, to, "")
}

/*
TermReport assembles the oversight report for one class over a school term.

Parameters:
  - context: context.Context
  - classID: string (UUID)
  - termName: string (e.g. "Term 2")

Returns:
  - *ClassReport: The report bounded by the term's dates
  - error: Validation error for an unknown term, or NotFound
*/
func (service *Service) TermReport(context context.Context, classID, termName string) (*ClassReport, error) {
	if err := validate.New().UUID("class_id", classID).Err(); err != nil {
		return nil, err
	}

	for _, term := range service.calendar.Terms() {
		if term.Name == termName {
			return service.buildReport(context, classID,
				term.Start.Format("2006-01-02"), term.End.Format("2006-01-02"), term.Name)
		}
	}
	return nil, apperr.ValidationError("Unknown school term")
}

func (service *Service) buildReport(context context.Context, classID, from, to, termName string) (*ClassReport, error) {
	reported, err := service.classes.FindByID(context, classID)
	if err != nil {
		return nil, err
	}

	headcount, err := service.enrollments.CountActive(context, classID)
	if err != nil {
		return nil, err
	}

	stats, err := service.attendance.StatsForClass(context, classID, from, to)
	if err != nil {
		return nil, err
	}
	attendanceReport := AttendanceReport{Present: stats.Present, Total: stats.Total}
	if stats.Total > 0 {
		attendanceReport.Rate = float64(stats.Present) / float64(stats.Total)
	}

	assessments, err := service.assessments.ListByClass(context, classID)
	if err != nil {
		return nil, err
	}
	rollups := make([]AssessmentReport, 0, len(assessments))
	for _, item := range assessments {
		summary, err := service.assessments.Summarize(context, item.ID)
		if err != nil {
			return nil, err
		}
		rollups = append(rollups, AssessmentReport{
			ID:                item.ID,
			Title:             item.Title,
			TotalMarks:        item.TotalMarks,
			AverageScore:      summary.AverageScore,
			GradedSubmissions: summary.GradedSubmissions,
		})
	}

	return &ClassReport{
		Class:          reported,
		From:           from,
		To:             to,
		Term:           termName,
		ActiveLearners: headcount,
		Attendance:     attendanceReport,
		Assessments:    rollups,
	}, nil
}

/*
ExportAttendanceCSV streams a class's attendance marks as CSV.

Description: One row per learner per sheet, ordered by date. The header
row names the date, learner_id, present, and note columns, matching the
layout the bulk enrollment upload uses for its own columns.

Parameters:
  - context: context.Context
  - classID: string (UUID)
  - from: string (YYYY-MM-DD)
  - to: string (YYYY-MM-DD)
  - destination: io.Writer receiving the CSV bytes

Returns:
  - error: Validation error, NotFound, or a write failure
*/
func (service *Service) ExportAttendanceCSV(context context.Context, classID, from, to string, destination io.Writer) error {
	validator := validate.New().
		UUID("class_id", classID).
		Date("from", from).
		Date("to", to).
		Custom("to", to < from, "End date must not precede the start date")
	if err := validator.Err(); err != nil {
		return err
	}

	if _, err := service.classes.FindByID(context, classID); err != nil {
		return err
	}

	sheets, err := service.attendance.ListByClassRange(context, classID, from, to)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(destination)
	if err := writer.Write([]string{"date", "learner_id", "present", "note"}); err != nil {
		return err
	}
	for _, sheet := range sheets {
		for _, record := range sheet.Records {
			row := []string{sheet.Date, record.LearnerID, strconv.FormatBool(record.Present), record.Note}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

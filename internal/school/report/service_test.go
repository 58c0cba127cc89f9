// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package report_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lesedi/thuto/internal/platform/apperr"
	"github.com/lesedi/thuto/internal/school/assessment"
	"github.com/lesedi/thuto/internal/school/attendance"
	"github.com/lesedi/thuto/internal/school/calendar"
	"github.com/lesedi/thuto/internal/school/class"
	"github.com/lesedi/thuto/internal/school/report"
	"github.com/lesedi/thuto/pkg/uuid"
)

type fixtures struct {
	class       *class.Class
	stats       attendance.Stats
	sheets      []attendance.Sheet
	assessments []assessment.Assessment
	summaries   map[string]*assessment.Summary
	headcount   int
}

func (f *fixtures) FindByID(_ context.Context, id string) (*class.Class, error) {
	if f.class == nil || f.class.ID != id {
		return nil, apperr.NotFound("Class")
	}
	return f.class, nil
}

func (f *fixtures) StatsForClass(_ context.Context, _, _, _ string) (*attendance.Stats, error) {
	stats := f.stats
	return &stats, nil
}

func (f *fixtures) ListByClassRange(_ context.Context, _, _, _ string) ([]attendance.Sheet, error) {
	return f.sheets, nil
}

func (f *fixtures) ListByClass(_ context.Context, _ string) ([]assessment.Assessment, error) {
	return f.assessments, nil
}

func (f *fixtures) Summarize(_ context.Context, assessmentID string) (*assessment.Summary, error) {
	summary, ok := f.summaries[assessmentID]
	if !ok {
		return &assessment.Summary{}, nil
	}
	return summary, nil
}

func (f *fixtures) CountActive(_ context.Context, _ string) (int, error) {
	return f.headcount, nil
}

func newService(f *fixtures) *report.Service {
	return report.NewService(f, f, f, f, calendar.New(), slog.Default())
}

func TestClassReport_Aggregates(t *testing.T) {
	mathematics := &class.Class{ID: uuid.New(), Name: "Mathematics", GradeLevel: 10}
	test := assessment.Assessment{ID: uuid.New(), ClassID: mathematics.ID, Title: "Term Test", TotalMarks: 50}
	f := &fixtures{
		class:       mathematics,
		stats:       attendance.Stats{Present: 45, Total: 50},
		assessments: []assessment.Assessment{test},
		summaries: map[string]*assessment.Summary{
			test.ID: {AverageScore: 36.5, GradedSubmissions: 20},
		},
		headcount: 25,
	}

	built, err := newService(f).ClassReport(context.Background(), mathematics.ID, "2024-04-03", "2024-06-14")

	require.NoError(t, err)
	assert.Equal(t, 25, built.ActiveLearners)
	assert.InDelta(t, 0.9, built.Attendance.Rate, 0.001)
	require.Len(t, built.Assessments, 1)
	assert.Equal(t, 20, built.Assessments[0].GradedSubmissions)
	assert.InDelta(t, 36.5, built.Assessments[0].AverageScore, 0.001)
}

func TestClassReport_ZeroMarksZeroRate(t *testing.T) {
	mathematics := &class.Class{ID: uuid.New(), Name: "Mathematics", GradeLevel: 10}
	f := &fixtures{class: mathematics}

	built, err := newService(f).ClassReport(context.Background(), mathematics.ID, "2024-04-03", "2024-06-14")

	require.NoError(t, err)
	assert.Zero(t, built.Attendance.Rate)
}

func TestTermReport_UsesTermBoundaries(t *testing.T) {
	mathematics := &class.Class{ID: uuid.New(), Name: "Mathematics", GradeLevel: 10}
	f := &fixtures{class: mathematics}

	built, err := newService(f).TermReport(context.Background(), mathematics.ID, "Term 2")

	require.NoError(t, err)
	assert.Equal(t, "2024-04-03", built.From)
	assert.Equal(t, "2024-06-14", built.To)
	assert.Equal(t, "Term 2", built.Term)
}

func TestTermReport_UnknownTerm(t *testing.T) {
	mathematics := &class.Class{ID: uuid.New(), Name: "Mathematics", GradeLevel: 10}
	f := &fixtures{class: mathematics}

	_, err := newService(f).TermReport(context.Background(), mathematics.ID, "Term 5")

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestExportAttendanceCSV(t *testing.T) {
	mathematics := &class.Class{ID: uuid.New(), Name: "Mathematics", GradeLevel: 10}
	learnerID := uuid.New()
	f := &fixtures{
		class: mathematics,
		sheets: []attendance.Sheet{
			{ClassID: mathematics.ID, Date: "2024-04-03", Records: []attendance.Record{
				{LearnerID: learnerID, Present: true},
				{LearnerID: uuid.New(), Present: false, Note: "sick"},
			}},
		},
	}

	var buffer bytes.Buffer
	err := newService(f).ExportAttendanceCSV(context.Background(), mathematics.ID, "2024-04-01", "2024-04-30", &buffer)

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,learner_id,present,note", lines[0])
	assert.Equal(t, "2024-04-03,"+learnerID+",true,", lines[1])
	assert.Contains(t, lines[2], "false,sick")
}

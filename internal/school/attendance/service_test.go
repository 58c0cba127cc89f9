// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package attendance_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lesedi/thuto/internal/platform/apperr"
	"github.com/lesedi/thuto/internal/school/attendance"
	"github.com/lesedi/thuto/internal/school/calendar"
	"github.com/lesedi/thuto/internal/school/class"
	"github.com/lesedi/thuto/pkg/uuid"
)

type fakeRepo struct {
	sheets map[string]*attendance.Sheet // classID|date
}

func sheetKey(classID, date string) string { return classID + "|" + date }

func (f *fakeRepo) Upsert(_ context.Context, sheet *attendance.Sheet) error {
	f.sheets[sheetKey(sheet.ClassID, sheet.Date)] = sheet
	return nil
}

func (f *fakeRepo) FindByClassAndDate(_ context.Context, classID, date string) (*attendance.Sheet, error) {
	sheet, ok := f.sheets[sheetKey(classID, date)]
	if !ok {
		return nil, apperr.NotFound("Attendance sheet")
	}
	return sheet, nil
}

func (f *fakeRepo) ListByClassRange(_ context.Context, classID, from, to string) ([]attendance.Sheet, error) {
	var sheets []attendance.Sheet
	for _, sheet := range f.sheets {
		if sheet.ClassID == classID && sheet.Date >= from && sheet.Date <= to {
			sheets = append(sheets, *sheet)
		}
	}
	return sheets, nil
}

func (f *fakeRepo) StatsForClass(_ context.Context, classID, from, to string) (*attendance.Stats, error) {
	stats := &attendance.Stats{}
	for _, sheet := range f.sheets {
		if sheet.ClassID != classID || sheet.Date < from || sheet.Date > to {
			continue
		}
		for _, record := range sheet.Records {
			stats.Total++
			if record.Present {
				stats.Present++
			}
		}
	}
	return stats, nil
}

type fakeClasses struct {
	classes map[string]*class.Class
}

func (f *fakeClasses) FindByID(_ context.Context, id string) (*class.Class, error) {
	found, ok := f.classes[id]
	if !ok {
		return nil, apperr.NotFound("Class")
	}
	return found, nil
}

type harness struct {
	service *attendance.Service
	repo    *fakeRepo
	classes *fakeClasses
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		repo:    &fakeRepo{sheets: make(map[string]*attendance.Sheet)},
		classes: &fakeClasses{classes: make(map[string]*class.Class)},
	}
	h.service = attendance.NewService(h.repo, h.classes, calendar.New(), slog.Default())
	return h
}

func (h *harness) addClass() *class.Class {
	created := &class.Class{ID: uuid.New(), Name: "History", GradeLevel: 10}
	h.classes.classes[created.ID] = created
	return created
}

func TestTake_StoresSheet(t *testing.T) {
	h := newHarness(t)
	history := h.addClass()
	educatorID := uuid.New()

	// 2024-02-14 is a Wednesday in term 1.
	sheet, err := h.service.Take(context.Background(), history.ID, "2024-02-14", educatorID,
		[]attendance.Record{
			{LearnerID: uuid.New(), Present: true},
			{LearnerID: uuid.New(), Present: false, Note: "sick"},
		})

	require.NoError(t, err)
	assert.Equal(t, educatorID, sheet.TakenBy)
	assert.Len(t, sheet.Records, 2)

	stored, err := h.service.Get(context.Background(), history.ID, "2024-02-14")
	require.NoError(t, err)
	assert.Equal(t, sheet.ID, stored.ID)
}

func TestTake_ReplacesExistingSheet(t *testing.T) {
	h := newHarness(t)
	history := h.addClass()
	learnerID := uuid.New()

	_, err := h.service.Take(context.Background(), history.ID, "2024-02-14", uuid.New(),
		[]attendance.Record{{LearnerID: learnerID, Present: false}})
	require.NoError(t, err)

	_, err = h.service.Take(context.Background(), history.ID, "2024-02-14", uuid.New(),
		[]attendance.Record{{LearnerID: learnerID, Present: true}})
	require.NoError(t, err)

	stored, err := h.service.Get(context.Background(), history.ID, "2024-02-14")
	require.NoError(t, err)
	require.Len(t, stored.Records, 1)
	assert.True(t, stored.Records[0].Present)
}

func TestTake_RejectsSchoolHolidays(t *testing.T) {
	h := newHarness(t)
	history := h.addClass()
	records := []attendance.Record{{LearnerID: uuid.New(), Present: true}}

	cases := map[string]string{
		"weekend":        "2024-02-17",
		"public holiday": "2024-05-01",
		"between terms":  "2024-03-25",
	}
	for name, date := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := h.service.Take(context.Background(), history.ID, date, uuid.New(), records)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

func TestTake_EmptySheetRejected(t *testing.T) {
	h := newHarness(t)
	history := h.addClass()

	_, err := h.service.Take(context.Background(), history.ID, "2024-02-14", uuid.New(), nil)

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestListRange_ValidatesOrder(t *testing.T) {
	h := newHarness(t)
	history := h.addClass()

	_, err := h.service.ListRange(context.Background(), history.ID, "2024-02-20", "2024-02-10")

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

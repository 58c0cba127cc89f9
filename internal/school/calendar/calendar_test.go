// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lesedi/thuto/internal/school/calendar"
)

func day(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 0, 0, 0, 0, time.UTC)
}

func TestCurrentTerm(t *testing.T) {
	cal := calendar.New()

	term, ok := cal.CurrentTerm(day(time.February, 14))
	require.True(t, ok)
	assert.Equal(t, "Term 1", term.Name)

	// Term boundaries are inclusive on both ends.
	term, ok = cal.CurrentTerm(day(time.January, 17))
	require.True(t, ok)
	assert.Equal(t, "Term 1", term.Name)

	term, ok = cal.CurrentTerm(day(time.December, 4))
	require.True(t, ok)
	assert.Equal(t, "Term 4", term.Name)

	_, ok = cal.CurrentTerm(day(time.March, 25))
	assert.False(t, ok, "between terms 1 and 2")

	_, ok = cal.CurrentTerm(day(time.December, 20))
	assert.False(t, ok, "after the school year ends")
}

func TestNextTerm(t *testing.T) {
	cal := calendar.New()

	term, ok := cal.NextTerm(day(time.March, 25))
	require.True(t, ok)
	assert.Equal(t, "Term 2", term.Name)

	// A date inside a term still reports the following term.
	term, ok = cal.NextTerm(day(time.February, 14))
	require.True(t, ok)
	assert.Equal(t, "Term 2", term.Name)

	_, ok = cal.NextTerm(day(time.December, 20))
	assert.False(t, ok, "no term follows term 4")
}

func TestPublicHoliday(t *testing.T) {
	cal := calendar.New()

	name, ok := cal.PublicHoliday(day(time.June, 16))
	require.True(t, ok)
	assert.Equal(t, "Youth Day", name)

	_, ok = cal.PublicHoliday(day(time.June, 18))
	assert.False(t, ok)
}

func TestIsSchoolHoliday(t *testing.T) {
	cal := calendar.New()

	cases := []struct {
		name    string
		date    time.Time
		holiday bool
	}{
		{"ordinary school day", day(time.February, 14), false}, // Wednesday in term 1
		{"saturday", day(time.February, 17), true},
		{"sunday", day(time.February, 18), true},
		{"public holiday in term", day(time.May, 1), true}, // Workers' Day, a Wednesday
		{"between terms", day(time.March, 25), true},
		{"summer holidays", day(time.December, 20), true},
		{"first day of term", day(time.April, 3), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.holiday, cal.IsSchoolHoliday(tc.date))
		})
	}
}

func TestHolidays_SortedAndComplete(t *testing.T) {
	cal := calendar.New()

	holidays := cal.Holidays()
	require.Len(t, holidays, 13)
	assert.Equal(t, "New Year's Day", holidays[0].Name)
	assert.Equal(t, "Day of Goodwill", holidays[len(holidays)-1].Name)

	for i := 1; i < len(holidays); i++ {
		assert.True(t, holidays[i-1].Date.Before(holidays[i].Date))
	}
}

func TestIsSchoolHoliday_TruncatesTimeOfDay(t *testing.T) {
	cal := calendar.New()

	afternoon := time.Date(2024, time.February, 14, 15, 30, 0, 0, time.UTC)
	assert.False(t, cal.IsSchoolHoliday(afternoon))
}

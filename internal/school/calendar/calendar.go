// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

// Package calendar embeds the South African public school calendar.
//
// Term boundaries and public holidays are compiled in rather than stored,
// since the national calendar is fixed per year by the Department of
// Basic Education.
package calendar

import (
	"sort"
	"time"
)

// Term is one school term with inclusive boundaries.
type Term struct {
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Holiday is a national public holiday.
type Holiday struct {
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

// Calendar answers school-day questions for one academic year.
type Calendar struct {
	year     int
	terms    []Term
	holidays map[string]string // YYYY-MM-DD -> name
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// New returns the 2024 academic calendar for inland provinces.
func New() *Calendar {
	calendar := &Calendar{
		year: 2024,
		terms: []Term{
			{Name: "Term 1", Start: date(2024, time.January, 17), End: date(2024, time.March, 20)},
			{Name: "Term 2", Start: date(2024, time.April, 3), End: date(2024, time.June, 14)},
			{Name: "Term 3", Start: date(2024, time.July, 9), End: date(2024, time.September, 20)},
			{Name: "Term 4", Start: date(2024, time.October, 1), End: date(2024, time.December, 4)},
		},
		holidays: map[string]string{
			"2024-01-01": "New Year's Day",
			"2024-03-21": "Human Rights Day",
			"2024-03-29": "Good Friday",
			"2024-04-01": "Family Day",
			"2024-04-27": "Freedom Day",
			"2024-05-01": "Workers' Day",
			"2024-06-16": "Youth Day",
			"2024-06-17": "Public Holiday",
			"2024-08-09": "National Women's Day",
			"2024-09-24": "Heritage Day",
			"2024-12-16": "Day of Reconciliation",
			"2024-12-25": "Christmas Day",
			"2024-12-26": "Day of Goodwill",
		},
	}
	return calendar
}

// Year returns the academic year the calendar covers.
func (calendar *Calendar) Year() int { return calendar.year }

// Terms returns the school terms in chronological order.
func (calendar *Calendar) Terms() []Term {
	terms := make([]Term, len(calendar.terms))
	copy(terms, calendar.terms)
	return terms
}

// Holidays returns the public holidays in chronological order.
func (calendar *Calendar) Holidays() []Holiday {
	holidays := make([]Holiday, 0, len(calendar.holidays))
	for key, name := range calendar.holidays {
		day, err := time.Parse("2006-01-02", key)
		if err != nil {
			continue
		}
		holidays = append(holidays, Holiday{Name: name, Date: day})
	}
	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})
	return holidays
}

// CurrentTerm returns the term containing the date, if any.
func (calendar *Calendar) CurrentTerm(day time.Time) (Term, bool) {
	day = truncate(day)
	for _, term := range calendar.terms {
		if !day.Before(term.Start) && !day.After(term.End) {
			return term, true
		}
	}
	return Term{}, false
}

// NextTerm returns the first term starting after the date, if any.
func (calendar *Calendar) NextTerm(day time.Time) (Term, bool) {
	day = truncate(day)
	for _, term := range calendar.terms {
		if term.Start.After(day) {
			return term, true
		}
	}
	return Term{}, false
}

// PublicHoliday returns the holiday name for the date, if any.
func (calendar *Calendar) PublicHoliday(day time.Time) (string, bool) {
	name, ok := calendar.holidays[truncate(day).Format("2006-01-02")]
	return name, ok
}

// IsSchoolHoliday reports whether no school runs on the date: a weekend,
// a public holiday, or any day outside every term.
func (calendar *Calendar) IsSchoolHoliday(day time.Time) bool {
	day = truncate(day)
	if weekday := day.Weekday(); weekday == time.Saturday || weekday == time.Sunday {
		return true
	}
	if _, ok := calendar.PublicHoliday(day); ok {
		return true
	}
	_, inTerm := calendar.CurrentTerm(day)
	return !inTerm
}

func truncate(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}

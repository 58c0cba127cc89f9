// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

// Package attendance manages daily attendance registers.
//
// A register is one sheet per class per calendar date. Retaking attendance
// for the same class and date replaces the previous sheet.
package attendance

import (
	"context"
	"time"
)

// Record is one learner's mark on an attendance sheet.
type Record struct {
	LearnerID string `json:"learner_id"`
	Present   bool   `json:"present"`
	Note      string `json:"note,omitempty"`
}

// Sheet is the attendance register of one class on one date.
type Sheet struct {
	ID      string   `json:"id"`
	ClassID string   `json:"class_id"`
	Date    string   `json:"date"` // YYYY-MM-DD
	Records []Record `json:"records"`

	TakenBy string    `json:"taken_by"`
	TakenAt time.Time `json:"taken_at"`
}

// Stats aggregates attendance marks over a date range.
type Stats struct {
	Present int `json:"present"`
	Total   int `json:"total"`
}

// Field names used in validation errors.
const (
	FieldClassID = "class_id"
	FieldDate    = "date"
	FieldRecords = "records"
)

// Repository is the persistence contract for attendance sheets.
type Repository interface {
	// Upsert stores a sheet, replacing any existing sheet for the same
	// class and date.
	Upsert(context context.Context, sheet *Sheet) error

	// FindByClassAndDate fetches the sheet for one class on one date.
	FindByClassAndDate(context context.Context, classID, date string) (*Sheet, error)

	// ListByClassRange lists sheets for a class between two dates
	// inclusive, oldest first.
	ListByClassRange(context context.Context, classID, from, to string) ([]Sheet, error)

	// StatsForClass aggregates present/total marks for a class between
	// two dates inclusive.
	StatsForClass(context context.Context, classID, from, to string) (*Stats, error)
}

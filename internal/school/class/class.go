// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

/*
Package class manages the school's class catalogue.

A class binds a subject at a grade level to the educator who teaches it.
Learners attach to classes through the enrollment package; this package owns
only the catalogue metadata.
*/
package class

import (
	"context"
	"time"
)

// Class represents one taught class in the school catalogue.
type Class struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	Subject     string     `json:"subject"`
	GradeLevel  int        `json:"grade_level"` // 1-12
	EducatorID  string     `json:"educator_id"`
	Schedule    string     `json:"schedule,omitempty"` // e.g. "Mon/Wed 10:00"
	Room        string     `json:"room,omitempty"`
	Capacity    int        `json:"capacity"` // 0 means unlimited
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"` // soft-delete tracker
}

// Filter holds the parameters for a paginated class search.
type Filter struct {
	EducatorID string
	Subject    string
	GradeLevel int // 0 means any
	Query      string
}

// Global field names for validation
const (
	FieldName       = "name"
	FieldSubject    = "subject"
	FieldGradeLevel = "grade_level"
	FieldEducatorID = "educator_id"
	FieldCapacity   = "capacity"
	FieldSlug       = "slug"
)

// Repository is the persistence contract for the class catalogue.
type Repository interface {
	List(context context.Context, filter Filter, limit, offset int) ([]*Class, int, error)
	FindByID(context context.Context, id string) (*Class, error)
	FindBySlug(context context.Context, slug string) (*Class, error)
	Create(context context.Context, class *Class) error
	Update(context context.Context, class *Class) error
	SoftDelete(context context.Context, id string) error
}

// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package class

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lesedi/thuto/internal/platform/validate"
	"github.com/lesedi/thuto/pkg/slug"
	"github.com/lesedi/thuto/pkg/uuid"
)

// # Service Layer

// Service orchestrates the business logic for the class catalogue.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

/*
ListClasses retrieves a paginated and filtered collection of classes.

Parameters:
  - context: context.Context
  - filter: Filter (Criteria for educator, subject, grade level, search)
  - limit: int
  - offset: int

Returns:
  - []*Class: Matching classes
  - int: Total match count (for pagination metadata)
  - error: Repository level errors
*/
func (service *Service) ListClasses(context context.Context, filter Filter, limit, offset int) ([]*Class, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

/*
GetClass fetches a single class by UUID or URL slug.

Description: If the identifier matches the UUID format, it performs a
primary key lookup; otherwise, it resolves via the unique slug.

Parameters:
  - context: context.Context
  - identifier: string (UUID or Slug)

Returns:
  - *Class: The hydrated entity
  - error: NotFound if no match is found
*/
func (service *Service) GetClass(context context.Context, identifier string) (*Class, error) {
	if isUUID(identifier) {
		return service.repo.FindByID(context, identifier)
	}
	return service.repo.FindBySlug(context, identifier)
}

/*
CreateClass initialises a new class in the catalogue.

Description: Validates the metadata, generates a stable UUIDv7 identity, and
derives a URL slug like "grade-10-mathematics-a" before persisting.

Parameters:
  - context: context.Context
  - class: *Class

Returns:
  - error: Validation or persistence errors
*/
func (service *Service) CreateClass(context context.Context, class *Class) error {

	validator := &validate.Validator{}
	validator.Required(FieldName, class.Name).MaxLen(FieldName, class.Name, 200).
		Required(FieldSubject, class.Subject).MaxLen(FieldSubject, class.Subject, 100).
		Range(FieldGradeLevel, class.GradeLevel, 1, 12).
		Required(FieldEducatorID, class.EducatorID).UUID(FieldEducatorID, class.EducatorID).
		Custom(FieldCapacity, class.Capacity < 0, "Capacity cannot be negative")

	if err := validator.Err(); err != nil {
		return err
	}

	if class.ID == "" {
		class.ID = uuid.New()
	}

	if class.Slug == "" {
		class.Slug = slug.From(fmt.Sprintf("grade-%d-%s", class.GradeLevel, class.Name))
	}

	if err := service.repo.Create(context, class); err != nil {
		return err
	}

	service.logger.Info("class_created",
		slog.String("class_id", class.ID),
		slog.String("slug", class.Slug),
	)
	return nil
}

/*
UpdateClass applies modifications to an existing class.

Description: Supports partial updates; non-zero fields in the input overwrite
existing values.

Parameters:
  - context: context.Context
  - id: string
  - input: *Class (Updated attributes)

Returns:
  - *Class: The updated entity
  - error: Validation or persistence errors
*/
func (service *Service) UpdateClass(context context.Context, id string, input *Class) (*Class, error) {

	class, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}

	if input.Name != "" {
		validator.MaxLen(FieldName, input.Name, 200)
		class.Name = input.Name
	}
	if input.Subject != "" {
		validator.MaxLen(FieldSubject, input.Subject, 100)
		class.Subject = input.Subject
	}
	if input.GradeLevel != 0 {
		validator.Range(FieldGradeLevel, input.GradeLevel, 1, 12)
		class.GradeLevel = input.GradeLevel
	}
	if input.EducatorID != "" {
		validator.UUID(FieldEducatorID, input.EducatorID)
		class.EducatorID = input.EducatorID
	}
	if input.Slug != "" {
		validator.Slug(FieldSlug, input.Slug)
		class.Slug = input.Slug
	}
	if input.Schedule != "" {
		class.Schedule = input.Schedule
	}
	if input.Room != "" {
		class.Room = input.Room
	}
	if input.Capacity != 0 {
		validator.Custom(FieldCapacity, input.Capacity < 0, "Capacity cannot be negative")
		class.Capacity = input.Capacity
	}
	if input.Description != "" {
		class.Description = input.Description
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, class); err != nil {
		return nil, err
	}

	service.logger.Info("class_updated", slog.String("class_id", class.ID))
	return class, nil
}

/*
DeleteClass removes a class from the catalogue via soft-deletion.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: NotFound or persistence errors
*/
func (service *Service) DeleteClass(context context.Context, id string) error {
	if err := service.repo.SoftDelete(context, id); err != nil {
		return err
	}

	service.logger.Info("class_deleted", slog.String("class_id", id))
	return nil
}

// # Internal Helpers

// isUUID returns true if the string matches the standard UUID length.
func isUUID(s string) bool {
	return len(s) == 36
}

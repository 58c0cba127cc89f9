// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lesedi/thuto/internal/platform/apperr"
	"github.com/lesedi/thuto/internal/platform/metrics"
	"github.com/lesedi/thuto/internal/platform/sec"
	"github.com/lesedi/thuto/internal/users/auth"
	"github.com/lesedi/thuto/pkg/uuid"
)

// # Service Layer

// Service orchestrates administrative user management.
type Service struct {
	repository  Repository
	profileRepo auth.ProfileRepository
	sessions    SessionRevoker
	activity    ActivityRecorder
	telemetry   *metrics.Metrics
	logger      *slog.Logger
}

// NewService constructs a new admin [Service].
func NewService(
	repository Repository,
	profileRepo auth.ProfileRepository,
	sessions SessionRevoker,
	activity ActivityRecorder,
	telemetry *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		repository:  repository,
		profileRepo: profileRepo,
		sessions:    sessions,
		activity:    activity,
		telemetry:   telemetry,
		logger:      logger,
	}
}

/*
ListUsers retrieves a filtered, paginated page of user profiles.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*auth.Profile: Matching profiles
  - int: Total match count
  - error: Retrieval failures
*/
func (service *Service) ListUsers(context context.Context, filter Filter, limit, offset int) ([]*auth.Profile, int, error) {
	return service.repository.List(context, filter, limit, offset)
}

/*
GetUser retrieves a single profile by ID.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.Profile: Hydrated entity
  - error: Not found or storage failures
*/
func (service *Service) GetUser(context context.Context, userID string) (*auth.Profile, error) {
	return service.repository.FindByID(context, userID)
}

// CreateUserInput holds the data for administrative user provisioning.
type CreateUserInput struct {
	FullName string
	Email    string
	Password string
	Role     sec.Role
}

/*
CreateUser provisions a user account with any role, including admin and
principal.

Description: Administrator-created accounts are activated and marked verified
immediately; the administrator vouches for the email address.

Parameters:
  - context: context.Context
  - actorID: string (The administrator performing the action)
  - input: CreateUserInput

Returns:
  - *auth.Profile: Created entity
  - error: Conflict or storage failures
*/
func (service *Service) CreateUser(context context.Context, actorID string, input CreateUserInput) (*auth.Profile, error) {

	_, err := service.profileRepo.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("admin_service_hash_failed: %w", err)
	}

	profile := &auth.Profile{
		ID:            uuid.New(),
		FullName:      input.FullName,
		Email:         input.Email,
		PasswordHash:  hashedPassword,
		Role:          input.Role,
		Status:        sec.StatusActive,
		EmailVerified: true,
	}

	if err := service.profileRepo.Create(context, profile); err != nil {
		return nil, fmt.Errorf("admin_service_create_failed: %w", err)
	}

	service.telemetry.IncrementUsersCreated(string(profile.Role))
	service.activity.Record(context, actorID, "user_created", profile.ID,
		fmt.Sprintf("role=%s", profile.Role))

	service.logger.Info("admin_user_created",
		slog.String("actor_id", actorID),
		slog.String("user_id", profile.ID),
		slog.String("role", string(profile.Role)),
	)

	return profile, nil
}

// UpdateUserInput defines the administratively mutable fields.
type UpdateUserInput struct {
	Role   *sec.Role
	Status *sec.Status
}

/*
UpdateUser changes the role and/or activation status of a profile.

Description: Administrators cannot change their own role, so a compromised or
careless admin session cannot silently promote itself. Moving an account to
inactive or suspended revokes every live session for it.

Parameters:
  - context: context.Context
  - actorID: string
  - userID: string
  - input: UpdateUserInput

Returns:
  - *auth.Profile: The updated profile
  - error: Forbidden, not found, or storage failures
*/
func (service *Service) UpdateUser(context context.Context, actorID, userID string, input UpdateUserInput) (*auth.Profile, error) {

	profile, err := service.repository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	if input.Role != nil && actorID == userID && *input.Role != profile.Role {
		return nil, apperr.Forbidden("You cannot change your own role")
	}

	role := profile.Role
	if input.Role != nil {
		role = *input.Role
	}

	status := profile.Status
	if input.Status != nil {
		status = *input.Status
	}

	if err := service.repository.UpdateRoleStatus(context, userID, role, status); err != nil {
		return nil, fmt.Errorf("admin_service_update_failed: %w", err)
	}

	// Losing active standing kills every live session immediately.
	if status == sec.StatusInactive || status == sec.StatusSuspended {
		if err := service.sessions.RevokeAll(context, userID); err != nil {
			service.logger.Error("session_revocation_failed",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}

	profile.Role = role
	profile.Status = status

	service.activity.Record(context, actorID, "user_updated", userID,
		fmt.Sprintf("role=%s status=%s", role, status))

	service.logger.Info("admin_user_updated",
		slog.String("actor_id", actorID),
		slog.String("user_id", userID),
		slog.String("role", string(role)),
		slog.String("status", string(status)),
	)

	return profile, nil
}

/*
DeleteUser performs an idempotent soft-deletion of a user account.

Description: Flags the account as deleted and immediately terminates all
active security sessions to force a global sign-out.

Parameters:
  - context: context.Context
  - actorID: string
  - userID: string

Returns:
  - error: Forbidden or execution failures
*/
func (service *Service) DeleteUser(context context.Context, actorID, userID string) error {

	if actorID == userID {
		return apperr.Forbidden("You cannot delete your own account")
	}

	if err := service.repository.SoftDelete(context, userID); err != nil {
		return fmt.Errorf("admin_service_delete_failed: %w", err)
	}

	if err := service.sessions.RevokeAll(context, userID); err != nil {
		service.logger.Error("session_revocation_failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	service.activity.Record(context, actorID, "user_deleted", userID, "")

	service.logger.Warn("admin_user_deleted",
		slog.String("actor_id", actorID),
		slog.String("user_id", userID),
	)

	return nil
}

// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

/*
Package admin implements administrative user management.

It is the only surface through which a profile's role or activation status
can be changed: holders never modify their own role, and the public
registration endpoint cannot create admin or principal accounts.

# Architecture

  - Domain: Depends on the auth package for the Profile entity.
  - Security: Every mutation is recorded in the activity log.
*/
package admin

import (
	"context"

	"github.com/lesedi/thuto/internal/platform/sec"
	"github.com/lesedi/thuto/internal/users/auth"
)

// Filter holds the parameters for a paginated user search.
type Filter struct {
	Role   sec.Role   // Exact role match; empty means any
	Status sec.Status // Exact status match; empty means any
	Query  string     // Substring search against full name and email
}

// Global field names for validation
const (
	FieldRole   = "role"
	FieldStatus = "status"
)

// # Repository Contract

// Repository defines the persistence contract for administrative user access.
type Repository interface {
	/*
		List retrieves a filtered, paginated page of user profiles.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - limit: int
		  - offset: int

		Returns:
		  - []*auth.Profile: Matching profiles, newest first
		  - int: Total match count before pagination
		  - error: Retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*auth.Profile, int, error)

	/*
		FindByID retrieves a single profile by its unique ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *auth.Profile: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.Profile, error)

	/*
		UpdateRoleStatus changes the authorization role and activation status
		of a profile.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - role: sec.Role
		  - status: sec.Status

		Returns:
		  - error: Update failures
	*/
	UpdateRoleStatus(context context.Context, userID string, role sec.Role, status sec.Status) error

	/*
		SoftDelete flags a profile as logically deleted.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Execution failures
	*/
	SoftDelete(context context.Context, userID string) error
}

// SessionRevoker terminates sessions when an account loses its privileges.
type SessionRevoker interface {
	RevokeAll(context context.Context, userID string) error
}

// ActivityRecorder appends an audit entry for a privileged mutation.
//
// Recording is fire-and-forget: audit failures must never roll back the
// mutation they describe.
type ActivityRecorder interface {
	Record(context context.Context, actorID, action, targetID, detail string)
}

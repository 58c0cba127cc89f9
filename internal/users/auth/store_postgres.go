// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

// PostgreSQL implementations of the auth domain repositories.
//
// # Architecture
//
// Repositories in this file are strictly separated from domain logic. They
// implement domain-defined interfaces (e.g., [ProfileRepository]) using the
// [pgxpool.Pool] connection manager.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lesedi/thuto/internal/access"
	"github.com/lesedi/thuto/internal/platform/apperr"
	"github.com/lesedi/thuto/internal/platform/dberr"
)

// # Profile Repository

// PostgresProfileRepository implements the ProfileRepository interface using pgx.
type PostgresProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new PostgreSQL implementation of the ProfileRepository.
func NewProfileRepository(pool *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

/*
Create persists a new profile record into the users.profile table.

Description: Deep-persists the profile, ensuring timestamps are initialized
if not provided.

Parameters:
  - context: context.Context
  - profile: *Profile (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresProfileRepository) Create(context context.Context, profile *Profile) error {
	const query = `
		INSERT INTO users.profile (
			id, fullname, email, passwordhash, role, status, emailverified, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		profile.ID,
		profile.FullName,
		profile.Email,
		profile.PasswordHash,
		profile.Role,
		profile.Status,
		profile.EmailVerified,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "postgres_profile_repo_create_failed")
	}

	return nil
}

/*
FindByEmail retrieves a profile record by its unique email address.

Description: Performs a lookup on the profile table, filtering out soft-deleted users.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *Profile: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresProfileRepository) FindByEmail(context context.Context, email string) (*Profile, error) {
	const query = `
		SELECT id, fullname, email, passwordhash, role, status, emailverified, createdat, updatedat
		FROM users.profile
		WHERE email = $1 AND deletedat IS NULL`

	profile := &Profile{}
	err := repository.pool.QueryRow(context, query, email).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.Email,
		&profile.PasswordHash,
		&profile.Role,
		&profile.Status,
		&profile.EmailVerified,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User not found with this email")
		}
		return nil, fmt.Errorf("postgres_profile_repo_find_by_email_failed: %w", err)
	}

	return profile, nil
}

/*
FindByID retrieves a profile record by its unique ID.

Description: Primary key resolution for user profiles.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Profile: Hydrated entity
  - error: Not found or execution errors
*/
func (repository *PostgresProfileRepository) FindByID(context context.Context, id string) (*Profile, error) {
	const query = `
		SELECT id, fullname, email, passwordhash, role, status, emailverified, createdat, updatedat
		FROM users.profile
		WHERE id = $1 AND deletedat IS NULL`

	profile := &Profile{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.Email,
		&profile.PasswordHash,
		&profile.Role,
		&profile.Status,
		&profile.EmailVerified,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, fmt.Errorf("postgres_profile_repo_find_by_id_failed: %w", err)
	}

	return profile, nil
}

/*
Update persists changes to a profile's mutable fields.

Description: Synchronizes the in-memory profile state with the database,
refreshing the updatedat timestamp. Role and status are deliberately not
touched here; only administrative flows change them.

Parameters:
  - context: context.Context
  - profile: *Profile

Returns:
  - error: Update failures
*/
func (repository *PostgresProfileRepository) Update(context context.Context, profile *Profile) error {
	const query = `
		UPDATE users.profile
		SET fullname = $2, updatedat = $3
		WHERE id = $1 AND deletedat IS NULL`

	profile.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		profile.ID,
		profile.FullName,
		profile.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_profile_repo_update_failed: %w", err)
	}

	return nil
}

/*
UpdatePassword updates only the password hash for a specific profile.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresProfileRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	const query = `
		UPDATE users.profile
		SET passwordhash = $2, updatedat = $3
		WHERE id = $1 AND deletedat IS NULL`

	_, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_profile_repo_update_password_failed: %w", err)
	}

	return nil
}

/*
MarkVerified records confirmed email ownership and activates the account.

Description: Confirming the email is the event that moves a pending profile
to active; the two flags change together in one statement.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Database errors
*/
func (repository *PostgresProfileRepository) MarkVerified(context context.Context, userID string) error {
	const query = `
		UPDATE users.profile
		SET emailverified = TRUE,
		    status = CASE WHEN status = 'pending' THEN 'active' ELSE status END,
		    updatedat = $2
		WHERE id = $1 AND deletedat IS NULL`

	_, err := repository.pool.Exec(context, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_profile_repo_mark_verified_failed: %w", err)
	}
	return nil
}

// # Role Directory

// RoleDirectory adapts the profile table to the read-only lookup consumed by
// the access-control core.
//
// # No side effects
//
// This type exposes exactly one read. It must never grow a write method: an
// authorization check creating or mutating a profile is a privilege-escalation
// hazard.
type RoleDirectory struct {
	pool *pgxpool.Pool
}

// NewRoleDirectory creates the access-control view over the profile table.
func NewRoleDirectory(pool *pgxpool.Pool) *RoleDirectory {
	return &RoleDirectory{pool: pool}
}

/*
GetProfileByID fetches the single role fact for the identity.

Parameters:
  - context: context.Context
  - identityID: string

Returns:
  - *access.RoleFact: The declared role and activation status
  - error: access.ErrProfileNotFound when no profile exists, or an
    *access.LookupError wrapping transport failures
*/
func (directory *RoleDirectory) GetProfileByID(context context.Context, identityID string) (*access.RoleFact, error) {
	const query = `
		SELECT role, status
		FROM users.profile
		WHERE id = $1 AND deletedat IS NULL`

	fact := &access.RoleFact{}
	err := directory.pool.QueryRow(context, query, identityID).Scan(&fact.Role, &fact.Status)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// A real absence, distinct from transport failure.
			return nil, access.ErrProfileNotFound
		}
		return nil, &access.LookupError{Cause: err}
	}

	return fact, nil
}

// # Session Repository

// PostgresSessionRepository implements the SessionRepository interface.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new PostgreSQL implementation of SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

/*
Create persists a new session record into the users.session table.

Description: Records a successful authentication session in persistent storage.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Storage failures
*/
func (repository *PostgresSessionRepository) Create(context context.Context, session *Session) error {
	const query = `
		INSERT INTO users.session (
			id, userid, tokenhash, useragent, ipaddress, expiresat, isrevoked, createdat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		session.ID,
		session.UserID,
		session.TokenHash,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
		session.IsRevoked,
		session.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_session_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByTokenHash retrieves an active session by its unique token hash.

Description: Securely resolves a refresh token hash into an active session.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - *Session: Hydrated session metadata
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresSessionRepository) FindByTokenHash(context context.Context, tokenHash string) (*Session, error) {
	const query = `
		SELECT id, userid, tokenhash, useragent, ipaddress, expiresat, isrevoked, createdat
		FROM users.session
		WHERE tokenhash = $1 AND isrevoked = FALSE AND expiresat > NOW()`

	session := &Session{}
	err := repository.pool.QueryRow(context, query, tokenHash).Scan(
		&session.ID,
		&session.UserID,
		&session.TokenHash,
		&session.UserAgent,
		&session.IPAddress,
		&session.ExpiresAt,
		&session.IsRevoked,
		&session.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Session not found or expired")
		}
		return nil, fmt.Errorf("postgres_session_repo_find_failed: %w", err)
	}

	return session, nil
}

/*
ListActive returns all live sessions for a user, newest first.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []Session: Active sessions
  - error: Retrieval failures
*/
func (repository *PostgresSessionRepository) ListActive(context context.Context, userID string) ([]Session, error) {
	const query = `
		SELECT id, userid, tokenhash, useragent, ipaddress, expiresat, isrevoked, createdat
		FROM users.session
		WHERE userid = $1 AND isrevoked = FALSE AND expiresat > NOW()
		ORDER BY createdat DESC`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_session_repo_list_active_failed: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var session Session
		if err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.TokenHash,
			&session.UserAgent,
			&session.IPAddress,
			&session.ExpiresAt,
			&session.IsRevoked,
			&session.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres_session_repo_scan_failed: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

/*
Revoke marks a specific session as revoked.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Revocation failures
*/
func (repository *PostgresSessionRepository) Revoke(context context.Context, sessionID string) error {
	const query = "UPDATE users.session SET isrevoked = TRUE WHERE id = $1"
	_, err := repository.pool.Exec(context, query, sessionID)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_failed: %w", err)
	}
	return nil
}

/*
RevokeAll marks all active sessions for a user as revoked.

Description: Security nuking of all active sessions for a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Batch revocation failures
*/
func (repository *PostgresSessionRepository) RevokeAll(context context.Context, userID string) error {
	const query = "UPDATE users.session SET isrevoked = TRUE WHERE userid = $1 AND isrevoked = FALSE"
	_, err := repository.pool.Exec(context, query, userID)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_all_failed: %w", err)
	}
	return nil
}

/*
RevokeOthers marks all active sessions for a user as revoked, except for one.

Parameters:
  - context: context.Context
  - userID: string
  - currentSessionID: string

Returns:
  - error: Filtered revocation failures
*/
func (repository *PostgresSessionRepository) RevokeOthers(context context.Context, userID, currentSessionID string) error {
	const query = "UPDATE users.session SET isrevoked = TRUE WHERE userid = $1 AND id != $2 AND isrevoked = FALSE"
	_, err := repository.pool.Exec(context, query, userID, currentSessionID)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_others_failed: %w", err)
	}
	return nil
}

/*
DeleteExpired permanently removes all sessions that have passed their expiration.

Description: Cleanup task to reclaim storage from stale sessions.

Parameters:
  - context: context.Context

Returns:
  - error: Cleanup failures
*/
func (repository *PostgresSessionRepository) DeleteExpired(context context.Context) error {
	const query = "DELETE FROM users.session WHERE expiresat <= NOW()"
	_, err := repository.pool.Exec(context, query)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_delete_expired_failed: %w", err)
	}
	return nil
}

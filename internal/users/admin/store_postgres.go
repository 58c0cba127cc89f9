// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lesedi/thuto/internal/platform/apperr"
	"github.com/lesedi/thuto/internal/platform/dberr"
	"github.com/lesedi/thuto/internal/platform/sec"
	"github.com/lesedi/thuto/internal/users/auth"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the Postgres-backed admin repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*auth.Profile, int, error) {
	query := `
		SELECT id, fullname, email, role, status, emailverified, createdat, updatedat
		FROM users.profile
		WHERE deletedat IS NULL`
	countQuery := `SELECT count(*) FROM users.profile WHERE deletedat IS NULL`

	args := []any{}

	if filter.Role != "" {
		clause := " AND role = $" + itos(len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, filter.Role)
	}

	if filter.Status != "" {
		clause := " AND status = $" + itos(len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, filter.Status)
	}

	if filter.Query != "" {
		clause := " AND (fullname ILIKE $" + itos(len(args)+1) + " OR email ILIKE $" + itos(len(args)+1) + ")"
		query += clause
		countQuery += clause
		args = append(args, "%"+filter.Query+"%")
	}

	var total int
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_users")
	}

	query += " ORDER BY createdat DESC LIMIT $" + itos(len(args)+1) + " OFFSET $" + itos(len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	var profiles []*auth.Profile
	for rows.Next() {
		profile := &auth.Profile{}
		if err := rows.Scan(
			&profile.ID,
			&profile.FullName,
			&profile.Email,
			&profile.Role,
			&profile.Status,
			&profile.EmailVerified,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_user")
		}
		profiles = append(profiles, profile)
	}

	return profiles, total, rows.Err()
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*auth.Profile, error) {
	const query = `
		SELECT id, fullname, email, role, status, emailverified, createdat, updatedat
		FROM users.profile
		WHERE id = $1 AND deletedat IS NULL`

	profile := &auth.Profile{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.Email,
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
		return nil, fmt.Errorf("postgres_admin_repo_find_failed: %w", err)
	}

	return profile, nil
}

func (repository *PostgresRepository) UpdateRoleStatus(context context.Context, userID string, role sec.Role, status sec.Status) error {
	const query = `
		UPDATE users.profile
		SET role = $2, status = $3, updatedat = $4
		WHERE id = $1 AND deletedat IS NULL`

	cmd, err := repository.pool.Exec(context, query, userID, role, status, time.Now())
	if err != nil {
		return dberr.Wrap(err, "update_user_role_status")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) SoftDelete(context context.Context, userID string) error {
	const query = `UPDATE users.profile SET deletedat = NOW() WHERE id = $1 AND deletedat IS NULL`

	_, err := repository.pool.Exec(context, query, userID)
	if err != nil {
		return dberr.Wrap(err, "soft_delete_user")
	}
	return nil
}

func itos(i int) string {
	return strconv.Itoa(i)
}

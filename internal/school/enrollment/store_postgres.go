// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package enrollment

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lesedi/thuto/internal/platform/dberr"
)

// PostgresRepository implements Repository backed by the school.enrollment
// table. A partial unique index on (classid, learnerid) where withdrawnat
// is null enforces at most one active membership per pair.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) Enroll(context context.Context, enrollment *Enrollment) error {
	query := `
		INSERT INTO school.enrollment (id, classid, learnerid, enrolledat)
		VALUES ($1, $2, $3, $4)`

	_, err := repository.pool.Exec(context, query,
		enrollment.ID, enrollment.ClassID, enrollment.LearnerID, enrollment.EnrolledAt)
	if err != nil {
		var pgError *pgconn.PgError
		if errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation {
			return ErrAlreadyEnrolled
		}
		return dberr.Wrap(err, "enroll learner")
	}
	return nil
}

func (repository *PostgresRepository) Withdraw(context context.Context, classID, learnerID string) error {
	query := `
		UPDATE school.enrollment
		SET withdrawnat = NOW()
		WHERE classid = $1 AND learnerid = $2 AND withdrawnat IS NULL`

	// No rows affected means the learner was not enrolled; withdrawal is
	// idempotent so that is not an error.
	_, err := repository.pool.Exec(context, query, classID, learnerID)
	return dberr.Wrap(err, "withdraw learner")
}

func (repository *PostgresRepository) Roster(context context.Context, classID string) ([]RosterEntry, error) {
	query := `
		SELECT e.learnerid, p.fullname, p.email, e.enrolledat
		FROM school.enrollment e
		JOIN users.profile p ON p.id = e.learnerid
		WHERE e.classid = $1 AND e.withdrawnat IS NULL AND p.deletedat IS NULL
		ORDER BY p.fullname ASC`

	rows, err := repository.pool.Query(context, query, classID)
	if err != nil {
		return nil, dberr.Wrap(err, "list roster")
	}
	defer rows.Close()

	var roster []RosterEntry
	for rows.Next() {
		var entry RosterEntry
		if err := rows.Scan(&entry.LearnerID, &entry.FullName, &entry.Email, &entry.EnrolledAt); err != nil {
			return nil, dberr.Wrap(err, "scan roster entry")
		}
		roster = append(roster, entry)
	}
	return roster, dberr.Wrap(rows.Err(), "iterate roster")
}

func (repository *PostgresRepository) CountActive(context context.Context, classID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM school.enrollment
		WHERE classid = $1 AND withdrawnat IS NULL`

	var count int
	if err := repository.pool.QueryRow(context, query, classID).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count enrollments")
	}
	return count, nil
}

func (repository *PostgresRepository) ListByLearner(context context.Context, learnerID string) ([]Enrollment, error) {
	query := `
		SELECT id, classid, learnerid, enrolledat, withdrawnat
		FROM school.enrollment
		WHERE learnerid = $1 AND withdrawnat IS NULL
		ORDER BY enrolledat DESC`

	rows, err := repository.pool.Query(context, query, learnerID)
	if err != nil {
		return nil, dberr.Wrap(err, "list enrollments")
	}
	defer rows.Close()

	var memberships []Enrollment
	for rows.Next() {
		var membership Enrollment
		err := rows.Scan(&membership.ID, &membership.ClassID, &membership.LearnerID,
			&membership.EnrolledAt, &membership.WithdrawnAt)
		if err != nil {
			return nil, dberr.Wrap(err, "scan enrollment")
		}
		memberships = append(memberships, membership)
	}
	return memberships, dberr.Wrap(rows.Err(), "iterate enrollments")
}

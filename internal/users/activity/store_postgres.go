// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package activity

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lesedi/thuto/internal/platform/dberr"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) Append(context context.Context, entry *Entry) error {
	const query = `
		INSERT INTO users.activity (id, actorid, action, targetid, detail, createdat)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := repository.pool.Exec(context, query,
		entry.ID, entry.ActorID, entry.Action, entry.TargetID, entry.Detail, entry.CreatedAt)
	return dberr.Wrap(err, "append_activity")
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Entry, int, error) {
	query := `
		SELECT id, actorid, action, targetid, detail, createdat
		FROM users.activity
		WHERE TRUE`
	countQuery := `SELECT count(*) FROM users.activity WHERE TRUE`

	args := []any{}

	if filter.ActorID != "" {
		clause := " AND actorid = $" + strconv.Itoa(len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, filter.ActorID)
	}

	if filter.Action != "" {
		clause := " AND action = $" + strconv.Itoa(len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, filter.Action)
	}

	var total int
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_activity")
	}

	query += " ORDER BY createdat DESC LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_activity")
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry := &Entry{}
		if err := rows.Scan(&entry.ID, &entry.ActorID, &entry.Action, &entry.TargetID, &entry.Detail, &entry.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_activity")
		}
		entries = append(entries, entry)
	}

	return entries, total, rows.Err()
}

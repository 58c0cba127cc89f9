// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package class

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

const classColumns = `id, slug, name, subject, gradelevel, educatorid, schedule, room, capacity, description, createdat, updatedat`

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Class, int, error) {
	query := `
		SELECT ` + classColumns + `
		FROM school.class
		WHERE deletedat IS NULL`
	countQuery := `SELECT count(*) FROM school.class WHERE deletedat IS NULL`

	args := []any{}

	if filter.EducatorID != "" {
		clause := " AND educatorid = $" + itos(len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, filter.EducatorID)
	}

	if filter.Subject != "" {
		clause := " AND subject ILIKE $" + itos(len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, filter.Subject)
	}

	if filter.GradeLevel != 0 {
		clause := " AND gradelevel = $" + itos(len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, filter.GradeLevel)
	}

	if filter.Query != "" {
		clause := " AND (name ILIKE $" + itos(len(args)+1) + " OR subject ILIKE $" + itos(len(args)+1) + ")"
		query += clause
		countQuery += clause
		args = append(args, "%"+filter.Query+"%")
	}

	var total int
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_classes")
	}

	query += " ORDER BY gradelevel ASC, name ASC LIMIT $" + itos(len(args)+1) + " OFFSET $" + itos(len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_classes")
	}
	defer rows.Close()

	var classes []*Class
	for rows.Next() {
		class := &Class{}
		if err := rows.Scan(
			&class.ID, &class.Slug, &class.Name, &class.Subject, &class.GradeLevel,
			&class.EducatorID, &class.Schedule, &class.Room, &class.Capacity,
			&class.Description, &class.CreatedAt, &class.UpdatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_class")
		}
		classes = append(classes, class)
	}

	return classes, total, rows.Err()
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Class, error) {
	query := `
		SELECT ` + classColumns + `
		FROM school.class
		WHERE id = $1 AND deletedat IS NULL`

	return repository.findOne(context, query, id)
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Class, error) {
	query := `
		SELECT ` + classColumns + `
		FROM school.class
		WHERE slug = $1 AND deletedat IS NULL`

	return repository.findOne(context, query, slug)
}

func (repository *PostgresRepository) findOne(context context.Context, query string, arg any) (*Class, error) {
	class := &Class{}
	err := repository.pool.QueryRow(context, query, arg).Scan(
		&class.ID, &class.Slug, &class.Name, &class.Subject, &class.GradeLevel,
		&class.EducatorID, &class.Schedule, &class.Room, &class.Capacity,
		&class.Description, &class.CreatedAt, &class.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_class")
	}
	return class, nil
}

func (repository *PostgresRepository) Create(context context.Context, class *Class) error {
	const query = `
		INSERT INTO school.class (
			id, slug, name, subject, gradelevel, educatorid, schedule, room, capacity, description, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING createdat, updatedat`

	err := repository.pool.QueryRow(context, query,
		class.ID, class.Slug, class.Name, class.Subject, class.GradeLevel,
		class.EducatorID, class.Schedule, class.Room, class.Capacity, class.Description,
	).Scan(&class.CreatedAt, &class.UpdatedAt)
	return dberr.Wrap(err, "create_class")
}

func (repository *PostgresRepository) Update(context context.Context, class *Class) error {
	const query = `
		UPDATE school.class
		SET slug = $2, name = $3, subject = $4, gradelevel = $5, educatorid = $6,
		    schedule = $7, room = $8, capacity = $9, description = $10, updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL
		RETURNING updatedat`

	err := repository.pool.QueryRow(context, query,
		class.ID, class.Slug, class.Name, class.Subject, class.GradeLevel,
		class.EducatorID, class.Schedule, class.Room, class.Capacity, class.Description,
	).Scan(&class.UpdatedAt)
	return dberr.Wrap(err, "update_class")
}

func (repository *PostgresRepository) SoftDelete(context context.Context, id string) error {
	const query = `UPDATE school.class SET deletedat = NOW() WHERE id = $1 AND deletedat IS NULL`

	cmd, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_class")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func itos(i int) string {
	return strconv.Itoa(i)
}

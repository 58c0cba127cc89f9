// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package assessment

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lesedi/thuto/internal/platform/dberr"
)

// PostgresRepository implements Repository backed by the school.assessment
// and school.grade tables.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const assessmentColumns = `id, classid, title, description, totalmarks, duedate, createdat, updatedat`

func (repository *PostgresRepository) Create(context context.Context, assessment *Assessment) error {
	query := `
		INSERT INTO school.assessment (id, classid, title, description, totalmarks, duedate)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING createdat, updatedat`

	err := repository.pool.QueryRow(context, query,
		assessment.ID, assessment.ClassID, assessment.Title,
		assessment.Description, assessment.TotalMarks, assessment.DueDate,
	).Scan(&assessment.CreatedAt, &assessment.UpdatedAt)
	return dberr.Wrap(err, "create assessment")
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM school.assessment WHERE id = $1`

	var found Assessment
	err := repository.pool.QueryRow(context, query, id).Scan(
		&found.ID, &found.ClassID, &found.Title, &found.Description,
		&found.TotalMarks, &found.DueDate, &found.CreatedAt, &found.UpdatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "find assessment")
	}
	return &found, nil
}

func (repository *PostgresRepository) ListByClass(context context.Context, classID string) ([]Assessment, error) {
	query := `
		SELECT ` + assessmentColumns + `
		FROM school.assessment
		WHERE classid = $1
		ORDER BY duedate DESC`

	rows, err := repository.pool.Query(context, query, classID)
	if err != nil {
		return nil, dberr.Wrap(err, "list assessments")
	}
	defer rows.Close()

	var assessments []Assessment
	for rows.Next() {
		var item Assessment
		err := rows.Scan(&item.ID, &item.ClassID, &item.Title, &item.Description,
			&item.TotalMarks, &item.DueDate, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return nil, dberr.Wrap(err, "scan assessment")
		}
		assessments = append(assessments, item)
	}
	return assessments, dberr.Wrap(rows.Err(), "iterate assessments")
}

func (repository *PostgresRepository) Update(context context.Context, assessment *Assessment) error {
	query := `
		UPDATE school.assessment
		SET title = $2, description = $3, totalmarks = $4, duedate = $5, updatedat = NOW()
		WHERE id = $1
		RETURNING updatedat`

	err := repository.pool.QueryRow(context, query,
		assessment.ID, assessment.Title, assessment.Description,
		assessment.TotalMarks, assessment.DueDate,
	).Scan(&assessment.UpdatedAt)
	return dberr.Wrap(err, "update assessment")
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	// Grades cascade via the foreign key on school.grade.
	tag, err := repository.pool.Exec(context,
		`DELETE FROM school.assessment WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "delete assessment")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) SaveGrades(context context.Context, grades []Grade) error {
	query := `
		INSERT INTO school.grade (assessmentid, learnerid, mark, feedback, gradedby, gradedat)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (assessmentid, learnerid)
		DO UPDATE SET mark = EXCLUDED.mark, feedback = EXCLUDED.feedback,
			gradedby = EXCLUDED.gradedby, gradedat = EXCLUDED.gradedat`

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin grading batch")
	}
	defer transaction.Rollback(context)

	for _, grade := range grades {
		_, err := transaction.Exec(context, query,
			grade.AssessmentID, grade.LearnerID, grade.Mark,
			grade.Feedback, grade.GradedBy, grade.GradedAt)
		if err != nil {
			return dberr.Wrap(err, "save grade")
		}
	}
	return dberr.Wrap(transaction.Commit(context), "commit grading batch")
}

func (repository *PostgresRepository) ListGrades(context context.Context, assessmentID string) ([]Grade, error) {
	query := `
		SELECT assessmentid, learnerid, mark, feedback, gradedby, gradedat
		FROM school.grade
		WHERE assessmentid = $1
		ORDER BY gradedat DESC`

	rows, err := repository.pool.Query(context, query, assessmentID)
	if err != nil {
		return nil, dberr.Wrap(err, "list grades")
	}
	defer rows.Close()

	var grades []Grade
	for rows.Next() {
		var grade Grade
		err := rows.Scan(&grade.AssessmentID, &grade.LearnerID, &grade.Mark,
			&grade.Feedback, &grade.GradedBy, &grade.GradedAt)
		if err != nil {
			return nil, dberr.Wrap(err, "scan grade")
		}
		grades = append(grades, grade)
	}
	return grades, dberr.Wrap(rows.Err(), "iterate grades")
}

func (repository *PostgresRepository) Summarize(context context.Context, assessmentID string) (*Summary, error) {
	query := `
		SELECT COALESCE(AVG(mark), 0), COUNT(*)
		FROM school.grade
		WHERE assessmentid = $1`

	var summary Summary
	err := repository.pool.QueryRow(context, query, assessmentID).
		Scan(&summary.AverageScore, &summary.GradedSubmissions)
	if err != nil {
		return nil, dberr.Wrap(err, "summarize grades")
	}
	return &summary, nil
}

// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package attendance

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lesedi/thuto/internal/platform/dberr"
)

// PostgresRepository implements Repository backed by the school.attendance
// and school.attendance_record tables. A unique index on (classid, date)
// guarantees one sheet per class per day.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) Upsert(context context.Context, sheet *Sheet) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin attendance upsert")
	}
	defer transaction.Rollback(context)

	// Replacing the sheet keeps its stable id so record rows can cascade.
	query := `
		INSERT INTO school.attendance (id, classid, date, takenby, takenat)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (classid, date)
		DO UPDATE SET takenby = EXCLUDED.takenby, takenat = EXCLUDED.takenat
		RETURNING id`

	err = transaction.QueryRow(context, query,
		sheet.ID, sheet.ClassID, sheet.Date, sheet.TakenBy, sheet.TakenAt,
	).Scan(&sheet.ID)
	if err != nil {
		return dberr.Wrap(err, "upsert attendance sheet")
	}

	_, err = transaction.Exec(context,
		`DELETE FROM school.attendance_record WHERE sheetid = $1`, sheet.ID)
	if err != nil {
		return dberr.Wrap(err, "clear attendance records")
	}

	for _, record := range sheet.Records {
		_, err = transaction.Exec(context,
			`INSERT INTO school.attendance_record (sheetid, learnerid, present, note)
			 VALUES ($1, $2, $3, $4)`,
			sheet.ID, record.LearnerID, record.Present, record.Note)
		if err != nil {
			return dberr.Wrap(err, "insert attendance record")
		}
	}

	return dberr.Wrap(transaction.Commit(context), "commit attendance upsert")
}

func (repository *PostgresRepository) FindByClassAndDate(context context.Context, classID, date string) (*Sheet, error) {
	query := `
		SELECT id, classid, to_char(date, 'YYYY-MM-DD'), takenby, takenat
		FROM school.attendance
		WHERE classid = $1 AND date = $2`

	var sheet Sheet
	err := repository.pool.QueryRow(context, query, classID, date).Scan(
		&sheet.ID, &sheet.ClassID, &sheet.Date, &sheet.TakenBy, &sheet.TakenAt)
	if err != nil {
		return nil, dberr.Wrap(err, "find attendance sheet")
	}

	sheet.Records, err = repository.loadRecords(context, sheet.ID)
	if err != nil {
		return nil, err
	}
	return &sheet, nil
}

func (repository *PostgresRepository) ListByClassRange(context context.Context, classID, from, to string) ([]Sheet, error) {
	query := `
		SELECT id, classid, to_char(date, 'YYYY-MM-DD'), takenby, takenat
		FROM school.attendance
		WHERE classid = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC`

	rows, err := repository.pool.Query(context, query, classID, from, to)
	if err != nil {
		return nil, dberr.Wrap(err, "list attendance sheets")
	}
	defer rows.Close()

	var sheets []Sheet
	for rows.Next() {
		var sheet Sheet
		err := rows.Scan(&sheet.ID, &sheet.ClassID, &sheet.Date, &sheet.TakenBy, &sheet.TakenAt)
		if err != nil {
			return nil, dberr.Wrap(err, "scan attendance sheet")
		}
		sheets = append(sheets, sheet)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate attendance sheets")
	}

	for index := range sheets {
		sheets[index].Records, err = repository.loadRecords(context, sheets[index].ID)
		if err != nil {
			return nil, err
		}
	}
	return sheets, nil
}

func (repository *PostgresRepository) StatsForClass(context context.Context, classID, from, to string) (*Stats, error) {
	query := `
		SELECT COUNT(*) FILTER (WHERE r.present), COUNT(*)
		FROM school.attendance_record r
		JOIN school.attendance s ON s.id = r.sheetid
		WHERE s.classid = $1 AND s.date BETWEEN $2 AND $3`

	var stats Stats
	err := repository.pool.QueryRow(context, query, classID, from, to).
		Scan(&stats.Present, &stats.Total)
	if err != nil {
		return nil, dberr.Wrap(err, "aggregate attendance")
	}
	return &stats, nil
}

func (repository *PostgresRepository) loadRecords(context context.Context, sheetID string) ([]Record, error) {
	query := `
		SELECT learnerid, present, note
		FROM school.attendance_record
		WHERE sheetid = $1
		ORDER BY learnerid`

	rows, err := repository.pool.Query(context, query, sheetID)
	if err != nil {
		return nil, dberr.Wrap(err, "load attendance records")
	}
	defer rows.Close()

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		var record Record
		err := row.Scan(&record.LearnerID, &record.Present, &record.Note)
		return record, err
	})
	return records, dberr.Wrap(err, "collect attendance records")
}

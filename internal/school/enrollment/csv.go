// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package enrollment

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/lesedi/thuto/internal/platform/apperr"
)

// Required roster CSV column headers.
const (
	columnLearnerID      = "learner_id"
	columnFullName       = "full_name"
	columnEmail          = "email"
	columnEnrollmentDate = "enrollment_date" // optional
)

// rosterRow is one parsed data row of a roster upload. A row that fails
// validation carries the reason in Err and is never enrolled.
type rosterRow struct {
	Number    int // 1-based, excluding the header row
	LearnerID string
	FullName  string
	Email     string
	Err       string
}

// parseRosterCSV reads and validates a roster upload.
//
// The header row must name the learner_id, full_name, and email columns;
// extra columns are ignored. An optional enrollment_date column is
// validated as a YYYY-MM-DD date. Structural problems (missing headers,
// an unreadable file) fail the whole upload; per-row problems are
// recorded on the row.
func parseRosterCSV(file io.Reader) ([]rosterRow, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, apperr.ValidationError("CSV file is empty or unreadable")
	}

	columns := make(map[string]int, len(header))
	for index, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = index
	}
	for _, required := range []string{columnLearnerID, columnFullName, columnEmail} {
		if _, ok := columns[required]; !ok {
			return nil, apperr.ValidationError(
				fmt.Sprintf("CSV file must include the %s, %s, and %s columns",
					columnLearnerID, columnFullName, columnEmail),
			)
		}
	}

	var rows []rosterRow
	for number := 1; ; number++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rows = append(rows, rosterRow{Number: number, Err: "Malformed CSV row"})
			continue
		}
		rows = append(rows, parseRow(number, record, columns))
	}
	return rows, nil
}

// parseRow validates one data record against the resolved column layout.
func parseRow(number int, record []string, columns map[string]int) rosterRow {
	row := rosterRow{
		Number:    number,
		LearnerID: cell(record, columns, columnLearnerID),
		FullName:  cell(record, columns, columnFullName),
		Email:     cell(record, columns, columnEmail),
	}

	switch {
	case row.LearnerID == "":
		row.Err = "Missing learner_id"
	case row.FullName == "":
		row.Err = "Missing full_name"
	case row.Email == "":
		row.Err = "Missing email"
	default:
		if _, err := mail.ParseAddress(row.Email); err != nil {
			row.Err = fmt.Sprintf("Invalid email address %q", row.Email)
		}
	}

	if row.Err == "" {
		if date := cell(record, columns, columnEnrollmentDate); date != "" {
			if _, err := time.Parse("2006-01-02", date); err != nil {
				row.Err = fmt.Sprintf("Invalid enrollment_date %q, expected YYYY-MM-DD", date)
			}
		}
	}
	return row
}

// cell safely extracts a trimmed cell value for a named column.
func cell(record []string, columns map[string]int, name string) string {
	index, ok := columns[name]
	if !ok || index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}

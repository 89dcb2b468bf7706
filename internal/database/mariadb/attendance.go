package mariadb

import (
	"context"
	"fmt"
	"strings"

	"github.com/kozaktomas/face-attendance/internal/database"
)

// AttendanceRepository provides MariaDB-backed attendance storage.
type AttendanceRepository struct {
	pool *Pool
}

// InsertAttendance inserts a record and fills in its ID.
func (r *AttendanceRepository) InsertAttendance(ctx context.Context, rec *database.AttendanceRecord) error {
	res, err := r.pool.db.ExecContext(ctx,
		"INSERT INTO attendance (student_id, student_name, `date`, `time`) VALUES (?, ?, ?, ?)",
		rec.StudentID, rec.StudentName, rec.Date, rec.Time)
	if err != nil {
		if isDuplicateEntry(err, "attendance_student_date_key") {
			return database.ErrAlreadyMarked
		}
		return fmt.Errorf("insert attendance: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read attendance id: %w", err)
	}
	rec.ID = id
	return nil
}

// ListAttendance returns records matching the filter, newest first.
// LIKE uses backslash as its default escape character.
func (r *AttendanceRepository) ListAttendance(ctx context.Context, filter database.ReportFilter) ([]database.AttendanceRecord, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Date != "" {
		conditions = append(conditions, "`date` = ?")
		args = append(args, filter.Date)
	}
	if filter.Name != "" {
		conditions = append(conditions, "LOWER(student_name) LIKE LOWER(?)")
		args = append(args, database.LikePattern(filter.Name))
	}

	query := "SELECT id, student_id, student_name, `date`, `time` FROM attendance"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY `date` DESC, `time` DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attendance: %w", err)
	}
	defer rows.Close()

	var records []database.AttendanceRecord
	for rows.Next() {
		var rec database.AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.StudentName, &rec.Date, &rec.Time); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance: %w", err)
	}
	return records, nil
}

// CountAttendanceOn returns the number of records for a date.
func (r *AttendanceRepository) CountAttendanceOn(ctx context.Context, date string) (int, error) {
	var count int
	if err := r.pool.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM attendance WHERE `date` = ?", date).Scan(&count); err != nil {
		return 0, fmt.Errorf("count attendance: %w", err)
	}
	return count, nil
}

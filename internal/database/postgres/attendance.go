package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/kozaktomas/face-attendance/internal/database"
)

// AttendanceRepository provides PostgreSQL-backed attendance storage.
type AttendanceRepository struct {
	pool *Pool
}

// NewAttendanceRepository creates a new PostgreSQL attendance repository.
func NewAttendanceRepository(pool *Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// InsertAttendance inserts a record. A second record for the same student
// and date is rejected by attendance_student_date_key.
func (r *AttendanceRepository) InsertAttendance(ctx context.Context, rec *database.AttendanceRecord) error {
	query := `
		INSERT INTO attendance (student_id, student_name, date, time)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query, rec.StudentID, rec.StudentName, rec.Date, rec.Time).Scan(&rec.ID)
	if err != nil {
		if isUniqueViolation(err, "attendance_student_date_key") {
			return database.ErrAlreadyMarked
		}
		return fmt.Errorf("insert attendance: %w", err)
	}
	return nil
}

// ListAttendance returns records matching the filter, newest first.
func (r *AttendanceRepository) ListAttendance(ctx context.Context, filter database.ReportFilter) ([]database.AttendanceRecord, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Date != "" {
		args = append(args, filter.Date)
		conditions = append(conditions, fmt.Sprintf("date = $%d", len(args)))
	}
	if filter.Name != "" {
		args = append(args, database.LikePattern(filter.Name))
		conditions = append(conditions, fmt.Sprintf(`student_name ILIKE $%d ESCAPE '\'`, len(args)))
	}

	query := "SELECT id, student_id, student_name, date, time FROM attendance"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, time DESC, id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
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
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM attendance WHERE date = $1", date).Scan(&count); err != nil {
		return 0, fmt.Errorf("count attendance: %w", err)
	}
	return count, nil
}

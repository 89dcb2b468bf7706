package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kozaktomas/face-attendance/internal/database"
)

// StudentRepository provides MariaDB-backed student storage.
type StudentRepository struct {
	pool *Pool
}

// CreateStudent inserts a student row and fills in ID and RegisteredAt.
func (r *StudentRepository) CreateStudent(ctx context.Context, s *database.Student) error {
	registeredAt := time.Now().UTC().Truncate(time.Microsecond)

	res, err := r.pool.db.ExecContext(ctx,
		"INSERT INTO students (name, student_id, encoding_path, registered_at) VALUES (?, ?, ?, ?)",
		s.Name, s.StudentID, s.EncodingPath, registeredAt)
	if err != nil {
		if isDuplicateEntry(err, "students_student_id_key") {
			return database.ErrDuplicateStudent
		}
		return fmt.Errorf("insert student: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read student id: %w", err)
	}
	s.ID = id
	s.RegisteredAt = registeredAt
	return nil
}

// ListStudents returns all students, most recently registered first.
func (r *StudentRepository) ListStudents(ctx context.Context) ([]database.Student, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT id, student_id, name, encoding_path, registered_at
		FROM students
		ORDER BY registered_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer rows.Close()

	var students []database.Student
	for rows.Next() {
		var s database.Student
		if err := rows.Scan(&s.ID, &s.StudentID, &s.Name, &s.EncodingPath, &s.RegisteredAt); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}
	return students, nil
}

// GetStudent retrieves a student by identity, returns nil if not found.
func (r *StudentRepository) GetStudent(ctx context.Context, studentID string) (*database.Student, error) {
	var s database.Student
	err := r.pool.db.QueryRowContext(ctx, `
		SELECT id, student_id, name, encoding_path, registered_at
		FROM students
		WHERE student_id = ?
	`, studentID).Scan(&s.ID, &s.StudentID, &s.Name, &s.EncodingPath, &s.RegisteredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	return &s, nil
}

// CountStudents returns the number of registered students.
func (r *StudentRepository) CountStudents(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM students").Scan(&count); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return count, nil
}

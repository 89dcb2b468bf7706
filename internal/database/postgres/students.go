package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/database"
)

// StudentRepository provides PostgreSQL-backed student storage.
type StudentRepository struct {
	pool *Pool
}

// NewStudentRepository creates a new PostgreSQL student repository.
func NewStudentRepository(pool *Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// CreateStudent inserts a student row. The unique constraint on student_id
// decides concurrent registrations of the same identity.
func (r *StudentRepository) CreateStudent(ctx context.Context, s *database.Student) error {
	query := `
		INSERT INTO students (name, student_id, encoding_path)
		VALUES ($1, $2, $3)
		RETURNING id, registered_at
	`

	err := r.pool.QueryRow(ctx, query, s.Name, s.StudentID, s.EncodingPath).Scan(&s.ID, &s.RegisteredAt)
	if err != nil {
		if isUniqueViolation(err, "students_student_id_key") {
			return database.ErrDuplicateStudent
		}
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

// ListStudents returns all students, most recently registered first.
func (r *StudentRepository) ListStudents(ctx context.Context) ([]database.Student, error) {
	query := `
		SELECT id, student_id, name, encoding_path, registered_at
		FROM students
		ORDER BY registered_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query)
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
	query := `
		SELECT id, student_id, name, encoding_path, registered_at
		FROM students
		WHERE student_id = $1
	`

	var s database.Student
	err := r.pool.QueryRow(ctx, query, studentID).Scan(&s.ID, &s.StudentID, &s.Name, &s.EncodingPath, &s.RegisteredAt)
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
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM students").Scan(&count); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return count, nil
}

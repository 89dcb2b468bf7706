package database

import (
	"context"
)

// StudentReader provides read-only access to registered students
type StudentReader interface {
	// ListStudents returns all students, most recently registered first
	ListStudents(ctx context.Context) ([]Student, error)
	// GetStudent retrieves a student by identity, returns nil if not found
	GetStudent(ctx context.Context, studentID string) (*Student, error)
	// CountStudents returns the number of registered students
	CountStudents(ctx context.Context) (int, error)
}

// StudentWriter provides write access to students
type StudentWriter interface {
	StudentReader

	// CreateStudent inserts a student and fills in ID and RegisteredAt.
	// Returns ErrDuplicateStudent when the identity is already registered.
	CreateStudent(ctx context.Context, s *Student) error
}

// AttendanceReader provides read-only access to the attendance ledger
type AttendanceReader interface {
	// ListAttendance returns records matching the filter ordered by date desc, time desc
	ListAttendance(ctx context.Context, filter ReportFilter) ([]AttendanceRecord, error)
	// CountAttendanceOn returns the number of records for a date
	CountAttendanceOn(ctx context.Context, date string) (int, error)
}

// AttendanceWriter provides write access to the attendance ledger
type AttendanceWriter interface {
	AttendanceReader

	// InsertAttendance inserts a record and fills in its ID.
	// Returns ErrAlreadyMarked when a record for (StudentID, Date) exists.
	InsertAttendance(ctx context.Context, rec *AttendanceRecord) error
}

// Store is the full storage backend used by the application
type Store interface {
	StudentWriter
	AttendanceWriter

	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error
	// Close releases the backend
	Close() error
}

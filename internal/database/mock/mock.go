// Package mock provides mock implementations of database interfaces for testing.
package mock

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// MockStore is an in-memory implementation of database.Store. It enforces the
// same unique constraints as the SQL backends.
type MockStore struct {
	mu         sync.RWMutex
	students   []database.Student
	attendance []database.AttendanceRecord
	nextID     int64
	closed     bool

	// Now stamps RegisteredAt, defaults to time.Now
	Now func() time.Time

	// Error injection
	CreateStudentError    error
	ListStudentsError     error
	GetStudentError       error
	CountStudentsError    error
	InsertAttendanceError error
	ListAttendanceError   error
	CountAttendanceError  error
	PingError             error
	CloseError            error
}

// NewMockStore creates a new empty mock store
func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// AddStudent adds a student without constraint checks
func (m *MockStore) AddStudent(s database.Student) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	if s.ID == 0 {
		s.ID = m.nextID
	}
	m.students = append(m.students, s)
}

// AddAttendance adds an attendance record without constraint checks
func (m *MockStore) AddAttendance(rec database.AttendanceRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	if rec.ID == 0 {
		rec.ID = m.nextID
	}
	m.attendance = append(m.attendance, rec)
}

// Closed reports whether Close was called
func (m *MockStore) Closed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

// CreateStudent inserts a student, rejecting a duplicate identity
func (m *MockStore) CreateStudent(ctx context.Context, s *database.Student) error {
	if m.CreateStudentError != nil {
		return m.CreateStudentError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.students {
		if existing.StudentID == s.StudentID {
			return database.ErrDuplicateStudent
		}
	}
	m.nextID++
	s.ID = m.nextID
	s.RegisteredAt = m.now()
	m.students = append(m.students, *s)
	return nil
}

// ListStudents returns students, most recently registered first
func (m *MockStore) ListStudents(ctx context.Context) ([]database.Student, error) {
	if m.ListStudentsError != nil {
		return nil, m.ListStudentsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := slices.Clone(m.students)
	slices.SortStableFunc(out, func(a, b database.Student) int {
		if c := b.RegisteredAt.Compare(a.RegisteredAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

// GetStudent retrieves a student by identity, nil if not found
func (m *MockStore) GetStudent(ctx context.Context, studentID string) (*database.Student, error) {
	if m.GetStudentError != nil {
		return nil, m.GetStudentError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.students {
		if s.StudentID == studentID {
			return &s, nil
		}
	}
	return nil, nil
}

// CountStudents returns the number of students
func (m *MockStore) CountStudents(ctx context.Context) (int, error) {
	if m.CountStudentsError != nil {
		return 0, m.CountStudentsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.students), nil
}

// InsertAttendance inserts a record, rejecting a second one for the same student and date
func (m *MockStore) InsertAttendance(ctx context.Context, rec *database.AttendanceRecord) error {
	if m.InsertAttendanceError != nil {
		return m.InsertAttendanceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.attendance {
		if existing.StudentID == rec.StudentID && existing.Date == rec.Date {
			return database.ErrAlreadyMarked
		}
	}
	m.nextID++
	rec.ID = m.nextID
	m.attendance = append(m.attendance, *rec)
	return nil
}

// ListAttendance filters like the SQL backends and orders by date, time and id descending
func (m *MockStore) ListAttendance(ctx context.Context, filter database.ReportFilter) ([]database.AttendanceRecord, error) {
	if m.ListAttendanceError != nil {
		return nil, m.ListAttendanceError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []database.AttendanceRecord
	for _, rec := range m.attendance {
		if filter.Date != "" && rec.Date != filter.Date {
			continue
		}
		if !facematch.NameContains(rec.StudentName, filter.Name) {
			continue
		}
		out = append(out, rec)
	}
	slices.SortFunc(out, func(a, b database.AttendanceRecord) int {
		return cmp.Or(
			cmp.Compare(b.Date, a.Date),
			cmp.Compare(b.Time, a.Time),
			cmp.Compare(b.ID, a.ID),
		)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// CountAttendanceOn returns the number of records for a date
func (m *MockStore) CountAttendanceOn(ctx context.Context, date string) (int, error) {
	if m.CountAttendanceError != nil {
		return 0, m.CountAttendanceError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, rec := range m.attendance {
		if rec.Date == date {
			count++
		}
	}
	return count, nil
}

// Ping returns PingError
func (m *MockStore) Ping(ctx context.Context) error {
	return m.PingError
}

// Close marks the store closed
func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return m.CloseError
}

var _ database.Store = (*MockStore)(nil)

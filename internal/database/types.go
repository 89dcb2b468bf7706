package database

import (
	"time"
)

// Student represents a registered student
type Student struct {
	ID           int64
	StudentID    string // Unique identity chosen at registration (e.g. "STU001")
	Name         string
	EncodingPath string // Path of the embedding artifact on disk
	RegisteredAt time.Time
}

// AttendanceRecord represents one attendance mark. At most one exists per
// (StudentID, Date).
type AttendanceRecord struct {
	ID          int64
	StudentID   string
	StudentName string
	Date        string // YYYY-MM-DD
	Time        string // HH:MM:SS
}

// ReportFilter narrows attendance listings. Zero values disable a filter.
type ReportFilter struct {
	Date  string // Exact date, YYYY-MM-DD
	Name  string // Case-insensitive substring of the student name
	Limit int    // Maximum number of records, 0 = unlimited
}

// Attendance date and time layouts stored in the attendance table.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

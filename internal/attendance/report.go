package attendance

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// CSVHeader is the first row of an exported report.
var CSVHeader = []string{"id", "student_id", "student_name", "date", "time"}

// Stats is the dashboard summary.
type Stats struct {
	TotalStudents int
	TodayCount    int
	Today         string
	Recent        []database.AttendanceRecord
}

// Reporter answers read-only queries over students and attendance.
type Reporter struct {
	students   database.StudentReader
	attendance database.AttendanceReader
}

// NewReporter creates a Reporter.
func NewReporter(students database.StudentReader, attendance database.AttendanceReader) *Reporter {
	return &Reporter{students: students, attendance: attendance}
}

// Report returns records matching an exact date and a case-insensitive name
// fragment, newest first. Empty filter fields match everything. The fragment
// is cleaned like stored display names so NFD input still matches.
func (r *Reporter) Report(ctx context.Context, filter database.ReportFilter) ([]database.AttendanceRecord, error) {
	filter.Date = strings.TrimSpace(filter.Date)
	filter.Name = facematch.CleanDisplayName(filter.Name)
	records, err := r.attendance.ListAttendance(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: listing attendance: %w", ErrStorageUnavailable, err)
	}
	return records, nil
}

// Students returns all registered students, newest first.
func (r *Reporter) Students(ctx context.Context) ([]database.Student, error) {
	students, err := r.students.ListStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing students: %w", ErrStorageUnavailable, err)
	}
	return students, nil
}

// Student returns the student registered under identity, or nil when there
// is none.
func (r *Reporter) Student(ctx context.Context, identity string) (*database.Student, error) {
	student, err := r.students.GetStudent(ctx, strings.TrimSpace(identity))
	if err != nil {
		return nil, fmt.Errorf("%w: loading student: %w", ErrStorageUnavailable, err)
	}
	return student, nil
}

// Stats returns the student count, the number of records on today and the
// most recent records.
func (r *Reporter) Stats(ctx context.Context, today string) (*Stats, error) {
	total, err := r.students.CountStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: counting students: %w", ErrStorageUnavailable, err)
	}
	todayCount, err := r.attendance.CountAttendanceOn(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("%w: counting attendance: %w", ErrStorageUnavailable, err)
	}
	recent, err := r.attendance.ListAttendance(ctx, database.ReportFilter{Limit: constants.RecentAttendanceLimit})
	if err != nil {
		return nil, fmt.Errorf("%w: listing recent attendance: %w", ErrStorageUnavailable, err)
	}
	return &Stats{
		TotalStudents: total,
		TodayCount:    todayCount,
		Today:         today,
		Recent:        recent,
	}, nil
}

// WriteCSV writes the header and one row per record.
func WriteCSV(w io.Writer, records []database.AttendanceRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			strconv.FormatInt(rec.ID, 10),
			rec.StudentID,
			rec.StudentName,
			rec.Date,
			rec.Time,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

package attendance

import (
	"context"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/database"
)

// Outcome is the result class of a recognition attempt.
type Outcome string

const (
	OutcomeMarked        Outcome = "marked"
	OutcomeAlreadyMarked Outcome = "already_marked"
	OutcomeNoMatch       Outcome = "no_match"
	OutcomeNoGallery     Outcome = "no_gallery"
)

// MarkResult is the result of Ledger.Mark. Record is set only when a new
// record was written.
type MarkResult struct {
	Outcome Outcome
	Record  *database.AttendanceRecord
}

// Ledger records attendance at most once per student per day. The store's
// unique constraint is the only duplicate check.
type Ledger struct {
	store database.AttendanceWriter
}

// NewLedger creates a ledger on top of store.
func NewLedger(store database.AttendanceWriter) *Ledger {
	return &Ledger{store: store}
}

// Mark inserts an attendance record for identity on date.
func (l *Ledger) Mark(ctx context.Context, identity, name, date, clock string) (MarkResult, error) {
	rec := &database.AttendanceRecord{
		StudentID:   identity,
		StudentName: name,
		Date:        date,
		Time:        clock,
	}
	err := l.store.InsertAttendance(ctx, rec)
	switch {
	case err == nil:
		return MarkResult{Outcome: OutcomeMarked, Record: rec}, nil
	case errors.Is(err, database.ErrAlreadyMarked):
		return MarkResult{Outcome: OutcomeAlreadyMarked}, nil
	default:
		return MarkResult{}, fmt.Errorf("%w: marking attendance: %w", ErrStorageUnavailable, err)
	}
}

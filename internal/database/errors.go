package database

import (
	"errors"
	"strings"
)

// Constraint violations reported by every backend. Callers treat them as
// domain outcomes rather than failures.
var (
	ErrDuplicateStudent = errors.New("student ID already exists")
	ErrAlreadyMarked    = errors.New("attendance already marked for this date")
)

// LikePattern builds a LIKE pattern matching fragment anywhere in a value,
// with LIKE metacharacters in fragment escaped by a backslash.
func LikePattern(fragment string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(fragment)
	return "%" + escaped + "%"
}

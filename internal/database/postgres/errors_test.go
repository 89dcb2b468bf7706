package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pq.Error{Code: "23505", Constraint: "students_student_id_key"}

	tests := []struct {
		name       string
		err        error
		constraint string
		expected   bool
	}{
		{"unique violation", dup, "", true},
		{"wrapped", fmt.Errorf("insert student: %w", dup), "students_student_id_key", true},
		{"other constraint", dup, "attendance_student_date_key", false},
		{"foreign key violation", &pq.Error{Code: "23503"}, "", false},
		{"plain error", errors.New("connection refused"), "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err, tt.constraint); got != tt.expected {
				t.Errorf("isUniqueViolation() = %v, want %v", got, tt.expected)
			}
		})
	}
}

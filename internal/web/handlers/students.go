package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/rs/zerolog"
)

// StudentsHandler lists registered students
type StudentsHandler struct {
	reporter *attendance.Reporter
	log      zerolog.Logger
}

// NewStudentsHandler creates a new students handler
func NewStudentsHandler(reporter *attendance.Reporter, log zerolog.Logger) *StudentsHandler {
	return &StudentsHandler{reporter: reporter, log: log}
}

// StudentResponse is one student in JSON responses. The embedding path is
// internal and not exposed.
type StudentResponse struct {
	StudentID    string    `json:"student_id"`
	Name         string    `json:"name"`
	RegisteredAt time.Time `json:"registered_at"`
}

// StudentsResponse is the body of GET /api/students
type StudentsResponse struct {
	Students []StudentResponse `json:"students"`
	Count    int               `json:"count"`
}

// List handles GET /api/students
func (h *StudentsHandler) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.reporter.Students(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list students")
		respondError(w, http.StatusServiceUnavailable, "failed to list students")
		return
	}

	out := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		out = append(out, toStudentResponse(s))
	}
	respondJSON(w, http.StatusOK, StudentsResponse{Students: out, Count: len(out)})
}

// Get handles GET /api/students/{student_id}
func (h *StudentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "student_id")

	student, err := h.reporter.Student(r.Context(), studentID)
	if err != nil {
		h.log.Error().Err(err).Str("student_id", sanitizeForLog(studentID)).Msg("failed to load student")
		respondError(w, http.StatusServiceUnavailable, "failed to load student")
		return
	}
	if student == nil {
		respondError(w, http.StatusNotFound, "student not found")
		return
	}
	respondJSON(w, http.StatusOK, toStudentResponse(*student))
}

func toStudentResponse(s database.Student) StudentResponse {
	return StudentResponse{
		StudentID:    s.StudentID,
		Name:         s.Name,
		RegisteredAt: s.RegisteredAt,
	}
}

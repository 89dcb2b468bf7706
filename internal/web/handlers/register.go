package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/rs/zerolog"
)

// RegisterHandler enrolls students
type RegisterHandler struct {
	registrar *attendance.Registrar
	log       zerolog.Logger
}

// NewRegisterHandler creates a new register handler
func NewRegisterHandler(registrar *attendance.Registrar, log zerolog.Logger) *RegisterHandler {
	return &RegisterHandler{registrar: registrar, log: log}
}

// RegisterRequest is the body of POST /api/register
type RegisterRequest struct {
	Name      string `json:"name"`
	StudentID string `json:"student_id"`
	Image     string `json:"image"`
}

// Register handles POST /api/register
func (h *RegisterHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondFailure(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	student, err := h.registrar.Register(r.Context(), attendance.RegisterRequest{
		Name:      req.Name,
		StudentID: req.StudentID,
		Image:     req.Image,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateIdentity) {
			studentID := strings.TrimSpace(req.StudentID)
			h.log.Info().Str("student_id", sanitizeForLog(studentID)).Msg("duplicate registration rejected")
			respondFailure(w, http.StatusConflict, fmt.Sprintf("Student ID '%s' already exists.", studentID))
			return
		}
		respondPipelineError(w, h.log, err, "No face detected. Please try again with better lighting.")
		return
	}

	respondJSON(w, http.StatusOK, Result{
		Success: true,
		Message: fmt.Sprintf("Student '%s' registered successfully.", student.Name),
	})
}

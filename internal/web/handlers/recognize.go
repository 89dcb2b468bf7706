package handlers

import (
	"fmt"
	"net/http"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/rs/zerolog"
)

// RecognizeHandler identifies faces and marks attendance
type RecognizeHandler struct {
	recognizer *attendance.Recognizer
	log        zerolog.Logger
}

// NewRecognizeHandler creates a new recognize handler
func NewRecognizeHandler(recognizer *attendance.Recognizer, log zerolog.Logger) *RecognizeHandler {
	return &RecognizeHandler{recognizer: recognizer, log: log}
}

// RecognizeRequest is the body of POST /api/recognize
type RecognizeRequest struct {
	Image string `json:"image"`
}

// Recognize handles POST /api/recognize. Only marked is a success; the other
// outcomes are reported with success false and status 200.
func (h *RecognizeHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	var req RecognizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondFailure(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	res, err := h.recognizer.Recognize(r.Context(), req.Image)
	if err != nil {
		respondPipelineError(w, h.log, err, "No face detected in frame.")
		return
	}

	respondJSON(w, http.StatusOK, recognizeResult(res))
}

func recognizeResult(res attendance.RecognizeResult) Result {
	out := Result{Outcome: string(res.Outcome)}
	switch res.Outcome {
	case attendance.OutcomeMarked:
		out.Success = true
		out.Message = fmt.Sprintf("Attendance marked for '%s'.", res.StudentName)
		out.StudentName = res.StudentName
		out.Distance = roundDistance(res.Distance)
	case attendance.OutcomeAlreadyMarked:
		out.Message = fmt.Sprintf("Attendance already marked for '%s' today.", res.StudentName)
		out.StudentName = res.StudentName
		out.Distance = roundDistance(res.Distance)
	case attendance.OutcomeNoMatch:
		out.Message = fmt.Sprintf("Face not recognised (distance: %.2f).", res.Distance)
		out.Distance = roundDistance(res.Distance)
	case attendance.OutcomeNoGallery:
		out.Message = "No students registered yet."
	}
	return out
}

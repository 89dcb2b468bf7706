package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/rs/zerolog"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "Invalid request body."

const (
	msgDecodeFailed       = "Failed to decode image."
	msgStorageUnavailable = "Storage is unavailable. Please try again later."
	msgExtractorDown      = "Face recognition service is unavailable. Please try again later."
)

// Result is the body of every register and recognize response.
type Result struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message"`
	StudentName string   `json:"student_name,omitempty"`
	Distance    *float64 `json:"distance,omitempty"`
	Outcome     string   `json:"outcome,omitempty"`
}

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondFailure sends {success: false, message}.
func respondFailure(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, Result{Success: false, Message: message})
}

// respondError sends an error response for read-only endpoints.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	return nil
}

// roundDistance rounds to three decimals for responses.
func roundDistance(d float64) *float64 {
	v := math.Round(d*1000) / 1000
	return &v
}

// respondPipelineError maps the failures shared by register and recognize.
// noFaceMessage differs between the two flows.
func respondPipelineError(w http.ResponseWriter, log zerolog.Logger, err error, noFaceMessage string) {
	var ve *attendance.ValidationError
	switch {
	case errors.As(err, &ve):
		respondFailure(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, attendance.ErrDecode):
		respondFailure(w, http.StatusBadRequest, msgDecodeFailed)
	case errors.Is(err, attendance.ErrNoFaceDetected):
		respondJSON(w, http.StatusOK, Result{Success: false, Message: noFaceMessage, Outcome: "no_face"})
	case errors.Is(err, attendance.ErrExtractorUnavailable):
		log.Error().Err(err).Msg("face embedding server failed")
		respondFailure(w, http.StatusServiceUnavailable, msgExtractorDown)
	default:
		log.Error().Err(err).Msg("storage failure")
		respondFailure(w, http.StatusServiceUnavailable, msgStorageUnavailable)
	}
}

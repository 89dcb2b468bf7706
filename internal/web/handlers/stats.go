package handlers

import (
	"net/http"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/rs/zerolog"
)

// StatsHandler serves dashboard statistics
type StatsHandler struct {
	reporter *attendance.Reporter
	today    func() string
	log      zerolog.Logger
}

// NewStatsHandler creates a new stats handler. today returns the current
// date in the attendance time zone.
func NewStatsHandler(reporter *attendance.Reporter, today func() string, log zerolog.Logger) *StatsHandler {
	return &StatsHandler{reporter: reporter, today: today, log: log}
}

// StatsResponse represents the stats response
type StatsResponse struct {
	TotalStudents int                        `json:"total_students"`
	TodayCount    int                        `json:"today_count"`
	Today         string                     `json:"today"`
	Recent        []AttendanceRecordResponse `json:"recent"`
}

// Get handles GET /api/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reporter.Stats(r.Context(), h.today())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load stats")
		respondError(w, http.StatusServiceUnavailable, "failed to load stats")
		return
	}

	respondJSON(w, http.StatusOK, StatsResponse{
		TotalStudents: stats.TotalStudents,
		TodayCount:    stats.TodayCount,
		Today:         stats.Today,
		Recent:        toRecordResponses(stats.Recent),
	})
}

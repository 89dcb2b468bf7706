package handlers

import (
	"net/http"
	"strconv"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/rs/zerolog"
)

// ReportHandler serves attendance reports
type ReportHandler struct {
	reporter *attendance.Reporter
	log      zerolog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reporter *attendance.Reporter, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{reporter: reporter, log: log}
}

// AttendanceRecordResponse is one attendance record in JSON responses
type AttendanceRecordResponse struct {
	ID          int64  `json:"id"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// ReportResponse is the body of GET /api/report
type ReportResponse struct {
	Records []AttendanceRecordResponse `json:"records"`
	Count   int                        `json:"count"`
}

func toRecordResponses(records []database.AttendanceRecord) []AttendanceRecordResponse {
	out := make([]AttendanceRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, AttendanceRecordResponse{
			ID:          rec.ID,
			StudentID:   rec.StudentID,
			StudentName: rec.StudentName,
			Date:        rec.Date,
			Time:        rec.Time,
		})
	}
	return out
}

// reportFilter reads the date and name query parameters.
func reportFilter(r *http.Request) database.ReportFilter {
	q := r.URL.Query()
	return database.ReportFilter{
		Date: q.Get("date"),
		Name: q.Get("name"),
	}
}

// List handles GET /api/report
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := reportFilter(r)
	filter.Limit = constants.MaxReportLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit <= 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = min(limit, constants.MaxReportLimit)
	}

	records, err := h.reporter.Report(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load report")
		respondError(w, http.StatusServiceUnavailable, "failed to load report")
		return
	}

	respondJSON(w, http.StatusOK, ReportResponse{
		Records: toRecordResponses(records),
		Count:   len(records),
	})
}

// Export handles GET /api/report/export
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	records, err := h.reporter.Report(r.Context(), reportFilter(r))
	if err != nil {
		h.log.Error().Err(err).Msg("failed to export report")
		respondError(w, http.StatusServiceUnavailable, "failed to export report")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+constants.ReportFilename)
	w.WriteHeader(http.StatusOK)
	if err := attendance.WriteCSV(w, records); err != nil {
		h.log.Warn().Err(err).Msg("failed to write CSV export")
	}
}

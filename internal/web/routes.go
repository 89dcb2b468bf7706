package web

import (
	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-attendance/internal/web/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRoutes() {
	// Create handlers
	healthHandler := handlers.NewHealthHandler(s.db)
	registerHandler := handlers.NewRegisterHandler(s.service.Registrar, s.log)
	recognizeHandler := handlers.NewRecognizeHandler(s.service.Recognizer, s.log)
	reportHandler := handlers.NewReportHandler(s.service.Reporter, s.log)
	statsHandler := handlers.NewStatsHandler(s.service.Reporter, s.service.Today, s.log)
	studentsHandler := handlers.NewStudentsHandler(s.service.Reporter, s.log)

	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Check)

		// Capture endpoints
		r.Post("/register", registerHandler.Register)
		r.Post("/recognize", recognizeHandler.Recognize)

		// Reports
		r.Get("/report", reportHandler.List)
		r.Get("/report/export", reportHandler.Export)
		r.Get("/stats", statsHandler.Get)
		r.Get("/students", studentsHandler.List)
		r.Get("/students/{student_id}", studentsHandler.Get)
	})
}

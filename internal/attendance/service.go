// Package attendance implements student registration, face recognition with
// once-per-day attendance marking, and attendance reports.
package attendance

import (
	"fmt"
	"time"

	"github.com/kozaktomas/face-attendance/internal/artifact"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/embedding"
	"github.com/rs/zerolog"
)

// Service wires the attendance components around one store.
type Service struct {
	Registrar  *Registrar
	Recognizer *Recognizer
	Reporter   *Reporter
	Location   *time.Location
}

// NewService builds every component from cfg.
func NewService(cfg *config.Config, store database.Store, extractor embedding.Extractor, log zerolog.Logger) (*Service, error) {
	artifacts, err := artifact.NewStore(cfg.Storage.EncodingsDir)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Attendance.Location()
	if err != nil {
		return nil, fmt.Errorf("attendance time zone: %w", err)
	}

	gallery := NewGalleryLoader(store, log)
	return &Service{
		Registrar:  NewRegistrar(store, artifacts, extractor, log),
		Recognizer: NewRecognizer(gallery, NewLedger(store), extractor, cfg.Matching.Tolerance, loc, log),
		Reporter:   NewReporter(store, store),
		Location:   loc,
	}, nil
}

// Today returns the current date in the attendance time zone.
func (s *Service) Today() string {
	return time.Now().In(s.Location).Format(database.DateLayout)
}

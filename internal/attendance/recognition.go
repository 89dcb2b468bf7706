package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/embedding"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/kozaktomas/face-attendance/internal/imaging"
	"github.com/kozaktomas/face-attendance/internal/metrics"
	"github.com/rs/zerolog"
)

// RecognizeResult describes a completed recognition. StudentID, StudentName
// and Distance are set for marked and already_marked; Distance is also set
// for no_match.
type RecognizeResult struct {
	Outcome     Outcome
	StudentID   string
	StudentName string
	Distance    float64
	Record      *database.AttendanceRecord
}

// Recognizer identifies the face in a capture and marks attendance.
type Recognizer struct {
	gallery   *GalleryLoader
	ledger    *Ledger
	extractor embedding.Extractor
	tolerance float64
	location  *time.Location
	now       func() time.Time
	log       zerolog.Logger
}

// NewRecognizer creates a Recognizer. Attendance is stamped with the current
// time in loc.
func NewRecognizer(gallery *GalleryLoader, ledger *Ledger, extractor embedding.Extractor, tolerance float64, loc *time.Location, log zerolog.Logger) *Recognizer {
	if loc == nil {
		loc = time.Local
	}
	return &Recognizer{
		gallery:   gallery,
		ledger:    ledger,
		extractor: extractor,
		tolerance: tolerance,
		location:  loc,
		now:       time.Now,
		log:       log,
	}
}

// SetClock replaces the time source.
func (r *Recognizer) SetClock(now func() time.Time) {
	r.now = now
}

// Recognize runs decode, extract, match and mark for a base64 image.
func (r *Recognizer) Recognize(ctx context.Context, image string) (RecognizeResult, error) {
	res, err := r.recognize(ctx, image)
	metrics.RecognitionsTotal.WithLabelValues(recognitionOutcome(res, err)).Inc()
	return res, err
}

func (r *Recognizer) recognize(ctx context.Context, image string) (RecognizeResult, error) {
	if image == "" {
		return RecognizeResult{}, &ValidationError{Field: "Image", Message: "No image provided."}
	}

	data, err := imaging.PrepareBase64(image, constants.MaxImageSize)
	if err != nil {
		return RecognizeResult{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	probe, found, err := r.extractor.ExtractFace(ctx, data)
	if err != nil {
		return RecognizeResult{}, fmt.Errorf("%w: %w", ErrExtractorUnavailable, err)
	}
	if !found {
		return RecognizeResult{}, ErrNoFaceDetected
	}

	gallery, err := r.gallery.Load(ctx)
	if err != nil {
		return RecognizeResult{}, err
	}

	match := facematch.Match(probe, gallery, r.tolerance)
	if match.Verdict != facematch.VerdictNoGallery {
		metrics.MatchDistance.Observe(match.Distance)
	}

	switch match.Verdict {
	case facematch.VerdictNoGallery:
		return RecognizeResult{Outcome: OutcomeNoGallery}, nil
	case facematch.VerdictNoMatch:
		r.log.Debug().Float64("distance", match.Distance).Msg("face not recognised")
		return RecognizeResult{Outcome: OutcomeNoMatch, Distance: match.Distance}, nil
	}

	now := r.now().In(r.location)
	mark, err := r.ledger.Mark(ctx, match.Entry.Identity, match.Entry.Name,
		now.Format(database.DateLayout), now.Format(database.TimeLayout))
	if err != nil {
		return RecognizeResult{}, err
	}

	r.log.Info().
		Str("student_id", match.Entry.Identity).
		Float64("distance", match.Distance).
		Str("outcome", string(mark.Outcome)).
		Msg("face recognised")

	return RecognizeResult{
		Outcome:     mark.Outcome,
		StudentID:   match.Entry.Identity,
		StudentName: match.Entry.Name,
		Distance:    match.Distance,
		Record:      mark.Record,
	}, nil
}

func recognitionOutcome(res RecognizeResult, err error) string {
	switch {
	case err == nil:
		return string(res.Outcome)
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrDecode):
		return "decode_error"
	case errors.Is(err, ErrNoFaceDetected):
		return "no_face"
	default:
		return "error"
	}
}

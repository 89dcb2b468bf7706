package attendance

import (
	"context"
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/artifact"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/kozaktomas/face-attendance/internal/metrics"
	"github.com/rs/zerolog"
)

// GalleryLoader builds a fresh gallery snapshot from storage.
type GalleryLoader struct {
	students database.StudentReader
	log      zerolog.Logger
}

// NewGalleryLoader creates a loader reading students from store.
func NewGalleryLoader(students database.StudentReader, log zerolog.Logger) *GalleryLoader {
	return &GalleryLoader{students: students, log: log}
}

// Load returns one entry per student whose artifact can be read, in the
// store's order (newest registration first). Students with a missing or
// corrupt artifact are skipped with a warning.
func (g *GalleryLoader) Load(ctx context.Context) ([]facematch.Entry, error) {
	students, err := g.students.ListStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing students: %w", ErrStorageUnavailable, err)
	}

	gallery := make([]facematch.Entry, 0, len(students))
	for _, s := range students {
		vec, err := artifact.Load(s.EncodingPath)
		if err != nil {
			g.log.Warn().
				Err(err).
				Str("student_id", s.StudentID).
				Str("path", s.EncodingPath).
				Msg("skipping student with unreadable embedding")
			metrics.GallerySkippedTotal.Inc()
			continue
		}
		gallery = append(gallery, facematch.Entry{
			Identity:  s.StudentID,
			Name:      s.Name,
			Embedding: vec,
		})
	}

	metrics.GallerySize.Set(float64(len(gallery)))
	return gallery, nil
}

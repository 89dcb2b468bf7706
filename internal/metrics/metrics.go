// Package metrics defines the Prometheus collectors exported at /metrics.
// Collectors are registered with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "attendance"

// RecognitionsTotal counts recognition requests by outcome
// (marked, already_marked, no_match, no_gallery, no_face, decode_error, error).
var RecognitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recognitions_total",
		Help:      "Total number of recognition requests, by outcome.",
	},
	[]string{"outcome"},
)

// RegistrationsTotal counts registration requests by result
// (registered, validation_error, decode_error, no_face, duplicate, error).
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration requests, by result.",
	},
	[]string{"result"},
)

// GallerySize reports the number of entries in the last gallery snapshot.
var GallerySize = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "gallery_size",
		Help:      "Number of students loaded into the most recent gallery snapshot.",
	},
)

// GallerySkippedTotal counts students left out of a gallery because their
// embedding artifact was missing or unreadable.
var GallerySkippedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gallery_skipped_total",
		Help:      "Total number of students skipped while loading a gallery.",
	},
)

// MatchDistance records the best distance found for each probe.
var MatchDistance = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "match_distance",
		Help:      "Best Euclidean distance between a probe and the gallery.",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.45, 0.5, 0.55, 0.6, 0.7, 0.8, 1.0},
	},
)

// ExtractDuration measures calls to the face embedding server.
var ExtractDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "extract_duration_seconds",
		Help:      "Duration of face embedding extraction calls.",
		Buckets:   prometheus.DefBuckets,
	},
)

// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Image processing constants
const (
	// MaxImageSize is the maximum dimension (width or height) of an image sent
	// to the embedding server
	MaxImageSize = 1920

	// JPEGQuality is the quality used when re-encoding resized captures
	JPEGQuality = 85

	// MaxDecodePixels is the largest width*height accepted for decoding.
	// The header is checked before any pixel buffer is allocated.
	MaxDecodePixels = 25_000_000
)

// Dashboard constants
const (
	// RecentAttendanceLimit is the number of records shown on the dashboard
	RecentAttendanceLimit = 10
)

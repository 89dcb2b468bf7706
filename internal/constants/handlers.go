// Package constants provides shared constants used across the codebase.
package constants

// Handler constants
const (
	// MaxRequestBodySize bounds JSON request bodies. Captures arrive as base64
	// data URLs, so this is well above the raw image size.
	MaxRequestBodySize = 20 << 20

	// MaxReportLimit caps the number of records returned by /api/report
	MaxReportLimit = 10000

	// ReportFilename is the attachment name of the CSV export
	ReportFilename = "attendance_report.csv"
)

package attendance

import "errors"

// Failure classes of the attendance pipeline. Handlers map them to
// responses with errors.Is.
var (
	ErrValidation           = errors.New("validation failed")
	ErrDecode               = errors.New("failed to decode image")
	ErrNoFaceDetected       = errors.New("no face detected")
	ErrDuplicateIdentity    = errors.New("student ID already exists")
	ErrStorageUnavailable   = errors.New("storage unavailable")
	ErrExtractorUnavailable = errors.New("face embedding server unavailable")
)

// ValidationError reports a missing or invalid request field. It matches
// ErrValidation with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

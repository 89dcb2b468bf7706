package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kozaktomas/face-attendance/internal/artifact"
	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/embedding"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/kozaktomas/face-attendance/internal/imaging"
	"github.com/kozaktomas/face-attendance/internal/metrics"
	"github.com/rs/zerolog"
)

// RegisterRequest enrolls a student. Image is base64, optionally as a data URL.
type RegisterRequest struct {
	Name      string `validate:"required"`
	StudentID string `validate:"required"`
	Image     string `validate:"required"`
}

// Messages for missing fields, keyed by struct field name.
var registerFieldMessages = map[string]string{
	"Name":      "Name is required.",
	"StudentID": "Student ID is required.",
	"Image":     "No image captured.",
}

// Registrar enrolls students: it writes the embedding artifact first and the
// student row second, removing the artifact again when the row is rejected.
type Registrar struct {
	store     database.StudentWriter
	artifacts *artifact.Store
	extractor embedding.Extractor
	validate  *validator.Validate
	log       zerolog.Logger
}

// NewRegistrar creates a Registrar.
func NewRegistrar(store database.StudentWriter, artifacts *artifact.Store, extractor embedding.Extractor, log zerolog.Logger) *Registrar {
	return &Registrar{
		store:     store,
		artifacts: artifacts,
		extractor: extractor,
		validate:  validator.New(),
		log:       log,
	}
}

// Register validates req, extracts the face embedding and persists the student.
func (r *Registrar) Register(ctx context.Context, req RegisterRequest) (*database.Student, error) {
	student, err := r.register(ctx, req)
	metrics.RegistrationsTotal.WithLabelValues(registrationResult(err)).Inc()
	return student, err
}

func (r *Registrar) register(ctx context.Context, req RegisterRequest) (*database.Student, error) {
	req.Name = facematch.CleanDisplayName(req.Name)
	req.StudentID = strings.TrimSpace(req.StudentID)
	if err := r.validateRequest(req); err != nil {
		return nil, err
	}

	data, err := imaging.PrepareBase64(req.Image, constants.MaxImageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	vec, found, err := r.extractor.ExtractFace(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractorUnavailable, err)
	}
	if !found {
		return nil, ErrNoFaceDetected
	}

	path, err := r.artifacts.Save(req.StudentID, vec)
	if err != nil {
		return nil, fmt.Errorf("%w: saving embedding: %w", ErrStorageUnavailable, err)
	}

	student := &database.Student{
		StudentID:    req.StudentID,
		Name:         req.Name,
		EncodingPath: path,
	}
	if err := r.store.CreateStudent(ctx, student); err != nil {
		return nil, r.rollback(path, req.StudentID, err)
	}

	r.log.Info().
		Str("student_id", student.StudentID).
		Str("name", student.Name).
		Str("path", path).
		Msg("student registered")
	return student, nil
}

// rollback removes the artifact of a rejected registration and classifies
// the insert error. A failed removal is joined into the returned error.
func (r *Registrar) rollback(path, studentID string, insertErr error) error {
	var err error
	if errors.Is(insertErr, database.ErrDuplicateStudent) {
		err = fmt.Errorf("%w: %s", ErrDuplicateIdentity, studentID)
	} else {
		err = fmt.Errorf("%w: creating student: %w", ErrStorageUnavailable, insertErr)
	}

	if rmErr := artifact.Remove(path); rmErr != nil {
		r.log.Error().
			Err(rmErr).
			Str("student_id", studentID).
			Str("path", path).
			Msg("failed to remove orphaned embedding")
		return errors.Join(err, fmt.Errorf("removing embedding %s: %w", path, rmErr))
	}
	return err
}

// validateRequest reports the first missing field in declaration order.
func (r *Registrar) validateRequest(req RegisterRequest) error {
	err := r.validate.Struct(req)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return fieldError(ve[0], registerFieldMessages)
}

// fieldError converts a validator error into a ValidationError with a user-facing message.
func fieldError(fe validator.FieldError, messages map[string]string) *ValidationError {
	field := fe.Field()
	msg, ok := messages[field]
	if !ok {
		msg = fmt.Sprintf("%s failed validation (%s).", field, fe.Tag())
	}
	return &ValidationError{Field: field, Message: msg}
}

func registrationResult(err error) string {
	switch {
	case err == nil:
		return "registered"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrDecode):
		return "decode_error"
	case errors.Is(err, ErrNoFaceDetected):
		return "no_face"
	case errors.Is(err, ErrDuplicateIdentity):
		return "duplicate"
	default:
		return "error"
	}
}

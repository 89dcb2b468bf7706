package attendance

import (
	"context"
	"errors"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/artifact"
	"github.com/kozaktomas/face-attendance/internal/database/mock"
	"github.com/stretchr/testify/suite"
)

type RegistrarSuite struct {
	suite.Suite
	store     *mock.MockStore
	artifacts *artifact.Store
	extractor *fakeExtractor
	registrar *Registrar
	image     string
}

func TestRegistrarSuite(t *testing.T) {
	suite.Run(t, new(RegistrarSuite))
}

func (s *RegistrarSuite) SetupTest() {
	s.store = mock.NewMockStore()
	s.artifacts = newArtifactStore(s.T())
	s.extractor = &fakeExtractor{vec: faceAt(0.2), found: true}
	s.registrar = NewRegistrar(s.store, s.artifacts, s.extractor, nopLogger())
	s.image = testImage(s.T())
}

func (s *RegistrarSuite) TestRegister_Success() {
	ctx := context.Background()

	student, err := s.registrar.Register(ctx, RegisterRequest{
		Name:      "  Alice   Smith ",
		StudentID: " STU001 ",
		Image:     s.image,
	})
	s.Require().NoError(err)
	s.Equal("STU001", student.StudentID)
	s.Equal("Alice Smith", student.Name)
	s.NotZero(student.ID)

	stored, err := s.store.GetStudent(ctx, "STU001")
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.Equal(student.EncodingPath, stored.EncodingPath)

	vec, err := artifact.Load(stored.EncodingPath)
	s.Require().NoError(err)
	s.Equal(faceAt(0.2), vec)
}

func (s *RegistrarSuite) TestRegister_Validation() {
	tests := []struct {
		name    string
		req     RegisterRequest
		message string
	}{
		{"missing name", RegisterRequest{StudentID: "STU001", Image: s.image}, "Name is required."},
		{"blank name", RegisterRequest{Name: "   ", StudentID: "STU001", Image: s.image}, "Name is required."},
		{"missing student id", RegisterRequest{Name: "Alice", Image: s.image}, "Student ID is required."},
		{"missing image", RegisterRequest{Name: "Alice", StudentID: "STU001"}, "No image captured."},
		{"everything missing reports name first", RegisterRequest{}, "Name is required."},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.registrar.Register(context.Background(), tt.req)
			s.Require().ErrorIs(err, ErrValidation)
			var ve *ValidationError
			s.Require().ErrorAs(err, &ve)
			s.Equal(tt.message, ve.Message)
		})
	}

	s.Zero(s.extractor.Calls())
	s.Empty(artifactFiles(s.T(), s.artifacts))
}

func (s *RegistrarSuite) TestRegister_DecodeError() {
	_, err := s.registrar.Register(context.Background(), RegisterRequest{
		Name:      "Alice",
		StudentID: "STU001",
		Image:     "data:image/jpeg;base64,bm90IGFuIGltYWdl",
	})
	s.ErrorIs(err, ErrDecode)
	s.Zero(s.extractor.Calls())
}

func (s *RegistrarSuite) TestRegister_NoFace() {
	s.extractor.found = false

	_, err := s.registrar.Register(context.Background(), RegisterRequest{Name: "Alice", StudentID: "STU001", Image: s.image})
	s.ErrorIs(err, ErrNoFaceDetected)
	s.Empty(artifactFiles(s.T(), s.artifacts))

	count, _ := s.store.CountStudents(context.Background())
	s.Zero(count)
}

func (s *RegistrarSuite) TestRegister_ExtractorFailure() {
	s.extractor.err = errors.New("connection refused")

	_, err := s.registrar.Register(context.Background(), RegisterRequest{Name: "Alice", StudentID: "STU001", Image: s.image})
	s.ErrorIs(err, ErrExtractorUnavailable)
	s.Empty(artifactFiles(s.T(), s.artifacts))
}

func (s *RegistrarSuite) TestRegister_DuplicateLeavesNoOrphan() {
	ctx := context.Background()

	first, err := s.registrar.Register(ctx, RegisterRequest{Name: "Alice", StudentID: "STU001", Image: s.image})
	s.Require().NoError(err)

	_, err = s.registrar.Register(ctx, RegisterRequest{Name: "Bob", StudentID: "STU001", Image: s.image})
	s.Require().ErrorIs(err, ErrDuplicateIdentity)
	s.Contains(err.Error(), "STU001")

	files := artifactFiles(s.T(), s.artifacts)
	s.Len(files, 1)

	// The winner's artifact is untouched.
	_, err = artifact.Load(first.EncodingPath)
	s.NoError(err)

	stored, err := s.store.GetStudent(ctx, "STU001")
	s.Require().NoError(err)
	s.Equal("Alice", stored.Name)
}

func (s *RegistrarSuite) TestRegister_StorageFailureRemovesArtifact() {
	s.store.CreateStudentError = errors.New("database is down")

	_, err := s.registrar.Register(context.Background(), RegisterRequest{Name: "Alice", StudentID: "STU001", Image: s.image})
	s.Require().ErrorIs(err, ErrStorageUnavailable)
	s.NotErrorIs(err, ErrDuplicateIdentity)
	s.Empty(artifactFiles(s.T(), s.artifacts))
}

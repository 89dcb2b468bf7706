package attendance

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/artifact"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/database/mock"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// fakeExtractor returns a fixed answer for every image.
type fakeExtractor struct {
	mu    sync.Mutex
	vec   facematch.Vector
	found bool
	err   error
	calls int
}

func (f *fakeExtractor) ExtractFace(ctx context.Context, imageData []byte) (facematch.Vector, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.vec, f.found, f.err
}

func (f *fakeExtractor) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// faceAt returns a vector at Euclidean distance d from the zero vector.
func faceAt(d float64) facematch.Vector {
	var v facematch.Vector
	v[0] = d
	return v
}

// testImage returns a small PNG as a data URL, the way a browser canvas sends it.
func testImage(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := range 16 {
		for y := range 16 {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newArtifactStore(t *testing.T) *artifact.Store {
	t.Helper()
	store, err := artifact.NewStore(filepath.Join(t.TempDir(), "encodings"))
	require.NoError(t, err)
	return store
}

// enroll stores a student with an artifact holding vec.
func enroll(t *testing.T, store *mock.MockStore, artifacts *artifact.Store, studentID, name string, vec facematch.Vector) {
	t.Helper()
	path, err := artifacts.Save(studentID, vec)
	require.NoError(t, err)
	require.NoError(t, store.CreateStudent(context.Background(), &database.Student{
		StudentID:    studentID,
		Name:         name,
		EncodingPath: path,
	}))
}

func artifactFiles(t *testing.T, artifacts *artifact.Store) []string {
	t.Helper()
	entries, err := os.ReadDir(artifacts.Dir())
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}

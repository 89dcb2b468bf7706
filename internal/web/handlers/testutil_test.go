package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-attendance/internal/artifact"
	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/database/mock"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/rs/zerolog"
)

// stubExtractor returns a fixed face for every image
type stubExtractor struct {
	mu    sync.Mutex
	vec   facematch.Vector
	found bool
	err   error
}

func (s *stubExtractor) ExtractFace(ctx context.Context, imageData []byte) (facematch.Vector, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vec, s.found, s.err
}

// testEnv wires real attendance components to an in-memory store
type testEnv struct {
	store      *mock.MockStore
	artifacts  *artifact.Store
	extractor  *stubExtractor
	registrar  *attendance.Registrar
	recognizer *attendance.Recognizer
	reporter   *attendance.Reporter
	log        zerolog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := mock.NewMockStore()
	artifacts, err := artifact.NewStore(filepath.Join(t.TempDir(), "encodings"))
	if err != nil {
		t.Fatalf("failed to create artifact store: %v", err)
	}
	extractor := &stubExtractor{found: true}
	log := zerolog.Nop()

	recognizer := attendance.NewRecognizer(
		attendance.NewGalleryLoader(store, log),
		attendance.NewLedger(store),
		extractor,
		facematch.DefaultTolerance,
		time.UTC,
		log,
	)
	recognizer.SetClock(func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) })

	return &testEnv{
		store:      store,
		artifacts:  artifacts,
		extractor:  extractor,
		registrar:  attendance.NewRegistrar(store, artifacts, extractor, log),
		recognizer: recognizer,
		reporter:   attendance.NewReporter(store, store),
		log:        log,
	}
}

// enroll stores a student whose embedding is at distance d from the zero vector
func (e *testEnv) enroll(t *testing.T, studentID, name string, d float64) {
	t.Helper()
	var vec facematch.Vector
	vec[0] = d
	path, err := e.artifacts.Save(studentID, vec)
	if err != nil {
		t.Fatalf("failed to save artifact: %v", err)
	}
	if err := e.store.CreateStudent(context.Background(), &database.Student{StudentID: studentID, Name: name, EncodingPath: path}); err != nil {
		t.Fatalf("failed to create student: %v", err)
	}
}

// testImage returns a small PNG data URL
func testImage(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := range 8 {
		for y := range 8 {
			img.Set(x, y, color.RGBA{R: uint8(x * 32), G: uint8(y * 32), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// oversizedImage returns a PNG data URL whose header declares 8000x8000
// 16-bit RGBA pixels but carries no pixel data.
func oversizedImage() string {
	var buf bytes.Buffer
	buf.Write([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'})
	writeChunk := func(typ string, payload []byte) {
		binary.Write(&buf, binary.BigEndian, uint32(len(payload)))
		chunk := append([]byte(typ), payload...)
		buf.Write(chunk)
		binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	}
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], 8000)
	binary.BigEndian.PutUint32(ihdr[4:8], 8000)
	ihdr[8], ihdr[9] = 16, 6
	writeChunk("IHDR", ihdr)
	writeChunk("IDAT", nil)
	writeChunk("IEND", nil)
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// jsonRequest builds a request with a JSON body
func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertContentType checks if the response has the expected content type
func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, expected string) {
	t.Helper()
	ct := recorder.Header().Get("Content-Type")
	if ct != expected {
		t.Errorf("expected Content-Type '%s', got '%s'", expected, ct)
	}
}

// assertResult checks success and message of a register or recognize response
func assertResult(t *testing.T, recorder *httptest.ResponseRecorder, success bool, message string) Result {
	t.Helper()
	var result Result
	parseJSONResponse(t, recorder, &result)
	if result.Success != success {
		t.Errorf("expected success %v, got %v", success, result.Success)
	}
	if result.Message != message {
		t.Errorf("expected message '%s', got '%s'", message, result.Message)
	}
	return result
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}

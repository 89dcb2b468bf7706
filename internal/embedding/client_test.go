package embedding

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/facematch"
)

var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46}

func embeddingWith(value float64) []float64 {
	e := make([]float64, facematch.VectorDim)
	e[0] = value
	return e
}

func newFaceServer(t *testing.T, resp FaceResponse, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embed/face" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing file", http.StatusBadRequest)
			return
		}
		defer file.Close()
		if ct := header.Header.Get("Content-Type"); ct != "image/jpeg" {
			http.Error(w, "unexpected content type "+ct, http.StatusBadRequest)
			return
		}
		io.Copy(io.Discard, file)

		if status != http.StatusOK {
			http.Error(w, "model not loaded", status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestClient_ExtractFace_SingleFace(t *testing.T) {
	server := newFaceServer(t, FaceResponse{
		FacesCount: 1,
		Faces:      []FaceDetection{{FaceIndex: 0, Dim: 128, Embedding: embeddingWith(0.42)}},
		Model:      "dlib",
	}, http.StatusOK)
	defer server.Close()

	client := NewClient(server.URL + "/")
	vec, found, err := client.ExtractFace(context.Background(), jpegHeader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected a face")
	}
	if vec[0] != 0.42 {
		t.Errorf("vec[0] = %v, want 0.42", vec[0])
	}
}

func TestClient_ExtractFace_NoFace(t *testing.T) {
	server := newFaceServer(t, FaceResponse{FacesCount: 0, Faces: nil}, http.StatusOK)
	defer server.Close()

	_, found, err := NewClient(server.URL).ExtractFace(context.Background(), jpegHeader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected no face")
	}
}

func TestClient_ExtractFace_MultipleFacesUsesFirst(t *testing.T) {
	server := newFaceServer(t, FaceResponse{
		FacesCount: 2,
		Faces: []FaceDetection{
			{FaceIndex: 1, Embedding: embeddingWith(0.9)},
			{FaceIndex: 0, Embedding: embeddingWith(0.1)},
		},
	}, http.StatusOK)
	defer server.Close()

	vec, found, err := NewClient(server.URL).ExtractFace(context.Background(), jpegHeader)
	if err != nil || !found {
		t.Fatalf("expected face, got found=%v err=%v", found, err)
	}
	if vec[0] != 0.1 {
		t.Errorf("expected face_index 0 to be used, got vec[0]=%v", vec[0])
	}
}

func TestClient_ExtractFace_WrongDimension(t *testing.T) {
	server := newFaceServer(t, FaceResponse{
		FacesCount: 1,
		Faces:      []FaceDetection{{FaceIndex: 0, Dim: 512, Embedding: make([]float64, 512)}},
	}, http.StatusOK)
	defer server.Close()

	_, found, err := NewClient(server.URL).ExtractFace(context.Background(), jpegHeader)
	if err == nil {
		t.Fatal("expected dimension error")
	}
	if found {
		t.Error("found must be false on error")
	}
	if !strings.Contains(err.Error(), "dimensions") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClient_ExtractFace_ServerError(t *testing.T) {
	server := newFaceServer(t, FaceResponse{}, http.StatusServiceUnavailable)
	defer server.Close()

	_, _, err := NewClient(server.URL).ExtractFace(context.Background(), jpegHeader)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "status 503") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{"jpeg", jpegHeader, "image/jpeg"},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "image/png"},
		{"short", []byte{0xFF}, "application/octet-stream"},
		{"unknown", []byte("abcdefghij"), "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectMIMEType(tt.data); got != tt.expected {
				t.Errorf("detectMIMEType() = %q, want %q", got, tt.expected)
			}
		})
	}
}

package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRegisterHandler_Success(t *testing.T) {
	env := newTestEnv(t)
	handler := NewRegisterHandler(env.registrar, env.log)

	req := jsonRequest(t, http.MethodPost, "/api/register", map[string]string{
		"name":       "Alice Smith",
		"student_id": "STU001",
		"image":      testImage(t),
	})
	recorder := httptest.NewRecorder()
	handler.Register(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	assertContentType(t, recorder, "application/json")
	assertResult(t, recorder, true, "Student 'Alice Smith' registered successfully.")

	student, err := env.store.GetStudent(req.Context(), "STU001")
	if err != nil || student == nil {
		t.Fatalf("expected student to be stored, err=%v", err)
	}
}

func TestRegisterHandler_Validation(t *testing.T) {
	env := newTestEnv(t)
	handler := NewRegisterHandler(env.registrar, env.log)
	image := testImage(t)

	tests := []struct {
		name    string
		body    map[string]string
		message string
	}{
		{"missing name", map[string]string{"student_id": "STU001", "image": image}, "Name is required."},
		{"missing student id", map[string]string{"name": "Alice", "image": image}, "Student ID is required."},
		{"missing image", map[string]string{"name": "Alice", "student_id": "STU001"}, "No image captured."},
		{"bad image", map[string]string{"name": "Alice", "student_id": "STU001", "image": "data:image/png;base64,AAAA"}, "Failed to decode image."},
		{"oversized image header", map[string]string{"name": "Alice", "student_id": "STU001", "image": oversizedImage()}, "Failed to decode image."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			handler.Register(recorder, jsonRequest(t, http.MethodPost, "/api/register", tt.body))

			assertStatusCode(t, recorder, http.StatusBadRequest)
			assertResult(t, recorder, false, tt.message)
		})
	}
}

func TestRegisterHandler_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)
	handler := NewRegisterHandler(env.registrar, env.log)

	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader("{not json"))
	recorder := httptest.NewRecorder()
	handler.Register(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertResult(t, recorder, false, "Invalid request body.")
}

func TestRegisterHandler_NoFace(t *testing.T) {
	env := newTestEnv(t)
	env.extractor.found = false
	handler := NewRegisterHandler(env.registrar, env.log)

	recorder := httptest.NewRecorder()
	handler.Register(recorder, jsonRequest(t, http.MethodPost, "/api/register", map[string]string{
		"name": "Alice", "student_id": "STU001", "image": testImage(t),
	}))

	assertStatusCode(t, recorder, http.StatusOK)
	assertResult(t, recorder, false, "No face detected. Please try again with better lighting.")
}

func TestRegisterHandler_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	handler := NewRegisterHandler(env.registrar, env.log)
	body := map[string]string{"name": "Alice", "student_id": "STU001", "image": testImage(t)}

	first := httptest.NewRecorder()
	handler.Register(first, jsonRequest(t, http.MethodPost, "/api/register", body))
	assertStatusCode(t, first, http.StatusOK)

	body["student_id"] = " STU001 "
	second := httptest.NewRecorder()
	handler.Register(second, jsonRequest(t, http.MethodPost, "/api/register", body))

	assertStatusCode(t, second, http.StatusConflict)
	assertResult(t, second, false, "Student ID 'STU001' already exists.")
}

func TestRegisterHandler_StorageUnavailable(t *testing.T) {
	env := newTestEnv(t)
	env.store.CreateStudentError = errors.New("connection refused")
	handler := NewRegisterHandler(env.registrar, env.log)

	recorder := httptest.NewRecorder()
	handler.Register(recorder, jsonRequest(t, http.MethodPost, "/api/register", map[string]string{
		"name": "Alice", "student_id": "STU001", "image": testImage(t),
	}))

	assertStatusCode(t, recorder, http.StatusServiceUnavailable)
	assertResult(t, recorder, false, msgStorageUnavailable)
}

func TestRegisterHandler_ExtractorUnavailable(t *testing.T) {
	env := newTestEnv(t)
	env.extractor.err = errors.New("dial tcp: connection refused")
	handler := NewRegisterHandler(env.registrar, env.log)

	recorder := httptest.NewRecorder()
	handler.Register(recorder, jsonRequest(t, http.MethodPost, "/api/register", map[string]string{
		"name": "Alice", "student_id": "STU001", "image": testImage(t),
	}))

	assertStatusCode(t, recorder, http.StatusServiceUnavailable)
	assertResult(t, recorder, false, msgExtractorDown)
}

// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/biomech-data/biomech.coach/internal/pose"
)

// Standard capture dimensions used by the fixtures below.
const (
	FrameWidth  = 640
	FrameHeight = 720
)

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertInDelta fails the test when got differs from want by more than tol.
func AssertInDelta(t *testing.T, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("value = %v, want %v (±%v)", got, want, tol)
	}
}

// NewTestRequest creates a test HTTP request.
func NewTestRequest(method, path string, body io.Reader) *http.Request {
	return httptest.NewRequest(method, path, body)
}

// NewTestRecorder creates a test response recorder.
func NewTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

// SampleFrame returns a full 33-keypoint frame with known positions: a
// person facing the camera in a 640x720 capture, right arm raised. The
// values are fixed reference data shared across the test suite; tests must
// not mutate the returned frame's keypoints.
func SampleFrame() pose.Frame {
	return pose.Frame{
		Timestamp: 1000.0,
		IsValid:   true,
		Keypoints: []pose.Keypoint{
			{Name: "nose", X: 320.0, Y: 100.0, Score: 0.95},
			{Name: "left_eye_inner", X: 330.0, Y: 90.0, Score: 0.92},
			{Name: "left_eye", X: 335.0, Y: 90.0, Score: 0.93},
			{Name: "left_eye_outer", X: 340.0, Y: 90.0, Score: 0.91},
			{Name: "right_eye_inner", X: 310.0, Y: 90.0, Score: 0.92},
			{Name: "right_eye", X: 305.0, Y: 90.0, Score: 0.93},
			{Name: "right_eye_outer", X: 300.0, Y: 90.0, Score: 0.91},
			{Name: "left_ear", X: 350.0, Y: 95.0, Score: 0.88},
			{Name: "right_ear", X: 290.0, Y: 95.0, Score: 0.88},
			{Name: "mouth_left", X: 330.0, Y: 115.0, Score: 0.90},
			{Name: "mouth_right", X: 310.0, Y: 115.0, Score: 0.90},
			{Name: "left_shoulder", X: 380.0, Y: 180.0, Score: 0.95},
			{Name: "right_shoulder", X: 260.0, Y: 180.0, Score: 0.95},
			{Name: "left_elbow", X: 420.0, Y: 280.0, Score: 0.92},
			{Name: "right_elbow", X: 200.0, Y: 150.0, Score: 0.92},
			{Name: "left_wrist", X: 440.0, Y: 350.0, Score: 0.88},
			{Name: "right_wrist", X: 180.0, Y: 80.0, Score: 0.88},
			{Name: "left_pinky", X: 445.0, Y: 360.0, Score: 0.75},
			{Name: "right_pinky", X: 175.0, Y: 70.0, Score: 0.75},
			{Name: "left_index", X: 442.0, Y: 355.0, Score: 0.78},
			{Name: "right_index", X: 178.0, Y: 75.0, Score: 0.78},
			{Name: "left_thumb", X: 438.0, Y: 345.0, Score: 0.76},
			{Name: "right_thumb", X: 182.0, Y: 85.0, Score: 0.76},
			{Name: "left_hip", X: 360.0, Y: 380.0, Score: 0.94},
			{Name: "right_hip", X: 280.0, Y: 380.0, Score: 0.94},
			{Name: "left_knee", X: 370.0, Y: 520.0, Score: 0.93},
			{Name: "right_knee", X: 270.0, Y: 520.0, Score: 0.93},
			{Name: "left_ankle", X: 375.0, Y: 650.0, Score: 0.91},
			{Name: "right_ankle", X: 265.0, Y: 650.0, Score: 0.91},
			{Name: "left_heel", X: 378.0, Y: 670.0, Score: 0.85},
			{Name: "right_heel", X: 262.0, Y: 670.0, Score: 0.85},
			{Name: "left_foot_index", X: 385.0, Y: 680.0, Score: 0.82},
			{Name: "right_foot_index", X: 255.0, Y: 680.0, Score: 0.82},
		},
	}
}

package faceclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnroll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/enroll", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, "student-1", payload["student_id"])
		require.Equal(t, "https://cdn.example.com/face.jpg", payload["image_url"])

		json.NewEncoder(w).Encode(map[string]any{
			"student_id": "student-1",
			"success":    true,
			"message":    "enrolled",
		})
	}))
	defer server.Close()

	client := New(server.URL, false)
	result, err := client.Enroll(context.Background(), "student-1", "Asha", "https://cdn.example.com/face.jpg")

	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "student-1", result.StudentID)
}

func TestEnrollServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no face detected", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := New(server.URL, false)
	_, err := client.Enroll(context.Background(), "student-1", "Asha", "https://cdn.example.com/face.jpg")

	require.Error(t, err)
	require.Contains(t, err.Error(), "no face detected")
}

func TestEnrollRequiresImageURL(t *testing.T) {
	client := New("http://localhost:0", false)
	_, err := client.Enroll(context.Background(), "student-1", "Asha", "")
	require.Error(t, err)
}

func TestVerify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/verify", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"student_id": "student-1",
			"verified":   true,
			"similarity": 0.91,
			"threshold":  0.45,
		})
	}))
	defer server.Close()

	client := New(server.URL, false)
	result, err := client.Verify(context.Background(), "student-1", "https://cdn.example.com/frame.jpg")

	require.NoError(t, err)
	require.True(t, result.Verified)
	require.Equal(t, 0.91, result.Similarity)
}

func TestSkipModeShortCircuits(t *testing.T) {
	client := New("http://unreachable.invalid", true)

	enroll, err := client.Enroll(context.Background(), "student-1", "Asha", "")
	require.NoError(t, err)
	require.True(t, enroll.Success)

	verify, err := client.Verify(context.Background(), "student-1", "")
	require.NoError(t, err)
	require.True(t, verify.Verified)

	require.NoError(t, client.Health(context.Background()))
}

func TestHealthUnhealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(server.URL, false)
	require.Error(t, client.Health(context.Background()))
}

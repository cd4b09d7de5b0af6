package faceclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// EnrollResult is the face service's answer to an enrollment request.
type EnrollResult struct {
	StudentID string
	Success   bool
	Message   string
}

// VerifyResult is the outcome of matching a capture against an enrolled face.
type VerifyResult struct {
	StudentID  string
	Verified   bool
	Similarity float64
	Threshold  float64
}

// Client calls the face recognition microservice.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Skip    bool
}

// New creates a client. When skip is set the client returns canned success
// responses, which keeps local development working without the microservice.
func New(baseURL string, skip bool) *Client {
	return &Client{
		BaseURL: baseURL,
		Skip:    skip,
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Enroll registers a student's face image with the recognition gallery.
func (c *Client) Enroll(ctx context.Context, studentID, name, imageURL string) (*EnrollResult, error) {
	if c.Skip {
		return &EnrollResult{StudentID: studentID, Success: true, Message: "Face enrolled (mock)"}, nil
	}
	if imageURL == "" {
		return nil, fmt.Errorf("image url required")
	}

	payload := map[string]string{
		"student_id": studentID,
		"name":       name,
		"image_url":  imageURL,
	}

	var out struct {
		StudentID string `json:"student_id"`
		Success   bool   `json:"success"`
		Message   string `json:"message"`
	}
	if err := c.post(ctx, "/enroll", payload, &out); err != nil {
		return nil, err
	}

	return &EnrollResult{StudentID: out.StudentID, Success: out.Success, Message: out.Message}, nil
}

// Verify matches a captured frame against a specific enrolled student.
func (c *Client) Verify(ctx context.Context, studentID, imageURL string) (*VerifyResult, error) {
	if c.Skip {
		return &VerifyResult{StudentID: studentID, Verified: true, Similarity: 0.92, Threshold: 0.45}, nil
	}

	payload := map[string]string{
		"student_id": studentID,
		"image_url":  imageURL,
	}

	var out struct {
		StudentID  string  `json:"student_id"`
		Verified   bool    `json:"verified"`
		Similarity float64 `json:"similarity"`
		Threshold  float64 `json:"threshold"`
	}
	if err := c.post(ctx, "/verify", payload, &out); err != nil {
		return nil, err
	}

	return &VerifyResult{
		StudentID:  out.StudentID,
		Verified:   out.Verified,
		Similarity: out.Similarity,
		Threshold:  out.Threshold,
	}, nil
}

// Health checks if the face service is reachable.
func (c *Client) Health(ctx context.Context) error {
	if c.Skip {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("face service unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("face service unhealthy: %s", resp.Status)
	}

	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("face service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("face service error %s: %s", resp.Status, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

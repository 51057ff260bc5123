// Package worker implements the HTTP client for the external generation
// worker. The worker accepts jobs over two queue endpoints and acknowledges
// each with the job id that becomes the task primary key; it reports progress
// later through the callback endpoint.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	addImagePath = "/queue/addImage"
	addVideoPath = "/queue/addVideo"
)

// JobRequest is the dispatch payload. Field names follow the worker's
// contract exactly.
type JobRequest struct {
	Prompt      string `json:"Prompt"`
	StyleID     string `json:"StyleID,omitempty"`
	AssetID     string `json:"AssetID,omitempty"`
	UserID      string `json:"UserID,omitempty"`
	ImagePath   string `json:"ImagePath,omitempty"`
	Width       int    `json:"Width,omitempty"`
	Height      int    `json:"Height,omitempty"`
	AspectRatio string `json:"AspectRatio,omitempty"`
	VideoID     string `json:"VideoID,omitempty"`
}

type jobResponse struct {
	TaskID string `json:"taskId"`
	Error  string `json:"error,omitempty"`
}

// Client talks to the worker's queue endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a worker client. A timeout is mandatory: dispatch happens
// inside request handlers and must never hold them open indefinitely.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SubmitImage enqueues an image generation job and returns the worker's job id.
func (c *Client) SubmitImage(ctx context.Context, req *JobRequest) (string, error) {
	return c.submit(ctx, addImagePath, req)
}

// SubmitVideo enqueues a video generation job and returns the worker's job id.
func (c *Client) SubmitVideo(ctx context.Context, req *JobRequest) (string, error) {
	return c.submit(ctx, addVideoPath, req)
}

func (c *Client) submit(ctx context.Context, path string, req *JobRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode job request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build job request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("dispatch job: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read job response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("worker returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed jobResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode job response: %w", err)
	}
	if parsed.TaskID == "" {
		return "", fmt.Errorf("worker acknowledged without a task id: %s", string(respBody))
	}
	return parsed.TaskID, nil
}

package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientSubmit(t *testing.T) {
	t.Run("Image", func(t *testing.T) {
		var gotPath string
		var gotBody JobRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				t.Errorf("decode request: %v", err)
			}
			json.NewEncoder(w).Encode(map[string]string{"taskId": "job-42"})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, time.Second)
		id, err := client.SubmitImage(context.Background(), &JobRequest{
			Prompt:      "a lighthouse at dawn",
			UserID:      "u-1",
			Width:       1024,
			Height:      1024,
			AspectRatio: "1:1",
		})
		if err != nil {
			t.Fatalf("SubmitImage failed: %v", err)
		}
		if id != "job-42" {
			t.Errorf("Expected job-42, got %q", id)
		}
		if gotPath != "/queue/addImage" {
			t.Errorf("Expected /queue/addImage, got %q", gotPath)
		}
		if gotBody.Prompt != "a lighthouse at dawn" || gotBody.Width != 1024 {
			t.Errorf("Unexpected request body: %+v", gotBody)
		}
	})

	t.Run("Video", func(t *testing.T) {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			json.NewEncoder(w).Encode(map[string]string{"taskId": "job-v"})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, time.Second)
		id, err := client.SubmitVideo(context.Background(), &JobRequest{Prompt: "x"})
		if err != nil {
			t.Fatalf("SubmitVideo failed: %v", err)
		}
		if id != "job-v" || gotPath != "/queue/addVideo" {
			t.Errorf("Expected job-v via /queue/addVideo, got %q via %q", id, gotPath)
		}
	})

	t.Run("WorkerError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "queue full", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, time.Second)
		if _, err := client.SubmitImage(context.Background(), &JobRequest{Prompt: "x"}); err == nil {
			t.Error("Expected error on non-200 response")
		}
	})

	t.Run("EmptyTaskID", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, time.Second)
		if _, err := client.SubmitImage(context.Background(), &JobRequest{Prompt: "x"}); err == nil {
			t.Error("Expected error when the worker acknowledges without a task id")
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			json.NewEncoder(w).Encode(map[string]string{"taskId": "late"})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, 20*time.Millisecond)
		if _, err := client.SubmitImage(context.Background(), &JobRequest{Prompt: "x"}); err == nil {
			t.Error("Expected timeout error")
		}
	})
}

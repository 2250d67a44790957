package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bro/internal/domain/entity"
)

func TestRunTask_Success(t *testing.T) {
	var gotReq entity.TaskRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		answer := "Paris"
		_ = json.NewEncoder(w).Encode(entity.TaskResult{
			Status:        entity.StatusSuccess,
			Result:        &answer,
			URLsVisited:   []string{"https://en.wikipedia.org/wiki/Paris"},
			ExecutionTime: 1.2,
			StepsTaken:    3,
			Timestamp:     time.Now().UTC(),
		})
	}))
	defer srv.Close()

	client := NewClient(Config{APIURL: srv.URL, MaxSteps: 7, Timeout: 90})
	result := client.RunTask("capital of France", Config{APIURL: srv.URL, MaxSteps: 7, Timeout: 90})

	if result.Status != entity.StatusSuccess {
		t.Fatalf("expected success, got %s (%v)", result.Status, result.ErrorMessage)
	}
	if result.Result == nil || *result.Result != "Paris" {
		t.Errorf("unexpected result: %v", result.Result)
	}
	if gotReq.Task != "capital of France" || gotReq.MaxSteps != 7 || gotReq.Timeout != 90 {
		t.Errorf("request not forwarded: %+v", gotReq)
	}
}

func TestRunTask_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens here anymore

	cfg := Config{APIURL: srv.URL, MaxSteps: 5, Timeout: 30}
	result := NewClient(cfg).RunTask("anything", cfg)

	if result.Status != entity.StatusError {
		t.Fatalf("expected error status, got %s", result.Status)
	}
	if result.ErrorMessage == nil ||
		!strings.Contains(*result.ErrorMessage, "Is the service running?") ||
		!strings.Contains(*result.ErrorMessage, srv.URL) {
		t.Errorf("expected connection diagnostic with URL, got %v", result.ErrorMessage)
	}
}

func TestRunTask_ServiceErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(entity.ErrorResponse{
			Error:   "ServiceUnavailable",
			Message: "all browser slots are busy, try again later",
		})
	}))
	defer srv.Close()

	cfg := Config{APIURL: srv.URL, MaxSteps: 5, Timeout: 30}
	result := NewClient(cfg).RunTask("anything", cfg)

	if result.Status != entity.StatusError {
		t.Fatalf("expected error status, got %s", result.Status)
	}
	if result.ErrorMessage == nil || !strings.Contains(*result.ErrorMessage, "browser slots are busy") {
		t.Errorf("expected the service message to surface, got %v", result.ErrorMessage)
	}
}

func TestRunTask_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"unexpected":"shape"}`))
	}))
	defer srv.Close()

	cfg := Config{APIURL: srv.URL, MaxSteps: 5, Timeout: 30}
	result := NewClient(cfg).RunTask("anything", cfg)

	if result.Status != entity.StatusError {
		t.Fatalf("expected error status, got %s", result.Status)
	}
	if result.ErrorMessage == nil || !strings.Contains(*result.ErrorMessage, "malformed response") {
		t.Errorf("expected malformed response error, got %v", result.ErrorMessage)
	}
}

package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"bro/internal/domain/entity"
)

func TestRenderJSON_ParsesBackToResult(t *testing.T) {
	answer := "done"
	result := entity.SuccessResult(answer, []string{"https://example.com"}, 4, 2500*time.Millisecond)
	result.Timestamp = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	if err := renderJSON(&buf, result); err != nil {
		t.Fatalf("renderJSON failed: %v", err)
	}

	var parsed entity.TaskResult
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if parsed.Status != entity.StatusSuccess {
		t.Errorf("status lost in round trip: %s", parsed.Status)
	}
	if parsed.Result == nil || *parsed.Result != answer {
		t.Errorf("result lost in round trip: %v", parsed.Result)
	}
	if parsed.StepsTaken != 4 || parsed.ExecutionTime != 2.5 {
		t.Errorf("metadata lost: steps=%d time=%v", parsed.StepsTaken, parsed.ExecutionTime)
	}
}

func TestRenderJSON_FailureKeepsURLArray(t *testing.T) {
	result := entity.FailedResult("browser crashed", nil, 0, 300*time.Millisecond)

	var buf bytes.Buffer
	if err := renderJSON(&buf, result); err != nil {
		t.Fatalf("renderJSON failed: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	if string(raw["urls_visited"]) != "[]" {
		t.Errorf("urls_visited must serialize as an empty array, got %s", raw["urls_visited"])
	}
	if string(raw["result"]) != "null" {
		t.Errorf("result must be null on failure, got %s", raw["result"])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("short strings must pass through, got %q", got)
	}
	if got := truncate("abcdefghij", 4); got != "abcd..." {
		t.Errorf("expected abcd..., got %q", got)
	}
}

package entity

import (
	"errors"
	"fmt"
	"time"
)

type TaskStatus string

const (
	StatusSuccess TaskStatus = "success"
	StatusTimeout TaskStatus = "timeout"
	StatusFailed  TaskStatus = "failed"
	StatusError   TaskStatus = "error"
)

// Request bounds enforced before any browser work starts.
const (
	MaxTaskLength = 1000

	DefaultMaxSteps = 40
	MinMaxSteps     = 1
	MaxMaxSteps     = 200

	DefaultTimeoutSeconds = 300
	MinTimeoutSeconds     = 30
	MaxTimeoutSeconds     = 600
)

var (
	ErrEmptyTask       = errors.New("task must not be empty")
	ErrTaskTooLong     = fmt.Errorf("task must be at most %d characters", MaxTaskLength)
	ErrInvalidMaxSteps = fmt.Errorf("max_steps must be between %d and %d", MinMaxSteps, MaxMaxSteps)
	ErrInvalidTimeout  = fmt.Errorf("timeout must be between %d and %d seconds", MinTimeoutSeconds, MaxTimeoutSeconds)
)

type TaskRequest struct {
	Task     string `json:"task"`
	MaxSteps int    `json:"max_steps,omitempty"`
	Timeout  int    `json:"timeout,omitempty"`
}

// ApplyDefaults fills zero-valued limits. Zero means "not provided":
// the wire format omits both fields when the caller accepts the
// service defaults.
func (r *TaskRequest) ApplyDefaults() {
	if r.MaxSteps == 0 {
		r.MaxSteps = DefaultMaxSteps
	}
	if r.Timeout == 0 {
		r.Timeout = DefaultTimeoutSeconds
	}
}

func (r TaskRequest) Validate() error {
	if r.Task == "" {
		return ErrEmptyTask
	}
	if len(r.Task) > MaxTaskLength {
		return ErrTaskTooLong
	}
	if r.MaxSteps < MinMaxSteps || r.MaxSteps > MaxMaxSteps {
		return ErrInvalidMaxSteps
	}
	if r.Timeout < MinTimeoutSeconds || r.Timeout > MaxTimeoutSeconds {
		return ErrInvalidTimeout
	}
	return nil
}

// TaskResult is the fixed envelope returned to every caller regardless
// of outcome. Invariant: StatusSuccess implies Result != nil, any
// other status implies ErrorMessage != nil.
type TaskResult struct {
	Status        TaskStatus `json:"status"`
	Result        *string    `json:"result"`
	URLsVisited   []string   `json:"urls_visited"`
	ExecutionTime float64    `json:"execution_time"`
	StepsTaken    int        `json:"steps_taken"`
	ErrorMessage  *string    `json:"error_message"`
	Timestamp     time.Time  `json:"timestamp"`
}

func SuccessResult(result string, urls []string, steps int, elapsed time.Duration) TaskResult {
	return TaskResult{
		Status:        StatusSuccess,
		Result:        &result,
		URLsVisited:   normalizeURLs(urls),
		ExecutionTime: elapsed.Seconds(),
		StepsTaken:    steps,
		Timestamp:     time.Now().UTC(),
	}
}

func TimeoutResult(message string, elapsed time.Duration) TaskResult {
	return TaskResult{
		Status:        StatusTimeout,
		URLsVisited:   []string{},
		ExecutionTime: elapsed.Seconds(),
		ErrorMessage:  &message,
		Timestamp:     time.Now().UTC(),
	}
}

func FailedResult(message string, urls []string, steps int, elapsed time.Duration) TaskResult {
	return TaskResult{
		Status:        StatusFailed,
		URLsVisited:   normalizeURLs(urls),
		ExecutionTime: elapsed.Seconds(),
		StepsTaken:    steps,
		ErrorMessage:  &message,
		Timestamp:     time.Now().UTC(),
	}
}

// ErrorResult is the client-side envelope for failures that never
// reached the service (connection refused, malformed response).
func ErrorResult(message string) TaskResult {
	return TaskResult{
		Status:       StatusError,
		URLsVisited:  []string{},
		ErrorMessage: &message,
		Timestamp:    time.Now().UTC(),
	}
}

// Valid reports whether the envelope honors the status/result pairing
// invariant.
func (r TaskResult) Valid() error {
	if r.Status == StatusSuccess {
		if r.Result == nil {
			return errors.New("status=success requires a non-null result")
		}
		return nil
	}
	if r.ErrorMessage == nil {
		return fmt.Errorf("status=%s requires a non-null error_message", r.Status)
	}
	return nil
}

// normalizeURLs guarantees urls_visited marshals as a JSON array,
// never null.
func normalizeURLs(urls []string) []string {
	if urls == nil {
		return []string{}
	}
	return urls
}

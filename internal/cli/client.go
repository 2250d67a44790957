package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"bro/internal/domain/entity"
)

// Client posts one task to the service. No retries: a browsing task is
// not safe to re-run blindly.
type Client struct {
	http   *resty.Client
	apiURL string
}

func NewClient(cfg Config) *Client {
	// The HTTP timeout sits above the task timeout so the service,
	// not the transport, reports slow tasks.
	rc := resty.New().
		SetBaseURL(cfg.APIURL).
		SetTimeout(time.Duration(cfg.Timeout+10) * time.Second).
		SetHeader("Content-Type", "application/json")

	return &Client{http: rc, apiURL: cfg.APIURL}
}

func (c *Client) RunTask(task string, cfg Config) entity.TaskResult {
	var result entity.TaskResult

	resp, err := c.http.R().
		SetBody(entity.TaskRequest{
			Task:     task,
			MaxSteps: cfg.MaxSteps,
			Timeout:  cfg.Timeout,
		}).
		SetResult(&result).
		Post("/api/v1/search")

	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return entity.ErrorResult(fmt.Sprintf(
				"Cannot connect to the bro service at %s. Is the service running?", c.apiURL))
		}
		return entity.ErrorResult("malformed response from service: " + err.Error())
	}

	if resp.IsError() {
		var errResp entity.ErrorResponse
		if jsonErr := json.Unmarshal(resp.Body(), &errResp); jsonErr == nil && errResp.Message != "" {
			return entity.ErrorResult(errResp.Message)
		}
		return entity.ErrorResult(fmt.Sprintf("service returned %s", resp.Status()))
	}

	if result.Status == "" {
		return entity.ErrorResult("malformed response from service: missing status")
	}
	return result
}

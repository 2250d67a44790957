package langchain

import (
	"context"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/tools"

	"bro/internal/application/port/output"
)

const maxObservationLen = 20000

// trace accumulates what the library did with the browser during one
// run: every page it landed on and every tool invocation it spent.
type trace struct {
	mu    sync.Mutex
	urls  []string
	steps int
}

func (t *trace) recordStep() {
	t.mu.Lock()
	t.steps++
	t.mu.Unlock()
}

func (t *trace) recordURL(url string) {
	if url == "" {
		return
	}
	t.mu.Lock()
	t.urls = append(t.urls, url)
	t.mu.Unlock()
}

func (t *trace) snapshot() ([]string, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	urls := make([]string, len(t.urls))
	copy(urls, t.urls)
	return urls, t.steps
}

var (
	_ tools.Tool = (*navigateTool)(nil)
	_ tools.Tool = (*readPageTool)(nil)
)

// navigateTool lets the agent open a URL in the task's browser
// session.
type navigateTool struct {
	session output.BrowserSession
	trace   *trace
	logger  output.LoggerPort
}

func (t *navigateTool) Name() string {
	return "browser_navigate"
}

func (t *navigateTool) Description() string {
	return "Open a URL in the browser. Input: a full URL, e.g. https://example.com"
}

func (t *navigateTool) Call(ctx context.Context, input string) (string, error) {
	t.trace.recordStep()

	url := strings.TrimSpace(strings.Trim(input, `"'`))
	if url == "" {
		return "Error: empty url", nil
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	if err := t.session.Navigate(ctx, url); err != nil {
		t.logger.Warn("navigate failed", "url", url, "error", err)
		return "Error: " + err.Error(), nil
	}

	t.trace.recordURL(t.session.CurrentURL())
	return "Navigated to " + url, nil
}

// readPageTool hands the agent the cleaned content of the current
// page.
type readPageTool struct {
	session output.BrowserSession
	trace   *trace
	logger  output.LoggerPort
}

func (t *readPageTool) Name() string {
	return "browser_read_page"
}

func (t *readPageTool) Description() string {
	return "Read the content of the current page. Input is ignored. Returns cleaned page HTML."
}

func (t *readPageTool) Call(ctx context.Context, input string) (string, error) {
	t.trace.recordStep()

	text, err := t.session.PageText(ctx)
	if err != nil {
		t.logger.Warn("read page failed", "error", err)
		return "Error: " + err.Error(), nil
	}

	if len(text) > maxObservationLen {
		text = text[:maxObservationLen] + "\n... (truncated)"
	}
	return text, nil
}

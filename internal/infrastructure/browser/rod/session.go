package rod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"

	"bro/internal/application/port/output"
	"bro/internal/infrastructure/browser/rodwrapper"
)

var _ output.BrowserSession = (*Session)(nil)

// Session is one live browser bound to a single task.
type Session struct {
	id       string
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	manager  *Manager
	timeout  time.Duration

	closeOnce sync.Once
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	page := s.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("page load failed: %w", err)
	}
	page.WaitIdle(5 * time.Second)
	return nil
}

// PageText returns the cleaned body HTML of the current page, sized
// for an LLM context window.
func (s *Session) PageText(ctx context.Context) (string, error) {
	body, err := s.page.Context(ctx).Timeout(s.timeout).Element("body")
	if err != nil {
		return "", fmt.Errorf("body not found: %w", err)
	}
	raw, err := body.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read page: %w", err)
	}
	return rodwrapper.CleanHTMLForAgent(raw, nil), nil
}

func (s *Session) CurrentURL() string {
	info, err := s.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// Close shuts down the browser and kills the Chrome process. The
// launcher must be killed too, otherwise Chrome outlives the
// connection.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.browser != nil {
			_ = s.browser.Close()
		}
		if s.launcher != nil {
			s.launcher.Kill()
			s.launcher.Cleanup()
		}
		s.manager.release(s.id)
	})
}

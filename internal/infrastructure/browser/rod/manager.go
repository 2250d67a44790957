package rod

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"bro/internal/application/port/output"
)

var _ output.BrowserManager = (*Manager)(nil)

type Config struct {
	Headless      bool
	MaxConcurrent int
	SlotWait      time.Duration
	NoSandbox     bool
	InDocker      bool
	PageTimeout   time.Duration
}

func DefaultConfig() Config {
	return Config{
		Headless:      true,
		MaxConcurrent: 2,
		SlotWait:      30 * time.Second,
		NoSandbox:     true,
		PageTimeout:   10 * time.Second,
	}
}

// Manager launches one browser per task and caps how many run at once.
type Manager struct {
	cfg    Config
	logger output.LoggerPort
	slots  chan struct{}
	active atomic.Int64
}

func NewManager(cfg Config, logger output.LoggerPort) *Manager {
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	slots := make(chan struct{}, cfg.MaxConcurrent)
	for i := 0; i < cfg.MaxConcurrent; i++ {
		slots <- struct{}{}
	}
	return &Manager{
		cfg:    cfg,
		logger: logger,
		slots:  slots,
	}
}

// Acquire waits up to SlotWait for a free slot, then launches a fresh
// browser for the task. The returned session owns the slot until Close.
func (m *Manager) Acquire(ctx context.Context, taskID string) (output.BrowserSession, error) {
	waitCtx, cancel := context.WithTimeout(ctx, m.cfg.SlotWait)
	defer cancel()

	select {
	case <-m.slots:
	case <-waitCtx.Done():
		return nil, output.ErrNoCapacity
	}

	session, err := m.launch(taskID)
	if err != nil {
		m.slots <- struct{}{}
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	m.active.Add(1)
	m.logger.Info("browser launched",
		"task_id", taskID,
		"active", m.Active(),
		"max", m.cfg.MaxConcurrent,
	)
	return session, nil
}

func (m *Manager) launch(taskID string) (*Session, error) {
	l := launcher.New().
		Headless(m.cfg.Headless).
		Devtools(false).
		NoSandbox(m.cfg.NoSandbox).
		Delete("use-mock-keychain").
		Set("disable-web-security").
		Set("allow-running-insecure-content").
		Set("disable-setuid-sandbox")

	if m.cfg.InDocker {
		l = l.Set("disable-dev-shm-usage").Set("disable-gpu")
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &Session{
		id:       taskID,
		browser:  browser,
		launcher: l,
		page:     page,
		manager:  m,
		timeout:  m.cfg.PageTimeout,
	}, nil
}

func (m *Manager) Active() int {
	return int(m.active.Load())
}

func (m *Manager) Capacity() int {
	return m.cfg.MaxConcurrent
}

// release is called exactly once per session, from Session.Close.
func (m *Manager) release(taskID string) {
	m.active.Add(-1)
	m.slots <- struct{}{}
	m.logger.Info("browser closed", "task_id", taskID, "active", m.Active())
}

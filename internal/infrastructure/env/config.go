package env

import (
	"errors"
	"time"
)

// Config holds the daemon configuration read from environment
// variables.
type Config struct {
	Port        int
	Environment string

	MaxConcurrentBrowsers int
	BrowserPageTimeout    time.Duration
	HeadlessBrowser       bool
	InDocker              bool

	RateLimitRequests int
	RateLimitWindow   time.Duration

	OpenRouterAPIKey string
	OpenRouterModel  string
}

const (
	defaultPort        = 8765
	defaultMaxBrowsers = 2
	maxBrowserSlots    = 5
)

// LoadConfig reads and clamps the daemon configuration. It fails only
// on the credentials the agent library cannot run without.
func LoadConfig(e *EnvService) (Config, error) {
	cfg := Config{
		Port:                  e.GetInt("PORT", defaultPort),
		Environment:           e.GetDefault("ENVIRONMENT", "production"),
		MaxConcurrentBrowsers: clamp(e.GetInt("MAX_CONCURRENT_BROWSERS", defaultMaxBrowsers), 1, maxBrowserSlots),
		BrowserPageTimeout:    e.GetDuration("BROWSER_TIMEOUT", 10*time.Second),
		HeadlessBrowser:       e.GetBool("HEADLESS_BROWSER", true),
		InDocker:              e.GetBool("IN_DOCKER", false),
		RateLimitRequests:     e.GetInt("RATE_LIMIT_REQUESTS", 10),
		RateLimitWindow:       e.GetDuration("RATE_LIMIT_WINDOW", 60*time.Second),
		OpenRouterAPIKey:      e.Get("OPENROUTER_API_KEY"),
		OpenRouterModel:       e.GetDefault("OPENROUTER_MODEL_NAME", "openai/gpt-4o-mini"),
	}

	// Headless is forced inside containers, there is no display to
	// attach to.
	if cfg.InDocker {
		cfg.HeadlessBrowser = true
	}

	if cfg.OpenRouterAPIKey == "" {
		return Config{}, errors.New("OPENROUTER_API_KEY is missing")
	}

	return cfg, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

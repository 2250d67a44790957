package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultAPIURL   = "http://localhost:8765"
	DefaultMaxSteps = 10
	DefaultTimeout  = 120

	configFileName = ".broconfig"
	envAPIURL      = "BRO_API_URL"
)

// Config is the small persisted CLI configuration. The API URL may be
// overridden per invocation with BRO_API_URL.
type Config struct {
	APIURL   string `json:"api_url"`
	MaxSteps int    `json:"max_steps"`
	Timeout  int    `json:"timeout"`
}

func defaultConfig() Config {
	return Config{
		APIURL:   DefaultAPIURL,
		MaxSteps: DefaultMaxSteps,
		Timeout:  DefaultTimeout,
	}
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate home directory: %w", err)
	}
	return filepath.Join(home, configFileName), nil
}

// LoadConfig merges defaults, the config file and the environment
// override, in that order. A broken config file is ignored rather than
// fatal.
func LoadConfig() Config {
	cfg := defaultConfig()
	if path, err := configPath(); err == nil {
		cfg = loadFrom(path)
	}
	return applyEnv(cfg)
}

func loadFrom(path string) Config {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	_ = json.Unmarshal(data, &cfg)
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return cfg
}

func applyEnv(cfg Config) Config {
	if url := os.Getenv(envAPIURL); url != "" {
		cfg.APIURL = url
	}
	return cfg
}

// envOverridden reports whether the API URL comes from the
// environment rather than the config file.
func envOverridden() bool {
	return os.Getenv(envAPIURL) != ""
}

func (c Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	return c.saveTo(path)
}

func (c Config) saveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

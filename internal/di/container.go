package di

import (
	"fmt"

	"bro/internal/application/port/input"
	"bro/internal/application/port/output"
	"bro/internal/application/usecase"
	"bro/internal/infrastructure/agent/langchain"
	rodbrowser "bro/internal/infrastructure/browser/rod"
	"bro/internal/infrastructure/env"
	"bro/internal/infrastructure/logger"
	"bro/internal/server"
)

type Container struct {
	Config   env.Config
	Logger   output.LoggerPort
	Browser  output.BrowserManager
	Agent    output.AgentPort
	Executor input.TaskExecutor
	Server   *server.Server
}

func NewContainer(cfg env.Config) (*Container, error) {
	log, err := logger.NewZapAdapter(cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	browserCfg := rodbrowser.DefaultConfig()
	browserCfg.Headless = cfg.HeadlessBrowser
	browserCfg.MaxConcurrent = cfg.MaxConcurrentBrowsers
	browserCfg.InDocker = cfg.InDocker
	if cfg.BrowserPageTimeout > 0 {
		browserCfg.PageTimeout = cfg.BrowserPageTimeout
	}
	browser := rodbrowser.NewManager(browserCfg, log)

	agentCfg := langchain.DefaultConfig(cfg.OpenRouterAPIKey, cfg.OpenRouterModel)
	agent := langchain.NewAdapter(agentCfg, log)

	executor := usecase.NewExecuteTaskUseCase(agent, browser, log)

	handler := server.NewHandler(executor, browser, cfg, log)
	srv := server.New(handler, cfg, log)

	return &Container{
		Config:   cfg,
		Logger:   log,
		Browser:  browser,
		Agent:    agent,
		Executor: executor,
		Server:   srv,
	}, nil
}

func (c *Container) Close() {
	if c.Logger != nil {
		_ = c.Logger.Close()
	}
}

package langchain

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/agents"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/tools"

	"bro/internal/application/port/output"
	"bro/internal/domain/entity"
)

var _ output.AgentPort = (*Adapter)(nil)

// Adapter delegates the browsing loop to the langchaingo agent
// executor. This repository contributes only the browser bindings and
// the run accounting; action selection happens inside the library.
type Adapter struct {
	cfg    Config
	logger output.LoggerPort
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

func DefaultConfig(apiKey, model string) Config {
	return Config{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: "https://openrouter.ai/api/v1",
	}
}

func NewAdapter(cfg Config, logger output.LoggerPort) *Adapter {
	return &Adapter{cfg: cfg, logger: logger}
}

func (a *Adapter) Run(ctx context.Context, task string, maxSteps int, session output.BrowserSession) (*entity.AgentRun, error) {
	llm, err := openai.New(
		openai.WithToken(a.cfg.APIKey),
		openai.WithModel(a.cfg.Model),
		openai.WithBaseURL(a.cfg.BaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("init llm: %w", err)
	}

	tr := &trace{}
	agentTools := []tools.Tool{
		&navigateTool{session: session, trace: tr, logger: a.logger},
		&readPageTool{session: session, trace: tr, logger: a.logger},
	}

	agent := agents.NewOneShotAgent(llm, agentTools, agents.WithMaxIterations(maxSteps))
	executor := agents.NewExecutor(agent, agents.WithMaxIterations(maxSteps))

	answer, err := chains.Run(ctx, executor, task)
	urls, steps := tr.snapshot()

	if err != nil {
		// Exhausting the step budget is a regular outcome, not an
		// infrastructure error.
		if errors.Is(err, agents.ErrNotFinished) {
			return &entity.AgentRun{
				URLsVisited: urls,
				StepsTaken:  steps,
				Done:        false,
			}, nil
		}
		// Partial accounting still matters to the caller on failure.
		return &entity.AgentRun{
			URLsVisited: urls,
			StepsTaken:  steps,
		}, fmt.Errorf("agent run failed: %w", err)
	}

	return &entity.AgentRun{
		FinalAnswer: answer,
		URLsVisited: urls,
		StepsTaken:  steps,
		Done:        true,
	}, nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bro/internal/application/port/input"
	"bro/internal/application/port/output"
	"bro/internal/domain/entity"

	"github.com/google/uuid"
)

var _ input.TaskExecutor = (*ExecuteTaskUseCase)(nil)

type ExecuteTaskUseCase struct {
	agent   output.AgentPort
	browser output.BrowserManager
	logger  output.LoggerPort
}

func NewExecuteTaskUseCase(
	agent output.AgentPort,
	browser output.BrowserManager,
	logger output.LoggerPort,
) *ExecuteTaskUseCase {
	return &ExecuteTaskUseCase{
		agent:   agent,
		browser: browser,
		logger:  logger,
	}
}

type runOutcome struct {
	run *entity.AgentRun
	err error
}

// Execute validates the request, acquires a browser session and runs
// the external agent under the request's deadline. The session is
// closed on every exit path.
func (uc *ExecuteTaskUseCase) Execute(ctx context.Context, req entity.TaskRequest) (entity.TaskResult, error) {
	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		return entity.TaskResult{}, err
	}

	taskID := uuid.NewString()
	log := uc.logger.WithField("task_id", taskID)
	start := time.Now()

	log.Info("task started",
		"task", truncateTask(req.Task),
		"max_steps", req.MaxSteps,
		"timeout_s", req.Timeout,
	)

	session, err := uc.browser.Acquire(ctx, taskID)
	if err != nil {
		log.Warn("browser acquire failed", "error", err)
		return entity.TaskResult{}, err
	}
	defer session.Close()

	timeout := time.Duration(req.Timeout) * time.Second
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan runOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- runOutcome{err: fmt.Errorf("agent panicked: %v", r)}
			}
		}()
		run, runErr := uc.agent.Run(runCtx, req.Task, req.MaxSteps, session)
		done <- runOutcome{run: run, err: runErr}
	}()

	select {
	case <-runCtx.Done():
		elapsed := time.Since(start)
		log.Warn("task timed out", "elapsed_s", elapsed.Seconds())
		return entity.TimeoutResult(
			fmt.Sprintf("task execution exceeded timeout of %d seconds", req.Timeout),
			elapsed,
		), nil

	case out := <-done:
		elapsed := time.Since(start)
		if out.err != nil {
			if errors.Is(out.err, context.DeadlineExceeded) {
				log.Warn("task timed out", "elapsed_s", elapsed.Seconds())
				return entity.TimeoutResult(
					fmt.Sprintf("task execution exceeded timeout of %d seconds", req.Timeout),
					elapsed,
				), nil
			}
			log.Error("task failed", "error", out.err, "elapsed_s", elapsed.Seconds())
			var urls []string
			var steps int
			if out.run != nil {
				urls = out.run.URLsVisited
				steps = out.run.StepsTaken
			}
			return entity.FailedResult(out.err.Error(), urls, steps, elapsed), nil
		}
		if !out.run.Done {
			log.Warn("task exhausted step budget", "steps", out.run.StepsTaken)
			return entity.FailedResult(
				fmt.Sprintf("agent did not finish within %d steps", req.MaxSteps),
				out.run.URLsVisited,
				out.run.StepsTaken,
				elapsed,
			), nil
		}
		log.Info("task completed",
			"steps", out.run.StepsTaken,
			"urls", len(out.run.URLsVisited),
			"elapsed_s", elapsed.Seconds(),
		)
		return entity.SuccessResult(out.run.FinalAnswer, out.run.URLsVisited, out.run.StepsTaken, elapsed), nil
	}
}

func truncateTask(task string) string {
	if len(task) <= 100 {
		return task
	}
	return task[:100] + "..."
}

package input

import (
	"context"

	"bro/internal/domain/entity"
)

// TaskExecutor runs one browsing task end to end and folds every run
// outcome (success, timeout, agent failure) into the result envelope.
// An error is returned only when the task never started: validation
// failure or no browser capacity.
type TaskExecutor interface {
	Execute(ctx context.Context, req entity.TaskRequest) (entity.TaskResult, error)
}

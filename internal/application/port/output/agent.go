package output

import (
	"context"

	"bro/internal/domain/entity"
)

// AgentPort is the external agent-run primitive: hand the library a
// task, a step budget and a browser session, get back the final text,
// visited URLs, step count and a completion flag. The browsing loop
// itself lives entirely behind this port.
type AgentPort interface {
	Run(ctx context.Context, task string, maxSteps int, session BrowserSession) (*entity.AgentRun, error)
}

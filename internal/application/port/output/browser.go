package output

import (
	"context"
	"errors"
)

// ErrNoCapacity is returned by Acquire when no browser slot frees up
// within the manager's wait bound.
var ErrNoCapacity = errors.New("no browser slots available")

// BrowserSession is one live browser handed to the agent for a single
// task. Close must be safe to call on every exit path, including after
// a failed run, and must release the underlying Chrome process.
type BrowserSession interface {
	Navigate(ctx context.Context, url string) error
	PageText(ctx context.Context) (string, error)
	CurrentURL() string
	Close()
}

// BrowserManager caps how many sessions exist at once.
type BrowserManager interface {
	Acquire(ctx context.Context, taskID string) (BrowserSession, error)
	Active() int
	Capacity() int
}

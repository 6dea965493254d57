package worker

import (
	"context"
)

// Worker is a long-running background process owned by a Manager.
type Worker interface {
	// Start blocks until the worker is stopped or ctx is done.
	Start(ctx context.Context) error

	Stop() error

	Name() string
}

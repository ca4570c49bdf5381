// Package workers runs the long-lived background loops of the client (the
// network monitor, the sync engine and the failed-record pruner) under one
// context.
package workers

import "context"

// Worker is a background loop. Run blocks until ctx is done or the loop
// fails; a nil error means a clean stop.
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc adapts a function to [Worker].
type WorkerFunc func(ctx context.Context) error

func (f WorkerFunc) Run(ctx context.Context) error {
	return f(ctx)
}

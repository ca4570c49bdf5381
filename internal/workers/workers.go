package workers

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-workout-keeper/internal/logger"
)

type Workers struct {
	workers map[string]Worker
	order   []string

	logger *logger.Logger
}

func NewWorkers(logger *logger.Logger) *Workers {
	return &Workers{
		workers: make(map[string]Worker),
		logger:  logger,
	}
}

// Add registers w under name. A name registered twice keeps the last worker.
func (w *Workers) Add(name string, worker Worker) *Workers {
	if _, ok := w.workers[name]; !ok {
		w.order = append(w.order, name)
	}
	w.workers[name] = worker
	return w
}

// Run starts every worker and waits for all of them. The first failure
// cancels the others and is returned.
func (w *Workers) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	for _, name := range w.order {
		worker := w.workers[name]
		group.Go(func() error {
			w.logger.Info().Str("func", "Workers.Run").Str("worker", name).Msg("worker started")

			if err := worker.Run(ctx); err != nil {
				w.logger.Err(err).Str("func", "Workers.Run").Str("worker", name).Msg("worker failed")
				return fmt.Errorf("worker %s: %w", name, err)
			}

			w.logger.Info().Str("func", "Workers.Run").Str("worker", name).Msg("worker stopped")
			return nil
		})
	}

	return group.Wait()
}

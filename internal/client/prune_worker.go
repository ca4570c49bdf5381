package client

import (
	"context"
	"time"

	"github.com/MKhiriev/go-workout-keeper/internal/service"
	"github.com/MKhiriev/go-workout-keeper/internal/workers"
)

// PruneWorker runs one retention pass at startup and then keeps job running
// every interval until ctx is done.
func PruneWorker(job service.ClientPruneJob, interval time.Duration) workers.Worker {
	return workers.WorkerFunc(func(ctx context.Context) error {
		if _, err := job.PruneNow(ctx); err != nil && ctx.Err() == nil {
			return err
		}

		job.Start(ctx, interval)
		<-ctx.Done()
		job.Stop()
		return nil
	})
}

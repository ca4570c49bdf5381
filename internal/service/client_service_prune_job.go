package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-workout-keeper/internal/logger"
)

// FailedPruner removes failed mutations whose last attempt is older than a
// cutoff.
type FailedPruner interface {
	PruneFailedBefore(ctx context.Context, t time.Time) (int64, error)
}

type clientPruneJob struct {
	store     FailedPruner
	status    StatusRecomputer
	retention time.Duration
	now       func() time.Time
	logger    *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClientPruneJob creates a job that prunes failed mutations older than
// retention. A non-positive retention disables pruning. The job is idle
// until Start is called.
func NewClientPruneJob(store FailedPruner, status StatusRecomputer, retention time.Duration, logger *logger.Logger) ClientPruneJob {
	return &clientPruneJob{
		store:     store,
		status:    status,
		retention: retention,
		now:       time.Now,
		logger:    logger,
	}
}

func (j *clientPruneJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				_, _ = j.PruneNow(jobCtx)
			}
		}
	}()
}

// Stop is safe to call when the job is not running.
func (j *clientPruneJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

func (j *clientPruneJob) PruneNow(ctx context.Context) (int64, error) {
	if j.retention <= 0 {
		return 0, nil
	}

	n, err := j.store.PruneFailedBefore(ctx, j.now().Add(-j.retention))
	if err != nil {
		j.logger.Err(err).Str("func", "clientPruneJob.PruneNow").Msg("error pruning failed mutations")
		return 0, err
	}

	if n > 0 {
		j.logger.Info().Str("func", "clientPruneJob.PruneNow").Int64("count", n).Msg("failed mutations pruned")
		j.status.Recompute(ctx)
	}
	return n, nil
}

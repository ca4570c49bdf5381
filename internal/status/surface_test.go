package status

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/models"
)

type fakeCounter struct {
	mu     sync.Mutex
	counts models.StatusCounts
	err    error
}

func (c *fakeCounter) set(counts models.StatusCounts, err error) {
	c.mu.Lock()
	c.counts, c.err = counts, err
	c.mu.Unlock()
}

func (c *fakeCounter) CountByStatus(context.Context) (models.StatusCounts, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts, c.err
}

type flag struct{ v atomic.Bool }

func (f *flag) IsOnline() bool { return f.v.Load() }
func (f *flag) Raised() bool   { return f.v.Load() }

func newTestSurface() (*Surface, *fakeCounter, *flag, *flag) {
	counter := &fakeCounter{counts: models.StatusCounts{}}
	online, reauth := &flag{}, &flag{}
	return NewSurface(counter, online, reauth, logger.Nop()), counter, online, reauth
}

func TestSurface_InitialSnapshot(t *testing.T) {
	s, _, _, _ := newTestSurface()
	assert.Equal(t, models.SyncStatusSnapshot{EngineState: models.EngineIdle}, s.Snapshot())
}

func TestSurface_RecomputeAggregates(t *testing.T) {
	s, counter, online, reauth := newTestSurface()
	counter.set(models.StatusCounts{
		models.StatusPending:  3,
		models.StatusInFlight: 2,
		models.StatusFailed:   1,
	}, nil)
	online.v.Store(true)
	reauth.v.Store(true)

	s.SetEngineState(context.Background(), models.EngineDraining)

	got := s.Snapshot()
	assert.Equal(t, 5, got.PendingCount, "pending counts pending and in flight")
	assert.Equal(t, 1, got.FailedCount)
	assert.True(t, got.IsSyncing)
	assert.True(t, got.IsOnline)
	assert.True(t, got.NeedsReauth)
	assert.Equal(t, models.EngineDraining, got.EngineState)

	s.SetEngineState(context.Background(), models.EnginePaused)
	assert.False(t, s.Snapshot().IsSyncing)
}

func TestSurface_CountErrorKeepsPreviousCounts(t *testing.T) {
	s, counter, _, _ := newTestSurface()
	counter.set(models.StatusCounts{models.StatusPending: 4}, nil)
	s.Recompute(context.Background())

	counter.set(nil, errors.New("database is locked"))
	got := s.Recompute(context.Background())

	assert.Equal(t, 4, got.PendingCount)
}

func TestSurface_SubscribeReceivesCurrentThenChanges(t *testing.T) {
	s, counter, _, _ := newTestSurface()
	ch, cancel := s.Subscribe(4)
	defer cancel()

	first := <-ch
	assert.Zero(t, first.PendingCount)

	counter.set(models.StatusCounts{models.StatusPending: 1}, nil)
	s.Recompute(context.Background())
	s.Recompute(context.Background()) // unchanged, not published

	second := <-ch
	assert.Equal(t, 1, second.PendingCount)
	assert.Empty(t, ch)
}

func TestSurface_SlowSubscriberGetsLatest(t *testing.T) {
	s, counter, _, _ := newTestSurface()
	ch, cancel := s.Subscribe(1)
	defer cancel()

	for i := 1; i <= 10; i++ {
		counter.set(models.StatusCounts{models.StatusPending: i}, nil)
		s.Recompute(context.Background())
	}

	require.Len(t, ch, 1)
	assert.Equal(t, 10, (<-ch).PendingCount)
}

func TestSurface_CancelClosesChannel(t *testing.T) {
	s, counter, _, _ := newTestSurface()
	ch, cancel := s.Subscribe(1)
	<-ch

	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)

	counter.set(models.StatusCounts{models.StatusFailed: 1}, nil)
	assert.NotPanics(t, func() { s.Recompute(context.Background()) })
}

// blockingCounter holds its first read until release is closed and answers
// that read with a stale count.
type blockingCounter struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (c *blockingCounter) CountByStatus(context.Context) (models.StatusCounts, error) {
	if c.calls.Add(1) == 1 {
		close(c.entered)
		<-c.release
		return models.StatusCounts{models.StatusPending: 1}, nil
	}
	return models.StatusCounts{}, nil
}

func TestSurface_SlowRecomputeDoesNotOverwriteNewer(t *testing.T) {
	counter := &blockingCounter{entered: make(chan struct{}), release: make(chan struct{})}
	s := NewSurface(counter, nil, nil, logger.Nop())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.Recompute(context.Background())
	}()
	<-counter.entered

	go func() {
		defer wg.Done()
		s.Recompute(context.Background())
	}()

	// the second read waits for the first one to publish
	assert.Never(t, func() bool { return counter.calls.Load() > 1 }, 50*time.Millisecond, 5*time.Millisecond)
	s.Snapshot() // not blocked by a running recompute

	close(counter.release)
	wg.Wait()

	assert.Equal(t, int32(2), counter.calls.Load())
	assert.Equal(t, 0, s.Snapshot().PendingCount)
}

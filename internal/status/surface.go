// Package status publishes the aggregate sync status read by the
// presentation layer.
//
// The Surface is a read model: the engine and the mutation service ask it to
// recompute after they change state, consumers only read snapshots. Slow
// subscribers lose stale snapshots and never block a publisher.
package status

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/models"
)

// Counter returns the number of stored mutation records per status.
type Counter interface {
	CountByStatus(ctx context.Context) (models.StatusCounts, error)
}

// NetworkState reports the last observed network value.
type NetworkState interface {
	IsOnline() bool
}

// AuthState reports whether re-authentication is required.
type AuthState interface {
	Raised() bool
}

type Surface struct {
	counter Counter
	network NetworkState
	auth    AuthState
	logger  *logger.Logger

	// recomputeMu orders count reads with their publication so an older
	// read never overwrites a newer one.
	recomputeMu sync.Mutex

	mu          sync.Mutex
	snapshot    models.SyncStatusSnapshot
	engineState models.EngineState
	subscribers map[uint64]chan models.SyncStatusSnapshot
	nextID      uint64
}

func NewSurface(counter Counter, network NetworkState, auth AuthState, logger *logger.Logger) *Surface {
	return &Surface{
		counter:     counter,
		network:     network,
		auth:        auth,
		logger:      logger,
		engineState: models.EngineIdle,
		snapshot:    models.SyncStatusSnapshot{EngineState: models.EngineIdle},
		subscribers: make(map[uint64]chan models.SyncStatusSnapshot),
	}
}

// Snapshot returns the last published status.
func (s *Surface) Snapshot() models.SyncStatusSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Subscribe returns a channel that receives the current snapshot followed
// by every change. The channel holds at most buffer snapshots (at least
// one); when it is full the oldest one is dropped. cancel closes the
// channel.
func (s *Surface) Subscribe(buffer int) (<-chan models.SyncStatusSnapshot, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan models.SyncStatusSnapshot, buffer)

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subscribers[id] = ch
	ch <- s.snapshot
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			close(ch)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

// SetEngineState records the engine position and republishes.
func (s *Surface) SetEngineState(ctx context.Context, state models.EngineState) {
	s.mu.Lock()
	s.engineState = state
	s.mu.Unlock()

	s.Recompute(ctx)
}

// Recompute reads current counts and flags and publishes a new snapshot if
// anything changed. When counting fails the previous counts are kept.
// Concurrent calls run one at a time; Snapshot is not blocked meanwhile.
func (s *Surface) Recompute(ctx context.Context) models.SyncStatusSnapshot {
	s.recomputeMu.Lock()
	defer s.recomputeMu.Unlock()

	counts, err := s.counter.CountByStatus(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot
	if err != nil {
		s.logger.Err(err).Str("func", "Surface.Recompute").Msg("error counting mutations, keeping previous counts")
	} else {
		next.PendingCount = counts.Pending()
		next.FailedCount = counts.Failed()
	}
	next.EngineState = s.engineState
	next.IsSyncing = s.engineState == models.EngineDraining
	if s.network != nil {
		next.IsOnline = s.network.IsOnline()
	}
	if s.auth != nil {
		next.NeedsReauth = s.auth.Raised()
	}

	if next != s.snapshot {
		s.snapshot = next
		s.publish(next)
	}
	return next
}

// publish must be called with s.mu held.
func (s *Surface) publish(snapshot models.SyncStatusSnapshot) {
	for _, ch := range s.subscribers {
		select {
		case ch <- snapshot:
			continue
		default:
		}

		// full: drop the oldest value and retry once
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}

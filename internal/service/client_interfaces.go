package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-workout-keeper/models"
)

// ClientMutationService is the write path of the presentation layer. Every
// local change is committed here and survives process restarts until it is
// delivered.
type ClientMutationService interface {
	// Commit validates and serializes the draft, persists it as a pending
	// mutation and asks the engine to drain. It returns the stored record;
	// the draft of a create without an id is given a generated one.
	Commit(ctx context.Context, request models.CommitRequest) (models.MutationRecord, error)

	// Discard drops a pending or failed mutation. Discarding an unknown id
	// succeeds; a mutation being delivered cannot be discarded.
	Discard(ctx context.Context, clientID string) error

	// Retry returns one failed mutation to pending.
	Retry(ctx context.Context, clientID string) error

	// RetryFailed returns every failed mutation to pending.
	RetryFailed(ctx context.Context) (int, error)
}

// ClientAuthService establishes the session used by the sync engine and
// re-establishes it after the remote service rejects the token.
type ClientAuthService interface {
	Register(ctx context.Context, user models.User) error

	// Login authenticates, stores the token in the adapter, clears the
	// unauthorized signal and resumes the engine.
	Login(ctx context.Context, user models.User) error

	// EnsureSession logs in with the remembered credentials when there is
	// no token or it has expired locally.
	EnsureSession(ctx context.Context) error

	// Watch installs the reaction to the unauthorized signal: a background
	// re-login with the remembered credentials. The returned func removes it.
	Watch(ctx context.Context) (cancel func())
}

// ClientPruneJob removes failed mutations older than the retention period.
type ClientPruneJob interface {
	// Start launches the background goroutine. It prunes every interval,
	// defaulting to one hour if interval is zero or negative. Any previously
	// running job is stopped before the new one begins.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it has
	// fully terminated.
	Stop()

	// PruneNow runs one pass and returns the number of removed records.
	PruneNow(ctx context.Context) (int64, error)
}

package store

import (
	"context"
	"iter"
	"time"

	"github.com/MKhiriev/go-workout-keeper/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// MutationStore is the durable, device-local mutation store. Every write is
// committed before the method returns.
type MutationStore interface {
	// Append persists a new record. It fails with [ErrDuplicateClientID] if
	// the client id exists or ever existed.
	Append(ctx context.Context, record models.MutationRecord) (models.MutationRecord, error)

	// Update applies patch to the record atomically and returns the result.
	Update(ctx context.Context, clientID string, patch models.MutationPatch) (models.MutationRecord, error)

	// Remove deletes the record. Removing an absent record is not an error.
	Remove(ctx context.Context, clientID string) error

	Get(ctx context.Context, clientID string) (models.MutationRecord, error)

	// ListByStatus lazily yields records in one of statuses ordered by
	// creation time. Each range over the sequence runs a fresh query.
	ListByStatus(ctx context.Context, statuses ...models.MutationStatus) iter.Seq2[models.MutationRecord, error]

	CountByStatus(ctx context.Context) (models.StatusCounts, error)

	// ClaimPending flips up to limit eligible pending records to in_flight
	// in one write transaction and returns them. A record is eligible when
	// no earlier record of the same entity is still stored.
	ClaimPending(ctx context.Context, limit int, now time.Time) ([]models.MutationRecord, error)

	// ResetInFlight returns records left in_flight by an interrupted
	// process to pending.
	ResetInFlight(ctx context.Context) (int64, error)

	// PruneFailedBefore removes failed records whose last attempt happened
	// before t.
	PruneFailedBefore(ctx context.Context, t time.Time) (int64, error)
}

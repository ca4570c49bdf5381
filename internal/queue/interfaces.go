package queue

import (
	"context"
	"time"

	"github.com/MKhiriev/go-workout-keeper/models"
)

// Queue is the delivery-state view over the durable mutation store.
// Every method persists its transition before returning.
type Queue interface {
	// Enqueue admits record as pending. The client id must be new.
	Enqueue(ctx context.Context, record models.MutationRecord) (models.MutationRecord, error)

	// NextBatch claims up to max pending records in creation order and marks
	// them in flight. Records whose predecessor on the same entity has not
	// been delivered yet stay pending.
	NextBatch(ctx context.Context, max int) ([]models.MutationRecord, error)

	// Ack marks an in-flight record delivered and prunes it.
	Ack(ctx context.Context, clientID, serverID string) error

	// Fail marks an in-flight record failed, counts the attempt and records
	// the classified cause. A nil nextAttemptAt means no automatic retry.
	Fail(ctx context.Context, clientID string, class models.ErrorClass, cause error, nextAttemptAt *time.Time) (models.MutationRecord, error)

	// Requeue moves a failed record back to pending.
	Requeue(ctx context.Context, clientID string) error

	// Release returns an in-flight record to pending without counting an
	// attempt.
	Release(ctx context.Context, clientID string) error

	// Discard drops a record that is not in flight.
	Discard(ctx context.Context, clientID string) error

	// DueForRetry lists failed records whose backoff elapsed at now and that
	// have attempts left.
	DueForRetry(ctx context.Context, now time.Time) ([]models.MutationRecord, error)

	// RequeueDue requeues every record returned by DueForRetry and reports
	// how many were moved.
	RequeueDue(ctx context.Context, now time.Time) (int, error)

	// RequeueFailed moves every failed record back to pending, whatever its
	// error class or attempt count.
	RequeueFailed(ctx context.Context) (int, error)

	// NextRetryAt returns the earliest backoff deadline among failed records
	// with attempts left, or nil when there is none.
	NextRetryAt(ctx context.Context) (*time.Time, error)

	// Recover returns records left in flight by a previous process to
	// pending.
	Recover(ctx context.Context) (int64, error)
}

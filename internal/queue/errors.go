package queue

import "errors"

var (
	// ErrAlreadyQueued is returned by Enqueue when a record with the same
	// client id is still pending or in flight.
	ErrAlreadyQueued = errors.New("mutation is already queued")

	// ErrNotFailed is returned by Requeue for a record that is not failed.
	ErrNotFailed = errors.New("mutation is not failed")

	// ErrNotInFlight is returned by Ack, Fail and Release for a record that
	// was not claimed by NextBatch.
	ErrNotInFlight = errors.New("mutation is not in flight")

	// ErrDiscardInFlight is returned by Discard while a delivery of the
	// record may still be running.
	ErrDiscardInFlight = errors.New("cannot discard a mutation in flight")
)

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package queue tracks the delivery state of mutation records on top of the
// durable mutation store.
//
// A record moves through the states
//
//	pending -> in_flight -> synced (pruned)
//	                     -> failed -> pending
//	                     -> pending (released, not delivered)
//
// and every transition is a conditional store update, so a record claimed by
// one drain cycle cannot be acknowledged or failed twice.
package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/internal/store"
	"github.com/MKhiriev/go-workout-keeper/models"
)

type syncQueue struct {
	store       store.MutationStore
	maxAttempts int
	now         func() time.Time
	logger      *logger.Logger
}

// NewQueue returns a Queue over mutationStore. Failed records with
// maxAttempts or more attempts are never returned by DueForRetry; a
// non-positive maxAttempts removes that limit.
func NewQueue(mutationStore store.MutationStore, maxAttempts int, logger *logger.Logger) Queue {
	return &syncQueue{
		store:       mutationStore,
		maxAttempts: maxAttempts,
		now:         time.Now,
		logger:      logger,
	}
}

func (q *syncQueue) Enqueue(ctx context.Context, record models.MutationRecord) (models.MutationRecord, error) {
	record.Status = models.StatusPending
	record.Attempt = 0
	record.LastErrorClass = models.ErrorClassNone
	record.LastError = ""
	record.LastAttemptAt = nil
	record.NextAttemptAt = nil

	stored, err := q.store.Append(ctx, record)
	if err == nil {
		return stored, nil
	}

	if errors.Is(err, store.ErrDuplicateClientID) {
		existing, getErr := q.store.Get(ctx, record.ClientID)
		if getErr == nil && (existing.Status == models.StatusPending || existing.Status == models.StatusInFlight) {
			return models.MutationRecord{}, fmt.Errorf("%w: %w", ErrAlreadyQueued, err)
		}
	}

	q.logger.Err(err).Str("func", "syncQueue.Enqueue").Str("client_id", record.ClientID).Msg("error enqueueing mutation")
	return models.MutationRecord{}, err
}

func (q *syncQueue) NextBatch(ctx context.Context, max int) ([]models.MutationRecord, error) {
	if max <= 0 {
		return nil, nil
	}

	records, err := q.store.ClaimPending(ctx, max, q.now())
	if err != nil {
		q.logger.Err(err).Str("func", "syncQueue.NextBatch").Msg("error claiming pending mutations")
		return nil, err
	}

	return records, nil
}

func (q *syncQueue) Ack(ctx context.Context, clientID, serverID string) error {
	synced := models.StatusSynced
	patch := models.MutationPatch{
		ExpectStatus: []models.MutationStatus{models.StatusInFlight},
		Status:       &synced,
	}
	if serverID != "" {
		patch.ID = &serverID
	}

	if _, err := q.store.Update(ctx, clientID, patch); err != nil {
		return q.transitionError("syncQueue.Ack", clientID, ErrNotInFlight, err)
	}

	if err := q.store.Remove(ctx, clientID); err != nil {
		q.logger.Err(err).Str("func", "syncQueue.Ack").Str("client_id", clientID).Msg("error pruning synced mutation")
		return err
	}

	return nil
}

func (q *syncQueue) Fail(ctx context.Context, clientID string, class models.ErrorClass, cause error, nextAttemptAt *time.Time) (models.MutationRecord, error) {
	current, err := q.store.Get(ctx, clientID)
	if err != nil {
		return models.MutationRecord{}, q.transitionError("syncQueue.Fail", clientID, ErrNotInFlight, err)
	}

	failed := models.StatusFailed
	attempt := current.Attempt + 1
	message := ""
	if cause != nil {
		message = cause.Error()
	}

	patch := models.MutationPatch{
		ExpectStatus:   []models.MutationStatus{models.StatusInFlight},
		Status:         &failed,
		Attempt:        &attempt,
		LastErrorClass: &class,
		LastError:      &message,
	}
	if nextAttemptAt != nil {
		patch.NextAttemptAt = nextAttemptAt
	} else {
		patch.ClearNextAttemptAt = true
	}

	updated, err := q.store.Update(ctx, clientID, patch)
	if err != nil {
		return models.MutationRecord{}, q.transitionError("syncQueue.Fail", clientID, ErrNotInFlight, err)
	}

	return updated, nil
}

func (q *syncQueue) Requeue(ctx context.Context, clientID string) error {
	pending := models.StatusPending
	_, err := q.store.Update(ctx, clientID, models.MutationPatch{
		ExpectStatus:       []models.MutationStatus{models.StatusFailed},
		Status:             &pending,
		ClearNextAttemptAt: true,
	})
	if err != nil {
		return q.transitionError("syncQueue.Requeue", clientID, ErrNotFailed, err)
	}

	return nil
}

func (q *syncQueue) Release(ctx context.Context, clientID string) error {
	pending := models.StatusPending
	_, err := q.store.Update(ctx, clientID, models.MutationPatch{
		ExpectStatus: []models.MutationStatus{models.StatusInFlight},
		Status:       &pending,
	})
	if err != nil {
		return q.transitionError("syncQueue.Release", clientID, ErrNotInFlight, err)
	}

	return nil
}

func (q *syncQueue) Discard(ctx context.Context, clientID string) error {
	current, err := q.store.Get(ctx, clientID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if current.Status == models.StatusInFlight {
		return ErrDiscardInFlight
	}

	if err = q.store.Remove(ctx, clientID); err != nil {
		q.logger.Err(err).Str("func", "syncQueue.Discard").Str("client_id", clientID).Msg("error discarding mutation")
		return err
	}

	q.logger.Info().Str("func", "syncQueue.Discard").Str("client_id", clientID).Msg("mutation discarded")
	return nil
}

func (q *syncQueue) DueForRetry(ctx context.Context, now time.Time) ([]models.MutationRecord, error) {
	var due []models.MutationRecord
	for record, err := range q.store.ListByStatus(ctx, models.StatusFailed) {
		if err != nil {
			return nil, err
		}
		if record.NextAttemptAt == nil || record.NextAttemptAt.After(now) {
			continue
		}
		if q.maxAttempts > 0 && record.Attempt >= q.maxAttempts {
			continue
		}
		due = append(due, record)
	}

	return due, nil
}

func (q *syncQueue) RequeueDue(ctx context.Context, now time.Time) (int, error) {
	due, err := q.DueForRetry(ctx, now)
	if err != nil {
		q.logger.Err(err).Str("func", "syncQueue.RequeueDue").Msg("error listing mutations due for retry")
		return 0, err
	}

	moved := 0
	for _, record := range due {
		err = q.Requeue(ctx, record.ClientID)
		if errors.Is(err, ErrNotFailed) {
			// discarded or requeued concurrently
			continue
		}
		if err != nil {
			return moved, err
		}
		moved++
	}

	return moved, nil
}

func (q *syncQueue) RequeueFailed(ctx context.Context) (int, error) {
	var ids []string
	for record, err := range q.store.ListByStatus(ctx, models.StatusFailed) {
		if err != nil {
			return 0, err
		}
		ids = append(ids, record.ClientID)
	}

	moved := 0
	for _, id := range ids {
		err := q.Requeue(ctx, id)
		if errors.Is(err, ErrNotFailed) {
			continue
		}
		if err != nil {
			return moved, err
		}
		moved++
	}

	return moved, nil
}

func (q *syncQueue) NextRetryAt(ctx context.Context) (*time.Time, error) {
	var earliest *time.Time
	for record, err := range q.store.ListByStatus(ctx, models.StatusFailed) {
		if err != nil {
			return nil, err
		}
		if record.NextAttemptAt == nil || (q.maxAttempts > 0 && record.Attempt >= q.maxAttempts) {
			continue
		}
		if earliest == nil || record.NextAttemptAt.Before(*earliest) {
			earliest = record.NextAttemptAt
		}
	}

	return earliest, nil
}

func (q *syncQueue) Recover(ctx context.Context) (int64, error) {
	n, err := q.store.ResetInFlight(ctx)
	if err != nil {
		q.logger.Err(err).Str("func", "syncQueue.Recover").Msg("error resetting in-flight mutations")
		return 0, err
	}
	if n > 0 {
		q.logger.Warn().Str("func", "syncQueue.Recover").Int64("count", n).Msg("in-flight mutations returned to pending")
	}

	return n, nil
}

// transitionError maps a rejected conditional update to statusErr and logs
// everything else.
func (q *syncQueue) transitionError(funcName, clientID string, statusErr, err error) error {
	if errors.Is(err, store.ErrUnexpectedStatus) || errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %w", statusErr, err)
	}

	q.logger.Err(err).Str("func", funcName).Str("client_id", clientID).Msg("error updating mutation status")
	return err
}

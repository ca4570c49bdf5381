// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package engine drains the sync queue into the remote service.
//
// The engine is a three-state machine:
//
//	Idle     -> Draining  on enqueue while reachable, service reachable again, manual retry
//	Draining -> Idle      when nothing eligible remains
//	Draining -> Paused    on loss of reachability or an unauthorized response
//	Paused   -> Draining  once reachable and the session is valid again
//
// A single goroutine runs drain cycles; triggers coalesce in a one-slot
// channel. Pausing cancels the context of the running cycle so no further
// records of the batch are sent; records that were not delivered go back to
// pending with their attempt count unchanged.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-workout-keeper/internal/config"
	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/internal/netmon"
	"github.com/MKhiriev/go-workout-keeper/internal/queue"
	"github.com/MKhiriev/go-workout-keeper/models"
)

// Deliverer sends one mutation to the remote service.
type Deliverer interface {
	Deliver(ctx context.Context, record models.MutationRecord) (models.DeliveryResult, error)
}

// Network is the reachability source the engine is gated on.
type Network interface {
	IsFullyReachable() bool
	Observe(callback func(netmon.State)) (cancel func())
}

// Session is the unauthorized signal the engine raises and is gated on.
type Session interface {
	Raised() bool
	NotifyUnauthorized()
	Subscribe(listener func()) (cancel func())
}

// StatusSink receives engine state changes and count refresh requests.
type StatusSink interface {
	SetEngineState(ctx context.Context, state models.EngineState)
	Recompute(ctx context.Context) models.SyncStatusSnapshot
}

type Engine struct {
	queue    queue.Queue
	deliver  Deliverer
	network  Network
	session  Session
	status   StatusSink
	cfg      config.ClientSync
	backoff  Backoff
	now      func() time.Time
	logger   *logger.Logger
	triggers chan struct{}

	mu          sync.Mutex
	state       models.EngineState
	drainCancel context.CancelFunc
	retryTimer  *time.Timer
	retryAt     time.Time
}

func NewEngine(q queue.Queue, deliverer Deliverer, network Network, session Session, status StatusSink, cfg config.ClientSync, logger *logger.Logger) *Engine {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = config.DefaultBatchSize
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = config.DefaultCallTimeout
	}

	return &Engine{
		queue:    q,
		deliver:  deliverer,
		network:  network,
		session:  session,
		status:   status,
		cfg:      cfg,
		backoff:  NewBackoff(cfg.BackoffBase, cfg.BackoffMax),
		now:      time.Now,
		logger:   logger,
		triggers: make(chan struct{}, 1),
		state:    models.EngineIdle,
	}
}

// Trigger requests a drain cycle. Calls made while a request is pending
// coalesce into one cycle.
func (e *Engine) Trigger() {
	select {
	case e.triggers <- struct{}{}:
	default:
	}
}

// Resume is called after re-authentication.
func (e *Engine) Resume() {
	e.Trigger()
}

func (e *Engine) State() models.EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// RetryFailed moves every failed record back to pending and triggers a
// drain.
func (e *Engine) RetryFailed(ctx context.Context) (int, error) {
	n, err := e.queue.RequeueFailed(ctx)
	if err != nil {
		return n, err
	}

	e.status.Recompute(ctx)
	e.Trigger()
	return n, nil
}

// Retry moves one failed record back to pending and triggers a drain.
func (e *Engine) Retry(ctx context.Context, clientID string) error {
	if err := e.queue.Requeue(ctx, clientID); err != nil {
		return err
	}

	e.status.Recompute(ctx)
	e.Trigger()
	return nil
}

// Run recovers records left in flight, then serves drain cycles until ctx
// is done.
func (e *Engine) Run(ctx context.Context) error {
	if _, err := e.queue.Recover(ctx); err != nil {
		return fmt.Errorf("error recovering in-flight mutations: %w", err)
	}

	cancelNetwork := e.network.Observe(func(s netmon.State) {
		if s.Online && s.Reachable {
			e.Trigger()
			return
		}
		e.interrupt()
	})
	defer cancelNetwork()

	cancelSession := e.session.Subscribe(e.interrupt)
	defer cancelSession()

	defer e.stopRetryTimer()

	e.status.Recompute(ctx)
	e.scheduleNextRetry(ctx)
	e.Trigger()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-e.triggers:
			e.drain(ctx)
		}
	}
}

// interrupt cancels the running drain cycle. It only touches the cancel
// func so it is safe from monitor and bridge callbacks.
func (e *Engine) interrupt() {
	e.mu.Lock()
	cancel := e.drainCancel
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (e *Engine) pausedReason() string {
	if !e.network.IsFullyReachable() {
		return "offline"
	}
	if e.session.Raised() {
		return "unauthorized"
	}
	return ""
}

func (e *Engine) setState(ctx context.Context, state models.EngineState) {
	e.mu.Lock()
	changed := e.state != state
	e.state = state
	e.mu.Unlock()

	if changed {
		e.logger.Debug().Str("func", "Engine.setState").Str("state", string(state)).Msg("engine state changed")
	}
	e.status.SetEngineState(ctx, state)
}

func (e *Engine) drain(ctx context.Context) {
	if reason := e.pausedReason(); reason != "" {
		e.logger.Debug().Str("func", "Engine.drain").Str("reason", reason).Msg("drain skipped")
		e.setState(ctx, models.EnginePaused)
		return
	}

	drainCtx, cancel := context.WithCancel(ctx)
	e.mu.Lock()
	e.drainCancel = cancel
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.drainCancel = nil
		e.mu.Unlock()
		cancel()
	}()

	e.setState(ctx, models.EngineDraining)

	if moved, err := e.queue.RequeueDue(drainCtx, e.now()); err != nil {
		e.logger.Err(err).Str("func", "Engine.drain").Msg("error requeueing mutations due for retry")
	} else if moved > 0 {
		e.logger.Info().Str("func", "Engine.drain").Int("count", moved).Msg("mutations requeued after backoff")
	}

	delivered := 0
	for drainCtx.Err() == nil {
		batch, err := e.queue.NextBatch(drainCtx, e.cfg.BatchSize)
		if err != nil {
			if drainCtx.Err() == nil {
				e.logger.Err(err).Str("func", "Engine.drain").Msg("error claiming next batch, retrying later")
				e.scheduleRetry(e.now().Add(e.backoff.Delay(0)))
			}
			break
		}
		if len(batch) == 0 {
			break
		}

		if stop := e.deliverBatch(ctx, drainCtx, batch, &delivered); stop {
			break
		}
	}

	e.status.Recompute(ctx)
	e.scheduleNextRetry(ctx)

	if e.pausedReason() != "" {
		e.setState(ctx, models.EnginePaused)
	} else {
		e.setState(ctx, models.EngineIdle)
	}

	e.logger.Info().Str("func", "Engine.drain").Int("delivered", delivered).Msg("drain cycle finished")
}

// deliverBatch sends each record of batch and reports whether the cycle
// must stop. Queue writes use ctx so that outcomes of calls that already
// finished are persisted even after the cycle was cancelled.
func (e *Engine) deliverBatch(ctx, drainCtx context.Context, batch []models.MutationRecord, delivered *int) bool {
	for i, record := range batch {
		if drainCtx.Err() != nil {
			e.release(ctx, batch[i:])
			return true
		}

		class := e.deliverOne(ctx, drainCtx, record)
		switch class {
		case models.ErrorClassNone:
			*delivered++
		case models.ErrorClassUnauthorized:
			e.release(ctx, batch[i+1:])
			return true
		}
	}
	return false
}

// deliverOne sends record and persists the outcome. The status surface is
// refreshed after every transition.
func (e *Engine) deliverOne(ctx, drainCtx context.Context, record models.MutationRecord) models.ErrorClass {
	defer e.status.Recompute(ctx)

	callCtx, cancel := context.WithTimeout(drainCtx, e.cfg.CallTimeout)
	result, err := e.deliver.Deliver(callCtx, record)
	cancel()

	log := e.logger.With().
		Str("client_id", record.ClientID).
		Str("entity_type", string(record.EntityType)).
		Str("operation", string(record.Operation)).
		Logger()

	if err == nil {
		if ackErr := e.queue.Ack(ctx, record.ClientID, result.ServerID); ackErr != nil {
			e.integrity(ctx, "Engine.deliverOne", record.ClientID, ackErr)
		}
		log.Info().Str("func", "Engine.deliverOne").Str("server_id", result.ServerID).Bool("replayed", result.Replayed).Msg("mutation delivered")
		return models.ErrorClassNone
	}

	// the cycle was paused while the call was running: not delivered
	if drainCtx.Err() != nil && errors.Is(err, context.Canceled) {
		e.release(ctx, []models.MutationRecord{record})
		return models.ErrorClassRetryable
	}

	class := Classify(err)
	switch class {
	case models.ErrorClassUnauthorized:
		log.Warn().Err(err).Str("func", "Engine.deliverOne").Msg("session rejected, pausing")
		e.release(ctx, []models.MutationRecord{record})
		// coalesced by the bridge when the transport already raised it
		e.session.NotifyUnauthorized()
		return class

	case models.ErrorClassPermanent:
		log.Error().Err(err).Str("func", "Engine.deliverOne").Msg("mutation rejected permanently")
		if _, failErr := e.queue.Fail(ctx, record.ClientID, class, err, nil); failErr != nil {
			e.integrity(ctx, "Engine.deliverOne", record.ClientID, failErr)
		}
		return class
	}

	var next *time.Time
	if e.cfg.MaxAttempts <= 0 || record.Attempt+1 < e.cfg.MaxAttempts {
		at := e.now().Add(e.backoff.Delay(record.Attempt))
		next = &at
	}

	if _, failErr := e.queue.Fail(ctx, record.ClientID, class, err, next); failErr != nil {
		e.integrity(ctx, "Engine.deliverOne", record.ClientID, failErr)
		return class
	}

	if next == nil {
		log.Error().Err(err).Str("func", "Engine.deliverOne").Int("attempt", record.Attempt+1).Msg("mutation out of attempts")
	} else {
		log.Warn().Err(err).Str("func", "Engine.deliverOne").Time("next_attempt_at", *next).Msg("mutation delivery failed, backing off")
		e.scheduleRetry(*next)
	}
	return class
}

func (e *Engine) release(ctx context.Context, records []models.MutationRecord) {
	for _, record := range records {
		if err := e.queue.Release(ctx, record.ClientID); err != nil {
			e.integrity(ctx, "Engine.release", record.ClientID, err)
		}
	}
}

// integrity reports a queue transition that should not fail. A cancelled
// run is shutting down and is not reported. In strict mode it panics.
func (e *Engine) integrity(ctx context.Context, funcName, clientID string, err error) {
	if ctx.Err() != nil {
		return
	}

	err = fmt.Errorf("%w: %w", ErrIntegrity, err)
	e.logger.Err(err).Str("func", funcName).Str("client_id", clientID).Msg("mutation state transition failed")
	if e.cfg.Strict {
		panic(err)
	}
}

func (e *Engine) scheduleNextRetry(ctx context.Context) {
	next, err := e.queue.NextRetryAt(ctx)
	if err != nil {
		e.logger.Err(err).Str("func", "Engine.scheduleNextRetry").Msg("error reading next retry time")
		return
	}
	if next != nil {
		e.scheduleRetry(*next)
	}
}

// scheduleRetry arms the retry timer for at unless an earlier one is armed.
func (e *Engine) scheduleRetry(at time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.retryTimer != nil && !e.retryAt.IsZero() && !at.Before(e.retryAt) {
		return
	}
	if e.retryTimer != nil {
		e.retryTimer.Stop()
	}

	e.retryAt = at
	e.retryTimer = time.AfterFunc(max(at.Sub(e.now()), 0), func() {
		e.mu.Lock()
		e.retryAt = time.Time{}
		e.mu.Unlock()
		e.Trigger()
	})
}

func (e *Engine) stopRetryTimer() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.retryTimer != nil {
		e.retryTimer.Stop()
		e.retryTimer = nil
		e.retryAt = time.Time{}
	}
}

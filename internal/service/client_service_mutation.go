// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/internal/queue"
	"github.com/MKhiriev/go-workout-keeper/internal/serializer"
	"github.com/MKhiriev/go-workout-keeper/internal/validators"
	"github.com/MKhiriev/go-workout-keeper/models"
)

// SyncTrigger is the part of the sync engine the write path drives.
type SyncTrigger interface {
	Trigger()
	Retry(ctx context.Context, clientID string) error
	RetryFailed(ctx context.Context) (int, error)
}

// StatusRecomputer refreshes the published sync status.
type StatusRecomputer interface {
	Recompute(ctx context.Context) models.SyncStatusSnapshot
}

type clientMutationService struct {
	queue     queue.Queue
	validator validators.Validator
	engine    SyncTrigger
	status    StatusRecomputer
	ids       IDGenerator
	now       func() time.Time

	logger *logger.Logger
}

func NewClientMutationService(q queue.Queue, validator validators.Validator, engine SyncTrigger, status StatusRecomputer, ids IDGenerator, logger *logger.Logger) ClientMutationService {
	return &clientMutationService{
		queue:     q,
		validator: validator,
		engine:    engine,
		status:    status,
		ids:       ids,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *clientMutationService) Commit(ctx context.Context, request models.CommitRequest) (models.MutationRecord, error) {
	if request.Operation == models.OperationCreate && request.Draft != nil && request.Draft.EntityKey() == "" {
		assignEntityID(request.Draft, s.ids.Generate())
	}

	if err := s.validator.Validate(ctx, request); err != nil {
		return models.MutationRecord{}, fmt.Errorf("%w: %w", ErrInvalidDraft, err)
	}

	var (
		payload models.Payload
		err     error
	)
	if request.Operation == models.OperationDelete {
		payload, err = serializer.SerializeDelete(request.Draft.EntityKey())
	} else {
		payload, err = serializer.Serialize(request.Draft)
	}
	if err != nil {
		return models.MutationRecord{}, fmt.Errorf("%w: %w", ErrInvalidDraft, err)
	}

	clientID := request.ClientID
	if clientID == "" {
		clientID = s.ids.Generate()
	}

	record, err := s.queue.Enqueue(ctx, models.MutationRecord{
		ClientID:   clientID,
		EntityType: request.Draft.EntityType(),
		EntityID:   request.Draft.EntityKey(),
		Operation:  request.Operation,
		Payload:    payload,
		CreatedAt:  s.now(),
	})
	if err != nil {
		return models.MutationRecord{}, err
	}

	s.logger.Info().
		Str("func", "clientMutationService.Commit").
		Str("client_id", record.ClientID).
		Str("entity_type", string(record.EntityType)).
		Str("entity_id", record.EntityID).
		Str("operation", string(record.Operation)).
		Msg("mutation committed")

	s.status.Recompute(ctx)
	s.engine.Trigger()
	return record, nil
}

func (s *clientMutationService) Discard(ctx context.Context, clientID string) error {
	err := s.queue.Discard(ctx, clientID)
	if errors.Is(err, queue.ErrDiscardInFlight) {
		return fmt.Errorf("%w: %w", ErrMutationInFlight, err)
	}
	if err != nil {
		return err
	}

	s.status.Recompute(ctx)
	return nil
}

func (s *clientMutationService) Retry(ctx context.Context, clientID string) error {
	return s.engine.Retry(ctx, clientID)
}

func (s *clientMutationService) RetryFailed(ctx context.Context) (int, error) {
	return s.engine.RetryFailed(ctx)
}

func assignEntityID(draft models.Draft, id string) {
	switch d := draft.(type) {
	case *models.Template:
		d.ID = id
	case *models.WorkoutSession:
		d.ID = id
	case *models.Equipment:
		d.ID = id
	}
}

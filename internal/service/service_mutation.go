package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/internal/store"
	"github.com/MKhiriev/go-workout-keeper/internal/validators"
	"github.com/MKhiriev/go-workout-keeper/models"
)

// RetryClassifier reports whether a storage error is transient.
type RetryClassifier interface {
	IsRetryable(err error) bool
}

// IDGenerator produces server entity ids.
type IDGenerator interface {
	Generate() string
}

type mutationService struct {
	repository store.EntityRepository
	validator  validators.Validator
	classifier RetryClassifier
	ids        IDGenerator

	retries   uint64
	retryBase time.Duration

	logger *logger.Logger
}

func NewMutationService(repository store.EntityRepository, validator validators.Validator, classifier RetryClassifier, ids IDGenerator, logger *logger.Logger) MutationService {
	return &mutationService{
		repository: repository,
		validator:  validator,
		classifier: classifier,
		ids:        ids,
		retries:    3,
		retryBase:  50 * time.Millisecond,
		logger:     logger,
	}
}

// Apply validates m and hands it to the repository. Transient storage
// failures are retried a few times in place; if they persist the error is
// wrapped in ErrStorageUnavailable so the client backs off and redelivers.
func (s *mutationService) Apply(ctx context.Context, m models.ServerMutation) (models.AppliedMutation, error) {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, m); err != nil {
		log.Warn().Err(err).
			Str("func", "mutationService.Apply").
			Str("idempotency_key", m.IdempotencyKey).
			Str("entity_type", string(m.EntityType)).
			Msg("mutation rejected")
		return models.AppliedMutation{}, fmt.Errorf("%w: %w", ErrMutationRejected, err)
	}

	if m.Operation == models.OperationCreate && m.ServerID == "" {
		m.ServerID = s.ids.Generate()
	}

	var applied models.AppliedMutation
	backoff := retry.WithMaxRetries(s.retries, retry.NewExponential(s.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		applied, err = s.repository.Apply(ctx, m)
		if err != nil && s.classifier != nil && s.classifier.IsRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		if s.classifier != nil && s.classifier.IsRetryable(err) {
			log.Err(err).Str("func", "mutationService.Apply").Str("idempotency_key", m.IdempotencyKey).Msg("storage unavailable")
			return models.AppliedMutation{}, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
		if !errors.Is(err, store.ErrEntityNotFound) && !errors.Is(err, store.ErrEntityAlreadyExists) {
			log.Err(err).Str("func", "mutationService.Apply").Str("idempotency_key", m.IdempotencyKey).Msg("error applying mutation")
		}
		return models.AppliedMutation{}, err
	}

	log.Info().
		Str("func", "mutationService.Apply").
		Str("idempotency_key", m.IdempotencyKey).
		Str("server_id", applied.ServerID).
		Bool("replayed", applied.Replayed).
		Msg("mutation applied")
	return applied, nil
}

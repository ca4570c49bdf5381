package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"

	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/models"
)

// entityRepository is the PostgreSQL-backed implementation of
// [EntityRepository].
type entityRepository struct {
	*DB
	logger *logger.Logger
}

// NewEntityRepository constructs an [EntityRepository].
func NewEntityRepository(db *DB, logger *logger.Logger) EntityRepository {
	logger.Debug().Msg("creating entity repository")
	return &entityRepository{
		DB:     db,
		logger: logger,
	}
}

// Apply runs the whole mutation in one transaction holding an advisory lock
// on the idempotency key, so a retried delivery racing the original one
// observes its outcome.
func (e *entityRepository) Apply(ctx context.Context, m models.ServerMutation) (models.AppliedMutation, error) {
	log := logger.FromContext(ctx)

	tx, err := e.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "entityRepository.Apply").Msg("failed to begin transaction")
		return models.AppliedMutation{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, lockIdempotencyKey, m.IdempotencyKey, m.UserID); err != nil {
		log.Err(err).Str("func", "entityRepository.Apply").Str("idempotency_key", m.IdempotencyKey).Msg("failed to lock idempotency key")
		return models.AppliedMutation{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	var applied models.AppliedMutation
	err = tx.QueryRowContext(ctx, findAppliedMutation, m.IdempotencyKey, m.UserID).Scan(&applied.ServerID, &applied.EntityID)
	switch {
	case err == nil:
		applied.Replayed = true
		return applied, nil
	case !errors.Is(err, sql.ErrNoRows):
		log.Err(err).Str("func", "entityRepository.Apply").Str("idempotency_key", m.IdempotencyKey).Msg("failed to look up applied mutation")
		return models.AppliedMutation{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	var serverID string
	switch m.Operation {
	case models.OperationCreate:
		serverID, err = e.create(ctx, tx, m)
	case models.OperationUpdate:
		serverID, err = e.change(ctx, tx, m, updateEntity, string(m.Payload), m.ClientTimestamp, m.UserID, string(m.EntityType), m.EntityID)
	case models.OperationDelete:
		serverID, err = e.change(ctx, tx, m, deleteEntity, m.ClientTimestamp, m.UserID, string(m.EntityType), m.EntityID)
	default:
		err = fmt.Errorf("unknown operation %q", m.Operation)
	}
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.Apply").
			Str("idempotency_key", m.IdempotencyKey).
			Str("entity_type", string(m.EntityType)).
			Str("entity_id", m.EntityID).
			Msg("failed to apply mutation")
		return models.AppliedMutation{}, err
	}

	if _, err = tx.ExecContext(ctx, saveAppliedMutation, m.IdempotencyKey, m.UserID, serverID, m.EntityID); err != nil {
		log.Err(err).Str("func", "entityRepository.Apply").Str("idempotency_key", m.IdempotencyKey).Msg("failed to record applied mutation")
		return models.AppliedMutation{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "entityRepository.Apply").Str("idempotency_key", m.IdempotencyKey).Msg("failed to commit transaction")
		return models.AppliedMutation{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return models.AppliedMutation{ServerID: serverID, EntityID: m.EntityID}, nil
}

func (e *entityRepository) create(ctx context.Context, tx *sql.Tx, m models.ServerMutation) (string, error) {
	_, err := tx.ExecContext(ctx, createEntity, m.ServerID, m.UserID, string(m.EntityType), m.EntityID, string(m.Payload), m.ClientTimestamp)
	if err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			return "", fmt.Errorf("%w: %s %s", ErrEntityAlreadyExists, m.EntityType, m.EntityID)
		}
		return "", fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return m.ServerID, nil
}

// change runs an update or delete statement. A write older than the stored
// one is a successful no-op.
func (e *entityRepository) change(ctx context.Context, tx *sql.Tx, m models.ServerMutation, query string, args ...any) (string, error) {
	var serverID string
	err := tx.QueryRowContext(ctx, query, args...).Scan(&serverID)
	if err == nil {
		return serverID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	var deleted bool
	err = tx.QueryRowContext(ctx, findEntity, m.UserID, string(m.EntityType), m.EntityID).Scan(&serverID, &deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s %s", ErrEntityNotFound, m.EntityType, m.EntityID)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if deleted && m.Operation == models.OperationUpdate {
		return "", fmt.Errorf("%w: %s %s is deleted", ErrEntityNotFound, m.EntityType, m.EntityID)
	}

	return serverID, nil
}

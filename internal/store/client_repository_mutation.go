package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/models"
)

// mutationStore is the SQLite-backed implementation of [MutationStore].
type mutationStore struct {
	*DB
	logger *logger.Logger
}

// NewMutationStore constructs a [MutationStore] over an opened and migrated
// SQLite database.
func NewMutationStore(db *DB, logger *logger.Logger) MutationStore {
	logger.Debug().Msg("creating mutation store")
	return &mutationStore{
		DB:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMutation(row rowScanner) (models.MutationRecord, error) {
	var (
		r                          models.MutationRecord
		entityType, op, status     string
		errorClass                 string
		payload                    []byte
		createdAt                  int64
		lastAttemptAt, nextAttempt sql.NullInt64
	)

	err := row.Scan(
		&r.ClientID,
		&r.ID,
		&entityType,
		&r.EntityID,
		&op,
		&payload,
		&status,
		&r.Attempt,
		&errorClass,
		&r.LastError,
		&createdAt,
		&lastAttemptAt,
		&nextAttempt,
	)
	if err != nil {
		return models.MutationRecord{}, err
	}

	r.EntityType = models.EntityType(entityType)
	r.Operation = models.Operation(op)
	r.Status = models.MutationStatus(status)
	r.LastErrorClass = models.ErrorClass(errorClass)
	r.Payload = payload
	r.CreatedAt = fromNanos(createdAt)
	r.LastAttemptAt = fromNullNanos(lastAttemptAt)
	r.NextAttemptAt = fromNullNanos(nextAttempt)

	return r, nil
}

func (s *mutationStore) Append(ctx context.Context, record models.MutationRecord) (models.MutationRecord, error) {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	record = normalizeTimes(record)

	insertID, insertIDArgs, err := buildInsertClientIDQuery(ctx, record.ClientID, record.CreatedAt)
	if err != nil {
		return models.MutationRecord{}, err
	}
	insertRecord, insertRecordArgs, err := buildInsertMutationQuery(ctx, record)
	if err != nil {
		return models.MutationRecord{}, err
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Err(err).Str("func", "mutationStore.Append").Msg("failed to begin transaction")
		return models.MutationRecord{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, insertID, insertIDArgs...); err != nil {
		if sqliteError(err) == sqlite3.ErrConstraint {
			return models.MutationRecord{}, fmt.Errorf("%w: %s", ErrDuplicateClientID, record.ClientID)
		}
		s.logger.Err(err).Str("func", "mutationStore.Append").Str("client_id", record.ClientID).Msg("failed to record client id")
		return models.MutationRecord{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if _, err = tx.ExecContext(ctx, insertRecord, insertRecordArgs...); err != nil {
		s.logger.Err(err).Str("func", "mutationStore.Append").Str("client_id", record.ClientID).Msg("failed to insert mutation")
		return models.MutationRecord{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		s.logger.Err(err).Str("func", "mutationStore.Append").Str("client_id", record.ClientID).Msg("failed to commit transaction")
		return models.MutationRecord{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return record, nil
}

func (s *mutationStore) Update(ctx context.Context, clientID string, patch models.MutationPatch) (models.MutationRecord, error) {
	selectQuery, selectArgs, err := buildSelectMutationQuery(ctx, clientID)
	if err != nil {
		return models.MutationRecord{}, err
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Err(err).Str("func", "mutationStore.Update").Msg("failed to begin transaction")
		return models.MutationRecord{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	record, err := scanMutation(tx.QueryRowContext(ctx, selectQuery, selectArgs...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.MutationRecord{}, fmt.Errorf("%w: %s", ErrNotFound, clientID)
	}
	if err != nil {
		s.logger.Err(err).Str("func", "mutationStore.Update").Str("client_id", clientID).Msg("failed to read mutation")
		return models.MutationRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if !patch.Allows(record.Status) {
		return record, fmt.Errorf("%w: %s is %s", ErrUnexpectedStatus, clientID, record.Status)
	}

	patch.Apply(&record)
	record = normalizeTimes(record)

	updateQuery, updateArgs, err := buildUpdateMutationQuery(ctx, record)
	if err != nil {
		return models.MutationRecord{}, err
	}
	if _, err = tx.ExecContext(ctx, updateQuery, updateArgs...); err != nil {
		s.logger.Err(err).Str("func", "mutationStore.Update").Str("client_id", clientID).Msg("failed to update mutation")
		return models.MutationRecord{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		s.logger.Err(err).Str("func", "mutationStore.Update").Str("client_id", clientID).Msg("failed to commit transaction")
		return models.MutationRecord{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return record, nil
}

func (s *mutationStore) Remove(ctx context.Context, clientID string) error {
	query, args, err := buildDeleteMutationQuery(ctx, clientID)
	if err != nil {
		return err
	}

	if _, err = s.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).Str("func", "mutationStore.Remove").Str("client_id", clientID).Msg("failed to delete mutation")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *mutationStore) Get(ctx context.Context, clientID string) (models.MutationRecord, error) {
	query, args, err := buildSelectMutationQuery(ctx, clientID)
	if err != nil {
		return models.MutationRecord{}, err
	}

	record, err := scanMutation(s.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.MutationRecord{}, fmt.Errorf("%w: %s", ErrNotFound, clientID)
	}
	if err != nil {
		s.logger.Err(err).Str("func", "mutationStore.Get").Str("client_id", clientID).Msg("failed to read mutation")
		return models.MutationRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return record, nil
}

func (s *mutationStore) ListByStatus(ctx context.Context, statuses ...models.MutationStatus) iter.Seq2[models.MutationRecord, error] {
	return func(yield func(models.MutationRecord, error) bool) {
		query, args, err := buildListByStatusQuery(ctx, statuses)
		if err != nil {
			yield(models.MutationRecord{}, err)
			return
		}

		rows, err := s.QueryContext(ctx, query, args...)
		if err != nil {
			s.logger.Err(err).Str("func", "mutationStore.ListByStatus").Msg("failed to list mutations")
			yield(models.MutationRecord{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			record, err := scanMutation(rows)
			if err != nil {
				yield(models.MutationRecord{}, fmt.Errorf("%w: %w", ErrScanningRows, err))
				return
			}
			if !yield(record, nil) {
				return
			}
		}

		if err = rows.Err(); err != nil {
			yield(models.MutationRecord{}, fmt.Errorf("%w: %w", ErrScanningRows, err))
		}
	}
}

func (s *mutationStore) CountByStatus(ctx context.Context) (models.StatusCounts, error) {
	query, args, err := buildCountByStatusQuery(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Err(err).Str("func", "mutationStore.CountByStatus").Msg("failed to count mutations")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	counts := make(models.StatusCounts, 4)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err = rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		counts[models.MutationStatus(status)] = n
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return counts, nil
}

func (s *mutationStore) ClaimPending(ctx context.Context, limit int, now time.Time) ([]models.MutationRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	selectQuery, selectArgs, err := buildSelectClaimableQuery(ctx, limit)
	if err != nil {
		return nil, err
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Err(err).Str("func", "mutationStore.ClaimPending").Msg("failed to begin transaction")
		return nil, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, selectQuery, selectArgs...)
	if err != nil {
		s.logger.Err(err).Str("func", "mutationStore.ClaimPending").Msg("failed to select claimable mutations")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	claimed := make([]models.MutationRecord, 0, limit)
	for rows.Next() {
		record, err := scanMutation(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		claimed = append(claimed, record)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	if len(claimed) == 0 {
		return nil, nil
	}

	at := fromNanos(now.UnixNano())
	ids := make([]string, 0, len(claimed))
	for i := range claimed {
		ids = append(ids, claimed[i].ClientID)
		claimed[i].Status = models.StatusInFlight
		claimed[i].LastAttemptAt = &at
	}

	claimQuery, claimArgs, err := buildClaimQuery(ctx, ids, at)
	if err != nil {
		return nil, err
	}
	if _, err = tx.ExecContext(ctx, claimQuery, claimArgs...); err != nil {
		s.logger.Err(err).Str("func", "mutationStore.ClaimPending").Msg("failed to mark mutations in flight")
		return nil, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		s.logger.Err(err).Str("func", "mutationStore.ClaimPending").Msg("failed to commit transaction")
		return nil, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return claimed, nil
}

func (s *mutationStore) ResetInFlight(ctx context.Context) (int64, error) {
	query, args, err := buildResetInFlightQuery(ctx)
	if err != nil {
		return 0, err
	}

	res, err := s.ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.Err(err).Str("func", "mutationStore.ResetInFlight").Msg("failed to reset in-flight mutations")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return res.RowsAffected()
}

func (s *mutationStore) PruneFailedBefore(ctx context.Context, t time.Time) (int64, error) {
	query, args, err := buildPruneFailedQuery(ctx, t)
	if err != nil {
		return 0, err
	}

	res, err := s.ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.Err(err).Str("func", "mutationStore.PruneFailedBefore").Msg("failed to prune failed mutations")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return res.RowsAffected()
}

// normalizeTimes truncates timestamps to what the store can represent.
func normalizeTimes(r models.MutationRecord) models.MutationRecord {
	r.CreatedAt = fromNanos(r.CreatedAt.UnixNano())
	if r.LastAttemptAt != nil {
		t := fromNanos(r.LastAttemptAt.UnixNano())
		r.LastAttemptAt = &t
	}
	if r.NextAttemptAt != nil {
		t := fromNanos(r.NextAttemptAt.UnixNano())
		r.NextAttemptAt = &t
	}
	return r
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func fromNullNanos(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromNanos(n.Int64)
	return &t
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-workout-keeper/models"
)

const (
	mutationsTable = "mutations"
	clientIDsTable = "client_ids"
)

var mutationColumns = []string{
	"client_id",
	"server_id",
	"entity_type",
	"entity_id",
	"operation",
	"payload",
	"status",
	"attempt",
	"last_error_class",
	"last_error",
	"created_at",
	"last_attempt_at",
	"next_attempt_at",
}

// sqlite placeholders
var sqlite = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func buildInsertClientIDQuery(_ context.Context, clientID string, at time.Time) (string, []any, error) {
	query, args, err := sqlite.
		Insert(clientIDsTable).
		Columns("client_id", "created_at").
		Values(clientID, at.UnixNano()).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildInsertMutationQuery(_ context.Context, r models.MutationRecord) (string, []any, error) {
	query, args, err := sqlite.
		Insert(mutationsTable).
		Columns(mutationColumns...).
		Values(
			r.ClientID,
			r.ID,
			string(r.EntityType),
			r.EntityID,
			string(r.Operation),
			[]byte(r.Payload),
			string(r.Status),
			r.Attempt,
			string(r.LastErrorClass),
			r.LastError,
			r.CreatedAt.UnixNano(),
			nullableNanos(r.LastAttemptAt),
			nullableNanos(r.NextAttemptAt),
		).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectMutationQuery(_ context.Context, clientID string) (string, []any, error) {
	query, args, err := sqlite.
		Select(mutationColumns...).
		From(mutationsTable).
		Where(sq.Eq{"client_id": clientID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildUpdateMutationQuery writes every mutable column of r.
func buildUpdateMutationQuery(_ context.Context, r models.MutationRecord) (string, []any, error) {
	query, args, err := sqlite.
		Update(mutationsTable).
		SetMap(map[string]any{
			"server_id":        r.ID,
			"status":           string(r.Status),
			"attempt":          r.Attempt,
			"last_error_class": string(r.LastErrorClass),
			"last_error":       r.LastError,
			"last_attempt_at":  nullableNanos(r.LastAttemptAt),
			"next_attempt_at":  nullableNanos(r.NextAttemptAt),
		}).
		Where(sq.Eq{"client_id": r.ClientID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildDeleteMutationQuery(_ context.Context, clientID string) (string, []any, error) {
	query, args, err := sqlite.
		Delete(mutationsTable).
		Where(sq.Eq{"client_id": clientID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildListByStatusQuery(_ context.Context, statuses []models.MutationStatus) (string, []any, error) {
	builder := sqlite.
		Select(mutationColumns...).
		From(mutationsTable).
		OrderBy("created_at ASC", "seq ASC")

	if len(statuses) > 0 {
		builder = builder.Where(sq.Eq{"status": statusStrings(statuses)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildCountByStatusQuery(_ context.Context) (string, []any, error) {
	query, args, err := sqlite.
		Select("status", "COUNT(*)").
		From(mutationsTable).
		GroupBy("status").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildSelectClaimableQuery selects pending records that have no earlier
// record of the same entity still stored, oldest first.
func buildSelectClaimableQuery(_ context.Context, limit int) (string, []any, error) {
	predecessor := sqlite.
		Select("1").
		From(mutationsTable + " AS prev").
		Where("prev.entity_type = m.entity_type").
		Where("prev.entity_id = m.entity_id").
		Where("prev.seq < m.seq")

	predecessorSQL, predecessorArgs, err := predecessor.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	columns := make([]string, 0, len(mutationColumns))
	for _, c := range mutationColumns {
		columns = append(columns, "m."+c)
	}

	query, args, err := sqlite.
		Select(columns...).
		From(mutationsTable+" AS m").
		Where(sq.Eq{"m.status": string(models.StatusPending)}).
		Where("NOT EXISTS ("+predecessorSQL+")", predecessorArgs...).
		OrderBy("m.created_at ASC", "m.seq ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildClaimQuery(_ context.Context, clientIDs []string, now time.Time) (string, []any, error) {
	query, args, err := sqlite.
		Update(mutationsTable).
		Set("status", string(models.StatusInFlight)).
		Set("last_attempt_at", now.UnixNano()).
		Where(sq.Eq{"client_id": clientIDs}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildResetInFlightQuery(_ context.Context) (string, []any, error) {
	query, args, err := sqlite.
		Update(mutationsTable).
		Set("status", string(models.StatusPending)).
		Where(sq.Eq{"status": string(models.StatusInFlight)}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildPruneFailedQuery(_ context.Context, before time.Time) (string, []any, error) {
	query, args, err := sqlite.
		Delete(mutationsTable).
		Where(sq.Eq{"status": string(models.StatusFailed)}).
		Where(sq.Lt{"COALESCE(last_attempt_at, created_at)": before.UnixNano()}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func statusStrings(statuses []models.MutationStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

func nullableNanos(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixNano()
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-workout-keeper/internal/config"
	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/internal/queue"
	"github.com/MKhiriev/go-workout-keeper/internal/serializer"
	"github.com/MKhiriev/go-workout-keeper/internal/store"
	"github.com/MKhiriev/go-workout-keeper/internal/utils"
	"github.com/MKhiriev/go-workout-keeper/internal/validators"
	"github.com/MKhiriev/go-workout-keeper/models"
)

// spyEngine считает триггеры и делегирует ретраи очереди.
type spyEngine struct {
	q        queue.Queue
	triggers atomic.Int32
}

func (s *spyEngine) Trigger() { s.triggers.Add(1) }

func (s *spyEngine) Retry(ctx context.Context, clientID string) error {
	return s.q.Requeue(ctx, clientID)
}

func (s *spyEngine) RetryFailed(ctx context.Context) (int, error) {
	return s.q.RequeueFailed(ctx)
}

type spyStatus struct{ calls atomic.Int32 }

func (s *spyStatus) Recompute(context.Context) models.SyncStatusSnapshot {
	s.calls.Add(1)
	return models.SyncStatusSnapshot{}
}

func newTestClientMutationSvc(t *testing.T) (ClientMutationService, store.MutationStore, *spyEngine, *spyStatus) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "client.db")
	storages, err := store.NewClientStorages(context.Background(), config.ClientStorage{DB: config.ClientDB{DSN: dsn}}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storages.Close() })

	q := queue.NewQueue(storages.MutationStore, 5, logger.Nop())
	eng := &spyEngine{q: q}
	st := &spyStatus{}
	svc := NewClientMutationService(q, validators.NewDraftValidator(), eng, st, utils.NewUUIDGenerator(), logger.Nop())
	return svc, storages.MutationStore, eng, st
}

// ── Commit ───────────────────────────────────────────────────────────────────

func TestClientMutationService_Commit_Create(t *testing.T) {
	svc, ms, eng, st := newTestClientMutationSvc(t)
	draft := &models.Template{Name: "Push day"}

	record, err := svc.Commit(context.Background(), models.CommitRequest{Operation: models.OperationCreate, Draft: draft})
	require.NoError(t, err)

	assert.NotEmpty(t, draft.ID, "create без id получает сгенерированный")
	assert.Equal(t, draft.ID, record.EntityID)
	assert.NotEmpty(t, record.ClientID)
	assert.NotEqual(t, record.ClientID, record.EntityID)
	assert.Equal(t, models.StatusPending, record.Status)
	assert.Equal(t, int32(1), eng.triggers.Load())
	assert.Equal(t, int32(1), st.calls.Load())

	stored, err := ms.Get(context.Background(), record.ClientID)
	require.NoError(t, err)
	want, err := serializer.Serialize(draft)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(stored.Payload))
}

func TestClientMutationService_Commit_Delete(t *testing.T) {
	svc, _, _, _ := newTestClientMutationSvc(t)

	record, err := svc.Commit(context.Background(), models.CommitRequest{
		ClientID:  "c-del",
		Operation: models.OperationDelete,
		Draft:     &models.Equipment{ID: "eq-1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "c-del", record.ClientID)
	assert.Equal(t, models.EntityEquipment, record.EntityType)
	assert.JSONEq(t, `{"id":"eq-1"}`, string(record.Payload))
}

func TestClientMutationService_Commit_Invalid(t *testing.T) {
	svc, ms, eng, _ := newTestClientMutationSvc(t)

	tests := []struct {
		name string
		req  models.CommitRequest
	}{
		{name: "no draft", req: models.CommitRequest{Operation: models.OperationCreate}},
		{name: "bad operation", req: models.CommitRequest{Operation: "upsert", Draft: &models.Template{ID: "t", Name: "n"}}},
		{name: "empty name", req: models.CommitRequest{Operation: models.OperationUpdate, Draft: &models.Template{ID: "t"}}},
		{name: "update without id", req: models.CommitRequest{Operation: models.OperationUpdate, Draft: &models.Equipment{Name: "Bar"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Commit(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidDraft)
		})
	}

	counts, err := ms.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Zero(t, counts.Total())
	assert.Zero(t, eng.triggers.Load())
}

func TestClientMutationService_Commit_DoubleSubmit(t *testing.T) {
	svc, _, eng, _ := newTestClientMutationSvc(t)
	req := models.CommitRequest{ClientID: "c-1", Operation: models.OperationUpdate, Draft: &models.Template{ID: "tpl-1", Name: "Legs"}}

	_, err := svc.Commit(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Commit(context.Background(), req)
	assert.ErrorIs(t, err, queue.ErrAlreadyQueued)
	assert.ErrorIs(t, err, store.ErrDuplicateClientID)
	assert.Equal(t, int32(1), eng.triggers.Load())
}

// ── Discard / Retry ──────────────────────────────────────────────────────────

func TestClientMutationService_Discard(t *testing.T) {
	svc, ms, _, _ := newTestClientMutationSvc(t)
	ctx := context.Background()

	record, err := svc.Commit(ctx, models.CommitRequest{Operation: models.OperationCreate, Draft: &models.Template{Name: "A"}})
	require.NoError(t, err)

	require.NoError(t, svc.Discard(ctx, record.ClientID))
	require.NoError(t, svc.Discard(ctx, record.ClientID), "discard повторно не ошибка")

	_, err = ms.Get(ctx, record.ClientID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestClientMutationService_Discard_InFlight(t *testing.T) {
	svc, ms, _, _ := newTestClientMutationSvc(t)
	ctx := context.Background()

	record, err := svc.Commit(ctx, models.CommitRequest{Operation: models.OperationCreate, Draft: &models.Template{Name: "A"}})
	require.NoError(t, err)
	_, err = ms.ClaimPending(ctx, 1, time.Now())
	require.NoError(t, err)

	err = svc.Discard(ctx, record.ClientID)
	assert.ErrorIs(t, err, ErrMutationInFlight)
}

func TestClientMutationService_RetryFailed(t *testing.T) {
	svc, ms, _, _ := newTestClientMutationSvc(t)
	ctx := context.Background()

	record, err := svc.Commit(ctx, models.CommitRequest{Operation: models.OperationCreate, Draft: &models.Template{Name: "A"}})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Retry(ctx, record.ClientID), queue.ErrNotFailed)

	_, err = ms.ClaimPending(ctx, 1, time.Now())
	require.NoError(t, err)
	failed := models.StatusFailed
	_, err = ms.Update(ctx, record.ClientID, models.MutationPatch{Status: &failed})
	require.NoError(t, err)

	n, err := svc.RetryFailed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, err := ms.Get(ctx, record.ClientID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
}

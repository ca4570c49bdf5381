// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/internal/mock"
)

// ── PruneNow ─────────────────────────────────────────────────────────────────

func TestClientPruneJob_PruneNow_UsesRetentionCutoff(t *testing.T) {
	ms := mock.NewMockMutationStore(gomock.NewController(t))
	st := &spyStatus{}
	job := NewClientPruneJob(ms, st, 24*time.Hour, logger.Nop()).(*clientPruneJob)
	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return now }

	ms.EXPECT().PruneFailedBefore(gomock.Any(), now.Add(-24*time.Hour)).Return(int64(2), nil)

	n, err := job.PruneNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, int32(1), st.calls.Load())
}

func TestClientPruneJob_PruneNow_Disabled(t *testing.T) {
	ms := mock.NewMockMutationStore(gomock.NewController(t))
	job := NewClientPruneJob(ms, &spyStatus{}, 0, logger.Nop())

	// без retention хранилище не трогаем
	n, err := job.PruneNow(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestClientPruneJob_PruneNow_Error(t *testing.T) {
	ms := mock.NewMockMutationStore(gomock.NewController(t))
	st := &spyStatus{}
	job := NewClientPruneJob(ms, st, time.Hour, logger.Nop())
	dbErr := errors.New("database is locked")

	ms.EXPECT().PruneFailedBefore(gomock.Any(), gomock.Any()).Return(int64(0), dbErr)

	_, err := job.PruneNow(context.Background())
	assert.ErrorIs(t, err, dbErr)
	assert.Zero(t, st.calls.Load())
}

// ── Start / Stop ─────────────────────────────────────────────────────────────

func TestClientPruneJob_StartStop(t *testing.T) {
	ms := mock.NewMockMutationStore(gomock.NewController(t))
	job := NewClientPruneJob(ms, &spyStatus{}, time.Hour, logger.Nop())

	ticks := make(chan struct{}, 16)
	ms.EXPECT().PruneFailedBefore(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, time.Time) (int64, error) {
			ticks <- struct{}{}
			return 0, nil
		},
	).MinTimes(2)

	job.Start(context.Background(), 10*time.Millisecond)
	for range 2 {
		select {
		case <-ticks:
		case <-time.After(time.Second):
			t.Fatal("prune job did not tick")
		}
	}
	job.Stop()

	drained := len(ticks)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, drained, len(ticks), "после Stop новых вызовов быть не должно")
}

func TestClientPruneJob_Stop_BeforeStart_NoPanic(t *testing.T) {
	job := NewClientPruneJob(nil, &spyStatus{}, time.Hour, logger.Nop())
	assert.NotPanics(t, func() { job.Stop() })
}

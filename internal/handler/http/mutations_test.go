// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-workout-keeper/internal/app"
	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/internal/service"
	"github.com/MKhiriev/go-workout-keeper/internal/store"
	"github.com/MKhiriev/go-workout-keeper/internal/utils"
	"github.com/MKhiriev/go-workout-keeper/models"
)

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

type mutationCase struct {
	method string
	path   string
	body   string
	key    string
	stamp  string
}

func newMutationRouter(t *testing.T, apply func(context.Context, models.ServerMutation) (models.AppliedMutation, error), hasher *utils.Hasher) http.Handler {
	t.Helper()
	svcs := &service.Services{
		AuthService: &mockAuthService{
			parseTokenFn: func(context.Context, string) (models.Token, error) {
				return models.Token{UserID: 42}, nil
			},
		},
		MutationService: &mockMutationService{applyFn: apply},
		AppInfoService:  &mockAppInfoService{version: "test"},
	}
	return NewHandler(svcs, hasher, logger.Nop()).Init()
}

func doMutation(router http.Handler, c mutationCase) *httptest.ResponseRecorder {
	req := httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("Content-Type", "application/json")
	if c.key != "" {
		req.Header.Set(models.HeaderIdempotencyKey, c.key)
	}
	if c.stamp != "" {
		req.Header.Set(models.HeaderClientTimestamp, c.stamp)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func captureApply(got *models.ServerMutation) func(context.Context, models.ServerMutation) (models.AppliedMutation, error) {
	return func(_ context.Context, m models.ServerMutation) (models.AppliedMutation, error) {
		*got = m
		return models.AppliedMutation{ServerID: "srv-" + m.EntityID, EntityID: m.EntityID}, nil
	}
}

// ─────────────────────────────────────────────
// Request -> ServerMutation
// ─────────────────────────────────────────────

func TestApplyMutation_Create(t *testing.T) {
	var got models.ServerMutation
	router := newMutationRouter(t, captureApply(&got), nil)

	stamp := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	body := `{"id":"t-1","name":"Push day"}`
	rr := doMutation(router, mutationCase{
		method: http.MethodPost,
		path:   "/api/templates",
		body:   body,
		key:    "key-1",
		stamp:  stamp.Format(models.ClientTimestampLayout),
	})

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Empty(t, rr.Header().Get(models.HeaderIdempotentReplay))

	var resp models.DeliveryResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, models.DeliveryResponse{ID: "srv-t-1", EntityID: "t-1"}, resp)

	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, "key-1", got.IdempotencyKey)
	assert.Equal(t, models.EntityTemplate, got.EntityType)
	assert.Equal(t, models.OperationCreate, got.Operation)
	assert.Equal(t, "t-1", got.EntityID)
	assert.JSONEq(t, body, string(got.Payload))
	assert.True(t, stamp.Equal(got.ClientTimestamp))
}

func TestApplyMutation_UpdateTakesEntityIDFromPath(t *testing.T) {
	var got models.ServerMutation
	router := newMutationRouter(t, captureApply(&got), nil)

	rr := doMutation(router, mutationCase{
		method: http.MethodPut,
		path:   "/api/workout-sessions/ws-9",
		body:   `{"id":"ws-9","name":"Legs"}`,
		key:    "key-2",
	})

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, models.EntityWorkoutSession, got.EntityType)
	assert.Equal(t, models.OperationUpdate, got.Operation)
	assert.Equal(t, "ws-9", got.EntityID)
	assert.False(t, got.ClientTimestamp.IsZero(), "missing timestamp defaults to now")
}

func TestApplyMutation_DeleteHasNoPayload(t *testing.T) {
	var got models.ServerMutation
	router := newMutationRouter(t, captureApply(&got), nil)

	rr := doMutation(router, mutationCase{
		method: http.MethodDelete,
		path:   "/api/equipment/e-3",
		body:   `{"id":"e-3"}`,
		key:    "key-3",
	})

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, models.OperationDelete, got.Operation)
	assert.Equal(t, "e-3", got.EntityID)
	assert.Empty(t, got.Payload)
}

func TestApplyMutation_ReplayReturns200(t *testing.T) {
	router := newMutationRouter(t, func(_ context.Context, m models.ServerMutation) (models.AppliedMutation, error) {
		return models.AppliedMutation{ServerID: "srv-1", EntityID: m.EntityID, Replayed: true}, nil
	}, nil)

	rr := doMutation(router, mutationCase{method: http.MethodPost, path: "/api/templates", body: `{"id":"t-1","name":"x"}`, key: "key-1"})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "true", rr.Header().Get(models.HeaderIdempotentReplay))
}

// ─────────────────────────────────────────────
// Rejections before the service
// ─────────────────────────────────────────────

func TestApplyMutation_RequestErrors(t *testing.T) {
	apply := func(context.Context, models.ServerMutation) (models.AppliedMutation, error) {
		t.Fatal("Apply should not be called")
		return models.AppliedMutation{}, nil
	}
	router := newMutationRouter(t, apply, nil)

	tests := []struct {
		name       string
		c          mutationCase
		wantStatus int
		wantBody   string
	}{
		{
			name:       "unknown entity",
			c:          mutationCase{method: http.MethodPost, path: "/api/exercises", body: `{"id":"x"}`, key: "k"},
			wantStatus: http.StatusNotFound,
			wantBody:   app.MsgUnknownEntity,
		},
		{
			name:       "missing idempotency key",
			c:          mutationCase{method: http.MethodPost, path: "/api/templates", body: `{"id":"x"}`},
			wantStatus: http.StatusBadRequest,
			wantBody:   app.MsgMissingIdempotencyKey,
		},
		{
			name:       "malformed client timestamp",
			c:          mutationCase{method: http.MethodPost, path: "/api/templates", body: `{"id":"x"}`, key: "k", stamp: "yesterday"},
			wantStatus: http.StatusBadRequest,
			wantBody:   app.MsgInvalidClientTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doMutation(router, tt.c)
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBody)
		})
	}
}

// ─────────────────────────────────────────────
// Service errors -> status codes
// ─────────────────────────────────────────────

func TestApplyMutation_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "validation",
			err:        fmt.Errorf("%w: %w", service.ErrMutationRejected, errors.New("name is required")),
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "name is required",
		},
		{name: "entity missing", err: store.ErrEntityNotFound, wantStatus: http.StatusNotFound, wantBody: app.MsgEntityNotFound},
		{name: "entity exists", err: store.ErrEntityAlreadyExists, wantStatus: http.StatusConflict, wantBody: app.MsgEntityAlreadyExists},
		{
			name:       "storage unavailable",
			err:        fmt.Errorf("%w: %w", service.ErrStorageUnavailable, errors.New("connection refused")),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   app.MsgStorageUnavailable,
		},
		{name: "unexpected", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantBody: app.MsgInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newMutationRouter(t, func(context.Context, models.ServerMutation) (models.AppliedMutation, error) {
				return models.AppliedMutation{}, tt.err
			}, nil)

			rr := doMutation(router, mutationCase{method: http.MethodPut, path: "/api/templates/t-1", body: `{"id":"t-1","name":"x"}`, key: "k"})

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBody)
			assert.NotContains(t, rr.Body.String(), "boom")
		})
	}
}

// ─────────────────────────────────────────────
// Signed payloads
// ─────────────────────────────────────────────

func TestApplyMutation_SignedPayload(t *testing.T) {
	hasher := utils.NewHasher("k")
	body := `{"id":"t-1","name":"x"}`

	var got models.ServerMutation
	router := newMutationRouter(t, captureApply(&got), hasher)

	req := httptest.NewRequest(http.MethodPost, "/api/templates", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set(models.HeaderIdempotencyKey, "k-1")
	req.Header.Set(models.HeaderPayloadHash, hasher.Sum([]byte(body)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, body, string(got.Payload))

	req = httptest.NewRequest(http.MethodPost, "/api/templates", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set(models.HeaderIdempotencyKey, "k-2")
	req.Header.Set(models.HeaderPayloadHash, hasher.Sum([]byte(`{"id":"t-1","name":"y"}`)))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), app.MsgHashMismatch)
}

package client

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/internal/service"
	"github.com/MKhiriev/go-workout-keeper/internal/workers"
	"github.com/MKhiriev/go-workout-keeper/models"
)

// ── fakes ─────────────────────────────────────────────────────────────────────

type fakeMutations struct {
	service.ClientMutationService
	requests []models.CommitRequest
	err      error
}

func (f *fakeMutations) Commit(_ context.Context, request models.CommitRequest) (models.MutationRecord, error) {
	if f.err != nil {
		return models.MutationRecord{}, f.err
	}
	f.requests = append(f.requests, request)
	return models.MutationRecord{
		ClientID:   request.ClientID,
		EntityType: request.Draft.EntityType(),
		Operation:  request.Operation,
	}, nil
}

type fakeAuth struct {
	service.ClientAuthService
	ensureErr error
	watched   atomic.Bool
	unwatched atomic.Bool
}

func (f *fakeAuth) EnsureSession(context.Context) error { return f.ensureErr }

func (f *fakeAuth) Watch(context.Context) func() {
	f.watched.Store(true)
	return func() { f.unwatched.Store(true) }
}

type fakePruneJob struct {
	pruned  atomic.Int32
	started atomic.Bool
	stopped atomic.Bool
	err     error
}

func (f *fakePruneJob) Start(context.Context, time.Duration) { f.started.Store(true) }
func (f *fakePruneJob) Stop()                                { f.stopped.Store(true) }
func (f *fakePruneJob) PruneNow(context.Context) (int64, error) {
	f.pruned.Add(1)
	return 0, f.err
}

type uiFunc func(ctx context.Context) error

func (f uiFunc) Run(ctx context.Context) error { return f(ctx) }

func newTestApp(t *testing.T, mutations *fakeMutations, auth *fakeAuth, ui UI, background *workers.Workers) *App {
	t.Helper()
	app, err := NewApp(&service.ClientServices{
		MutationService: mutations,
		AuthService:     auth,
		PruneJob:        &fakePruneJob{},
	}, ui, background, logger.Nop())
	require.NoError(t, err)
	return app
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// ── NewApp ────────────────────────────────────────────────────────────────────

func TestNewApp_RequiresUI(t *testing.T) {
	_, err := NewApp(&service.ClientServices{}, nil, nil, logger.Nop())
	assert.ErrorIs(t, err, ErrNoUI)
}

// ── Run ───────────────────────────────────────────────────────────────────────

func TestApp_Run_StopsBackgroundWhenUIReturns(t *testing.T) {
	var bgStopped atomic.Bool
	background := workers.NewWorkers(logger.Nop()).Add("engine", workers.WorkerFunc(func(ctx context.Context) error {
		<-ctx.Done()
		bgStopped.Store(true)
		return nil
	}))

	auth := &fakeAuth{ensureErr: service.ErrNoCredentials}
	app := newTestApp(t, &fakeMutations{}, auth, uiFunc(func(context.Context) error { return nil }), background)

	require.NoError(t, app.Run(context.Background()))
	assert.True(t, bgStopped.Load())
	assert.True(t, auth.watched.Load())
	assert.True(t, auth.unwatched.Load())
}

func TestApp_Run_JoinsErrors(t *testing.T) {
	uiErr := errors.New("terminal gone")
	bgErr := errors.New("engine broke")
	background := workers.NewWorkers(logger.Nop()).Add("engine", workers.WorkerFunc(func(context.Context) error {
		return bgErr
	}))

	app := newTestApp(t, &fakeMutations{}, &fakeAuth{}, uiFunc(func(context.Context) error { return uiErr }), background)

	err := app.Run(context.Background())
	assert.ErrorIs(t, err, uiErr)
	assert.ErrorIs(t, err, bgErr)
}

func TestApp_Run_WithoutBackground(t *testing.T) {
	app := newTestApp(t, &fakeMutations{}, &fakeAuth{}, uiFunc(func(context.Context) error { return nil }), nil)
	assert.NoError(t, app.Run(context.Background()))
}

// ── Import ────────────────────────────────────────────────────────────────────

func TestApp_Import_SingleAndArray(t *testing.T) {
	single := writeFile(t, "one.json", `{
		"client_id": "c-1",
		"entity_type": "equipment",
		"operation": "create",
		"draft": {"id": "eq-1", "name": "Barbell", "base_weight": "20"}
	}`)
	many := writeFile(t, "many.json", `[
		{"entity_type": "equipment", "operation": "update", "draft": {"id": "eq-1", "name": "Olympic bar"}},
		{"entity_type": "equipment", "operation": "delete", "draft": {"id": "eq-1", "name": ""}}
	]`)

	mutations := &fakeMutations{}
	app := newTestApp(t, mutations, &fakeAuth{}, uiFunc(func(context.Context) error { return nil }), nil)

	n, err := app.Import(context.Background(), single, many)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, mutations.requests, 3)

	assert.Equal(t, "c-1", mutations.requests[0].ClientID)
	assert.Equal(t, models.OperationCreate, mutations.requests[0].Operation)
	equipment, ok := mutations.requests[0].Draft.(*models.Equipment)
	require.True(t, ok)
	assert.Equal(t, "Barbell", equipment.Name)

	assert.Equal(t, models.OperationDelete, mutations.requests[2].Operation)
}

func TestApp_Import_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "not json", content: `not json`, wantErr: ErrInvalidDraftFile},
		{name: "unknown entity", content: `{"entity_type": "meal", "operation": "create", "draft": {}}`},
		{name: "unknown draft field", content: `{"entity_type": "equipment", "operation": "create", "draft": {"id": "e", "weight": 1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mutations := &fakeMutations{}
			app := newTestApp(t, mutations, &fakeAuth{}, uiFunc(func(context.Context) error { return nil }), nil)

			n, err := app.Import(context.Background(), writeFile(t, "draft.json", tt.content))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Zero(t, n)
			assert.Empty(t, mutations.requests)
		})
	}
}

func TestApp_Import_MissingFile(t *testing.T) {
	app := newTestApp(t, &fakeMutations{}, &fakeAuth{}, uiFunc(func(context.Context) error { return nil }), nil)

	_, err := app.Import(context.Background(), filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, ErrInvalidDraftFile)
}

func TestApp_Import_CommitRejected(t *testing.T) {
	rejected := errors.New("draft rejected")
	app := newTestApp(t, &fakeMutations{err: rejected}, &fakeAuth{}, uiFunc(func(context.Context) error { return nil }), nil)

	path := writeFile(t, "one.json", `{"entity_type": "equipment", "operation": "create", "draft": {"id": "eq-1", "name": "Bar"}}`)
	n, err := app.Import(context.Background(), path)
	assert.ErrorIs(t, err, rejected)
	assert.Zero(t, n)
}

// ── PruneWorker ───────────────────────────────────────────────────────────────

func TestPruneWorker(t *testing.T) {
	job := &fakePruneJob{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- PruneWorker(job, time.Minute).Run(ctx) }()

	require.Eventually(t, job.started.Load, time.Second, 5*time.Millisecond)
	cancel()

	require.NoError(t, <-done)
	assert.Equal(t, int32(1), job.pruned.Load())
	assert.True(t, job.stopped.Load())
}

func TestPruneWorker_FirstPassError(t *testing.T) {
	job := &fakePruneJob{err: errors.New("disk full")}

	err := PruneWorker(job, time.Minute).Run(context.Background())
	assert.Error(t, err)
	assert.False(t, job.started.Load())
}

package service

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-workout-keeper/internal/adapter"
	"github.com/MKhiriev/go-workout-keeper/internal/config"
	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/internal/mock"
	"github.com/MKhiriev/go-workout-keeper/internal/session"
	"github.com/MKhiriev/go-workout-keeper/models"
)

type spyResumer struct{ calls atomic.Int32 }

func (s *spyResumer) Resume() { s.calls.Add(1) }

// newTestAuthSvc - хелпер для создания clientAuthService с моком адаптера
func newTestAuthSvc(t *testing.T, cfg config.ClientAdapter) (ClientAuthService, *mock.MockServerAdapter, *session.Bridge, *spyResumer) {
	t.Helper()
	mockAdapter := mock.NewMockServerAdapter(gomock.NewController(t))
	bridge := session.NewBridge()
	resumer := &spyResumer{}

	return NewClientAuthService(mockAdapter, bridge, resumer, cfg, logger.Nop()), mockAdapter, bridge, resumer
}

func raise(bridge *session.Bridge) {
	cancel := bridge.Subscribe(func() {})
	defer cancel()
	bridge.NotifyUnauthorized()
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestClientAuthService_Login_ClearsSignalAndResumes(t *testing.T) {
	svc, mockAdapter, bridge, resumer := newTestAuthSvc(t, config.ClientAdapter{})
	user := models.User{Login: "athlete", Password: "s3cret"}

	raise(bridge)
	require.True(t, bridge.Raised())

	mockAdapter.EXPECT().Login(gomock.Any(), user).Return(models.Token{UserID: 1}, nil)

	require.NoError(t, svc.Login(context.Background(), user))
	assert.False(t, bridge.Raised())
	assert.Equal(t, int32(1), resumer.calls.Load())
}

func TestClientAuthService_Login_WrongPassword(t *testing.T) {
	svc, mockAdapter, bridge, resumer := newTestAuthSvc(t, config.ClientAdapter{})
	raise(bridge)

	mockAdapter.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(models.Token{}, &adapter.StatusError{Code: http.StatusUnauthorized})

	err := svc.Login(context.Background(), models.User{Login: "athlete", Password: "bad"})
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.True(t, bridge.Raised(), "сигнал остаётся поднятым")
	assert.Zero(t, resumer.calls.Load())
}

func TestClientAuthService_Login_TransportError(t *testing.T) {
	svc, mockAdapter, _, _ := newTestAuthSvc(t, config.ClientAdapter{})
	mockAdapter.EXPECT().Login(gomock.Any(), gomock.Any()).Return(models.Token{}, errors.New("dial tcp: refused"))

	err := svc.Login(context.Background(), models.User{Login: "a", Password: "p"})
	assert.ErrorIs(t, err, ErrLoginOnServer)
}

func TestClientAuthService_Login_EmptyCredentials(t *testing.T) {
	svc, _, _, _ := newTestAuthSvc(t, config.ClientAdapter{})

	assert.ErrorIs(t, svc.Login(context.Background(), models.User{Login: "a"}), ErrInvalidDataProvided)
	assert.ErrorIs(t, svc.Register(context.Background(), models.User{Password: "p"}), ErrInvalidDataProvided)
}

// ── Register ─────────────────────────────────────────────────────────────────

func TestClientAuthService_Register(t *testing.T) {
	svc, mockAdapter, _, resumer := newTestAuthSvc(t, config.ClientAdapter{})
	user := models.User{Login: "athlete", Password: "s3cret"}

	mockAdapter.EXPECT().Register(gomock.Any(), user).Return(models.User{Login: "athlete"}, nil)

	require.NoError(t, svc.Register(context.Background(), user))
	assert.Equal(t, int32(1), resumer.calls.Load())
}

func TestClientAuthService_Register_FailureWrapped(t *testing.T) {
	svc, mockAdapter, _, _ := newTestAuthSvc(t, config.ClientAdapter{})
	mockAdapter.EXPECT().Register(gomock.Any(), gomock.Any()).
		Return(models.User{}, &adapter.StatusError{Code: http.StatusBadGateway, Body: "registration failed"})

	err := svc.Register(context.Background(), models.User{Login: "a", Password: "p"})
	assert.ErrorIs(t, err, ErrRegisterOnServer)
	assert.ErrorIs(t, err, adapter.ErrBadGateway)
}

// ── EnsureSession ────────────────────────────────────────────────────────────

func TestClientAuthService_EnsureSession(t *testing.T) {
	svc, mockAdapter, _, _ := newTestAuthSvc(t, config.ClientAdapter{Login: "athlete", Password: "s3cret"})

	gomock.InOrder(
		mockAdapter.EXPECT().TokenExpired(gomock.Any()).Return(false),
		mockAdapter.EXPECT().TokenExpired(gomock.Any()).Return(true),
		mockAdapter.EXPECT().Login(gomock.Any(), models.User{Login: "athlete", Password: "s3cret"}).Return(models.Token{}, nil),
	)

	require.NoError(t, svc.EnsureSession(context.Background()))
	require.NoError(t, svc.EnsureSession(context.Background()))
}

func TestClientAuthService_EnsureSession_NoCredentials(t *testing.T) {
	svc, mockAdapter, _, _ := newTestAuthSvc(t, config.ClientAdapter{})
	mockAdapter.EXPECT().TokenExpired(gomock.Any()).Return(true)

	assert.ErrorIs(t, svc.EnsureSession(context.Background()), ErrNoCredentials)
}

// ── Watch ────────────────────────────────────────────────────────────────────

func TestClientAuthService_Watch_RelogsInOnce(t *testing.T) {
	svc, mockAdapter, bridge, resumer := newTestAuthSvc(t, config.ClientAdapter{Login: "athlete", Password: "s3cret", RequestTimeout: time.Second})

	release := make(chan struct{})
	mockAdapter.EXPECT().Login(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, models.User) (models.Token, error) {
			<-release
			return models.Token{}, nil
		},
	).Times(1)

	cancel := svc.Watch(context.Background())

	bridge.NotifyUnauthorized()
	bridge.NotifyUnauthorized()
	require.True(t, bridge.Raised())
	close(release)

	require.Eventually(t, func() bool { return !bridge.Raised() }, time.Second, 5*time.Millisecond)
	cancel()
	assert.Equal(t, int32(1), resumer.calls.Load())
}

func TestClientAuthService_Watch_NoCredentialsStaysRaised(t *testing.T) {
	svc, _, bridge, resumer := newTestAuthSvc(t, config.ClientAdapter{})

	cancel := svc.Watch(context.Background())
	bridge.NotifyUnauthorized()
	cancel()

	assert.True(t, bridge.Raised())
	assert.Zero(t, resumer.calls.Load())
}

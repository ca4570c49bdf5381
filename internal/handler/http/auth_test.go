// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-workout-keeper/internal/app"
	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/internal/service"
	"github.com/MKhiriev/go-workout-keeper/internal/store"
	"github.com/MKhiriev/go-workout-keeper/models"
)

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func newHandlerWithAuth(t *testing.T, auth service.AuthService) *Handler {
	t.Helper()
	svcs := &service.Services{
		AppInfoService: &mockAppInfoService{version: "test"},
		AuthService:    auth,
	}
	return NewHandler(svcs, nil, logger.Nop())
}

func userBody(t *testing.T, u models.User) string {
	t.Helper()
	b, err := json.Marshal(u)
	require.NoError(t, err)
	return string(b)
}

var validUser = models.User{
	Login:    "alice",
	Password: "hunter22",
}

func tokenFn(signed string) func(context.Context, models.User) (models.Token, error) {
	return func(context.Context, models.User) (models.Token, error) {
		return models.Token{SignedString: signed}, nil
	}
}

// ─────────────────────────────────────────────
// register
// ─────────────────────────────────────────────

func TestRegister_Success(t *testing.T) {
	var received models.User
	auth := &mockAuthService{
		registerUserFn: func(_ context.Context, u models.User) (models.User, error) {
			received = u
			u.UserID = 1
			return u, nil
		},
		createTokenFn: tokenFn("signed.jwt.token"),
	}

	h := newHandlerWithAuth(t, auth)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(userBody(t, validUser)))
	rec := httptest.NewRecorder()

	h.register(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer signed.jwt.token", rec.Header().Get("Authorization"))
	assert.Equal(t, validUser.Login, received.Login)
	assert.Equal(t, validUser.Password, received.Password)
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "invalid JSON", body: "{invalid json}", wantStatus: http.StatusBadRequest, wantBody: app.MsgInvalidDataProvided},
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest},
		{name: "invalid data", err: service.ErrInvalidDataProvided, wantStatus: http.StatusBadRequest, wantBody: app.MsgInvalidDataProvided},
		{name: "login taken", err: store.ErrLoginAlreadyExists, wantStatus: http.StatusConflict, wantBody: app.MsgLoginAlreadyExists},
		{name: "unexpected", err: errors.New("db connection lost"), wantStatus: http.StatusInternalServerError, wantBody: app.MsgRegistrationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &mockAuthService{
				registerUserFn: func(context.Context, models.User) (models.User, error) {
					return models.User{}, tt.err
				},
			}
			body := tt.body
			if tt.err != nil {
				body = userBody(t, validUser)
			}

			h := newHandlerWithAuth(t, auth)
			rec := httptest.NewRecorder()
			h.register(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.Empty(t, rec.Header().Get("Authorization"))
		})
	}
}

func TestRegister_TokenCreationFails(t *testing.T) {
	auth := &mockAuthService{
		registerUserFn: func(_ context.Context, u models.User) (models.User, error) { return u, nil },
		createTokenFn: func(context.Context, models.User) (models.Token, error) {
			return models.Token{}, service.ErrTokenCreationFailed
		},
	}

	h := newHandlerWithAuth(t, auth)
	rec := httptest.NewRecorder()
	h.register(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(userBody(t, validUser))))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Authorization"))
}

// ─────────────────────────────────────────────
// login
// ─────────────────────────────────────────────

func TestLogin_Success(t *testing.T) {
	auth := &mockAuthService{
		loginFn: func(_ context.Context, u models.User) (models.User, error) {
			return models.User{UserID: 7, Login: u.Login}, nil
		},
		createTokenFn: func(_ context.Context, u models.User) (models.Token, error) {
			assert.Equal(t, int64(7), u.UserID)
			return models.Token{SignedString: "login.jwt"}, nil
		},
	}

	h := newHandlerWithAuth(t, auth)
	rec := httptest.NewRecorder()
	h.login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(userBody(t, validUser))))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer login.jwt", rec.Header().Get("Authorization"))
}

func TestLogin_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "invalid data", err: service.ErrInvalidDataProvided, wantStatus: http.StatusBadRequest, wantBody: app.MsgInvalidDataProvided},
		{name: "wrong password", err: service.ErrWrongPassword, wantStatus: http.StatusUnauthorized, wantBody: app.MsgInvalidLoginPassword},
		{name: "no such user", err: store.ErrNoUserWasFound, wantStatus: http.StatusUnauthorized, wantBody: app.MsgInvalidLoginPassword},
		{name: "unexpected", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantBody: app.MsgLoginFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &mockAuthService{
				loginFn: func(context.Context, models.User) (models.User, error) {
					return models.User{}, tt.err
				},
			}

			h := newHandlerWithAuth(t, auth)
			rec := httptest.NewRecorder()
			h.login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(userBody(t, validUser))))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestLogin_InvalidJSON(t *testing.T) {
	h := newHandlerWithAuth(t, &mockAuthService{})

	rec := httptest.NewRecorder()
	h.login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("not-json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

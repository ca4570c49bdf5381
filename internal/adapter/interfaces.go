// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating with
// the remote mutation service.
//
// The primary abstraction is [ServerAdapter], which decouples the sync engine
// and the client services from the underlying protocol. The package ships an
// HTTP/REST implementation ([NewHTTPServerAdapter]).
//
// Non-2xx responses are returned as [*StatusError] values that unwrap to the
// sentinels in errors.go, so callers can use [errors.Is] (e.g. [ErrConflict]
// for 409, [ErrUnauthorized] for 401) or [errors.As] to read the status code.
package adapter

import (
	"context"
	"time"

	"github.com/MKhiriev/go-workout-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the remote
// mutation service.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all subsequent
	// authenticated requests.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// TokenExpired reports whether the stored token is missing, unreadable or
	// expired at now. It does not contact the server.
	TokenExpired(now time.Time) bool

	// Register creates an account and stores the returned bearer token.
	Register(ctx context.Context, user models.User) (models.User, error)

	// Login authenticates with login and password and stores the returned
	// bearer token.
	Login(ctx context.Context, user models.User) (models.Token, error)

	// Deliver sends one mutation record with its client id as the
	// idempotency key. A replay of an already applied key is a success with
	// Replayed set.
	Deliver(ctx context.Context, record models.MutationRecord) (models.DeliveryResult, error)

	// Ping calls the reachability endpoint.
	Ping(ctx context.Context) (models.PingResponse, error)
}

// UnauthorizedNotifier receives a signal for every 401 on an authenticated
// request.
type UnauthorizedNotifier interface {
	NotifyUnauthorized()
}

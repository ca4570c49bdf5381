package service

import (
	"context"

	"github.com/MKhiriev/go-workout-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// MutationService applies delivered client mutations on the server.
type MutationService interface {
	// Apply validates mutation and applies it once per idempotency key. Replays
	// return the first outcome with Replayed set.
	Apply(ctx context.Context, mutation models.ServerMutation) (models.AppliedMutation, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

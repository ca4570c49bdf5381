package store

import (
	"context"

	"github.com/MKhiriev/go-workout-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, user models.User) (models.User, error)
}

// EntityRepository applies client mutations to the server copy of the user's
// entities.
type EntityRepository interface {
	// Apply applies mutation exactly once per idempotency key. Replaying a key
	// returns the first outcome with Replayed set.
	Apply(ctx context.Context, mutation models.ServerMutation) (models.AppliedMutation, error)
}

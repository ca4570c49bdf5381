package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-workout-keeper/internal/config"
	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/migrations"
)

// Storages groups the reference server repositories.
type Storages struct {
	UserRepository   UserRepository
	EntityRepository EntityRepository

	db *DB
}

// NewStorages connects to PostgreSQL and applies pending migrations.
func NewStorages(ctx context.Context, cfg config.DB, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err := migrations.MigrateServer(db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		UserRepository:   NewUserRepository(db, logger),
		EntityRepository: NewEntityRepository(db, logger),
		db:               db,
	}, nil
}

// IsRetryable reports whether err is a transient database failure.
func (s *Storages) IsRetryable(err error) bool {
	return s.db.IsRetryable(err)
}

// Close releases the database handle.
func (s *Storages) Close() error {
	return s.db.Close()
}

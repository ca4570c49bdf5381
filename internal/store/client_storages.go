package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-workout-keeper/internal/config"
	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/migrations"
)

// ClientStorages groups the client-side storage repositories.
type ClientStorages struct {
	// MutationStore is the SQLite-backed durable mutation store.
	MutationStore MutationStore

	db *DB
}

// NewClientStorages opens the SQLite database at cfg.DB.DSN, creating the file
// if it does not exist yet, and applies pending schema migrations.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := migrations.MigrateClient(db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		MutationStore: NewMutationStore(db, logger),
		db:            db,
	}, nil
}

// Close releases the database handle.
func (s *ClientStorages) Close() error {
	return s.db.Close()
}

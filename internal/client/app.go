package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/internal/serializer"
	"github.com/MKhiriev/go-workout-keeper/internal/service"
	"github.com/MKhiriev/go-workout-keeper/internal/workers"
	"github.com/MKhiriev/go-workout-keeper/models"
)

type App struct {
	services   *service.ClientServices
	ui         UI
	background *workers.Workers
	logger     *logger.Logger
}

// NewApp assembles the client runtime. background may be nil when nothing
// has to run next to the UI.
func NewApp(services *service.ClientServices, ui UI, background *workers.Workers, logger *logger.Logger) (*App, error) {
	if ui == nil {
		return nil, ErrNoUI
	}

	return &App{
		services:   services,
		ui:         ui,
		background: background,
		logger:     logger,
	}, nil
}

// Run installs the re-login handler, tries to establish a session and runs
// the background workers until the UI returns. A failed session attempt is
// not fatal: mutations stay queued and the banner asks for a login.
func (a *App) Run(ctx context.Context) error {
	stopWatch := a.services.AuthService.Watch(ctx)
	defer stopWatch()

	if err := a.services.AuthService.EnsureSession(ctx); err != nil {
		a.logger.Warn().Err(err).Str("func", "App.Run").Msg("no session at startup, continuing offline")
	}

	bgCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	bgDone := make(chan error, 1)
	if a.background != nil {
		go func() { bgDone <- a.background.Run(bgCtx) }()
	} else {
		bgDone <- nil
	}

	uiErr := a.ui.Run(ctx)
	cancel()
	bgErr := <-bgDone

	return errors.Join(uiErr, bgErr)
}

// Import commits the drafts stored in the JSON files at paths. A file holds
// one [models.DraftEnvelope] or an array of them. Import stops at the first
// error and returns the number of drafts committed before it.
func (a *App) Import(ctx context.Context, paths ...string) (int, error) {
	committed := 0
	for _, path := range paths {
		envelopes, err := readEnvelopes(path)
		if err != nil {
			return committed, err
		}

		for i, envelope := range envelopes {
			draft, err := serializer.DecodeDraft(envelope.EntityType, envelope.Draft)
			if err != nil {
				return committed, fmt.Errorf("%s #%d: %w", path, i, err)
			}

			record, err := a.services.MutationService.Commit(ctx, models.CommitRequest{
				ClientID:  envelope.ClientID,
				Operation: envelope.Operation,
				Draft:     draft,
			})
			if err != nil {
				return committed, fmt.Errorf("%s #%d: %w", path, i, err)
			}

			a.logger.Info().
				Str("func", "App.Import").
				Str("client_id", record.ClientID).
				Str("entity_type", string(record.EntityType)).
				Str("operation", string(record.Operation)).
				Msg("draft committed")
			committed++
		}
	}

	return committed, nil
}

func readEnvelopes(path string) ([]models.DraftEnvelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDraftFile, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var envelopes []models.DraftEnvelope
		if err = json.Unmarshal(data, &envelopes); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDraftFile, path, err)
		}
		return envelopes, nil
	}

	var envelope models.DraftEnvelope
	if err = json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDraftFile, path, err)
	}
	return []models.DraftEnvelope{envelope}, nil
}

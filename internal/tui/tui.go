// Package tui is the terminal front end of the client: a status banner fed
// by the sync status surface and a table of mutations that are not yet
// delivered, with retry, discard and re-login actions.
package tui

import (
	"context"
	"errors"
	"iter"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/internal/service"
	"github.com/MKhiriev/go-workout-keeper/models"
)

// StatusSource publishes sync status snapshots.
type StatusSource interface {
	Snapshot() models.SyncStatusSnapshot
	Subscribe(buffer int) (<-chan models.SyncStatusSnapshot, func())
}

// RecordLister yields stored mutations by status.
type RecordLister interface {
	ListByStatus(ctx context.Context, statuses ...models.MutationStatus) iter.Seq2[models.MutationRecord, error]
}

// Syncer starts a drain cycle.
type Syncer interface {
	Trigger()
}

type TUI struct {
	status    StatusSource
	records   RecordLister
	mutations service.ClientMutationService
	auth      service.ClientAuthService
	syncer    Syncer

	build         models.AppBuildInfo
	serverAddress string

	logger *logger.Logger
}

func New(services *service.ClientServices, status StatusSource, records RecordLister, syncer Syncer, build models.AppBuildInfo, serverAddress string, logger *logger.Logger) *TUI {
	return &TUI{
		status:        status,
		records:       records,
		mutations:     services.MutationService,
		auth:          services.AuthService,
		syncer:        syncer,
		build:         build,
		serverAddress: serverAddress,
		logger:        logger,
	}
}

// Run shows the dashboard until the user quits or ctx is done.
func (t *TUI) Run(ctx context.Context) error {
	program := tea.NewProgram(newDashboardModel(ctx, t), tea.WithAltScreen(), tea.WithContext(ctx))

	updates, cancel := t.status.Subscribe(8)
	defer cancel()
	go func() {
		for snapshot := range updates {
			program.Send(snapshotMsg{snapshot: snapshot})
		}
	}()

	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	if err != nil {
		t.logger.Err(err).Str("func", "TUI.Run").Msg("terminal ui stopped with error")
	}
	return err
}

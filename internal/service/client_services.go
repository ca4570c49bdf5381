package service

import (
	"github.com/MKhiriev/go-workout-keeper/internal/adapter"
	"github.com/MKhiriev/go-workout-keeper/internal/config"
	"github.com/MKhiriev/go-workout-keeper/internal/engine"
	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/internal/queue"
	"github.com/MKhiriev/go-workout-keeper/internal/store"
	"github.com/MKhiriev/go-workout-keeper/internal/utils"
	"github.com/MKhiriev/go-workout-keeper/internal/validators"
)

type ClientServices struct {
	MutationService ClientMutationService
	AuthService     ClientAuthService
	PruneJob        ClientPruneJob
}

func NewClientServices(
	storages *store.ClientStorages,
	q queue.Queue,
	syncEngine *engine.Engine,
	serverAdapter adapter.ServerAdapter,
	bridge SessionBridge,
	status StatusRecomputer,
	cfg *config.ClientConfig,
	logger *logger.Logger,
) *ClientServices {
	return &ClientServices{
		MutationService: NewClientMutationService(q, validators.NewDraftValidator(), syncEngine, status, utils.NewUUIDGenerator(), logger),
		AuthService:     NewClientAuthService(serverAdapter, bridge, syncEngine, cfg.Adapter, logger),
		PruneJob:        NewClientPruneJob(storages.MutationStore, status, cfg.Sync.FailedRetention, logger),
	}
}

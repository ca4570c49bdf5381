package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-workout-keeper/internal/adapter"
	"github.com/MKhiriev/go-workout-keeper/internal/client"
	"github.com/MKhiriev/go-workout-keeper/internal/config"
	"github.com/MKhiriev/go-workout-keeper/internal/engine"
	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/internal/netmon"
	"github.com/MKhiriev/go-workout-keeper/internal/queue"
	"github.com/MKhiriev/go-workout-keeper/internal/service"
	"github.com/MKhiriev/go-workout-keeper/internal/session"
	"github.com/MKhiriev/go-workout-keeper/internal/status"
	"github.com/MKhiriev/go-workout-keeper/internal/store"
	"github.com/MKhiriev/go-workout-keeper/internal/tui"
	"github.com/MKhiriev/go-workout-keeper/internal/workers"
	"github.com/MKhiriev/go-workout-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

// Usage: client [flags] [draft.json ...]
//
// Every positional argument is a draft file committed before the dashboard
// opens.
func main() {
	build := printBuildInfo()

	cfg, err := config.GetClientConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewClientLogger("workout-client", cfg.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer storages.Close()

	bridge := session.NewBridge()
	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, cfg.App, bridge, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	prober, closeProber, err := newProber(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("create reachability prober")
	}
	defer closeProber()

	monitor := netmon.NewMonitor(log, netmon.WithProber(prober), netmon.WithInterval(cfg.Network.ProbeInterval))
	surface := status.NewSurface(storages.MutationStore, monitor, bridge, log)
	q := queue.NewQueue(storages.MutationStore, cfg.Sync.MaxAttempts, log)
	syncEngine := engine.NewEngine(q, serverAdapter, monitor, bridge, surface, cfg.Sync, log)
	services := service.NewClientServices(storages, q, syncEngine, serverAdapter, bridge, surface, cfg, log)

	// callbacks must not block the monitor or the bridge
	recompute := func() { go surface.Recompute(ctx) }
	defer monitor.Observe(func(netmon.State) { recompute() })()
	defer bridge.Subscribe(recompute)()

	background := workers.NewWorkers(log).
		Add("netmon", monitor).
		Add("engine", syncEngine).
		Add("prune", client.PruneWorker(services.PruneJob, cfg.Sync.PruneInterval))

	ui := tui.New(services, surface, storages.MutationStore, syncEngine, build, cfg.Adapter.HTTPAddress, log)

	app, err := client.NewApp(services, ui, background, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if drafts := flag.Args(); len(drafts) > 0 {
		n, err := app.Import(ctx, drafts...)
		if err != nil {
			log.Fatal().Err(err).Int("committed", n).Msg("draft import error")
		}
		log.Info().Int("committed", n).Msg("drafts imported")
	}

	if err = app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

func newProber(cfg *config.ClientConfig) (netmon.Prober, func() error, error) {
	if cfg.Network.Probe == config.ProbeGRPC {
		prober, err := netmon.NewGRPCHealthProber(cfg.Adapter.GRPCAddress, cfg.Adapter.RequestTimeout)
		if err != nil {
			return nil, nil, err
		}
		return prober, prober.Close, nil
	}

	baseURL, err := adapter.NormalizeBaseURL(cfg.Adapter.HTTPAddress)
	if err != nil {
		return nil, nil, err
	}
	return netmon.NewHTTPProber(baseURL, cfg.Adapter.RequestTimeout), func() error { return nil }, nil
}

func printBuildInfo() models.AppBuildInfo {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)

	return models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
}

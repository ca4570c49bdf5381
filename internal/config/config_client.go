package config

import (
	"fmt"
	"time"
)

// Defaults applied to the client view when a value is not configured.
const (
	DefaultRequestTimeout = 15 * time.Second
	DefaultBatchSize      = 20
	DefaultBackoffBase    = 2 * time.Second
	DefaultBackoffMax     = 5 * time.Minute
	DefaultMaxAttempts    = 8
	DefaultCallTimeout    = 15 * time.Second
	DefaultPruneInterval  = time.Hour
	DefaultProbeInterval  = 10 * time.Second

	ProbeHTTP = "http"
	ProbeGRPC = "grpc"
)

// ClientApp holds client-side application settings derived from the shared
// structured config.
type ClientApp struct {
	// HashKey is the HMAC key used by the client for payload integrity checks.
	HashKey string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	HTTPAddress    string
	GRPCAddress    string
	RequestTimeout time.Duration
	Login          string
	Password       string
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite file path, optionally with driver query parameters.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	DB ClientDB
}

// ClientSync is the sync engine tuning with defaults applied.
type ClientSync struct {
	BatchSize       int
	BackoffBase     time.Duration
	BackoffMax      time.Duration
	MaxAttempts     int
	CallTimeout     time.Duration
	FailedRetention time.Duration
	PruneInterval   time.Duration
	Strict          bool
}

// ClientNetwork is the network monitor configuration.
type ClientNetwork struct {
	ProbeInterval time.Duration
	Probe         string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Sync    ClientSync
	Network ClientNetwork
	LogFile string
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := NewClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

// NewClientConfig maps the client-relevant fields of cfg and fills defaults.
func NewClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			HashKey: cfg.App.HashKey,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			GRPCAddress:    cfg.Adapter.GRPCAddress,
			RequestTimeout: orDefault(cfg.Adapter.RequestTimeout, DefaultRequestTimeout),
			Login:          cfg.Adapter.Login,
			Password:       cfg.Adapter.Password,
		},
		Storage: ClientStorage{
			DB: ClientDB{DSN: cfg.Storage.Local.DSN},
		},
		Sync: ClientSync{
			BatchSize:       orDefault(cfg.Sync.BatchSize, DefaultBatchSize),
			BackoffBase:     orDefault(cfg.Sync.BackoffBase, DefaultBackoffBase),
			BackoffMax:      orDefault(cfg.Sync.BackoffMax, DefaultBackoffMax),
			MaxAttempts:     orDefault(cfg.Sync.MaxAttempts, DefaultMaxAttempts),
			CallTimeout:     orDefault(cfg.Sync.CallTimeout, DefaultCallTimeout),
			FailedRetention: cfg.Sync.FailedRetention,
			PruneInterval:   orDefault(cfg.Sync.PruneInterval, DefaultPruneInterval),
			Strict:          cfg.Sync.Strict,
		},
		Network: ClientNetwork{
			ProbeInterval: orDefault(cfg.Network.ProbeInterval, DefaultProbeInterval),
			Probe:         orDefault(cfg.Network.Probe, ProbeHTTP),
		},
		LogFile: cfg.Log.FilePath,
	}
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

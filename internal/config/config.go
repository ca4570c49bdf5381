// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// workout-keeper client and the reference server. It is populated by merging
// values from environment variables, command-line flags, and an optional JSON
// file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds token parameters, the transport hash key and the version.
	App App `envPrefix:"APP_"`

	// Storage holds the server database and the client local store settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds listen addresses of the reference server.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds how the client reaches the remote service.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync holds the sync engine tuning.
	Sync Sync `envPrefix:"SYNC_"`

	// Network holds the network monitor settings.
	Network Network `envPrefix:"NETWORK_"`

	// Log holds client log file settings.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values that control token
// lifecycle, transport integrity and versioning.
type App struct {
	// TokenSignKey is the secret key used to sign and verify JWT tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued JWT token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long a JWT token remains valid.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// HashKey is the HMAC key of the HashSHA256 payload integrity header.
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// Version is exposed via the /api/ping endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	// DB is the server PostgreSQL database.
	DB DB `envPrefix:"DB_"`

	// Local is the client SQLite mutation store.
	Local Local `envPrefix:"LOCAL_"`
}

// DB holds connection settings for the server database.
type DB struct {
	// DSN is the PostgreSQL connection string.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Local holds the client durable store location.
type Local struct {
	// DSN is the SQLite database file path.
	// Env: STORAGE_LOCAL_DSN
	DSN string `env:"DSN"`
}

// Server holds network and timeout settings for the reference server.
type Server struct {
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress serves the gRPC health service.
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds how the client reaches and authenticates with the remote
// service.
type Adapter struct {
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is probed by the gRPC health prober.
	// Env: ADAPTER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Login and Password are used by the session controller to
	// re-authenticate after an unauthorized response.
	// Env: ADAPTER_LOGIN, ADAPTER_PASSWORD
	Login    string `env:"LOGIN"`
	Password string `env:"PASSWORD"`
}

// Sync holds the sync engine tuning.
type Sync struct {
	// Env: SYNC_BATCH_SIZE
	BatchSize int `env:"BATCH_SIZE"`

	// BackoffBase is the delay after the first retryable failure.
	// Env: SYNC_BACKOFF_BASE
	BackoffBase time.Duration `env:"BACKOFF_BASE"`

	// BackoffMax caps the retry delay.
	// Env: SYNC_BACKOFF_MAX
	BackoffMax time.Duration `env:"BACKOFF_MAX"`

	// MaxAttempts is the number of delivery attempts after which a record
	// stays failed until the user retries it.
	// Env: SYNC_MAX_ATTEMPTS
	MaxAttempts int `env:"MAX_ATTEMPTS"`

	// CallTimeout bounds a single remote delivery.
	// Env: SYNC_CALL_TIMEOUT
	CallTimeout time.Duration `env:"CALL_TIMEOUT"`

	// FailedRetention prunes failed records older than this. Zero keeps
	// them until the user discards them.
	// Env: SYNC_FAILED_RETENTION
	FailedRetention time.Duration `env:"FAILED_RETENTION"`

	// PruneInterval is how often the retention job runs.
	// Env: SYNC_PRUNE_INTERVAL
	PruneInterval time.Duration `env:"PRUNE_INTERVAL"`

	// Strict turns store integrity violations into panics.
	// Env: SYNC_STRICT
	Strict bool `env:"STRICT"`
}

// Network holds the network monitor settings.
type Network struct {
	// Env: NETWORK_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL"`

	// Probe selects the reachability prober: "http" or "grpc".
	// Env: NETWORK_PROBE
	Probe string `env:"PROBE"`
}

// Log holds client log file settings.
type Log struct {
	// FilePath of the rotating client log.
	// Env: LOG_FILE_PATH
	FilePath string `env:"FILE_PATH"`
}

// GetStructuredConfig loads and merges the configuration from all available
// sources. Sources are merged in this order, earlier non-zero fields win:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}

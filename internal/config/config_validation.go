// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTokenDuration is the JWT lifetime when none is configured.
const DefaultTokenDuration = 24 * time.Hour

// validate checks source-independent invariants of the merged config.
// Role-specific requirements are checked by the client and server views.
func (cfg *StructuredConfig) validate() error {
	if cfg.Sync.BatchSize < 0 || cfg.Sync.MaxAttempts < 0 {
		return fmt.Errorf("%w: negative batch size or max attempts", ErrInvalidSyncConfigs)
	}
	if cfg.Sync.BackoffBase < 0 || cfg.Sync.BackoffMax < 0 || cfg.Sync.CallTimeout < 0 || cfg.Sync.FailedRetention < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidSyncConfigs)
	}

	return nil
}

func (cfg *StructuredConfig) validateServer() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" && cfg.Server.GRPCAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Sync.BackoffBase > cfg.Sync.BackoffMax {
		return fmt.Errorf("%w: backoff base exceeds backoff max", ErrInvalidSyncConfigs)
	}

	switch cfg.Network.Probe {
	case ProbeHTTP:
	case ProbeGRPC:
		if cfg.Adapter.GRPCAddress == "" {
			return fmt.Errorf("%w: grpc probe needs an adapter grpc address", ErrInvalidNetworkConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown probe %q", ErrInvalidNetworkConfigs, cfg.Network.Probe)
	}

	return nil
}

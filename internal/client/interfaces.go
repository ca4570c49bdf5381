// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run starts the client application and blocks until exit or until
	// ctx is done.
	Run(ctx context.Context) error
}

// UI is the foreground part of the client. Its return ends the process.
type UI interface {
	Run(ctx context.Context) error
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive client application runtime.
//
// It imports committed drafts, runs the background workers (network
// monitor, sync engine, retention job) and the terminal UI in a single
// process lifecycle, and installs the re-login reaction to unauthorized
// responses.
package client

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package netmon reports whether the device has a usable network and whether
// the remote mutation service is reachable.
//
// The monitor only observes. It never retries deliveries; subscribers react
// to transitions, and the sync engine is always one of them.
package netmon

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/MKhiriev/go-workout-keeper/internal/logger"
)

// State is a point-in-time network observation.
type State struct {
	// Online is true while at least one non-loopback interface is up and
	// has an address.
	Online bool
	// Reachable is true when the last probe of the remote service
	// succeeded. It is never true while Online is false.
	Reachable bool
}

// Prober confirms that the remote service answers.
type Prober interface {
	Probe(ctx context.Context) error
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithProber sets the reachability prober. Without one, an online device is
// assumed to reach the service.
func WithProber(p Prober) Option {
	return func(m *Monitor) { m.prober = p }
}

// WithInterval sets the polling period used by Run.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) { m.interval = d }
}

// WithInterfaceCheck replaces the interface presence check.
func WithInterfaceCheck(check func() bool) Option {
	return func(m *Monitor) { m.interfaces = check }
}

// Monitor tracks network state and notifies observers on every transition.
type Monitor struct {
	mu        sync.Mutex
	state     State
	observers map[uint64]func(State)
	nextID    uint64

	prober     Prober
	interval   time.Duration
	interfaces func() bool
	logger     *logger.Logger
}

func NewMonitor(logger *logger.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		observers:  make(map[uint64]func(State)),
		interval:   10 * time.Second,
		interfaces: hasUsableInterface,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Observe registers callback for state transitions. Callbacks run
// synchronously on the goroutine that changed the state and must not block.
func (m *Monitor) Observe(callback func(State)) (cancel func()) {
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.observers[id] = callback
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.observers, id)
		m.mu.Unlock()
	}
}

func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Online
}

// IsFullyReachable reports confirmed reachability of the remote service.
// Sync attempts are gated on it.
func (m *Monitor) IsFullyReachable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Online && m.state.Reachable
}

func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Set records a state pushed by a platform integration or a probe and
// notifies observers if it differs from the previous one.
func (m *Monitor) Set(online, reachable bool) {
	next := State{Online: online, Reachable: online && reachable}

	m.mu.Lock()
	if next == m.state {
		m.mu.Unlock()
		return
	}
	prev := m.state
	m.state = next
	observers := make([]func(State), 0, len(m.observers))
	for _, o := range m.observers {
		observers = append(observers, o)
	}
	m.mu.Unlock()

	m.logger.Info().
		Str("func", "Monitor.Set").
		Bool("online", next.Online).
		Bool("reachable", next.Reachable).
		Bool("was_reachable", prev.Reachable).
		Msg("network state changed")

	for _, o := range observers {
		o(next)
	}
}

// Check observes interfaces and probes the service once.
func (m *Monitor) Check(ctx context.Context) State {
	online := m.interfaces()
	reachable := online
	if online && m.prober != nil {
		if err := m.prober.Probe(ctx); err != nil {
			m.logger.Debug().Err(err).Str("func", "Monitor.Check").Msg("remote service is not reachable")
			reachable = false
		}
	}

	m.Set(online, reachable)
	return m.State()
}

// Run checks immediately and then every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

func hasUsableInterface() bool {
	interfaces, err := net.Interfaces()
	if err != nil {
		return false
	}

	for _, iface := range interfaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err == nil && len(addrs) > 0 {
			return true
		}
	}
	return false
}

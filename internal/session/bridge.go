// Package session carries the "unauthorized" signal from the transport to
// whoever owns the login flow.
//
// A Bridge is created once per process and injected where it is needed.
// Exactly one session controller may hold the handler slot; other parties
// subscribe as listeners. A burst of unauthorized responses fires the slot
// and the listeners once until the bridge is cleared.
package session

import (
	"sync"
	"sync/atomic"
)

// Bridge is an explicit event bus for unauthorized signals.
type Bridge struct {
	mu        sync.Mutex
	handler   func()
	handlerID uint64
	listeners map[uint64]func()
	nextID    uint64

	raised atomic.Bool
}

func NewBridge() *Bridge {
	return &Bridge{listeners: make(map[uint64]func())}
}

// OnUnauthorized installs handler as the session controller, replacing any
// previous one. The returned cancel removes handler only if it is still the
// installed one.
func (b *Bridge) OnUnauthorized(handler func()) (cancel func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handler = handler
	b.handlerID = id
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.handlerID == id {
			b.handler = nil
			b.handlerID = 0
		}
	}
}

// Subscribe adds listener to the set notified on every raised signal.
func (b *Bridge) Subscribe(listener func()) (cancel func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.listeners[id] = listener
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// NotifyUnauthorized raises the signal. The handler and listeners run
// synchronously on the caller goroutine, outside the bridge lock. Further
// calls are no-ops until Clear. With nothing registered nothing is raised.
func (b *Bridge) NotifyUnauthorized() {
	b.mu.Lock()
	if b.handler == nil && len(b.listeners) == 0 {
		b.mu.Unlock()
		return
	}
	if !b.raised.CompareAndSwap(false, true) {
		b.mu.Unlock()
		return
	}

	handler := b.handler
	listeners := make([]func(), 0, len(b.listeners))
	for _, l := range b.listeners {
		listeners = append(listeners, l)
	}
	b.mu.Unlock()

	if handler != nil {
		handler()
	}
	for _, l := range listeners {
		l()
	}
}

// Clear lowers the signal after the session was re-established.
func (b *Bridge) Clear() {
	b.raised.Store(false)
}

// Raised reports whether an unauthorized signal is pending.
func (b *Bridge) Raised() bool {
	return b.raised.Load()
}

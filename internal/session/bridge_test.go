package session

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBridge_NoRegistrationIsNoop(t *testing.T) {
	b := NewBridge()

	assert.NotPanics(t, b.NotifyUnauthorized)
	assert.False(t, b.Raised())
}

func TestBridge_LastHandlerWins(t *testing.T) {
	b := NewBridge()
	var first, second atomic.Int32

	cancelFirst := b.OnUnauthorized(func() { first.Add(1) })
	b.OnUnauthorized(func() { second.Add(1) })

	b.NotifyUnauthorized()

	assert.Zero(t, first.Load())
	assert.Equal(t, int32(1), second.Load())

	// cancelling a replaced handler must not remove the current one
	cancelFirst()
	b.Clear()
	b.NotifyUnauthorized()
	assert.Equal(t, int32(2), second.Load())
}

func TestBridge_CoalescesUntilCleared(t *testing.T) {
	b := NewBridge()
	var handled, listened atomic.Int32
	b.OnUnauthorized(func() { handled.Add(1) })
	b.Subscribe(func() { listened.Add(1) })

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.NotifyUnauthorized()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), handled.Load(), "burst must fire the handler once")
	assert.Equal(t, int32(1), listened.Load())
	assert.True(t, b.Raised())

	b.Clear()
	assert.False(t, b.Raised())

	b.NotifyUnauthorized()
	assert.Equal(t, int32(2), handled.Load())
}

func TestBridge_CancelSubscription(t *testing.T) {
	b := NewBridge()
	var calls atomic.Int32
	cancel := b.Subscribe(func() { calls.Add(1) })

	cancel()
	cancel()
	b.NotifyUnauthorized()

	assert.Zero(t, calls.Load())
	assert.False(t, b.Raised(), "signal is not raised without receivers")
}

func TestBridge_HandlerCanReenter(t *testing.T) {
	b := NewBridge()
	done := make(chan struct{})
	b.OnUnauthorized(func() {
		// the session controller reads bridge state from inside the callback
		_ = b.Raised()
		b.Subscribe(func() {})
		close(done)
	})

	b.NotifyUnauthorized()
	<-done
}

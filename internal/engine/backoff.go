package engine

import (
	"time"

	"github.com/sethvargo/go-retry"
)

// Backoff computes retry delays as min(base * 2^attempt, max).
type Backoff struct {
	base time.Duration
	max  time.Duration
}

func NewBackoff(base, max time.Duration) Backoff {
	if base <= 0 {
		base = time.Second
	}
	if max < base {
		max = base
	}
	return Backoff{base: base, max: max}
}

// Delay returns the wait after a failure of a record that had already been
// attempted attempt times.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	seq := retry.WithCappedDuration(b.max, retry.NewExponential(b.base))
	delay := b.base
	for range attempt + 1 {
		d, stop := seq.Next()
		if stop {
			break
		}
		delay = d
		if delay >= b.max {
			return b.max
		}
	}
	return delay
}

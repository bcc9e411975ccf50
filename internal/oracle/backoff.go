package oracle

import "time"

// Backoff is the single retry policy shared by every oracle-calling code
// path. Delays grow exponentially from BaseDelay and are capped at MaxDelay.
type Backoff struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultBackoff returns the retry policy used when none is configured.
func DefaultBackoff() Backoff {
	return Backoff{
		MaxAttempts: 5,
		BaseDelay:   1 * time.Second,
		MaxDelay:    10 * time.Second,
	}
}

func (b Backoff) normalized() Backoff {
	d := DefaultBackoff()
	if b.MaxAttempts <= 0 {
		b.MaxAttempts = d.MaxAttempts
	}
	if b.BaseDelay <= 0 {
		b.BaseDelay = d.BaseDelay
	}
	if b.MaxDelay <= 0 {
		b.MaxDelay = d.MaxDelay
	}
	return b
}

// Delay returns the wait before the attempt following the given 1-based
// attempt number: base, base*2, base*4, capped at MaxDelay.
func (b Backoff) Delay(attempt int) time.Duration {
	b = b.normalized()
	delay := b.BaseDelay
	for i := 1; i < attempt; i++ {
		if delay > b.MaxDelay/2 {
			return b.MaxDelay
		}
		delay *= 2
	}
	return b.Cap(delay)
}

// Cap clamps a delay (e.g. a server-supplied Retry-After) to MaxDelay.
func (b Backoff) Cap(delay time.Duration) time.Duration {
	b = b.normalized()
	if delay < 0 {
		return 0
	}
	if delay > b.MaxDelay {
		return b.MaxDelay
	}
	return delay
}

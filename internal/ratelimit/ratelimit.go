package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Policy decides how long a caller pauses before its next request to an upstream.
type Policy interface {
	Wait(ctx context.Context, key string) error
}

// FixedDelay sleeps a fixed delay before every request to an upstream except the first.
// The pause is a politeness contract with the search API, not a correctness one.
type FixedDelay struct {
	mu     sync.Mutex
	called map[string]bool // key: upstream name
	delay  time.Duration
}

// NewFixedDelay creates a policy that pauses delay between consecutive requests to the
// same upstream. A zero delay never blocks.
func NewFixedDelay(delay time.Duration) *FixedDelay {
	return &FixedDelay{
		called: make(map[string]bool),
		delay:  delay,
	}
}

// Wait blocks for the configured delay unless this is the first request to key.
// Returns an error if the context is cancelled while waiting.
func (p *FixedDelay) Wait(ctx context.Context, key string) error {
	p.mu.Lock()
	first := !p.called[key]
	p.called[key] = true
	p.mu.Unlock()

	if first || p.delay <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", key, ctx.Err())
	case <-time.After(p.delay):
	}
	return nil
}

// None never blocks.
type None struct{}

func (None) Wait(context.Context, string) error { return nil }

package socket

import (
	"context"
	"sync"
	"time"
)

// backoff between reconnect attempts, a factor of 1 keeps the interval fixed
type backoff struct {
	base         time.Duration
	max          time.Duration
	current      time.Duration
	factor       int
	backoffMutex *sync.Mutex
}

func newBackoff(startingTimeout time.Duration, maxTimeout time.Duration, increaseFactor int) *backoff {
	if increaseFactor < 1 {
		increaseFactor = 1
	}
	if maxTimeout < startingTimeout {
		maxTimeout = startingTimeout
	}
	return &backoff{
		base:         startingTimeout,
		max:          maxTimeout,
		current:      startingTimeout,
		factor:       increaseFactor,
		backoffMutex: &sync.Mutex{},
	}
}

func (b *backoff) increaseTimeout() {
	b.backoffMutex.Lock()
	defer b.backoffMutex.Unlock()
	b.current = b.current * time.Duration(b.factor)
	if b.current > b.max {
		b.current = b.max
	}
}

func (b *backoff) reset() {
	b.backoffMutex.Lock()
	defer b.backoffMutex.Unlock()
	b.current = b.base
}

// sleep returns false when the context ended first
func (b *backoff) sleep(ctx context.Context) bool {
	timer := time.NewTimer(b.getCurrentTimeout())
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (b *backoff) getCurrentTimeout() time.Duration {
	b.backoffMutex.Lock()
	defer b.backoffMutex.Unlock()
	return b.current
}

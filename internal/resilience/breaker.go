// Package resilience provides reliability patterns for calls that leave the
// process, primarily the API client's HTTP requests.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the circuit breaker is open and rejecting calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type state int

const (
	stateClosed state = iota
	stateOpen
	stateHalfOpen
)

// Breaker is a circuit breaker around an unreliable backend. After a run of
// consecutive failures it opens, rejecting calls outright until the cooldown
// elapses; the first call after the cooldown probes the backend (half-open)
// and either closes the circuit or reopens it.
type Breaker struct {
	mu       sync.Mutex
	state    state
	failures int
	limit    int
	cooldown time.Duration
	openedAt time.Time
	now      func() time.Time // for testing
}

// NewBreaker creates a breaker that opens after limit consecutive failures
// and stays open for the given cooldown before probing again.
func NewBreaker(limit int, cooldown time.Duration) *Breaker {
	return &Breaker{
		limit:    limit,
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Execute runs fn unless the circuit is open, in which case it returns
// ErrCircuitOpen without invoking fn.
func (b *Breaker) Execute(fn func() error) error {
	if !b.allow() {
		return ErrCircuitOpen
	}

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.recordFailure()
		return err
	}

	b.failures = 0
	b.state = stateClosed
	return nil
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateClosed, stateHalfOpen:
		return true
	case stateOpen:
		if b.now().Sub(b.openedAt) >= b.cooldown {
			b.state = stateHalfOpen
			return true
		}
		return false
	}
	return false
}

// recordFailure must be called with b.mu held.
func (b *Breaker) recordFailure() {
	b.failures++
	if b.state == stateHalfOpen || b.failures >= b.limit {
		b.state = stateOpen
		b.openedAt = b.now()
	}
}

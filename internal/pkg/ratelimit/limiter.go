package ratelimit

import (
	"sync"
	"time"

	"github.com/provek/interview-sim/internal/entity"
)

const defaultWindow = time.Minute

// Limiter caps outbound service calls to a fixed number per rolling window.
// When the window is full the call fails fast with ErrTooManyRequests
// instead of queuing. One Limiter is constructed per process and shared by
// all connectors.
type Limiter struct {
	mu        sync.Mutex
	calls     []time.Time
	maxCalls  int
	window    time.Duration
	now       func() time.Time
}

// New creates a limiter allowing maxCalls per rolling 60-second window.
func New(maxCalls int) *Limiter {
	return NewWithClock(maxCalls, defaultWindow, time.Now)
}

// NewWithClock injects the window and clock, for tests.
func NewWithClock(maxCalls int, window time.Duration, now func() time.Time) *Limiter {
	return &Limiter{
		maxCalls: maxCalls,
		window:   window,
		now:      now,
	}
}

// Allow records a call attempt. It returns entity.ErrTooManyRequests when
// the rolling window is already full; the caller must not attempt network
// I/O in that case.
func (l *Limiter) Allow() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	// Drop entries that fell out of the window.
	kept := l.calls[:0]
	for _, t := range l.calls {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.calls = kept

	if len(l.calls) >= l.maxCalls {
		return entity.ErrTooManyRequests
	}

	l.calls = append(l.calls, now)
	return nil
}

// Pending returns the number of calls currently counted in the window.
func (l *Limiter) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	count := 0
	for _, t := range l.calls {
		if t.After(cutoff) {
			count++
		}
	}
	return count
}

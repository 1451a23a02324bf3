package score

import (
	"context"
	"sync"
	"time"

	"github.com/Neverdecel/VacAI/errors"
)

// Limiter enforces max scoring calls per minute with a sliding window
type Limiter struct {
	maxCallsPerMinute int
	window            time.Duration
	mu                sync.Mutex
	callTimes         []time.Time
	timeNow           func() time.Time // Injectable for testing
}

// NewLimiter creates a rate limiter with real time
func NewLimiter(maxCallsPerMinute int) *Limiter {
	return NewLimiterWithClock(maxCallsPerMinute, time.Now)
}

// NewLimiterWithClock creates a rate limiter with an injectable clock
func NewLimiterWithClock(maxCallsPerMinute int, timeNow func() time.Time) *Limiter {
	return &Limiter{
		maxCallsPerMinute: maxCallsPerMinute,
		window:            time.Minute,
		callTimes:         make([]time.Time, 0, maxCallsPerMinute),
		timeNow:           timeNow,
	}
}

// Allow records a call if capacity remains in the window, or returns an
// error without recording anything.
func (r *Limiter) Allow() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.timeNow()
	r.removeExpiredCalls(now)

	if len(r.callTimes) >= r.maxCallsPerMinute {
		return errors.Newf("rate limit exceeded: %d calls in window (limit %d)",
			len(r.callTimes), r.maxCallsPerMinute)
	}

	r.callTimes = append(r.callTimes, now)
	return nil
}

// Wait blocks until a call is allowed or the context is cancelled
func (r *Limiter) Wait(ctx context.Context) error {
	for {
		if err := r.Allow(); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// removeExpiredCalls drops timestamps outside the sliding window.
// Must be called with the lock held; timestamps are ordered.
func (r *Limiter) removeExpiredCalls(now time.Time) {
	cutoff := now.Add(-r.window)
	expired := 0
	for _, callTime := range r.callTimes {
		if !callTime.After(cutoff) {
			expired++
		} else {
			break
		}
	}
	r.callTimes = r.callTimes[expired:]
}

// Stats returns calls in the current window and remaining capacity
func (r *Limiter) Stats() (callsInWindow int, remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeExpiredCalls(r.timeNow())
	callsInWindow = len(r.callTimes)
	remaining = r.maxCallsPerMinute - callsInWindow
	if remaining < 0 {
		remaining = 0
	}
	return callsInWindow, remaining
}

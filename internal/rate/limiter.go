// Package rate bounds how many new connections the server admits over a
// sliding time window.
package rate

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Limiter is a sliding window connection admission limiter. A zero or
// negative limit admits everything.
//
// Multiple goroutines may invoke methods on a Limiter simultaneously.
type Limiter struct {
	window  time.Duration
	limit   int
	history []time.Time // admission timestamps, oldest first
	mu      sync.Mutex
	clock   Clock
}

type Clock interface {
	Now() time.Time
}

func NewLimiter(window time.Duration, limit int) *Limiter {
	return &Limiter{
		window: window,
		limit:  limit,
		clock:  clock.New(),
	}
}

func NewLimiterWithClock(window time.Duration, limit int, clock Clock) *Limiter {
	return &Limiter{
		window: window,
		limit:  limit,
		clock:  clock,
	}
}

// Allow reports whether one more connection may be admitted now, recording
// the admission if so.
func (l *Limiter) Allow() bool {
	if l.limit <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	l.history = l.slide(now)

	if len(l.history) >= l.limit {
		return false
	}

	l.history = append(l.history, now)

	return true
}

// Slots returns the number of admissions left in the current window.
func (l *Limiter) Slots() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()
	return l.limit - len(l.slide(now))
}

func (l *Limiter) slide(now time.Time) []time.Time {
	window := now.Add(-l.window)
	i := 0
	for i < len(l.history) && l.history[i].Before(window) {
		i++
	}
	return append(l.history[:0:0], l.history[i:]...)
}

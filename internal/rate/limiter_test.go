package rate_test

import (
	"testing"
	"time"

	"trivia-backend/internal/rate"

	"github.com/benbjohnson/clock"
)

func TestLimiter_Allow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		window      time.Duration
		limit       int
		connections int
		expect      bool
		interval    time.Duration
		sleep       time.Duration
	}{
		{
			name:        "Within limit",
			window:      time.Minute,
			limit:       10,
			connections: 10,
			expect:      true,
		},
		{
			name:        "At limit",
			window:      time.Minute,
			limit:       10,
			connections: 11,
			expect:      false,
		},
		{
			name:        "Within limit after slide",
			window:      10 * time.Millisecond,
			interval:    time.Millisecond,
			limit:       10,
			connections: 11,
			sleep:       time.Millisecond,
			expect:      true,
		},
		{
			name:        "At limit after slide",
			window:      10 * time.Millisecond,
			limit:       10,
			connections: 11,
			sleep:       9 * time.Millisecond,
			expect:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			clock := clock.NewMock()
			limiter := rate.NewLimiterWithClock(tt.window, tt.limit, clock)

			clock.Set(time.Now())

			for i := 1; i < tt.connections; i++ {
				limiter.Allow()
				clock.Add(tt.interval)
			}

			clock.Add(tt.sleep)

			if got, want := limiter.Allow(), tt.expect; got != want {
				t.Fatalf("Invalid connection admission, got %v, want %v", got, want)
			}
		})
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	t.Parallel()

	limiter := rate.NewLimiter(time.Minute, 0)
	for range 100 {
		if !limiter.Allow() {
			t.Fatal("Expected unlimited limiter to admit every connection")
		}
	}
}

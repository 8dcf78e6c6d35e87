package ratelimit

import "time"

// Decision is the outcome of a single admission check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter admits or rejects requests per key (typically a client address).
type Limiter interface {
	Allow(key string) Decision
	// Sweep drops state that can no longer affect a decision and returns
	// the number of keys removed.
	Sweep(now time.Time) int
	Len() int
}

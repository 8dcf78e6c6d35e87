package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"relay/pkg/clock"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// TokenBucket keeps one x/time/rate limiter per key. Buckets idle for longer
// than maxIdle are dropped by Sweep.
type TokenBucket struct {
	rps     rate.Limit
	burst   int
	maxIdle time.Duration
	clock   clock.Clock

	mu      sync.Mutex
	buckets map[string]*bucket
}

func NewTokenBucket(rps float64, burst int, maxIdle time.Duration, clk clock.Clock) *TokenBucket {
	if clk == nil {
		clk = clock.Real()
	}
	return &TokenBucket{
		rps:     rate.Limit(rps),
		burst:   burst,
		maxIdle: maxIdle,
		clock:   clk,
		buckets: make(map[string]*bucket),
	}
}

func (t *TokenBucket) Allow(key string) Decision {
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(t.rps, t.burst)}
		t.buckets[key] = b
	}
	b.lastSeen = now

	if !b.limiter.AllowN(now, 1) {
		retry := time.Second
		if t.rps > 0 {
			retry = time.Duration(math.Ceil(float64(time.Second) / float64(t.rps)))
		}
		return Decision{
			Allowed:    false,
			Limit:      t.burst,
			Remaining:  0,
			RetryAfter: retry,
		}
	}

	remaining := int(b.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   true,
		Limit:     t.burst,
		Remaining: remaining,
	}
}

func (t *TokenBucket) Sweep(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for key, b := range t.buckets {
		if now.Sub(b.lastSeen) > t.maxIdle {
			delete(t.buckets, key)
			removed++
		}
	}
	return removed
}

func (t *TokenBucket) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.buckets)
}

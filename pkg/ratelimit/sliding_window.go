package ratelimit

import (
	"sync"
	"time"

	"relay/pkg/clock"
)

// SlidingWindow admits at most Max requests per key within any trailing Window.
// Only admitted requests are recorded, so a rejected burst does not extend the
// penalty.
type SlidingWindow struct {
	window time.Duration
	max    int
	clock  clock.Clock

	mu   sync.Mutex
	hits map[string][]time.Time
}

func NewSlidingWindow(window time.Duration, max int, clk clock.Clock) *SlidingWindow {
	if clk == nil {
		clk = clock.Real()
	}
	return &SlidingWindow{
		window: window,
		max:    max,
		clock:  clk,
		hits:   make(map[string][]time.Time),
	}
}

func (s *SlidingWindow) Allow(key string) Decision {
	return s.AllowAt(key, s.clock.Now())
}

// AllowAt purges, checks and records under a single lock.
func (s *SlidingWindow) AllowAt(key string, now time.Time) Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.purge(s.hits[key], now)

	if len(live) >= s.max {
		s.hits[key] = live
		// The oldest live hit is the first to leave the window.
		retry := s.window - now.Sub(live[0])
		if retry < time.Second {
			retry = time.Second
		}
		return Decision{
			Allowed:    false,
			Limit:      s.max,
			Remaining:  0,
			RetryAfter: retry,
		}
	}

	live = append(live, now)
	s.hits[key] = live

	return Decision{
		Allowed:   true,
		Limit:     s.max,
		Remaining: s.max - len(live),
	}
}

// purge returns the suffix of hits still inside the window. Hits are kept
// in admission order, so the first live one ends the scan.
func (s *SlidingWindow) purge(hits []time.Time, now time.Time) []time.Time {
	i := 0
	for i < len(hits) && now.Sub(hits[i]) >= s.window {
		i++
	}
	if i == 0 {
		return hits
	}
	live := make([]time.Time, len(hits)-i)
	copy(live, hits[i:])
	return live
}

func (s *SlidingWindow) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, hits := range s.hits {
		live := s.purge(hits, now)
		if len(live) == 0 {
			delete(s.hits, key)
			removed++
			continue
		}
		s.hits[key] = live
	}
	return removed
}

func (s *SlidingWindow) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hits)
}

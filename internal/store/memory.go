package store

import (
	"sort"
	"sync"
	"time"

	"relay/pkg/clock"
	"relay/pkg/metrics"
	"relay/pkg/models"
)

type MemoryStore struct {
	ttl    time.Duration
	policy ReadPolicy
	clock  clock.Clock

	mu      sync.Mutex
	entries map[string]models.Envelope
}

func NewMemoryStore(ttl time.Duration, policy ReadPolicy, clk clock.Clock) *MemoryStore {
	if clk == nil {
		clk = clock.Real()
	}
	if policy == "" {
		policy = ReadKeep
	}
	return &MemoryStore{
		ttl:     ttl,
		policy:  policy,
		clock:   clk,
		entries: make(map[string]models.Envelope),
	}
}

func (s *MemoryStore) Policy() ReadPolicy {
	return s.policy
}

func (s *MemoryStore) TTL() time.Duration {
	return s.ttl
}

func (s *MemoryStore) Put(env models.Envelope) {
	s.mu.Lock()
	s.entries[env.RequestID] = env
	n := len(s.entries)
	s.mu.Unlock()

	metrics.SetStoreEntries(n)
}

func (s *MemoryStore) Get(id string) (models.Envelope, bool) {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	env, ok := s.entries[id]
	if !ok {
		return models.Envelope{}, false
	}

	if s.expired(env, now) {
		delete(s.entries, id)
		metrics.AddEvictions("expired", 1)
		metrics.SetStoreEntries(len(s.entries))
		return models.Envelope{}, false
	}

	if s.policy == ReadConsume {
		delete(s.entries, id)
		metrics.AddEvictions("consumed", 1)
		metrics.SetStoreEntries(len(s.entries))
	}

	return env, true
}

func (s *MemoryStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	metrics.AddEvictions("cleared", 1)
	metrics.SetStoreEntries(len(s.entries))
	return true
}

func (s *MemoryStore) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	s.entries = make(map[string]models.Envelope)
	metrics.AddEvictions("cleared", n)
	metrics.SetStoreEntries(0)
	return n
}

func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, env := range s.entries {
		if s.expired(env, now) {
			delete(s.entries, id)
			removed++
		}
	}
	metrics.AddEvictions("expired", removed)
	metrics.SetStoreEntries(len(s.entries))
	return removed
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Snapshot lists stored entries ordered by arrival, without result bodies.
func (s *MemoryStore) Snapshot() []models.EnvelopeSummary {
	s.mu.Lock()
	out := make([]models.EnvelopeSummary, 0, len(s.entries))
	for _, env := range s.entries {
		out = append(out, env.Summary())
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].ReceivedAt.Equal(out[j].ReceivedAt) {
			return out[i].RequestID < out[j].RequestID
		}
		return out[i].ReceivedAt.Before(out[j].ReceivedAt)
	})
	return out
}

func (s *MemoryStore) expired(env models.Envelope, now time.Time) bool {
	return env.Age(now) >= s.ttl
}

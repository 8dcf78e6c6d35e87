package store

import (
	"context"
	"sync"
	"time"

	"relay/internal/logger"
	"relay/pkg/clock"
	apperrors "relay/pkg/errors"
	"relay/pkg/metrics"
)

// Sweepable is anything holding time-bounded state: the store and the limiters.
type Sweepable interface {
	Sweep(now time.Time) int
}

type sweepTarget struct {
	name string
	t    Sweepable
}

// Sweeper periodically evicts expired state from its targets, independent of
// request traffic. Each target sweeps under its own lock.
type Sweeper struct {
	interval time.Duration
	clock    clock.Clock
	logger   logger.Logger

	targets []sweepTarget

	mu      sync.RWMutex
	lastRun time.Time
}

func NewSweeper(interval time.Duration, clk clock.Clock, log logger.Logger) *Sweeper {
	if clk == nil {
		clk = clock.Real()
	}
	if log == nil {
		log = logger.NopLogger()
	}
	return &Sweeper{
		interval: interval,
		clock:    clk,
		logger:   log,
	}
}

// Add registers a target. Must be called before Run.
func (s *Sweeper) Add(name string, t Sweepable) {
	s.targets = append(s.targets, sweepTarget{name: name, t: t})
}

// Run sweeps every interval until ctx is cancelled. It always returns nil so
// that a shutdown is not reported as a failure by the caller's errgroup.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Infow("sweeper started", "interval", s.interval.String(), "targets", len(s.targets))

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("sweeper stopped")
			return nil
		case <-ticker.C:
			s.SweepOnce(s.clock.Now())
		}
	}
}

// SweepOnce runs one pass over every target and returns the removals per target.
func (s *Sweeper) SweepOnce(now time.Time) map[string]int {
	start := time.Now()
	removed := make(map[string]int, len(s.targets))

	for _, target := range s.targets {
		removed[target.name] = s.sweepTarget(target, now)
	}

	s.mu.Lock()
	s.lastRun = now
	s.mu.Unlock()

	metrics.ObserveSweepDuration(time.Since(start))
	s.logger.Debugw("sweep completed", "removed", removed)
	return removed
}

func (s *Sweeper) sweepTarget(target sweepTarget, now time.Time) (n int) {
	defer func() {
		if r := recover(); r != nil {
			err := apperrors.RecoverPanic(r)
			s.logger.Errorw("sweep panicked", "target", target.name, "error", err)
			n = 0
		}
	}()
	return target.t.Sweep(now)
}

// LastRun returns the time of the last completed pass, zero if none.
func (s *Sweeper) LastRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}

func (s *Sweeper) Interval() time.Duration {
	return s.interval
}

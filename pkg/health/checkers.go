package health

import (
	"context"
	"fmt"
	"time"

	"relay/pkg/clock"
)

// Counter is satisfied by the correlation store.
type Counter interface {
	Len() int
}

// StoreChecker fails when the store lock cannot be taken within the timeout.
type StoreChecker struct {
	store   Counter
	timeout time.Duration
}

func NewStoreChecker(store Counter, timeout time.Duration) *StoreChecker {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &StoreChecker{store: store, timeout: timeout}
}

func (c *StoreChecker) Name() string {
	return "store"
}

func (c *StoreChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		c.store.Len()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("store did not respond: %w", ctx.Err())
	}
}

// SweepMonitor exposes when the background sweep last completed.
type SweepMonitor interface {
	LastRun() time.Time
	Interval() time.Duration
}

// SweeperChecker reports degraded when no sweep has completed for several
// intervals. Expired entries are still hidden from readers, but memory grows.
type SweeperChecker struct {
	sweeper   SweepMonitor
	clock     clock.Clock
	startedAt time.Time
	tolerance int
}

func NewSweeperChecker(sweeper SweepMonitor, clk clock.Clock) *SweeperChecker {
	if clk == nil {
		clk = clock.Real()
	}
	return &SweeperChecker{
		sweeper:   sweeper,
		clock:     clk,
		startedAt: clk.Now(),
		tolerance: 3,
	}
}

func (c *SweeperChecker) Name() string {
	return "sweeper"
}

func (c *SweeperChecker) Check(ctx context.Context) error {
	last := c.sweeper.LastRun()
	if last.IsZero() {
		last = c.startedAt
	}

	limit := time.Duration(c.tolerance) * c.sweeper.Interval()
	if since := c.clock.Now().Sub(last); since > limit {
		return Degraded(fmt.Sprintf("last sweep %s ago", since.Truncate(time.Second)))
	}
	return nil
}

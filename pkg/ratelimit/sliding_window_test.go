package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relay/pkg/clock"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func TestSlidingWindow_Boundary(t *testing.T) {
	clk := clock.NewFake(t0)
	sw := NewSlidingWindow(60*time.Second, 20, clk)

	for i := 0; i < 20; i++ {
		d := sw.Allow("10.0.0.1")
		require.True(t, d.Allowed, "request %d", i+1)
		assert.Equal(t, 20-(i+1), d.Remaining)
	}

	d := sw.Allow("10.0.0.1")
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, 60*time.Second, d.RetryAfter)

	// Other addresses are unaffected.
	assert.True(t, sw.Allow("10.0.0.2").Allowed)

	clk.Advance(60 * time.Second)
	assert.True(t, sw.Allow("10.0.0.1").Allowed, "window fully elapsed")
}

func TestSlidingWindow_TrailingNotFixed(t *testing.T) {
	sw := NewSlidingWindow(10*time.Second, 2, nil)

	require.True(t, sw.AllowAt("k", t0).Allowed)
	require.True(t, sw.AllowAt("k", t0.Add(5*time.Second)).Allowed)

	d := sw.AllowAt("k", t0.Add(9*time.Second))
	require.False(t, d.Allowed)
	assert.Equal(t, time.Second, d.RetryAfter)

	// First hit leaves the window at exactly t0+10s.
	assert.True(t, sw.AllowAt("k", t0.Add(10*time.Second)).Allowed)
	assert.False(t, sw.AllowAt("k", t0.Add(11*time.Second)).Allowed)
}

func TestSlidingWindow_RejectionsAreNotRecorded(t *testing.T) {
	sw := NewSlidingWindow(10*time.Second, 1, nil)

	require.True(t, sw.AllowAt("k", t0).Allowed)
	for i := 1; i < 10; i++ {
		require.False(t, sw.AllowAt("k", t0.Add(time.Duration(i)*time.Second)).Allowed)
	}
	assert.True(t, sw.AllowAt("k", t0.Add(10*time.Second)).Allowed)
}

func TestSlidingWindow_Sweep(t *testing.T) {
	sw := NewSlidingWindow(time.Minute, 5, nil)

	sw.AllowAt("old", t0)
	sw.AllowAt("new", t0.Add(50*time.Second))
	require.Equal(t, 2, sw.Len())

	removed := sw.Sweep(t0.Add(70 * time.Second))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, sw.Len())

	removed = sw.Sweep(t0.Add(2 * time.Minute))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, sw.Len())
}

func TestSlidingWindow_ConcurrentAdmissionNeverExceedsMax(t *testing.T) {
	clk := clock.NewFake(t0)
	sw := NewSlidingWindow(time.Minute, 20, clk)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sw.Allow("shared").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, allowed)
}

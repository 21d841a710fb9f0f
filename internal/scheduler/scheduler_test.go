package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nan-gogh/Mighty-Pokemon-Searchstring-Generator/internal/config"
)

const testMargin = 1000 * time.Millisecond

// settableClock is a mutable fake clock safe for concurrent reads.
type settableClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *settableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *settableClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// TestNextDelay_UTCBoundary covers the delay computation against the
// UTC day boundary, including the exact-midnight edge.
func TestNextDelay_UTCBoundary(t *testing.T) {
	s := New(&settableClock{}, config.BoundaryUTC, time.UTC, testMargin, func() {})

	tests := []struct {
		name     string
		now      time.Time
		expected time.Duration
		desc     string
	}{
		{
			name:     "Exactly midnight",
			now:      time.Date(2024, 11, 25, 0, 0, 0, 0, time.UTC),
			expected: 24*time.Hour + testMargin,
			desc:     "At the boundary, the next boundary is a full day away",
		},
		{
			name:     "One second before midnight",
			now:      time.Date(2024, 11, 25, 23, 59, 59, 0, time.UTC),
			expected: time.Second + testMargin,
			desc:     "Margin keeps the firing strictly after the boundary",
		},
		{
			name:     "Midday",
			now:      time.Date(2024, 11, 25, 12, 0, 0, 0, time.UTC),
			expected: 12*time.Hour + testMargin,
		},
		{
			name:     "Sub-second remainder",
			now:      time.Date(2024, 11, 25, 23, 59, 59, 500_000_000, time.UTC),
			expected: 500*time.Millisecond + testMargin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.NextDelay(tt.now), tt.desc)
		})
	}
}

// TestNextDelay_LocalBoundary verifies the delay tracks the configured
// zone's midnight, not UTC's.
func TestNextDelay_LocalBoundary(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("zone database unavailable: %v", err)
	}

	s := New(&settableClock{}, config.BoundaryLocal, tokyo, testMargin, func() {})

	// 2024-11-25T00:00:00Z is 09:00 in Tokyo; local midnight is 15h out.
	now := time.Date(2024, 11, 25, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 15*time.Hour+testMargin, s.NextDelay(now))

	// The same scheduler against UTC would see a full day.
	sUTC := New(&settableClock{}, config.BoundaryUTC, tokyo, testMargin, func() {})
	assert.Equal(t, 24*time.Hour+testMargin, sUTC.NextDelay(now))
}

// TestNextDelay_AtLeastMargin samples instants across a day and checks
// the floor holds everywhere.
func TestNextDelay_AtLeastMargin(t *testing.T) {
	s := New(&settableClock{}, config.BoundaryUTC, time.UTC, testMargin, func() {})

	start := time.Date(2024, 11, 25, 0, 0, 0, 0, time.UTC)
	for offset := time.Duration(0); offset < 24*time.Hour; offset += 37 * time.Minute {
		delay := s.NextDelay(start.Add(offset))
		assert.GreaterOrEqual(t, delay, testMargin, "delay at offset %v", offset)
		assert.Positive(t, delay)
	}
}

// TestArm_Idempotent verifies re-arming cancels the pending timer and
// recomputes the delay from the clock at the second call.
func TestArm_Idempotent(t *testing.T) {
	clock := &settableClock{}
	clock.Set(time.Date(2024, 11, 25, 12, 0, 0, 0, time.UTC))

	s := New(clock, config.BoundaryUTC, time.UTC, testMargin, func() {})
	defer s.Stop()

	s.Arm()
	require.True(t, s.Pending())
	first := s.timer
	firstDelay := s.lastDelay
	assert.Equal(t, 12*time.Hour+testMargin, firstDelay)

	// Advance the clock; the second Arm must replace the timer and use
	// the new reading, not the one from the first call.
	clock.Set(time.Date(2024, 11, 25, 18, 0, 0, 0, time.UTC))
	s.Arm()

	assert.True(t, s.Pending(), "exactly one timer remains pending")
	assert.NotSame(t, first, s.timer, "the pending timer was replaced")
	assert.False(t, first.Stop(), "the first timer was already cancelled")
	assert.Equal(t, 6*time.Hour+testMargin, s.lastDelay)
}

// TestFire_InvokesCallbackThenRearms drives one cycle directly and
// checks the ARMED state is restored afterwards.
func TestFire_InvokesCallbackThenRearms(t *testing.T) {
	clock := &settableClock{}
	clock.Set(time.Date(2024, 11, 25, 12, 0, 0, 0, time.UTC))

	var fired atomic.Int32
	s := New(clock, config.BoundaryUTC, time.UTC, testMargin, func() {
		fired.Add(1)
	})
	defer s.Stop()

	s.fire()

	assert.Equal(t, int32(1), fired.Load(), "the callback runs exactly once per cycle")
	assert.True(t, s.Pending(), "firing re-arms for the next boundary")
}

// TestStop_CancelsPendingTimer ensures Stop tears down the timer and
// later Arm calls are no-ops.
func TestStop_CancelsPendingTimer(t *testing.T) {
	clock := &settableClock{}
	clock.Set(time.Date(2024, 11, 25, 12, 0, 0, 0, time.UTC))

	s := New(clock, config.BoundaryUTC, time.UTC, testMargin, func() {})
	s.Arm()
	require.True(t, s.Pending())

	s.Stop()
	assert.False(t, s.Pending())

	s.Arm()
	assert.False(t, s.Pending(), "a stopped scheduler must not re-arm")
}

// TestRun_InitialRender verifies the eager render happens before the
// first scheduled cycle and that cancellation stops the scheduler.
func TestRun_InitialRender(t *testing.T) {
	clock := &settableClock{}
	clock.Set(time.Date(2024, 11, 25, 12, 0, 0, 0, time.UTC))

	var fired atomic.Int32
	s := New(clock, config.BoundaryUTC, time.UTC, testMargin, func() {
		fired.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, true)
		close(done)
	}()

	// The initial render is synchronous within Run, before the block on
	// ctx; poll briefly rather than assuming goroutine scheduling.
	assert.Eventually(t, func() bool {
		return fired.Load() == 1 && s.Pending()
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	assert.False(t, s.Pending())
}

// TestRun_NoInitialRender confirms the eager render is skippable.
func TestRun_NoInitialRender(t *testing.T) {
	clock := &settableClock{}
	clock.Set(time.Date(2024, 11, 25, 12, 0, 0, 0, time.UTC))

	var fired atomic.Int32
	s := New(clock, config.BoundaryUTC, time.UTC, testMargin, func() {
		fired.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, false)
		close(done)
	}()

	assert.Eventually(t, func() bool { return s.Pending() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())

	cancel()
	<-done
}

// Package scheduler re-invokes a rendering callback once per calendar
// day, immediately after the configured midnight boundary.
//
// The elapsed-day math elsewhere in this program is anchored to UTC,
// while the original behavior refreshes at the host's local midnight.
// Which boundary the refresh tracks is therefore a configuration
// choice (config.BoundaryLocal or config.BoundaryUTC), not something
// this package decides.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nan-gogh/Mighty-Pokemon-Searchstring-Generator/internal/config"
	"github.com/nan-gogh/Mighty-Pokemon-Searchstring-Generator/internal/engine"
)

// Scheduler owns the single outstanding timer. At most one timer is
// pending at any point: arming always cancels the previous timer
// first, so the callback can never fire twice for one cycle.
type Scheduler struct {
	clock    engine.Clock
	boundary string
	loc      *time.Location
	margin   time.Duration
	callback func()

	mu        sync.Mutex
	timer     *time.Timer
	lastDelay time.Duration
	stopped   bool
}

// New creates a Scheduler. loc is the zone used for the local boundary;
// it is ignored when boundary is config.BoundaryUTC. margin is added to
// every computed delay so timer-granularity jitter cannot fire the
// callback fractionally before the boundary.
func New(clock engine.Clock, boundary string, loc *time.Location, margin time.Duration, callback func()) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		clock:    clock,
		boundary: boundary,
		loc:      loc,
		margin:   margin,
		callback: callback,
	}
}

// NextDelay computes the interval from now until just after the next
// midnight boundary. The result is always at least the safety margin:
// invoked at exactly midnight, the next boundary is a full day away.
func (s *Scheduler) NextDelay(now time.Time) time.Duration {
	ref := now.In(s.loc)
	if s.boundary == config.BoundaryUTC {
		ref = now.UTC()
	}

	midnight := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	next := midnight.AddDate(0, 0, 1)

	delay := next.Sub(ref) + s.margin
	if delay < s.margin {
		delay = s.margin
	}
	return delay
}

// Arm schedules the next firing, replacing any pending timer. The
// delay is computed from the clock at the moment of this call.
func (s *Scheduler) Arm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armLocked()
}

func (s *Scheduler) armLocked() {
	if s.stopped {
		return
	}

	if s.timer != nil {
		s.timer.Stop()
	}

	now := s.clock.Now()
	delay := s.NextDelay(now)
	s.lastDelay = delay
	s.timer = time.AfterFunc(delay, s.fire)

	slog.Debug(config.MsgSchedulerArmed,
		config.LogKeyComponent, config.CompScheduler,
		config.LogKeyBoundary, s.boundary,
		config.LogKeyDelay, delay.String(),
		config.LogKeyFireAt, now.Add(delay).Format(time.RFC3339),
	)
}

// fire runs one cycle: invoke the callback, then re-arm for the next
// boundary. A wake-up delayed by host suspension still fires exactly
// once; the re-arm targets the boundary after the late firing, so
// missed cycles are not replayed.
func (s *Scheduler) fire() {
	s.callback()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.armLocked()
}

// Stop cancels any pending timer and prevents further arming.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Pending reports whether a timer is currently outstanding.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil && !s.stopped
}

// Run performs the eager initial render when requested, arms the first
// timer, and blocks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, initialRender bool) {
	if initialRender {
		s.callback()
	}

	s.Arm()

	<-ctx.Done()
	slog.Info(config.MsgSchedulerStop, config.LogKeyComponent, config.CompScheduler)
	s.Stop()
}

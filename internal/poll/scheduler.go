// Package poll owns the refresh cadence: at most one fetch in flight, ticks
// that coalesce instead of queueing, and cancellation of stale fetches.
package poll

import (
	"context"
	"time"
)

// DefaultInterval is the refresh cadence when the config does not set one.
const DefaultInterval = 10 * time.Second

// Scheduler tracks the single in-flight fetch. It is driven entirely from
// the event loop goroutine, so it needs no lock; the background fetch only
// sees the derived context.
//
// The next tick is scheduled when a fetch completes, not on a fixed
// wall-clock cadence: a slow gh invocation slows the polling rate down
// instead of piling up invocations behind it.
type Scheduler struct {
	interval time.Duration
	gen      uint64
	inflight bool
	cancel   context.CancelFunc
}

// NewScheduler returns a scheduler with the given interval, falling back to
// DefaultInterval for non-positive values.
func NewScheduler(interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{interval: interval}
}

// Interval returns the delay between a fetch completing and the next tick.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Gen returns the current generation. Ticks are stamped with it when they
// are armed, so a tick from a chain that predates a newer fetch can be
// recognized as stale and dropped instead of forking the cadence.
func (s *Scheduler) Gen() uint64 { return s.gen }

// InFlight reports whether a fetch is currently pending.
func (s *Scheduler) InFlight() bool { return s.inflight }

// Begin attempts to start a fetch. When one is already pending the attempt
// is coalesced: ok is false and nothing is started. Otherwise it returns a
// cancellable context for the fetch and the generation number its result
// must carry back to Finish.
func (s *Scheduler) Begin(parent context.Context) (ctx context.Context, gen uint64, ok bool) {
	if s.inflight {
		return nil, 0, false
	}
	s.gen++
	ctx, s.cancel = context.WithCancel(parent)
	s.inflight = true
	return ctx, s.gen, true
}

// Finish records the completion of the fetch with the given generation and
// reports whether its result is current. A false return means the fetch was
// cancelled in the meantime and its result must be discarded.
func (s *Scheduler) Finish(gen uint64) bool {
	if !s.inflight || gen != s.gen {
		return false
	}
	s.inflight = false
	s.release()
	return true
}

// Cancel aborts the in-flight fetch, if any. The fetch's context is
// cancelled (killing the child process) and its eventual result is made
// stale so Finish rejects it.
func (s *Scheduler) Cancel() {
	if !s.inflight {
		return
	}
	s.inflight = false
	s.gen++
	s.release()
}

func (s *Scheduler) release() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/pollstream/live-polls/polls"
)

// Scheduler promotes scheduled polls to published once their publish time
// has passed. Ticks never overlap: if one runs long, the next is skipped.
type Scheduler struct {
	lifecycle *polls.Lifecycle
	interval  time.Duration
	ticking   atomic.Bool
}

// New creates a scheduler. A non-positive interval gets the reference
// cadence of one minute.
func New(lifecycle *polls.Lifecycle, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{lifecycle: lifecycle, interval: interval}
}

// Run ticks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("publish scheduler started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("publish scheduler stopped")
			return
		case now := <-ticker.C:
			s.Tick(now)
		}
	}
}

// Tick publishes every poll that has become due. A failure on one poll is
// logged and does not stop the rest of the pass or future ticks.
func (s *Scheduler) Tick(now time.Time) {
	if !s.ticking.CompareAndSwap(false, true) {
		slog.Warn("publish tick still running, skipping")
		return
	}
	defer s.ticking.Store(false)

	due, err := s.lifecycle.DuePolls(now)
	if err != nil {
		slog.Error("failed to list due polls", "error", err)
		return
	}

	for _, pollID := range due {
		// PublishScheduled's guarded update makes re-publication a no-op
		// even if the poll was published between the read and here.
		if _, err := s.lifecycle.PublishScheduled(pollID); err != nil {
			slog.Error("failed to auto-publish poll", "error", err, "poll_id", pollID)
		}
	}
}

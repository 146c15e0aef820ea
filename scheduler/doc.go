// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scheduler promotes scheduled polls to published once their
publish time arrives.

# Usage

Run the scheduler as a background goroutine alongside the server:

	go scheduler.New(lifecycle, cfg.PublishInterval).Run(ctx)

Run ticks at the configured interval (default one minute) until the
context is cancelled. Each tick asks the lifecycle for due polls and
publishes them through the same guarded path as manual publication, so
a poll goes live at most once no matter who gets there first.

A failure on one poll is logged and does not stop the rest of the pass.
Ticks never overlap; if a pass runs longer than the interval, the next
tick is skipped.
*/
package scheduler

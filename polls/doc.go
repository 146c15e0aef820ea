// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package polls implements the core polling domain: poll lifecycle, the
vote ledger, and result aggregation.

# Components

Three components share the database handle and the broadcast hub:

  - Lifecycle: create, publish, close, edit, and delete polls and options
  - Ledger: vote casting with the one-vote-per-user-per-poll invariant
  - Aggregator: per-poll result snapshots (option id, text, count)

Constructed with dependency injection:

	agg := polls.NewAggregator(db)
	ledger := polls.NewLedger(db, agg, hub)
	lifecycle := polls.NewLifecycle(db, agg, hub)

# The Vote Ledger

CastVote enforces one active ballot per user per poll. Casting for the
same option again is a no-op; casting for a different option moves the
ballot. The database's UNIQUE (user_id, poll_id) constraint is the
authority; a concurrent duplicate insert falls back to reassignment.

Votes are accepted only while the poll is published and not closed.

# Publication

Polls without a publish time go live on creation. A future publish time
leaves the poll unpublished until either PublishNow (creator or admin)
or the scheduler's PublishScheduled promotes it. PublishScheduled uses a
guarded UPDATE so promotion happens at most once.

# Broadcasts

Every committed mutation that changes what viewers see (vote, publish,
option delete) pushes a fresh result snapshot to the poll's topic on the
hub. Closing pushes pollClosed, deletion pushes pollDeleted.

# Errors

All operations fail with apperr kinds (not found, validation, forbidden,
invalid state, internal) which the HTTP layer maps to status codes.
*/
package polls

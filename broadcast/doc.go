// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package broadcast provides the in-process pub/sub hub that fans poll
events out to connected viewers.

# Topics

Each poll id is a topic. Subscribers join and leave freely:

	sub := broadcast.NewSubscriber(16)
	hub.Subscribe(pollID, sub)
	defer hub.UnsubscribeAll(sub)

	for ev := range sub.Events() {
		// ...
	}

# Events

Three event types flow through the hub:

	resultsUpdated - new tally snapshot (carries results)
	pollClosed     - voting has ended
	pollDeleted    - the poll is gone; streams should end

# Delivery Semantics

Publish is synchronous and ordered: events for one topic reach a given
subscriber in publish order. Delivery is best-effort; a subscriber whose
channel buffer is full misses that event rather than blocking the
publisher. There is no persistence or replay - a new subscriber starts
from whatever happens next (callers send an initial snapshot themselves).
*/
package broadcast

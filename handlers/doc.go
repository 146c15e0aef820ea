// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the live-polls API.

# Handler Types

Each handler is a struct with its dependencies injected:

  - AuthHandler: registration and login
  - PollHandler: poll lifecycle, options, and voting
  - AdminHandler: admin-only listings (all polls, voters)
  - EventsHandler: server-sent event streams per poll

Handlers are created via constructor functions:

	pollHandler := handlers.NewPollHandler(lifecycle, ledger)
	eventsHandler := handlers.NewEventsHandler(db, agg, hub)

# Error Mapping

Handlers delegate to the polls core and translate its error kinds:

	validation    → 400
	forbidden     → 403
	not found     → 404
	invalid state → 409
	conflict      → 409
	internal      → 500 (generic message; details go to the log)

# Event Streams

GET /polls/{id}/events serves text/event-stream. The stream opens with a
fresh result snapshot, then relays resultsUpdated, pollClosed, and
pollDeleted events as they happen, with a keepalive comment every 30
seconds. pollDeleted ends the stream.
*/
package handlers

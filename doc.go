// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the live-polls API server.

Live-polls is a real-time polling service: members create polls, vote
(one ballot per member per poll, re-castable), and every viewer of a
poll sees the tally move live over a server-sent event stream.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=polls.db JWT_SECRET=... go run main.go

Or with flags:

	go run main.go -p 4000 -d polls.db -jwt-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite path or PostgreSQL connection string
  - JWT_SECRET (-jwt-secret): Secret for bearer token signing

Optional settings:

  - PORT (-p): Server port (default: 4000)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - PUBLISH_INTERVAL (-publish-interval): Scheduler cadence (default: 1m)
  - ADMIN_NAME / ADMIN_EMAIL / ADMIN_PASSWORD: Bootstrap admin account

# Architecture

The server uses a handler-based architecture with dependency injection:

  - polls: Core domain (lifecycle, vote ledger, result aggregation)
  - broadcast: In-process pub/sub hub for poll topics
  - scheduler: Background publisher for scheduled polls
  - handlers: HTTP request handlers (auth, polls, admin, events)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Auth, CORS, logging, JSON helpers
  - models: Request/response and domain types
  - apperr: Error taxonomy shared by the core components
  - auth: JWT and password hashing utilities
  - db: Schema creation and admin bootstrap
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main

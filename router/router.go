// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/pollstream/live-polls/broadcast"
	"github.com/pollstream/live-polls/cliparse"
	"github.com/pollstream/live-polls/handlers"
	"github.com/pollstream/live-polls/middleware"
	"github.com/pollstream/live-polls/polls"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, hub *broadcast.Hub) *http.ServeMux {
	mux := http.NewServeMux()

	// Core components share the store and the hub
	agg := polls.NewAggregator(db)
	ledger := polls.NewLedger(db, agg, hub)
	lifecycle := polls.NewLifecycle(db, agg, hub)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	pollHandler := handlers.NewPollHandler(lifecycle, ledger)
	adminHandler := handlers.NewAdminHandler(lifecycle)
	eventsHandler := handlers.NewEventsHandler(db, agg, hub)

	public := middleware.WithLogging
	secured := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireUser(db, cfg.JWTSecret, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Auth
	mux.HandleFunc("POST /auth/register", public(authHandler.Register))
	mux.HandleFunc("POST /auth/login", public(authHandler.Login))

	// Polls (public reads)
	mux.HandleFunc("GET /polls", public(pollHandler.List))
	mux.HandleFunc("GET /polls/{id}", public(pollHandler.Get))
	mux.HandleFunc("GET /polls/{id}/events", public(eventsHandler.Stream))

	// Polls (authenticated mutations)
	mux.HandleFunc("POST /polls", secured(pollHandler.Create))
	mux.HandleFunc("POST /polls/{id}/vote", secured(pollHandler.Vote))
	mux.HandleFunc("POST /polls/{id}/publish", secured(pollHandler.Publish))
	mux.HandleFunc("POST /polls/{id}/close", secured(pollHandler.Close))
	mux.HandleFunc("PUT /polls/{id}", secured(pollHandler.Edit))
	mux.HandleFunc("DELETE /polls/{id}", secured(pollHandler.Delete))
	mux.HandleFunc("PUT /polls/{id}/options/{optionId}", secured(pollHandler.UpdateOption))
	mux.HandleFunc("DELETE /polls/{id}/options/{optionId}", secured(pollHandler.DeleteOption))

	// Admin
	mux.HandleFunc("GET /polls/{id}/voters", secured(adminHandler.ListVoters))
	mux.HandleFunc("GET /admin/polls", secured(adminHandler.ListAll))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("live-polls API v1"))
	})

	return mux
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pollstream/live-polls/broadcast"
	"github.com/pollstream/live-polls/middleware"
	"github.com/pollstream/live-polls/polls"
)

const heartbeatInterval = 30 * time.Second

type EventsHandler struct {
	db  *sql.DB
	agg *polls.Aggregator
	hub *broadcast.Hub
}

func NewEventsHandler(db *sql.DB, agg *polls.Aggregator, hub *broadcast.Hub) *EventsHandler {
	return &EventsHandler{db: db, agg: agg, hub: hub}
}

// Stream handles GET /polls/{id}/events - a server-sent event stream of
// the poll's topic. Subscribing sends one fresh snapshot immediately;
// events published before the subscription are never replayed. The
// handle leaves the topic as soon as the client disconnects.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	var exists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM poll WHERE id = $1)`, pollID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "poll not found")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	sub := broadcast.NewSubscriber(0)
	h.hub.Subscribe(pollID, sub)
	defer h.hub.UnsubscribeAll(sub)

	// New subscribers start from a fresh snapshot, not a replay.
	if results, err := h.agg.Snapshot(pollID); err == nil {
		writeSSE(w, broadcast.Event{
			Type:    broadcast.EventResultsUpdated,
			PollID:  pollID,
			Results: results,
		})
		flusher.Flush()
	} else {
		slog.Error("failed to compute initial snapshot", "error", err, "poll_id", pollID)
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-sub.Events():
			writeSSE(w, ev)
			flusher.Flush()
			if ev.Type == broadcast.EventPollDeleted {
				return
			}
		case <-heartbeat.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}

func writeSSE(w io.Writer, ev broadcast.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		slog.Error("failed to encode event", "error", err)
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", payload)
}

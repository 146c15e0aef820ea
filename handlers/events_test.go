// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pollstream/live-polls/broadcast"
	"github.com/pollstream/live-polls/polls"
	"github.com/pollstream/live-polls/testutil"
)

func newEventsHandler(fx *pollHandlerFixture) *EventsHandler {
	return NewEventsHandler(fx.conn, polls.NewAggregator(fx.conn), fx.hub)
}

func waitForSubscriber(t *testing.T, hub *broadcast.Hub, pollID string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers(pollID) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Timed out waiting for the stream to subscribe")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// parseSSE extracts the JSON payloads from an event stream body.
func parseSSE(t *testing.T, body string) []broadcast.Event {
	t.Helper()
	var events []broadcast.Event
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev broadcast.Event
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
			t.Fatalf("Failed to decode SSE payload %q: %v", line, err)
		}
		events = append(events, ev)
	}
	return events
}

func TestStreamNotFound(t *testing.T) {
	fx := newPollHandlerFixture(t)
	handler := newEventsHandler(fx)

	req := testutil.MakeRequest("GET", "/polls/missing/events", nil, nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()
	handler.Stream(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestStreamDeliversEvents(t *testing.T) {
	fx := newPollHandlerFixture(t)
	handler := newEventsHandler(fx)

	pollID := testutil.CreateTestPoll(t, fx.conn, fx.creator.ID, true, false)
	optA := testutil.AddTestOption(t, fx.conn, pollID, "A")
	testutil.AddTestOption(t, fx.conn, pollID, "B")
	testutil.CastTestVote(t, fx.conn, fx.voter.ID, pollID, optA)

	req := testutil.MakeRequest("GET", "/polls/"+pollID+"/events", nil, nil)
	req.SetPathValue("id", pollID)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		handler.Stream(w, req)
		close(done)
	}()

	waitForSubscriber(t, fx.hub, pollID)

	fx.hub.Publish(pollID, broadcast.Event{Type: broadcast.EventResultsUpdated, PollID: pollID})
	// pollDeleted ends the stream, which makes the body safe to read.
	fx.hub.Publish(pollID, broadcast.Event{Type: broadcast.EventPollDeleted, PollID: pollID})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected stream to end after pollDeleted")
	}

	if got := w.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %q", got)
	}

	events := parseSSE(t, w.Body.String())
	if len(events) != 3 {
		t.Fatalf("Expected 3 events (snapshot, update, deleted), got %d", len(events))
	}

	// The stream opens with a fresh snapshot of current counts.
	if events[0].Type != broadcast.EventResultsUpdated {
		t.Errorf("Expected initial snapshot event, got %s", events[0].Type)
	}
	snapshotHasVote := false
	for _, oc := range events[0].Results {
		if oc.ID == optA && oc.Count == 1 {
			snapshotHasVote = true
		}
	}
	if !snapshotHasVote {
		t.Errorf("Expected initial snapshot to include the existing vote, got %+v", events[0].Results)
	}

	if events[1].Type != broadcast.EventResultsUpdated {
		t.Errorf("Expected update event, got %s", events[1].Type)
	}
	if events[2].Type != broadcast.EventPollDeleted {
		t.Errorf("Expected deleted event last, got %s", events[2].Type)
	}
}

func TestStreamStopsOnDisconnect(t *testing.T) {
	fx := newPollHandlerFixture(t)
	handler := newEventsHandler(fx)

	pollID := testutil.CreateTestPoll(t, fx.conn, fx.creator.ID, true, false)
	testutil.AddTestOption(t, fx.conn, pollID, "A")

	ctx, cancel := context.WithCancel(context.Background())
	req := testutil.MakeRequest("GET", "/polls/"+pollID+"/events", nil, nil).WithContext(ctx)
	req.SetPathValue("id", pollID)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		handler.Stream(w, req)
		close(done)
	}()

	waitForSubscriber(t, fx.hub, pollID)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected stream to end when the client disconnects")
	}

	if got := fx.hub.Subscribers(pollID); got != 0 {
		t.Errorf("Expected subscriber to be removed on disconnect, got %d", got)
	}
}

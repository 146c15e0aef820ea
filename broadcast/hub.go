// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package broadcast

import (
	"sync"

	"github.com/pollstream/live-polls/models"
)

// Event types delivered to poll topic subscribers.
const (
	EventResultsUpdated = "resultsUpdated"
	EventPollClosed     = "pollClosed"
	EventPollDeleted    = "pollDeleted"
)

// Event is one broadcast message for a poll topic. Results is populated
// only for resultsUpdated events.
type Event struct {
	Type    string               `json:"type"`
	PollID  string               `json:"pollId"`
	Results []models.OptionCount `json:"results,omitempty"`
}

// Subscriber is one interested party's handle on a topic. Events arrive on
// a buffered channel; delivery is best-effort and an event is dropped for a
// subscriber whose buffer is full.
type Subscriber struct {
	ch chan Event
}

// NewSubscriber creates a subscriber with the given buffer size.
// A buffer of 0 gets a sensible default.
func NewSubscriber(buffer int) *Subscriber {
	if buffer <= 0 {
		buffer = 16
	}
	return &Subscriber{ch: make(chan Event, buffer)}
}

// Events is the receive side of the subscriber's channel.
func (s *Subscriber) Events() <-chan Event {
	return s.ch
}

// Hub maintains the registry mapping poll id -> subscriber set and fans
// events out to it. Join and leave are pure set operations; there is no
// persistence, replay, or acknowledgment.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[*Subscriber]struct{})}
}

// Subscribe adds sub to the poll's topic. Idempotent.
func (h *Hub) Subscribe(pollID string, sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.topics[pollID]
	if !ok {
		set = make(map[*Subscriber]struct{})
		h.topics[pollID] = set
	}
	set[sub] = struct{}{}
}

// Unsubscribe removes sub from the poll's topic. Idempotent.
func (h *Hub) Unsubscribe(pollID string, sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.topics[pollID]
	if !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.topics, pollID)
	}
}

// UnsubscribeAll removes sub from every topic. Called when a connection
// goes away.
func (h *Hub) UnsubscribeAll(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for pollID, set := range h.topics {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.topics, pollID)
		}
	}
}

// Publish delivers ev to every subscriber currently on the poll's topic.
// Subscribers that join later do not receive it. Sends never block: a
// full subscriber buffer drops the event for that subscriber only.
// Publish holds the write lock so concurrent publishes serialize and
// events for one poll reach a given subscriber in publish order.
func (h *Hub) Publish(pollID string, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.topics[pollID] {
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

// Subscribers reports how many handles are currently on the poll's topic.
func (h *Hub) Subscribers(pollID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[pollID])
}

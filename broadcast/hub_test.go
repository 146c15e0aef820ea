// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package broadcast

import (
	"fmt"
	"sync"
	"testing"
)

func drain(sub *Subscriber) []Event {
	var events []Event
	for {
		select {
		case ev := <-sub.Events():
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestPublishFansOut(t *testing.T) {
	hub := NewHub()

	a := NewSubscriber(4)
	b := NewSubscriber(4)
	other := NewSubscriber(4)
	hub.Subscribe("p1", a)
	hub.Subscribe("p1", b)
	hub.Subscribe("p2", other)

	hub.Publish("p1", Event{Type: EventResultsUpdated, PollID: "p1"})

	for _, sub := range []*Subscriber{a, b} {
		events := drain(sub)
		if len(events) != 1 || events[0].PollID != "p1" {
			t.Errorf("Expected 1 event for p1 subscriber, got %+v", events)
		}
	}
	if events := drain(other); len(events) != 0 {
		t.Errorf("Expected no events on the other topic, got %+v", events)
	}
}

func TestPublishOrder(t *testing.T) {
	hub := NewHub()
	sub := NewSubscriber(16)
	hub.Subscribe("p1", sub)

	for i := 0; i < 10; i++ {
		hub.Publish("p1", Event{Type: EventResultsUpdated, PollID: fmt.Sprintf("p1-%d", i)})
	}

	events := drain(sub)
	if len(events) != 10 {
		t.Fatalf("Expected 10 events, got %d", len(events))
	}
	for i, ev := range events {
		if want := fmt.Sprintf("p1-%d", i); ev.PollID != want {
			t.Errorf("Event %d out of order: expected %s, got %s", i, want, ev.PollID)
		}
	}
}

func TestNoRetroactiveDelivery(t *testing.T) {
	hub := NewHub()

	hub.Publish("p1", Event{Type: EventResultsUpdated, PollID: "p1"})

	late := NewSubscriber(4)
	hub.Subscribe("p1", late)

	if events := drain(late); len(events) != 0 {
		t.Errorf("Expected no replay for late subscriber, got %+v", events)
	}
}

func TestSubscribeIdempotent(t *testing.T) {
	hub := NewHub()
	sub := NewSubscriber(4)

	hub.Subscribe("p1", sub)
	hub.Subscribe("p1", sub)

	if got := hub.Subscribers("p1"); got != 1 {
		t.Errorf("Expected 1 subscriber after duplicate subscribe, got %d", got)
	}

	hub.Publish("p1", Event{Type: EventResultsUpdated, PollID: "p1"})
	if events := drain(sub); len(events) != 1 {
		t.Errorf("Expected a single delivery, got %d", len(events))
	}
}

func TestUnsubscribe(t *testing.T) {
	hub := NewHub()
	sub := NewSubscriber(4)
	hub.Subscribe("p1", sub)

	hub.Unsubscribe("p1", sub)
	hub.Publish("p1", Event{Type: EventResultsUpdated, PollID: "p1"})

	if events := drain(sub); len(events) != 0 {
		t.Errorf("Expected no events after unsubscribe, got %+v", events)
	}

	// Unsubscribing twice, or from a topic never joined, is harmless.
	hub.Unsubscribe("p1", sub)
	hub.Unsubscribe("never-joined", sub)

	if got := hub.Subscribers("p1"); got != 0 {
		t.Errorf("Expected empty topic to be dropped, got %d subscribers", got)
	}
}

func TestUnsubscribeAll(t *testing.T) {
	hub := NewHub()
	sub := NewSubscriber(4)
	stay := NewSubscriber(4)

	hub.Subscribe("p1", sub)
	hub.Subscribe("p2", sub)
	hub.Subscribe("p1", stay)

	hub.UnsubscribeAll(sub)

	hub.Publish("p1", Event{Type: EventResultsUpdated, PollID: "p1"})
	hub.Publish("p2", Event{Type: EventResultsUpdated, PollID: "p2"})

	if events := drain(sub); len(events) != 0 {
		t.Errorf("Expected no events after UnsubscribeAll, got %+v", events)
	}
	if events := drain(stay); len(events) != 1 {
		t.Errorf("Expected remaining subscriber to keep receiving, got %d", len(events))
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	hub := NewHub()
	full := NewSubscriber(1)
	hub.Subscribe("p1", full)

	// Nobody is draining; the second publish must drop, not hang.
	hub.Publish("p1", Event{Type: EventResultsUpdated, PollID: "first"})
	hub.Publish("p1", Event{Type: EventResultsUpdated, PollID: "second"})

	events := drain(full)
	if len(events) != 1 || events[0].PollID != "first" {
		t.Errorf("Expected only the first event to be buffered, got %+v", events)
	}
}

func TestConcurrentPublishSubscribe(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sub := NewSubscriber(64)
			topic := fmt.Sprintf("p%d", i%2)
			hub.Subscribe(topic, sub)
			for j := 0; j < 50; j++ {
				hub.Publish(topic, Event{Type: EventResultsUpdated, PollID: topic})
			}
			hub.UnsubscribeAll(sub)
		}(i)
	}
	wg.Wait()

	if got := hub.Subscribers("p0") + hub.Subscribers("p1"); got != 0 {
		t.Errorf("Expected all subscribers gone, got %d", got)
	}
}

func TestSubscriberDefaultBuffer(t *testing.T) {
	sub := NewSubscriber(0)
	if cap(sub.ch) == 0 {
		t.Error("Expected zero buffer request to get a default")
	}
}

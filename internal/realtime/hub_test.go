package realtime

import (
	"testing"
	"time"
)

func TestHub_DeliversToMatchingResourceOnly(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	rsvps, unsubscribe := hub.Subscribe("rsvps")
	defer unsubscribe()
	guests, unsubscribeGuests := hub.Subscribe("guests")
	defer unsubscribeGuests()

	hub.Publish(Event{Resource: "rsvps", Action: ActionInsert, RecordID: "r1"})

	select {
	case event := <-rsvps:
		if event.RecordID != "r1" {
			t.Fatalf("unexpected event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("expected rsvps subscriber to receive the event")
	}

	select {
	case event := <-guests:
		t.Fatalf("guests subscriber received unrelated event: %+v", event)
	default:
	}
}

func TestHub_NotificationTriggersExactlyOneRefetch(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	events, unsubscribe := hub.Subscribe("rsvps")
	defer unsubscribe()

	hub.Publish(Event{Resource: "rsvps", Action: ActionUpdate, RecordID: "r1"})

	// The observer contract: one notification, one full re-fetch, no state
	// derived from the payload itself.
	refetches := 0
	select {
	case <-events:
		refetches++
	case <-time.After(time.Second):
	}
	select {
	case <-events:
		refetches++
	default:
	}

	if refetches != 1 {
		t.Fatalf("expected exactly one refresh trigger, got %d", refetches)
	}
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	events, unsubscribe := hub.Subscribe("rsvps")
	unsubscribe()
	unsubscribe() // idempotent

	if _, open := <-events; open {
		t.Fatal("expected channel to be closed after unsubscribe")
	}

	// Publishing after unsubscribe must not panic or deliver.
	hub.Publish(Event{Resource: "rsvps", Action: ActionDelete, RecordID: "r1"})
}

func TestHub_PublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	_, unsubscribe := hub.Subscribe("rsvps")
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*4; i++ {
			hub.Publish(Event{Resource: "rsvps", Action: ActionInsert})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestHub_SubscribeAfterClose(t *testing.T) {
	hub := NewHub()
	hub.Close()

	events, unsubscribe := hub.Subscribe("rsvps")
	defer unsubscribe()

	if _, open := <-events; open {
		t.Fatal("expected closed channel from a closed hub")
	}
}

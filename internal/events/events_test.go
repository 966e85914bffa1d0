package events

import (
	"encoding/json"
	"testing"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var received *Event
	var callCount int

	handler := func(event *Event) error {
		received = event
		callCount++
		return nil
	}

	bus.Subscribe(EventReservationCreated, handler)

	payload := ReservationEventPayload{ReservationID: 42, TableID: 3, ClientName: "Petrov"}
	if err := bus.PublishJSON(EventReservationCreated, payload); err != nil {
		t.Fatalf("PublishJSON failed: %v", err)
	}

	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}

	if received.Type != EventReservationCreated {
		t.Errorf("expected type %s, got %s", EventReservationCreated, received.Type)
	}

	var decoded ReservationEventPayload
	if err := json.Unmarshal(received.Payload, &decoded); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}

	if decoded.ReservationID != 42 || decoded.ClientName != "Petrov" {
		t.Errorf("unexpected payload: %+v", decoded)
	}
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()
	var count1, count2 int

	bus.Subscribe("event", func(_ *Event) error { count1++; return nil })
	bus.Subscribe("event", func(_ *Event) error { count2++; return nil })

	bus.Publish(&Event{Type: "event"})

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both handlers to be called once, got %d and %d", count1, count2)
	}
}

func TestEventBusNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	// Should not panic
	bus.Publish(&Event{Type: "unknown"})
	if err := bus.PublishJSON("unknown", nil); err != nil {
		t.Errorf("PublishJSON failed: %v", err)
	}
}

func TestEventBusOnlyMatchingType(t *testing.T) {
	bus := NewEventBus()
	var count int

	bus.Subscribe(EventOrderClosed, func(_ *Event) error { count++; return nil })

	bus.Publish(&Event{Type: EventOrderCreated})
	bus.Publish(&Event{Type: EventOrderClosed})

	if count != 1 {
		t.Errorf("expected 1 call, got %d", count)
	}
}

func TestPublishSetsCreatedAt(t *testing.T) {
	bus := NewEventBus()
	var received *Event
	bus.Subscribe("event", func(e *Event) error { received = e; return nil })

	bus.Publish(&Event{Type: "event"})

	if received == nil || received.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set on publish")
	}
}

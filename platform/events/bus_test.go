package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testEvent struct {
	BaseEvent
	payload string
}

func (e testEvent) EventName() string { return "test.event" }

func TestPublishSyncDeliversToAllHandlers(t *testing.T) {
	bus := NewInMemoryBus(nil)

	var received []string
	bus.Subscribe("test.event", HandlerFunc(func(_ context.Context, event Event) error {
		received = append(received, event.(testEvent).payload)
		return nil
	}))
	bus.Subscribe("test.event", HandlerFunc(func(_ context.Context, event Event) error {
		received = append(received, event.(testEvent).payload)
		return nil
	}))

	if err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent(), payload: "a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(received) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(received))
	}
}

func TestPublishSyncReturnsFirstHandlerError(t *testing.T) {
	bus := NewInMemoryBus(nil)
	wantErr := errors.New("boom")

	bus.Subscribe("test.event", HandlerFunc(func(_ context.Context, _ Event) error {
		return wantErr
	}))

	if err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()}); !errors.Is(err, wantErr) {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestPublishIgnoresUnsubscribedEvents(t *testing.T) {
	bus := NewInMemoryBus(nil)
	// No handlers registered; must not panic or block.
	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
}

func TestPublishRunsAsync(t *testing.T) {
	bus := NewInMemoryBus(nil)

	done := make(chan struct{})
	bus.Subscribe("test.event", HandlerFunc(func(_ context.Context, _ Event) error {
		close(done)
		return nil
	}))

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent()})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("async handler never ran")
	}
}

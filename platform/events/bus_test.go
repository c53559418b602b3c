package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"crm_portal_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestPublishSyncRunsHandlersInOrder(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	var order []int
	bus.Subscribe("lead.converted", HandlerFunc(func(ctx context.Context, _ Event) error {
		order = append(order, 1)
		return nil
	}))
	bus.Subscribe("lead.converted", HandlerFunc(func(ctx context.Context, _ Event) error {
		order = append(order, 2)
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "lead.converted"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("expected handlers in order [1 2], got %v", order)
	}
}

func TestPublishSyncReturnsFirstError(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))
	wantErr := errors.New("dispatch failed")

	var secondRan bool
	bus.Subscribe("lead.closed", HandlerFunc(func(ctx context.Context, _ Event) error {
		return wantErr
	}))
	bus.Subscribe("lead.closed", HandlerFunc(func(ctx context.Context, _ Event) error {
		secondRan = true
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "lead.closed"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped dispatch error, got %v", err)
	}
	if secondRan {
		t.Error("expected second handler to be skipped after first error")
	}
}

func TestPublishIsAsyncAndIsolatesFailures(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	var wg sync.WaitGroup
	wg.Add(2)
	bus.Subscribe("lead.finalized", HandlerFunc(func(ctx context.Context, _ Event) error {
		defer wg.Done()
		panic("handler blew up")
	}))
	bus.Subscribe("lead.finalized", HandlerFunc(func(ctx context.Context, _ Event) error {
		defer wg.Done()
		return nil
	}))

	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "lead.finalized"})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handlers did not complete; panic in one handler must not block the other")
	}
}

func TestPublishSurvivesCallerCancellation(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	delivered := make(chan struct{})
	bus.Subscribe("meeting.scheduled", HandlerFunc(func(ctx context.Context, _ Event) error {
		if ctx.Err() != nil {
			t.Errorf("handler context unexpectedly cancelled: %v", ctx.Err())
		}
		close(delivered)
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, testEvent{NewBaseEvent(), "meeting.scheduled"})
	cancel()

	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered after caller cancellation")
	}
}

func TestPublishWithNoSubscribersIsNoop(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))
	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "unheard.event"})
}

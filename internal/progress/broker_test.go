package progress

import (
	"testing"
	"time"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker()
	runID := "run-1"
	ch := b.Subscribe(runID)
	defer func() { recover() }()

	evt := Event{RunID: runID, Iteration: 7, Objective: 42}
	b.Publish(runID, evt)

	select {
	case got := <-ch:
		if got.Iteration != evt.Iteration || got.Objective != evt.Objective {
			t.Fatalf("got %+v, want %+v", got, evt)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for event")
	}

	b.Unsubscribe(runID, ch)
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("channel should be closed after unsubscribe")
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBrokerPublishWithoutSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroker()
	b.Publish("no-subscribers", Event{Iteration: 1})
}

package events

import (
	"sync"
	"testing"
	"time"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan StopStateChangedEvent, 1)

	unsub := bus.Subscribe(func(e StopStateChangedEvent) {
		received <- e
	})
	defer unsub()

	ev := StopStateChangedEvent{
		PID:       "4242",
		OldState:  "running",
		NewState:  "stopping",
		Timestamp: time.Now(),
	}
	bus.Publish(ev)

	select {
	case got := <-received:
		if got.PID != ev.PID || got.NewState != ev.NewState {
			t.Errorf("received %+v, want %+v", got, ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()
	received := make(chan SignalDeliveredEvent, 1)

	unsub := bus.Subscribe(func(e SignalDeliveredEvent) {
		received <- e
	})

	bus.Publish(SignalDeliveredEvent{PID: "1", Signal: "TERM"})
	<-received

	unsub()

	bus.Publish(SignalDeliveredEvent{PID: "2", Signal: "KILL"})
	select {
	case <-received:
		t.Fatal("Should not have received event after unsubscribe")
	case <-time.After(10 * time.Millisecond):
		// Expected - no event
	}
}

func TestBus_TypeSafety(t *testing.T) {
	bus := New()

	stateReceived := make(chan bool, 1)
	policyReceived := make(chan bool, 1)

	unsub1 := bus.Subscribe(func(_ StopStateChangedEvent) {
		stateReceived <- true
	})
	defer unsub1()

	unsub2 := bus.Subscribe(func(_ PolicyReloadedEvent) {
		policyReceived <- true
	})
	defer unsub2()

	bus.Publish(StopStateChangedEvent{NewState: "stopped"})
	<-stateReceived

	select {
	case <-policyReceived:
		t.Fatal("Policy subscriber should NOT have received StopStateChangedEvent")
	case <-time.After(10 * time.Millisecond):
	}

	bus.Publish(PolicyReloadedEvent{Signal: "HUP", Timeout: 3})
	<-policyReceived

	select {
	case <-stateReceived:
		t.Fatal("State subscriber should NOT have received PolicyReloadedEvent")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBus_UnknownHandler(_ *testing.T) {
	bus := New()
	unsub := bus.Subscribe(func(string) {})
	unsub()
}

func TestBus_ThreadSafety(t *testing.T) {
	bus := New()
	var wg sync.WaitGroup
	numGoroutines := 10
	eventsPerGoroutine := 50
	expected := numGoroutines * eventsPerGoroutine

	receivedCh := make(chan bool, expected)
	unsub := bus.Subscribe(func(_ SignalDeliveredEvent) {
		receivedCh <- true
	})
	defer unsub()

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < eventsPerGoroutine; j++ {
				bus.Publish(SignalDeliveredEvent{Signal: "TERM"})
			}
		}()
	}
	wg.Wait()

	timeout := time.After(2 * time.Second)
	for received := 0; received < expected; received++ {
		select {
		case <-receivedCh:
		case <-timeout:
			t.Fatalf("received %d of %d events", received, expected)
		}
	}
}

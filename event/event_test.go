package event

import (
	"sync"
	"testing"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 10; i++ {
		q.Push(Event{Type: EventNodeSelected, Frame: uint64(i)})
	}
	if q.Len() != 10 {
		t.Errorf("Expected 10 pending, got %d", q.Len())
	}
	got := q.Consume()
	if len(got) != 10 {
		t.Fatalf("Expected 10 events, got %d", len(got))
	}
	for i, ev := range got {
		if ev.Frame != uint64(i) {
			t.Errorf("Expected frame %d at %d, got %d", i, i, ev.Frame)
		}
	}
	if q.Consume() != nil {
		t.Error("Expected empty queue after consume")
	}
}

func TestQueueOverflowKeepsNewest(t *testing.T) {
	q := NewQueue()
	total := QueueSize + 10
	for i := 0; i < total; i++ {
		q.Push(Event{Frame: uint64(i)})
	}
	got := q.Consume()
	if len(got) != QueueSize {
		t.Fatalf("Expected %d events, got %d", QueueSize, len(got))
	}
	if got[0].Frame != 10 {
		t.Errorf("Expected oldest surviving frame 10, got %d", got[0].Frame)
	}
	if q.Dropped() == 0 {
		t.Error("Expected dropped count to be recorded")
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				q.Push(Event{Type: EventHoverChanged})
			}
		}()
	}
	wg.Wait()
	if n := len(q.Consume()); n != 200 {
		t.Errorf("Expected 200 events, got %d", n)
	}
}

func TestRouterDispatchOrder(t *testing.T) {
	r := NewRouter(NewQueue())
	var seen []string
	r.Register(HandlerFunc{Types: []EventType{EventNodeSelected}, Fn: func(ev Event) {
		seen = append(seen, "a:"+ev.Payload.(*NodeSelectedPayload).NodeID)
	}})
	r.Register(HandlerFunc{Types: []EventType{EventNodeSelected, EventDrillDownExit}, Fn: func(ev Event) {
		seen = append(seen, "b:"+ev.Type.String())
	}})

	r.Publish(EventNodeSelected, &NodeSelectedPayload{NodeID: "n1"})
	r.Publish(EventDrillDownExit, &DrillDownExitPayload{NodeID: "n1"})
	r.Publish(EventFormRemoved, &FormRemovedPayload{ID: "f"})

	if n := r.DispatchAll(); n != 3 {
		t.Errorf("Expected 3 dispatched, got %d", n)
	}
	want := []string{"a:n1", "b:node_selected", "b:drill_down_exit"}
	if len(seen) != len(want) {
		t.Fatalf("Expected %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("Expected %q at %d, got %q", want[i], i, seen[i])
		}
	}
}

func TestRouterClose(t *testing.T) {
	r := NewRouter(NewQueue())
	called := false
	r.Register(HandlerFunc{Types: []EventType{EventFormDropped}, Fn: func(Event) { called = true }})
	r.Publish(EventFormDropped, nil)
	r.Close()
	r.Publish(EventFormDropped, nil)

	if n := r.DispatchAll(); n != 0 {
		t.Errorf("Expected nothing dispatched after close, got %d", n)
	}
	if called {
		t.Error("Expected handler not to run after close")
	}
	if r.HandlerCount(EventFormDropped) != 0 {
		t.Error("Expected handlers cleared")
	}
}

func TestTypeNames(t *testing.T) {
	for ty, name := range typeNames {
		got, ok := ParseType(name)
		if !ok || got != ty {
			t.Errorf("Expected %v for %q, got %v", ty, name, got)
		}
	}
	if EventType(999).String() != "unknown" {
		t.Error("Expected unknown for unregistered type")
	}
}

package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/lixenwraith/gridscope/event"
	"github.com/lixenwraith/gridscope/interaction"
	"github.com/lixenwraith/gridscope/lattice"
)

func TestSchedulerStartTwice(t *testing.T) {
	v := NewView(Options{Seed: 1, Particles: 10})
	s := NewScheduler(v, nil, 120)
	defer v.Close()

	if err := s.Start(); err != nil {
		t.Fatalf("Expected first start to succeed, got %v", err)
	}
	if err := s.Start(); err != ErrAlreadyRunning {
		t.Errorf("Expected ErrAlreadyRunning, got %v", err)
	}
	if !s.Running() {
		t.Error("Expected running")
	}

	s.Stop()
	s.Stop()
	if s.Running() {
		t.Error("Expected stopped")
	}
}

func TestSchedulerLoopAdvancesFrames(t *testing.T) {
	v := NewView(Options{Seed: 1, Particles: 10})
	var rendered atomic.Int64
	s := NewScheduler(v, RendererFunc(func(f *Frame) { rendered.Add(1) }), 120)
	defer v.Close()

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for s.Frames() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	s.Stop()

	if s.Frames() < 3 {
		t.Fatalf("Expected at least 3 frames, got %d", s.Frames())
	}
	if rendered.Load() != int64(s.Frames()) {
		t.Errorf("Expected one render per frame, got %d renders for %d frames", rendered.Load(), s.Frames())
	}
}

// Input queued before a step is applied before synchronization; events dispatch after render
func TestSchedulerStepOrdering(t *testing.T) {
	v := NewView(Options{Seed: 1, Particles: 10})
	defer v.Close()
	v.SetSurface(testSurface)
	v.ApplySnapshot(originSnapshot())

	var order []string
	v.Register(event.HandlerFunc{
		Types: []event.EventType{event.EventNodeSelected},
		Fn:    func(ev event.Event) { order = append(order, "dispatch") },
	})
	s := NewScheduler(v, RendererFunc(func(f *Frame) {
		order = append(order, "render")
		if f.Number == 0 {
			t.Error("Expected render after synchronization")
		}
	}), 30)

	s.Step()
	order = nil

	v.Input().Push(InputEvent{Kind: InputDown, X: 40, Y: 12})
	v.Input().Push(InputEvent{Kind: InputUp, X: 40, Y: 12})
	s.Step()

	if v.State().Kind != interaction.StateGridDrillDown {
		t.Errorf("Expected drill-down after step, got %s", v.State())
	}
	if len(order) != 2 || order[0] != "render" || order[1] != "dispatch" {
		t.Errorf("Expected [render dispatch], got %v", order)
	}
	if v.Input().Len() != 0 {
		t.Errorf("Expected drained input, got %d", v.Input().Len())
	}
}

func TestViewCloseStopsScheduler(t *testing.T) {
	v := NewView(Options{Seed: 1, Particles: 10})
	v.SetEnvironment(&Environment{ID: "x", Lattice: lattice.Config{Sizes: []int{2}}})
	s := NewScheduler(v, nil, 120)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	v.Close()

	if s.Running() {
		t.Error("Expected scheduler stopped by view close")
	}
	n := s.Frames()
	s.Step()
	if s.Frames() != n {
		t.Error("Expected step after close to be inert")
	}
}

func TestInputQueueOverflow(t *testing.T) {
	q := NewInputQueue()
	for i := 0; i < InputQueueSize; i++ {
		if !q.Push(InputEvent{Kind: InputMove, X: float64(i)}) {
			t.Fatalf("Expected push %d to succeed", i)
		}
	}
	if q.Push(InputEvent{Kind: InputMove}) {
		t.Error("Expected push into full queue to drop")
	}
	if q.Dropped() != 1 {
		t.Errorf("Expected 1 dropped, got %d", q.Dropped())
	}

	var last float64 = -1
	n := q.Drain(func(ev InputEvent) {
		if ev.X <= last {
			t.Errorf("Expected FIFO order, got %v after %v", ev.X, last)
		}
		last = ev.X
	})
	if n != InputQueueSize {
		t.Errorf("Expected %d drained, got %d", InputQueueSize, n)
	}
}

package service

import (
	"errors"
	"testing"
)

type fakeService struct {
	name    string
	deps    []string
	log     *[]string
	failOn  string
	stopped int
}

func (f *fakeService) Name() string           { return f.name }
func (f *fakeService) Dependencies() []string { return f.deps }
func (f *fakeService) Init(...any) error {
	*f.log = append(*f.log, "init:"+f.name)
	if f.failOn == "init" {
		return errors.New("init failed")
	}
	return nil
}
func (f *fakeService) Start() error {
	*f.log = append(*f.log, "start:"+f.name)
	if f.failOn == "start" {
		return errors.New("start failed")
	}
	return nil
}
func (f *fakeService) Stop() error {
	f.stopped++
	*f.log = append(*f.log, "stop:"+f.name)
	return nil
}

func TestHubOrdersByDependency(t *testing.T) {
	var log []string
	h := NewHub()
	_ = h.Register(&fakeService{name: "transport", deps: []string{"metrics"}, log: &log})
	_ = h.Register(&fakeService{name: "metrics", log: &log})
	_ = h.Register(&fakeService{name: "audio", log: &log})

	if err := h.InitAll(); err != nil {
		t.Fatalf("Expected init ok, got %v", err)
	}
	if err := h.StartAll(); err != nil {
		t.Fatalf("Expected start ok, got %v", err)
	}
	h.StopAll()
	h.StopAll()

	want := []string{
		"init:audio", "init:metrics", "init:transport",
		"start:audio", "start:metrics", "start:transport",
		"stop:transport", "stop:metrics", "stop:audio",
	}
	if len(log) != len(want) {
		t.Fatalf("Expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("Expected %s at %d, got %s", want[i], i, log[i])
		}
	}
}

func TestHubRollsBackStart(t *testing.T) {
	var log []string
	h := NewHub()
	a := &fakeService{name: "a", log: &log}
	b := &fakeService{name: "b", deps: []string{"a"}, log: &log, failOn: "start"}
	_ = h.Register(a)
	_ = h.Register(b)

	if err := h.InitAll(); err != nil {
		t.Fatalf("Expected init ok, got %v", err)
	}
	if err := h.StartAll(); err == nil {
		t.Fatal("Expected start failure")
	}
	if a.stopped != 1 {
		t.Errorf("Expected a stopped once, got %d", a.stopped)
	}
	if p, _ := h.Phase("a"); p != PhaseStopped {
		t.Errorf("Expected a stopped, got %s", p)
	}
	if p, _ := h.Phase("b"); p != PhaseFailed {
		t.Errorf("Expected b failed, got %s", p)
	}
}

func TestHubInitFailureStopsInitialized(t *testing.T) {
	var log []string
	h := NewHub()
	a := &fakeService{name: "a", log: &log}
	b := &fakeService{name: "b", deps: []string{"a"}, log: &log, failOn: "init"}
	_ = h.Register(a)
	_ = h.Register(b)

	if err := h.InitAll(); err == nil {
		t.Fatal("Expected init failure")
	}
	if a.stopped != 1 {
		t.Errorf("Expected a stopped once, got %d", a.stopped)
	}
	if b.stopped != 0 {
		t.Errorf("Expected b never stopped, got %d", b.stopped)
	}
	if _, ok := h.Phase("missing"); ok {
		t.Error("Expected no phase for unknown service")
	}
}

func TestHubRejectsBadGraphs(t *testing.T) {
	var log []string
	h := NewHub()
	if err := h.Register(&fakeService{name: "x", log: &log}); err != nil {
		t.Fatal(err)
	}
	if err := h.Register(&fakeService{name: "x", log: &log}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}

	h2 := NewHub()
	_ = h2.Register(&fakeService{name: "a", deps: []string{"b"}, log: &log})
	_ = h2.Register(&fakeService{name: "b", deps: []string{"a"}, log: &log})
	if err := h2.InitAll(); !errors.Is(err, ErrCycle) {
		t.Errorf("Expected ErrCycle, got %v", err)
	}

	h3 := NewHub()
	_ = h3.Register(&fakeService{name: "a", deps: []string{"missing"}, log: &log})
	if err := h3.InitAll(); !errors.Is(err, ErrMissingDep) {
		t.Errorf("Expected ErrMissingDep, got %v", err)
	}
}

package service

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
)

var (
	ErrDuplicate  = errors.New("service already registered")
	ErrMissingDep = errors.New("unregistered dependency")
	ErrCycle      = errors.New("dependency cycle")
)

type entry struct {
	svc   Service
	phase Phase
}

// Hub owns the viewer's services and sequences their lifecycle.
// Bring-up follows dependency order; teardown runs it backwards.
type Hub struct {
	mu      sync.Mutex
	entries map[string]*entry
	order   []string
}

func NewHub() *Hub {
	return &Hub{entries: make(map[string]*entry)}
}

func (h *Hub) Register(svc Service) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := svc.Name()
	if _, ok := h.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	h.entries[name] = &entry{svc: svc}
	h.order = nil
	return nil
}

func (h *Hub) Get(name string) (Service, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.entries[name]
	if !ok {
		return nil, false
	}
	return e.svc, true
}

// Phase reports where a service is in its lifecycle.
func (h *Hub) Phase(name string) (Phase, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.entries[name]
	if !ok {
		return 0, false
	}
	return e.phase, true
}

// InitAll orders services by dependency and initializes each with args.
// A failure stops whatever was initialized before it.
func (h *Hub) InitAll(args ...any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.order == nil {
		order, err := h.resolve()
		if err != nil {
			return err
		}
		h.order = order
	}

	for i, name := range h.order {
		e := h.entries[name]
		if err := e.svc.Init(args...); err != nil {
			e.phase = PhaseFailed
			h.unwind(h.order[:i], PhaseInitialized)
			return fmt.Errorf("init %s: %w", name, err)
		}
		e.phase = PhaseInitialized
	}
	return nil
}

// StartAll starts initialized services. A failure stops the ones already running.
func (h *Hub) StartAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, name := range h.order {
		e := h.entries[name]
		if e.phase != PhaseInitialized {
			continue
		}
		if err := e.svc.Start(); err != nil {
			e.phase = PhaseFailed
			h.unwind(h.order[:i], PhaseRunning)
			return fmt.Errorf("start %s: %w", name, err)
		}
		e.phase = PhaseRunning
	}
	return nil
}

// StopAll stops running services in reverse order. Stop errors are logged.
func (h *Hub) StopAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unwind(h.order, PhaseRunning)
}

func (h *Hub) unwind(names []string, from Phase) {
	for i := len(names) - 1; i >= 0; i-- {
		e := h.entries[names[i]]
		if e.phase != from {
			continue
		}
		if err := e.svc.Stop(); err != nil {
			log.Printf("service %s stop: %v", names[i], err)
		}
		e.phase = PhaseStopped
	}
}

// Names lists registered services alphabetically.
func (h *Hub) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, 0, len(h.entries))
	for name := range h.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// resolve produces a dependency-first order by depth-first search.
// Siblings are visited alphabetically so the order is stable across runs.
func (h *Hub) resolve() ([]string, error) {
	const (
		unseen = iota
		visiting
		done
	)
	mark := make(map[string]int, len(h.entries))
	order := make([]string, 0, len(h.entries))

	var visit func(name, from string) error
	visit = func(name, from string) error {
		e, ok := h.entries[name]
		if !ok {
			return fmt.Errorf("%w: %s needs %s", ErrMissingDep, from, name)
		}
		switch mark[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w through %s", ErrCycle, name)
		}
		mark[name] = visiting
		deps := slices.Clone(e.svc.Dependencies())
		slices.Sort(deps)
		for _, dep := range deps {
			if err := visit(dep, name); err != nil {
				return err
			}
		}
		mark[name] = done
		order = append(order, name)
		return nil
	}

	names := make([]string, 0, len(h.entries))
	for name := range h.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := visit(name, ""); err != nil {
			return nil, err
		}
	}
	return order, nil
}

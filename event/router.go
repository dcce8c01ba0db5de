package event

import "sync"

// Handler processes specific event types
type Handler interface {
	// HandleEvent is called synchronously during dispatch
	HandleEvent(ev Event)

	// EventTypes returns the types this handler subscribes to
	EventTypes() []EventType
}

// HandlerFunc adapts a function subscribed to fixed types
type HandlerFunc struct {
	Types []EventType
	Fn    func(Event)
}

func (h HandlerFunc) HandleEvent(ev Event)    { h.Fn(ev) }
func (h HandlerFunc) EventTypes() []EventType { return h.Types }

// Router dispatches queued events to registered handlers
//   - Single-threaded dispatch, FIFO
//   - Handlers for one type are invoked in registration order
type Router struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	queue    *Queue
	closed   bool
}

func NewRouter(queue *Queue) *Router {
	return &Router{
		handlers: make(map[EventType][]Handler),
		queue:    queue,
	}
}

// Queue returns the attached queue for producers
func (r *Router) Queue() *Queue { return r.queue }

// Publish pushes an event unless the router is closed
func (r *Router) Publish(t EventType, payload any) {
	r.mu.RLock()
	closed := r.closed
	r.mu.RUnlock()
	if closed {
		return
	}
	r.queue.Push(Event{Type: t, Payload: payload})
}

// Register adds a handler for its declared types
func (r *Router) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range h.EventTypes() {
		r.handlers[t] = append(r.handlers[t], h)
	}
}

// DispatchAll consumes pending events and routes them, returning the count
func (r *Router) DispatchAll() int {
	events := r.queue.Consume()
	if len(events) == 0 {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ev := range events {
		for _, h := range r.handlers[ev.Type] {
			h.HandleEvent(ev)
		}
	}
	return len(events)
}

// HandlerCount returns the number of handlers for a type
func (r *Router) HandlerCount(t EventType) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers[t])
}

// Close drops handlers and pending events; later publishes are ignored
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.handlers = make(map[EventType][]Handler)
	r.queue.Consume()
}

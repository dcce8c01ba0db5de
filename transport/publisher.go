package transport

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"

	"github.com/lixenwraith/gridscope/event"
)

// Publisher forwards view events to external collaborators on a PUB socket
type Publisher struct {
	url string

	mu      sync.Mutex
	sock    mangos.Socket
	running bool
	sent    uint64
}

// NewPublisher creates a publisher listening on url at Start
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

func (p *Publisher) Name() string           { return "transport.pub" }
func (p *Publisher) Dependencies() []string { return nil }
func (p *Publisher) Init(...any) error      { return nil }

func (p *Publisher) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running || p.url == "" {
		return nil
	}

	sock, err := pub.NewSocket()
	if err != nil {
		return fmt.Errorf("failed to create PUB socket: %w", err)
	}
	if err := sock.Listen(p.url); err != nil {
		sock.Close()
		return fmt.Errorf("failed to listen on %s: %w", p.url, err)
	}
	p.sock = sock
	p.running = true
	log.Printf("transport: publishing events on %s", p.url)
	return nil
}

// HandleEvent sends ev as an EVT-prefixed JSON envelope; dropped when stopped
func (p *Publisher) HandleEvent(ev event.Event) {
	data, err := json.Marshal(Envelope{Type: ev.Type.String(), Payload: ev.Payload})
	if err != nil {
		log.Printf("transport: encode %s: %v", ev.Type, err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	if err := p.sock.Send(append([]byte(EventTopic), data...)); err != nil {
		log.Printf("transport: send %s: %v", ev.Type, err)
		return
	}
	p.sent++
}

// EventTypes lists events external collaborators consume
func (p *Publisher) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventNodeSelected,
		event.EventPositionConfigure,
		event.EventDrillDownExit,
		event.EventFormDropped,
		event.EventFormRemoved,
		event.EventEnvironmentChanged,
		event.EventNCFGWritten,
	}
}

// Sent returns the number of delivered messages
func (p *Publisher) Sent() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sent
}

func (p *Publisher) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return nil
	}
	p.running = false
	return p.sock.Close()
}

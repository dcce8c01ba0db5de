package transport

import (
	"fmt"
	"log"
	"sync"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"

	"github.com/lixenwraith/gridscope/snapshot"
)

// Feeder broadcasts graph snapshots on a PUB socket for subscribers to apply
type Feeder struct {
	url string

	mu      sync.Mutex
	sock    mangos.Socket
	running bool
	sent    uint64
}

func NewFeeder(url string) *Feeder {
	return &Feeder{url: url}
}

func (f *Feeder) Name() string           { return "transport.feed" }
func (f *Feeder) Dependencies() []string { return nil }
func (f *Feeder) Init(...any) error      { return nil }

func (f *Feeder) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.running {
		return nil
	}
	if f.url == "" {
		return fmt.Errorf("feeder: listen address required")
	}

	sock, err := pub.NewSocket()
	if err != nil {
		return fmt.Errorf("failed to create PUB socket: %w", err)
	}
	if err := sock.Listen(f.url); err != nil {
		sock.Close()
		return fmt.Errorf("failed to listen on %s: %w", f.url, err)
	}
	f.sock = sock
	f.running = true
	log.Printf("transport: feeding snapshots on %s", f.url)
	return nil
}

// Publish sends one snapshot; PUB delivery is best-effort
func (f *Feeder) Publish(s snapshot.Snapshot) error {
	msg, err := EncodeSnapshot(s)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.running {
		return fmt.Errorf("feeder: not running")
	}
	if err := f.sock.Send(msg); err != nil {
		return fmt.Errorf("send snapshot: %w", err)
	}
	f.sent++
	return nil
}

func (f *Feeder) Sent() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent
}

func (f *Feeder) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.running {
		return nil
	}
	f.running = false
	return f.sock.Close()
}

package transport

import (
	"bytes"
	"fmt"
	"log"
	"sync"
	"time"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/sub"

	// Register all transports
	_ "go.nanomsg.org/mangos/v3/transport/all"

	"github.com/lixenwraith/gridscope/core"
	"github.com/lixenwraith/gridscope/snapshot"
)

const recvDeadline = 250 * time.Millisecond

// Subscriber receives graph snapshots from a SUB socket
type Subscriber struct {
	url string
	out chan snapshot.Snapshot

	mu       sync.Mutex
	sock     mangos.Socket
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	received uint64
	dropped  uint64
}

// NewSubscriber creates a subscriber dialing url on Start
func NewSubscriber(url string) *Subscriber {
	return &Subscriber{url: url, out: make(chan snapshot.Snapshot, 4)}
}

func (s *Subscriber) Name() string           { return "transport.sub" }
func (s *Subscriber) Dependencies() []string { return nil }
func (s *Subscriber) Init(...any) error      { return nil }

// Snapshots delivers decoded snapshots; the channel is never closed
func (s *Subscriber) Snapshots() <-chan snapshot.Snapshot {
	return s.out
}

// Start dials asynchronously so a missing publisher is not fatal
func (s *Subscriber) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.url == "" {
		return nil
	}

	sock, err := sub.NewSocket()
	if err != nil {
		return fmt.Errorf("failed to create SUB socket: %w", err)
	}
	if err := sock.SetOption(mangos.OptionDialAsynch, true); err != nil {
		sock.Close()
		return fmt.Errorf("failed to set async dial: %w", err)
	}
	if err := sock.Dial(s.url); err != nil {
		sock.Close()
		return fmt.Errorf("failed to dial %s: %w", s.url, err)
	}
	if err := sock.SetOption(mangos.OptionSubscribe, []byte(SnapshotTopic)); err != nil {
		sock.Close()
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	if err := sock.SetOption(mangos.OptionRecvDeadline, recvDeadline); err != nil {
		sock.Close()
		return fmt.Errorf("failed to set deadline: %w", err)
	}

	s.sock = sock
	s.stopCh = make(chan struct{})
	s.running = true
	s.wg.Add(1)
	core.Go(s.recvLoop)
	log.Printf("transport: subscribed to snapshots at %s", s.url)
	return nil
}

func (s *Subscriber) recvLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.stopCh:
			return
		default:
		}

		msg, err := s.sock.Recv()
		if err != nil {
			// Timeout or closed socket
			continue
		}
		if !bytes.HasPrefix(msg, []byte(SnapshotTopic)) {
			continue
		}
		snap, err := snapshot.DecodeJSON(msg[len(SnapshotTopic):])
		if err != nil {
			log.Printf("transport: %v", err)
			continue
		}

		s.mu.Lock()
		s.received++
		s.mu.Unlock()

		select {
		case s.out <- snap:
		default:
			// Consumer is behind; the newer snapshot supersedes the oldest queued one
			select {
			case <-s.out:
				s.mu.Lock()
				s.dropped++
				s.mu.Unlock()
			default:
			}
			select {
			case s.out <- snap:
			default:
			}
		}
	}
}

// Stats returns received and superseded snapshot counts
func (s *Subscriber) Stats() (received, dropped uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.received, s.dropped
}

func (s *Subscriber) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return s.sock.Close()
}

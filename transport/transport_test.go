package transport

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"
	"go.nanomsg.org/mangos/v3/protocol/sub"

	"github.com/lixenwraith/gridscope/event"
	"github.com/lixenwraith/gridscope/snapshot"
	"github.com/lixenwraith/gridscope/vmath"
)

func TestSubscriberReceivesSnapshots(t *testing.T) {
	url := "inproc://gridscope-snapshots"
	feed, err := pub.NewSocket()
	require.NoError(t, err)
	defer feed.Close()
	require.NoError(t, feed.Listen(url))

	s := NewSubscriber(url)
	require.NoError(t, s.Start())
	defer s.Stop()

	msg, err := EncodeSnapshot(snapshot.Snapshot{EnvID: "e", Nodes: []snapshot.Node{{ID: "a"}}})
	require.NoError(t, err)

	// Subscriptions settle asynchronously; resend until one arrives
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case snap := <-s.Snapshots():
			assert.Equal(t, "e", snap.EnvID)
			require.Len(t, snap.Nodes, 1)
			assert.Equal(t, "a", snap.Nodes[0].ID)
			received, _ := s.Stats()
			assert.GreaterOrEqual(t, received, uint64(1))
			return
		case <-tick.C:
			require.NoError(t, feed.Send(msg))
		case <-deadline:
			t.Fatal("Expected snapshot before deadline")
		}
	}
}

func TestSubscriberStopIdempotent(t *testing.T) {
	s := NewSubscriber("inproc://gridscope-nobody")
	require.NoError(t, s.Start())
	assert.NoError(t, s.Stop())
	assert.NoError(t, s.Stop())

	empty := NewSubscriber("")
	assert.NoError(t, empty.Start())
	assert.NoError(t, empty.Stop())
}

func TestPublisherForwardsEvents(t *testing.T) {
	url := "inproc://gridscope-events"
	p := NewPublisher(url)
	require.NoError(t, p.Start())
	defer p.Stop()

	listener, err := sub.NewSocket()
	require.NoError(t, err)
	defer listener.Close()
	require.NoError(t, listener.Dial(url))
	require.NoError(t, listener.SetOption(mangos.OptionSubscribe, []byte(EventTopic)))
	require.NoError(t, listener.SetOption(mangos.OptionRecvDeadline, 50*time.Millisecond))

	ev := event.Event{
		Type: event.EventPositionConfigure,
		Payload: &event.PositionConfigurePayload{
			NodeID:   "n1",
			Position: vmath.V3F(1, 2, 3),
			Key:      "1,2,3",
		},
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		p.HandleEvent(ev)
		msg, err := listener.Recv()
		if err != nil {
			continue
		}
		require.True(t, bytes.HasPrefix(msg, []byte(EventTopic)))

		var env struct {
			Type    string                         `json:"type"`
			Payload event.PositionConfigurePayload `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(msg[len(EventTopic):], &env))
		assert.Equal(t, "position_configure", env.Type)
		assert.Equal(t, "1,2,3", env.Payload.Key)
		assert.Equal(t, vmath.V3F(1, 2, 3), env.Payload.Position)
		assert.Greater(t, p.Sent(), uint64(0))
		return
	}
	t.Fatal("Expected event before deadline")
}

func TestPublisherStoppedDropsEvents(t *testing.T) {
	p := NewPublisher("inproc://gridscope-stopped")
	require.NoError(t, p.Start())
	require.NoError(t, p.Stop())
	require.NoError(t, p.Stop())

	p.HandleEvent(event.Event{Type: event.EventNodeSelected})
	assert.Zero(t, p.Sent())
}

func TestFeederToSubscriber(t *testing.T) {
	url := "inproc://gridscope-feeder"
	f := NewFeeder(url)
	require.NoError(t, f.Start())
	defer f.Stop()

	s := NewSubscriber(url)
	require.NoError(t, s.Start())
	defer s.Stop()

	snap := snapshot.Snapshot{
		Nodes: []snapshot.Node{{ID: "a"}, {ID: "b"}},
		Edges: []snapshot.Edge{{Source: "a", Target: "b"}},
	}

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case got := <-s.Snapshots():
			assert.Len(t, got.Nodes, 2)
			assert.Len(t, got.Edges, 1)
			assert.Greater(t, f.Sent(), uint64(0))
			return
		case <-tick.C:
			require.NoError(t, f.Publish(snap))
		case <-deadline:
			t.Fatal("Expected snapshot before deadline")
		}
	}
}

func TestFeederRequiresStart(t *testing.T) {
	f := NewFeeder("inproc://gridscope-feeder-idle")
	assert.Error(t, f.Publish(snapshot.Snapshot{}))
	assert.NoError(t, f.Stop())
	assert.Error(t, NewFeeder("").Start())
}

// Package transport bridges the view to external collaborators over mangos pub/sub
package transport

import (
	"encoding/json"
	"fmt"

	"github.com/lixenwraith/gridscope/snapshot"
)

// Topic prefixes; SUB sockets filter on message prefix
const (
	SnapshotTopic = "SNAP:"
	EventTopic    = "EVT:"
)

// Envelope is the outbound event wire format
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// EncodeSnapshot frames a snapshot for the snapshot topic
func EncodeSnapshot(s snapshot.Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return append([]byte(SnapshotTopic), data...), nil
}

// Package snapshot decodes graph snapshots delivered by files or transport
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/gridscope/scene"
	"github.com/lixenwraith/gridscope/vmath"
)

// DefaultColor is used for nodes without a parseable color
var DefaultColor = scene.RGB{R: 180, G: 180, B: 190}

type Node struct {
	ID       string      `json:"id" yaml:"id"`
	Position *[3]float64 `json:"position,omitempty" yaml:"position,omitempty"`
	Kind     string      `json:"kind,omitempty" yaml:"kind,omitempty"`
	Color    string      `json:"color,omitempty" yaml:"color,omitempty"` // #rrggbb
}

type Edge struct {
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// Snapshot is one complete graph state; it replaces the previous one wholesale
type Snapshot struct {
	EnvID string `json:"env_id,omitempty" yaml:"env_id,omitempty"`
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges,omitempty" yaml:"edges,omitempty"`
}

// DecodeJSON parses a JSON snapshot
func DecodeJSON(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

// DecodeYAML parses a YAML snapshot
func DecodeYAML(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

// LoadFile reads a snapshot, choosing the decoder by extension
func LoadFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return DecodeJSON(data)
	}
	return DecodeYAML(data)
}

// Entities converts the snapshot to scene entities
// Nodes without an id are dropped; edges without an id get "source->target"
func (s Snapshot) Entities() ([]scene.NodeEntity, []scene.EdgeEntity) {
	nodes := make([]scene.NodeEntity, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		if n.ID == "" {
			continue
		}
		e := scene.NodeEntity{ID: n.ID, Kind: n.Kind, Color: ParseColor(n.Color)}
		if n.Position != nil {
			p := vmath.V3F(n.Position[0], n.Position[1], n.Position[2])
			e.Position = &p
		}
		nodes = append(nodes, e)
	}

	edges := make([]scene.EdgeEntity, 0, len(s.Edges))
	for _, e := range s.Edges {
		id := e.ID
		if id == "" {
			id = e.Source + "->" + e.Target
		}
		edges = append(edges, scene.EdgeEntity{ID: id, SourceID: e.Source, TargetID: e.Target})
	}
	return nodes, edges
}

// ParseColor reads #rrggbb, falling back to DefaultColor
func ParseColor(hex string) scene.RGB {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return DefaultColor
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return DefaultColor
	}
	return scene.RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

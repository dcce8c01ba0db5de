// Package interaction turns pointer rays into hover, selection and drill-down transitions
package interaction

import (
	"fmt"

	"github.com/lixenwraith/gridscope/vmath"
)

// StateKind enumerates machine states
type StateKind uint8

const (
	StateIdle StateKind = iota
	StateHoveringNode
	StateGridDrillDown
	StateHoveringGridPoint
)

var stateNames = [...]string{
	StateIdle:              "idle",
	StateHoveringNode:      "hovering_node",
	StateGridDrillDown:     "grid_drill_down",
	StateHoveringGridPoint: "hovering_grid_point",
}

func (k StateKind) String() string {
	if int(k) < len(stateNames) {
		return stateNames[k]
	}
	return "unknown"
}

// DrillDown reports whether the sub-grid is the active candidate set
func (k StateKind) DrillDown() bool {
	return k == StateGridDrillDown || k == StateHoveringGridPoint
}

// State is the current machine state; NodeID is set in every non-idle state
// Key and Coord are set only while hovering a grid point
type State struct {
	Kind   StateKind
	NodeID string
	Key    string
	Coord  vmath.Vec3F
}

func (s State) String() string {
	switch s.Kind {
	case StateIdle:
		return s.Kind.String()
	case StateHoveringGridPoint:
		return fmt.Sprintf("%s(%s,%s)", s.Kind, s.NodeID, s.Key)
	default:
		return fmt.Sprintf("%s(%s)", s.Kind, s.NodeID)
	}
}

package event

import "github.com/lixenwraith/gridscope/vmath"

type NodeSelectedPayload struct {
	NodeID string `json:"node_id"`
	EnvID  string `json:"env_id,omitempty"`
}

type PositionConfigurePayload struct {
	NodeID   string      `json:"node_id"`
	EnvID    string      `json:"env_id,omitempty"`
	Position vmath.Vec3F `json:"position"` // Discretized sub-grid coordinate
	Key      string      `json:"key"`
}

type DrillDownExitPayload struct {
	NodeID string `json:"node_id"`
}

type FormDroppedPayload struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

type FormRemovedPayload struct {
	ID string `json:"id"`
}

type EnvironmentChangedPayload struct {
	EnvID string `json:"env_id"` // Empty when returning to idle drift
}

type NCFGWrittenPayload struct {
	NodeID string `json:"node_id"`
	Key    string `json:"key"`
}

type HoverChangedPayload struct {
	Class string `json:"class"`
	ID    string `json:"id"`
}

package interaction

import (
	"github.com/lixenwraith/gridscope/event"
	"github.com/lixenwraith/gridscope/ncfg"
	"github.com/lixenwraith/gridscope/scene"
	"github.com/lixenwraith/gridscope/vmath"
)

// Scene is the read and styling surface of the synchronizer
// The machine never mutates the registry beyond these calls
type Scene interface {
	Pickables(class scene.Class) []scene.Pickable
	SetHover(class scene.Class, id string, on bool)
	SetMainVisible(visible bool)
	ShowSubGrid(nodeID string, coords []vmath.Vec3F, color scene.RGB)
	HideSubGrid()
}

// Publisher receives outbound events
type Publisher interface {
	Publish(t event.EventType, payload any)
}

// Observer receives hit-test and transition notifications, may be nil
type Observer interface {
	ObserveHitTest(target string, hit bool)
	ObserveTransition(from, to string)
}

// SubGridColor is the base style of drill-down points
var SubGridColor = scene.RGB{R: 120, G: 200, B: 160}

type hoverRef struct {
	class scene.Class
	id    string
}

// Machine is the pointer interaction state machine
// Exactly one object is hovered at a time; its styling is reverted before any new target is styled
type Machine struct {
	scene    Scene
	bus      Publisher
	observer Observer
	subgrid  []vmath.Vec3F

	state   State
	hovered *hoverRef
	envID   string
}

// NewMachine creates an idle machine; subgrid holds the discretized drill-down coordinates
func NewMachine(sc Scene, bus Publisher, subgrid []vmath.Vec3F) *Machine {
	return &Machine{scene: sc, bus: bus, subgrid: subgrid}
}

// SetObserver attaches instrumentation
func (m *Machine) SetObserver(o Observer) {
	m.observer = o
}

// SetEnvironment tags outbound events with the active environment id
func (m *Machine) SetEnvironment(envID string) {
	m.envID = envID
}

func (m *Machine) State() State { return m.state }

// Hovered returns the hovered object id, empty when none
func (m *Machine) Hovered() string {
	if m.hovered == nil {
		return ""
	}
	return m.hovered.id
}

// candidates returns exactly the set valid for the current state
func (m *Machine) candidates() (scene.Class, []scene.Pickable) {
	class := scene.ClassNode
	if m.state.Kind.DrillDown() {
		class = scene.ClassGridPoint
	}
	return class, m.scene.Pickables(class)
}

func (m *Machine) cast(r vmath.Ray) (scene.Pickable, bool) {
	class, cands := m.candidates()
	hit, _, ok := scene.Pick(r, cands)
	if m.observer != nil {
		m.observer.ObserveHitTest(class.String(), ok)
	}
	return hit, ok
}

// Move handles a pointer move along r
func (m *Machine) Move(r vmath.Ray) {
	hit, ok := m.cast(r)

	if m.state.Kind.DrillDown() {
		node := m.state.NodeID
		if !ok {
			m.clearHover()
			m.transition(State{Kind: StateGridDrillDown, NodeID: node})
			return
		}
		m.hover(scene.ClassGridPoint, hit.ID)
		m.transition(State{
			Kind:   StateHoveringGridPoint,
			NodeID: node,
			Key:    ncfg.PositionKey(hit.Coord),
			Coord:  hit.Coord,
		})
		return
	}

	if !ok {
		m.clearHover()
		m.transition(State{Kind: StateIdle})
		return
	}
	m.hover(scene.ClassNode, hit.ID)
	m.transition(State{Kind: StateHoveringNode, NodeID: hit.ID})
}

// Click handles a pointer press along r
func (m *Machine) Click(r vmath.Ray) {
	hit, ok := m.cast(r)

	if m.state.Kind.DrillDown() {
		if !ok {
			m.exitDrillDown()
			return
		}
		node := m.state.NodeID
		key := ncfg.PositionKey(hit.Coord)
		m.hover(scene.ClassGridPoint, hit.ID)
		m.transition(State{Kind: StateHoveringGridPoint, NodeID: node, Key: key, Coord: hit.Coord})
		m.publish(event.EventPositionConfigure, &event.PositionConfigurePayload{
			NodeID:   node,
			EnvID:    m.envID,
			Position: hit.Coord,
			Key:      key,
		})
		return
	}

	if !ok {
		m.clearHover()
		m.transition(State{Kind: StateIdle})
		return
	}
	m.enterDrillDown(hit.ID)
}

func (m *Machine) enterDrillDown(nodeID string) {
	m.clearHover()
	m.scene.SetMainVisible(false)
	m.scene.ShowSubGrid(nodeID, m.subgrid, SubGridColor)
	m.transition(State{Kind: StateGridDrillDown, NodeID: nodeID})
	m.publish(event.EventNodeSelected, &event.NodeSelectedPayload{NodeID: nodeID, EnvID: m.envID})
}

func (m *Machine) exitDrillDown() {
	node := m.state.NodeID
	m.clearHover()
	m.scene.HideSubGrid()
	m.scene.SetMainVisible(true)
	m.transition(State{Kind: StateIdle})
	m.publish(event.EventDrillDownExit, &event.DrillDownExitPayload{NodeID: node})
}

// Reset returns to idle, restoring the main scene if drilled down
func (m *Machine) Reset() {
	if m.state.Kind.DrillDown() {
		m.exitDrillDown()
		return
	}
	m.clearHover()
	m.transition(State{Kind: StateIdle})
}

// Forget drops hover or drill-down state referring to a removed node
func (m *Machine) Forget(nodeID string) {
	if m.state.NodeID != nodeID {
		return
	}
	m.Reset()
}

func (m *Machine) hover(class scene.Class, id string) {
	if m.hovered != nil && m.hovered.class == class && m.hovered.id == id {
		return
	}
	m.clearHover()
	m.scene.SetHover(class, id, true)
	m.hovered = &hoverRef{class: class, id: id}
	m.publish(event.EventHoverChanged, &event.HoverChangedPayload{Class: class.String(), ID: id})
}

func (m *Machine) clearHover() {
	if m.hovered == nil {
		return
	}
	m.scene.SetHover(m.hovered.class, m.hovered.id, false)
	m.hovered = nil
}

func (m *Machine) transition(next State) {
	prev := m.state
	m.state = next
	if m.observer != nil && prev.Kind != next.Kind {
		m.observer.ObserveTransition(prev.Kind.String(), next.Kind.String())
	}
}

func (m *Machine) publish(t event.EventType, payload any) {
	if m.bus != nil {
		m.bus.Publish(t, payload)
	}
}

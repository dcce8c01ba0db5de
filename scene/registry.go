package scene

import "github.com/lixenwraith/gridscope/vmath"

// NodeObject pairs the visible mesh with its invisible, larger hit volume under one id
type NodeObject struct {
	ID        string
	Kind      string
	Visual    *Primitive
	HitVolume *Primitive
	Halo      *Primitive
}

func (n *NodeObject) moveTo(pos vmath.Vec3F) {
	n.Visual.Position = pos
	n.HitVolume.Position = pos
	n.Halo.Position = pos
}

func (n *NodeObject) release(pool *Pool) {
	n.Visual.release(pool)
	n.HitVolume.release(pool)
	n.Halo.release(pool)
}

// EdgeObject is a line between two resolved node positions
type EdgeObject struct {
	ID       string
	SourceID string
	TargetID string
	Line     *Primitive
}

// FormObject is a dropped form; its transform belongs to the drag controller after creation
type FormObject struct {
	ID        string
	Kind      FormKind
	Body      *Primitive
	Heightmap *Heightmap
	// Slot is the layout cell assigned at creation, held until removal
	Slot int
}

// GridPointObject is one candidate position of the drill-down sub-grid
type GridPointObject struct {
	Coord     vmath.Vec3F
	Point     *Primitive
	HitVolume *Primitive
}

func (g *GridPointObject) release(pool *Pool) {
	g.Point.release(pool)
	g.HitVolume.release(pool)
}

// Registry maps logical ids to owned renderable handles
// Owned and mutated only by Synchronizer
type Registry struct {
	nodes      map[string]*NodeObject
	edges      []*EdgeObject
	edgeSig    string
	forms      map[string]*FormObject
	formOrder  []string
	particles  []*Primitive
	gridPoints []*GridPointObject

	mainVisible bool
	drillNode   string
}

func newRegistry() *Registry {
	return &Registry{
		nodes:       make(map[string]*NodeObject),
		forms:       make(map[string]*FormObject),
		mainVisible: true,
	}
}

package scene

import "github.com/lixenwraith/gridscope/vmath"

// KindLattice marks nodes whose position comes from the animation buffer
const KindLattice = "lattice"

// RGB is a 24-bit color
type RGB struct {
	R, G, B uint8
}

// NodeEntity is a logical graph node
// Position is authoritative for non-lattice nodes; lattice nodes read slot Index of the live buffer
type NodeEntity struct {
	ID       string
	Position *vmath.Vec3F
	Kind     string
	Color    RGB
	Index    int
}

// EdgeEntity links two nodes by id, dangling edges are skipped
type EdgeEntity struct {
	ID       string
	SourceID string
	TargetID string
}

// FormKind enumerates droppable shapes
type FormKind string

const (
	FormRect      FormKind = "rect"
	FormTriangle  FormKind = "triangle"
	FormBox       FormKind = "box"
	FormHeightmap FormKind = "heightmapMesh"
)

// Valid reports whether k is a known kind
func (k FormKind) Valid() bool {
	switch k {
	case FormRect, FormTriangle, FormBox, FormHeightmap:
		return true
	}
	return false
}

// Heightmap is a width x height grid of samples in [0,1], row-major
type Heightmap struct {
	Width  int
	Height int
	Data   []float64
}

// DroppedForm is a user-dropped object; identity and kind never change after creation
type DroppedForm struct {
	ID        string
	Kind      FormKind
	Heightmap *Heightmap
	DropAt    *vmath.Vec3F
}

package scene

import "github.com/lixenwraith/gridscope/vmath"

// Shape selects how a primitive is drawn and intersected
type Shape uint8

const (
	ShapeSphere Shape = iota
	ShapeHitSphere
	ShapeHalo
	ShapeLine
	ShapeParticle
	ShapeGridPoint
	ShapeRect
	ShapeTriangle
	ShapeBox
	ShapeHeightmap
)

var shapeNames = [...]string{
	ShapeSphere:    "sphere",
	ShapeHitSphere: "hit",
	ShapeHalo:      "halo",
	ShapeLine:      "line",
	ShapeParticle:  "particle",
	ShapeGridPoint: "gridpoint",
	ShapeRect:      "rect",
	ShapeTriangle:  "triangle",
	ShapeBox:       "box",
	ShapeHeightmap: "heightmap",
}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "unknown"
}

// Style constants for visual and collision sizes
const (
	NodeRadius      = 0.45
	HitRadius       = 1.1
	HaloRadius      = 0.8
	ParticleRadius  = 0.15
	GridPointRadius = 0.2
	GridHitRadius   = 0.45
	FormHalfExtent  = 1.2

	HoverScale   = 1.5
	BaseOpacity  = 0.75
	HoverOpacity = 1.0
)

// Primitive is one renderable object holding a geometry and a material resource
type Primitive struct {
	Shape    Shape
	Position vmath.Vec3F
	End      vmath.Vec3F // Line end point
	Rotation vmath.Vec3F // Euler angles, forms only
	Radius   float64
	Scale    float64
	Color    RGB
	Opacity  float64
	Visible  bool

	geometry ResourceID
	material ResourceID
	released bool
}

func newPrimitive(pool *Pool, shape Shape, pos vmath.Vec3F, radius float64, color RGB) *Primitive {
	return &Primitive{
		Shape:    shape,
		Position: pos,
		Radius:   radius,
		Scale:    1,
		Color:    color,
		Opacity:  BaseOpacity,
		Visible:  shape != ShapeHitSphere,
		geometry: pool.Alloc(ResourceGeometry),
		material: pool.Alloc(ResourceMaterial),
	}
}

// release frees both resources once, later calls are no-ops
func (p *Primitive) release(pool *Pool) {
	if p == nil || p.released {
		return
	}
	pool.Release(p.geometry)
	pool.Release(p.material)
	p.released = true
}

// Released reports whether the primitive's resources were freed
func (p *Primitive) Released() bool {
	return p.released
}

// Package camera provides the orbiting perspective camera and pointer-to-ray mapping
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/gridscope/vmath"
)

const (
	MinRadius = 5.0
	MaxRadius = 400.0
	MaxPitch  = 89.0 // Degrees

	DefaultFov    = 50.0
	DefaultRadius = 70.0
	DefaultYaw    = 30.0
	DefaultPitch  = 20.0

	NearPlane = 0.1
	FarPlane  = 2000.0

	// CellAspect is terminal cell height over width
	CellAspect = 2.0
)

// Rect is the render surface bounding rectangle in pointer coordinates
type Rect struct {
	X, Y, W, H float64
}

// Empty reports a surface with no area; nothing can be projected onto it
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// NDC maps pointer (px, py) relative to r to normalized device coordinates, y up
func NDC(r Rect, px, py float64) (x, y float64, ok bool) {
	if r.Empty() {
		return 0, 0, false
	}
	x = (px-r.X)/r.W*2 - 1
	y = 1 - (py-r.Y)/r.H*2
	return x, y, true
}

// Camera orbits Target at Radius; angles are in degrees
type Camera struct {
	Target vmath.Vec3F
	Yaw    float64
	Pitch  float64
	Radius float64
	Fov    float64

	surface Rect
}

func New() *Camera {
	return &Camera{
		Yaw:    DefaultYaw,
		Pitch:  DefaultPitch,
		Radius: DefaultRadius,
		Fov:    DefaultFov,
	}
}

// SetSurface records the surface size used for aspect and projection
func (c *Camera) SetSurface(r Rect) {
	c.surface = r
}

func (c *Camera) Surface() Rect {
	return c.surface
}

// Aspect is the visual width over height, corrected for tall cells
func (c *Camera) Aspect() float64 {
	if c.surface.Empty() {
		return 1
	}
	return c.surface.W / (c.surface.H * CellAspect)
}

// Eye is the camera world position
func (c *Camera) Eye() vmath.Vec3F {
	yaw := mgl64.DegToRad(c.Yaw)
	pitch := mgl64.DegToRad(c.Pitch)
	offset := vmath.V3F(
		math.Cos(pitch)*math.Sin(yaw),
		math.Sin(pitch),
		math.Cos(pitch)*math.Cos(yaw),
	)
	return c.Target.Add(offset.Mul(c.Radius))
}

// Forward is the unit view direction
func (c *Camera) Forward() vmath.Vec3F {
	return vmath.V3FNormalize(c.Target.Sub(c.Eye()))
}

func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye(), c.Target, mgl64.Vec3{0, 1, 0})
}

func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.Fov), c.Aspect(), NearPlane, FarPlane)
}

// Ray builds a world ray through normalized device coordinates
func (c *Camera) Ray(ndcX, ndcY float64) (vmath.Ray, bool) {
	view, proj := c.View(), c.Projection()
	win := func(depth float64) mgl64.Vec3 {
		return mgl64.Vec3{(ndcX + 1) / 2, (ndcY + 1) / 2, depth}
	}
	near, err := mgl64.UnProject(win(0), view, proj, 0, 0, 1, 1)
	if err != nil {
		return vmath.Ray{}, false
	}
	far, err := mgl64.UnProject(win(1), view, proj, 0, 0, 1, 1)
	if err != nil {
		return vmath.Ray{}, false
	}
	return vmath.NewRay(c.Eye(), far.Sub(near)), true
}

// RayAt combines NDC and Ray for a pointer position on the current surface
func (c *Camera) RayAt(px, py float64) (vmath.Ray, bool) {
	x, y, ok := NDC(c.surface, px, py)
	if !ok {
		return vmath.Ray{}, false
	}
	return c.Ray(x, y)
}

// Project maps a world point to surface coordinates and view depth
// Points at or behind the near plane report ok=false
func (c *Camera) Project(world vmath.Vec3F) (sx, sy, depth float64, ok bool) {
	if c.surface.Empty() {
		return 0, 0, 0, false
	}
	clip := c.Projection().Mul4(c.View()).Mul4x1(world.Vec4(1))
	w := clip.W()
	if w <= NearPlane {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / w)
	sx = c.surface.X + (ndc[0]+1)/2*c.surface.W
	sy = c.surface.Y + (1-ndc[1])/2*c.surface.H
	return sx, sy, w, true
}

// PixelScale is the on-surface width of a unit length at depth
func (c *Camera) PixelScale(depth float64) float64 {
	if depth <= 0 || c.surface.Empty() {
		return 0
	}
	f := 1 / math.Tan(mgl64.DegToRad(c.Fov)/2)
	return f / c.Aspect() / depth * c.surface.W / 2
}

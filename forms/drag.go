package forms

import (
	"github.com/lixenwraith/gridscope/camera"
	"github.com/lixenwraith/gridscope/scene"
	"github.com/lixenwraith/gridscope/vmath"
)

// Mover is the synchronizer surface the drag controller needs
type Mover interface {
	Pickables(class scene.Class) []scene.Pickable
	MoveForm(id string, pos vmath.Vec3F) bool
	FormPosition(id string) (vmath.Vec3F, bool)
}

// DragController moves forms along a camera-facing plane
// The orbit controller is disabled for the whole drag and re-enabled on end
type DragController struct {
	mover Mover
	cam   *camera.Camera
	orbit *camera.OrbitController

	active string
	plane  vmath.Vec3F // Point on drag plane
	normal vmath.Vec3F
	offset vmath.Vec3F // Form position minus grab point
}

func NewDragController(mover Mover, cam *camera.Camera, orbit *camera.OrbitController) *DragController {
	return &DragController{mover: mover, cam: cam, orbit: orbit}
}

// Begin grabs the nearest form under r; returns false when no form is hit
func (d *DragController) Begin(r vmath.Ray) bool {
	if d.active != "" {
		d.End()
	}
	hit, _, ok := scene.Pick(r, d.mover.Pickables(scene.ClassForm))
	if !ok {
		return false
	}
	pos, ok := d.mover.FormPosition(hit.ID)
	if !ok {
		return false
	}

	normal := d.cam.Forward().Mul(-1)
	t, ok := r.IntersectPlane(pos, normal)
	if !ok {
		return false
	}
	d.active = hit.ID
	d.plane = pos
	d.normal = normal
	d.offset = pos.Sub(r.At(t))
	d.orbit.Disable()
	return true
}

// Move drags the active form to the plane point under r
func (d *DragController) Move(r vmath.Ray) bool {
	if d.active == "" {
		return false
	}
	t, ok := r.IntersectPlane(d.plane, d.normal)
	if !ok {
		return false
	}
	return d.mover.MoveForm(d.active, r.At(t).Add(d.offset))
}

// End releases the active form and re-enables orbiting
func (d *DragController) End() {
	d.active = ""
	d.orbit.Enable()
}

// Active returns the dragged form id, empty when idle
func (d *DragController) Active() string {
	return d.active
}

// Forget ends a drag if id is the dragged form
func (d *DragController) Forget(id string) {
	if d.active == id {
		d.End()
	}
}

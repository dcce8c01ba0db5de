package camera

import (
	"math"
	"sync/atomic"

	"github.com/lixenwraith/gridscope/vmath"
)

const (
	// OrbitSensitivity is degrees per pointer cell
	OrbitSensitivity = 1.5
	ZoomStep         = 0.1
)

// OrbitController rotates and zooms a camera from pointer drags
// A disabled controller ignores input
type OrbitController struct {
	cam     *Camera
	enabled atomic.Bool
}

func NewOrbitController(cam *Camera) *OrbitController {
	o := &OrbitController{cam: cam}
	o.enabled.Store(true)
	return o
}

func (o *OrbitController) Enable()       { o.enabled.Store(true) }
func (o *OrbitController) Disable()      { o.enabled.Store(false) }
func (o *OrbitController) Enabled() bool { return o.enabled.Load() }

// Drag orbits by pointer delta; returns false when disabled
func (o *OrbitController) Drag(dx, dy float64) bool {
	if !o.Enabled() {
		return false
	}
	o.cam.Yaw = math.Mod(o.cam.Yaw-dx*OrbitSensitivity, 360)
	o.cam.Pitch = vmath.ClampF(o.cam.Pitch+dy*OrbitSensitivity, -MaxPitch, MaxPitch)
	return true
}

// Zoom scales the orbit radius; positive delta moves away
func (o *OrbitController) Zoom(delta float64) bool {
	if !o.Enabled() {
		return false
	}
	o.cam.Radius = vmath.ClampF(o.cam.Radius*(1+delta*ZoomStep), MinRadius, MaxRadius)
	return true
}

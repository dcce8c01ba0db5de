package engine

import (
	"github.com/lixenwraith/gridscope/animation"
	"github.com/lixenwraith/gridscope/camera"
	"github.com/lixenwraith/gridscope/interaction"
	"github.com/lixenwraith/gridscope/ncfg"
	"github.com/lixenwraith/gridscope/scene"
)

// Frame is a consistent copy of view state taken after synchronization
type Frame struct {
	Number    uint64
	Camera    camera.Camera
	State     interaction.State
	Mode      animation.Mode
	EnvID     string
	Drawables []scene.Drawable
	DrillNode string // Node whose sub-grid is shown, empty outside drill-down
	Store     *ncfg.Store
}

// Configured reports whether a drill-down grid point already has an NCFG entry
func (f *Frame) Configured(d scene.Drawable) bool {
	if f.DrillNode == "" || f.Store == nil || d.Shape != scene.ShapeGridPoint {
		return false
	}
	return f.Store.Has(f.DrillNode, ncfg.PositionKey(d.Coord))
}

// Renderer draws one frame
type Renderer interface {
	Render(f *Frame)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(f *Frame)

func (fn RendererFunc) Render(f *Frame) { fn(f) }

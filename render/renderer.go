// Package render draws view frames onto a tcell screen
package render

import (
	"fmt"
	"math"
	"sort"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/gridscope/camera"
	"github.com/lixenwraith/gridscope/engine"
	"github.com/lixenwraith/gridscope/scene"
	"github.com/lixenwraith/gridscope/vmath"
)

// Glyphs by shape
const (
	GlyphNode       = '●'
	GlyphNodeSmall  = '•'
	GlyphParticle   = '·'
	GlyphEdge       = '∙'
	GlyphGridPoint  = '+'
	GlyphGridHover  = '■'
	GlyphConfigured = '◆'
	GlyphRect       = '▬'
	GlyphTriangle   = '▲'
	GlyphBox        = '■'
)

// heightRamp maps heightmap samples to glyphs, low to high
var heightRamp = []rune(" .:-=+*#%@")

// MaxHeightmapSamples caps sampled heightmap cells per axis
const MaxHeightmapSamples = 12

// Renderer composes drawables far to near into a buffer and flushes it to the screen
// The last screen row carries a status line when Status is set
type Renderer struct {
	screen tcell.Screen
	buf    *Buffer
	Status bool
}

func NewRenderer(screen tcell.Screen) *Renderer {
	w, h := screen.Size()
	return &Renderer{screen: screen, buf: NewBuffer(w, h), Status: true}
}

// Buffer exposes the last composed frame
func (r *Renderer) Buffer() *Buffer { return r.buf }

// Render draws f; a frame without surface draws nothing
func (r *Renderer) Render(f *engine.Frame) {
	if f == nil || f.Camera.Surface().Empty() {
		return
	}
	w, h := r.screen.Size()
	if bw, bh := r.buf.Size(); bw != w || bh != h {
		r.buf.Resize(w, h)
	} else {
		r.buf.Clear()
	}

	Compose(r.buf, f)
	if r.Status && h > 0 {
		r.drawStatus(f, h-1)
	}
	r.buf.Flush(r.screen)
	r.screen.Show()
}

type projected struct {
	d     scene.Drawable
	x, y  float64
	depth float64
}

// Compose projects and paints every drawable of f into buf
func Compose(buf *Buffer, f *engine.Frame) {
	cam := &f.Camera
	items := make([]projected, 0, len(f.Drawables))
	for _, d := range f.Drawables {
		if d.Shape == scene.ShapeHitSphere {
			continue
		}
		sx, sy, depth, ok := cam.Project(d.Position)
		if !ok {
			continue
		}
		if d.Shape == scene.ShapeLine {
			if _, _, d2, ok2 := cam.Project(d.End); ok2 {
				depth = (depth + d2) / 2
			}
		}
		items = append(items, projected{d: d, x: sx, y: sy, depth: depth})
	}

	// Painter's order: far first, near overwrites
	sort.SliceStable(items, func(i, j int) bool { return items[i].depth > items[j].depth })

	for i := range items {
		paint(buf, f, cam, &items[i])
	}
}

func paint(buf *Buffer, f *engine.Frame, cam *camera.Camera, p *projected) {
	d := p.d
	x, y := cell(p.x), cell(p.y)
	fog := Fog(p.depth)
	color := Blend(d.Color, RgbBackground, d.Opacity*fog)
	radius := cam.PixelScale(p.depth) * d.Radius * d.Scale

	switch d.Shape {
	case scene.ShapeParticle:
		buf.Set(x, y, GlyphParticle, color, false)

	case scene.ShapeLine:
		ex, ey, _, ok := cam.Project(d.End)
		if !ok {
			return
		}
		line(buf, x, y, cell(ex), cell(ey), GlyphEdge, Blend(RgbEdge, RgbBackground, fog))

	case scene.ShapeSphere:
		if radius < 0.75 {
			buf.Set(x, y, GlyphNodeSmall, color, d.Scale > 1)
			return
		}
		disc(buf, x, y, radius, GlyphNode, color)

	case scene.ShapeHalo:
		ring(buf, x, y, math.Max(radius, 1), color)

	case scene.ShapeGridPoint:
		switch {
		case f.Configured(d):
			buf.Set(x, y, GlyphConfigured, Blend(RgbConfigured, RgbBackground, fog), true)
		case d.Scale > 1:
			buf.Set(x, y, GlyphGridHover, color, true)
		default:
			buf.Set(x, y, GlyphGridPoint, color, false)
		}

	case scene.ShapeRect:
		block(buf, x, y, radius, GlyphRect, color)
	case scene.ShapeTriangle:
		block(buf, x, y, radius, GlyphTriangle, color)
	case scene.ShapeBox:
		block(buf, x, y, radius, GlyphBox, color)

	case scene.ShapeHeightmap:
		heightmap(buf, cam, d, x, y, radius, color)
	}
}

func cell(v float64) int {
	return int(math.Floor(v))
}

// disc fills an ellipse of radius r cells, halved vertically for tall cells
func disc(buf *Buffer, cx, cy int, r float64, glyph rune, color scene.RGB) {
	rx := int(math.Ceil(r))
	ry := int(math.Ceil(r / camera.CellAspect))
	for dy := -ry; dy <= ry; dy++ {
		for dx := -rx; dx <= rx; dx++ {
			fx := float64(dx) / r
			fy := float64(dy) * camera.CellAspect / r
			if fx*fx+fy*fy <= 1 {
				buf.Set(cx+dx, cy+dy, glyph, color, false)
			}
		}
	}
}

// ring outlines an ellipse of radius r cells
func ring(buf *Buffer, cx, cy int, r float64, color scene.RGB) {
	steps := int(math.Max(8, 2*math.Pi*r))
	for i := range steps {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x := cx + int(math.Round(math.Cos(a)*r))
		y := cy + int(math.Round(math.Sin(a)*r/camera.CellAspect))
		if x == cx && y == cy {
			continue
		}
		buf.Set(x, y, GlyphParticle, color, true)
	}
}

// block fills a half-extent square of r cells
func block(buf *Buffer, cx, cy int, r float64, glyph rune, color scene.RGB) {
	rx := int(math.Round(r))
	ry := int(math.Round(r / camera.CellAspect))
	for dy := -ry; dy <= ry; dy++ {
		for dx := -rx; dx <= rx; dx++ {
			buf.Set(cx+dx, cy+dy, glyph, color, false)
		}
	}
}

// line rasterizes the part of a segment inside buf with Bresenham
func line(buf *Buffer, x0, y0, x1, y1 int, glyph rune, color scene.RGB) {
	w, h := buf.Size()
	var ok bool
	if x0, y0, x1, y1, ok = clipSegment(x0, y0, x1, y1, w, h); !ok {
		return
	}
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for n := 0; n <= dx-dy; n++ {
		buf.Set(x0, y0, glyph, color, false)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

const (
	outLeft = 1 << iota
	outRight
	outTop
	outBottom
)

func outcode(x, y, maxX, maxY float64) int {
	code := 0
	if x < 0 {
		code |= outLeft
	} else if x > maxX {
		code |= outRight
	}
	if y < 0 {
		code |= outTop
	} else if y > maxY {
		code |= outBottom
	}
	return code
}

// clipSegment clips a segment to [0,w) x [0,h) with Cohen-Sutherland
// Returns false when nothing of the segment is visible
func clipSegment(x0, y0, x1, y1, w, h int) (int, int, int, int, bool) {
	if w <= 0 || h <= 0 {
		return 0, 0, 0, 0, false
	}
	maxX, maxY := float64(w-1), float64(h-1)
	fx0, fy0, fx1, fy1 := float64(x0), float64(y0), float64(x1), float64(y1)
	c0 := outcode(fx0, fy0, maxX, maxY)
	c1 := outcode(fx1, fy1, maxX, maxY)

	for {
		switch {
		case c0|c1 == 0:
			return vmath.ClampI(int(math.Round(fx0)), 0, w-1), vmath.ClampI(int(math.Round(fy0)), 0, h-1),
				vmath.ClampI(int(math.Round(fx1)), 0, w-1), vmath.ClampI(int(math.Round(fy1)), 0, h-1), true
		case c0&c1 != 0:
			return 0, 0, 0, 0, false
		}

		out := c0
		if out == 0 {
			out = c1
		}
		var x, y float64
		switch {
		case out&outBottom != 0:
			x = fx0 + (fx1-fx0)*(maxY-fy0)/(fy1-fy0)
			y = maxY
		case out&outTop != 0:
			x = fx0 + (fx1-fx0)*(0-fy0)/(fy1-fy0)
			y = 0
		case out&outRight != 0:
			y = fy0 + (fy1-fy0)*(maxX-fx0)/(fx1-fx0)
			x = maxX
		default:
			y = fy0 + (fy1-fy0)*(0-fx0)/(fx1-fx0)
			x = 0
		}

		if out == c0 {
			fx0, fy0 = x, y
			c0 = outcode(fx0, fy0, maxX, maxY)
		} else {
			fx1, fy1 = x, y
			c1 = outcode(fx1, fy1, maxX, maxY)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// heightmap samples the mesh on a coarse grid across the form footprint
func heightmap(buf *Buffer, cam *camera.Camera, d scene.Drawable, x, y int, radius float64, color scene.RGB) {
	hm := d.Heightmap
	if hm == nil || hm.Width == 0 || hm.Height == 0 {
		block(buf, x, y, radius, GlyphBox, color)
		return
	}
	ext := scene.FormHalfExtent * d.Scale
	nu := min(hm.Width, MaxHeightmapSamples)
	nv := min(hm.Height, MaxHeightmapSamples)
	for j := range nv {
		for i := range nu {
			u := fraction(i, nu)
			v := fraction(j, nv)
			h := hm.Data[int(v*float64(hm.Height-1)+0.5)*hm.Width+int(u*float64(hm.Width-1)+0.5)]
			p := d.Position.Add(vmath.V3F((u-0.5)*2*ext, h*ext, (v-0.5)*2*ext))
			sx, sy, _, ok := cam.Project(p)
			if !ok {
				continue
			}
			level := int(vmath.ClampF(h, 0, 1) * float64(len(heightRamp)-1))
			glyph := heightRamp[level]
			if glyph == ' ' {
				glyph = GlyphParticle
			}
			buf.Set(cell(sx), cell(sy), glyph, color, false)
		}
	}
}

func fraction(i, n int) float64 {
	if n <= 1 {
		return 0.5
	}
	return float64(i) / float64(n-1)
}

func (r *Renderer) drawStatus(f *engine.Frame, row int) {
	env := f.EnvID
	if env == "" {
		env = "idle"
	}
	text := fmt.Sprintf(" gridscope | env %s | %s | %s | frame %d", env, f.Mode, f.State, f.Number)
	r.buf.Fill(row, RgbStatusBg)
	r.buf.Text(0, row, text, RgbStatusFg, RgbStatusBg)
}

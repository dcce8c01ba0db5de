package render

import (
	"math"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/gridscope/camera"
	"github.com/lixenwraith/gridscope/engine"
	"github.com/lixenwraith/gridscope/ncfg"
	"github.com/lixenwraith/gridscope/scene"
	"github.com/lixenwraith/gridscope/vmath"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	s.SetSize(80, 25)
	t.Cleanup(s.Fini)
	return s
}

func newFrame(drawables ...scene.Drawable) *engine.Frame {
	cam := camera.New()
	cam.SetSurface(camera.Rect{W: 80, H: 24})
	return &engine.Frame{Camera: *cam, Drawables: drawables}
}

func drawable(shape scene.Shape, pos vmath.Vec3F, radius float64) scene.Drawable {
	return scene.Drawable{
		Shape:    shape,
		Position: pos,
		Radius:   radius,
		Scale:    1,
		Color:    scene.RGB{R: 200, G: 200, B: 255},
		Opacity:  1,
	}
}

func cellOf(t *testing.T, f *engine.Frame, p vmath.Vec3F) (int, int) {
	t.Helper()
	sx, sy, _, ok := f.Camera.Project(p)
	if !ok {
		t.Fatalf("Expected %v to project", p)
	}
	return int(math.Floor(sx)), int(math.Floor(sy))
}

func runeAt(s tcell.Screen, x, y int) rune {
	r, _, _, _ := s.GetContent(x, y)
	return r
}

func countRune(s tcell.Screen, want rune) int {
	w, h := s.Size()
	n := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if runeAt(s, x, y) == want {
				n++
			}
		}
	}
	return n
}

func TestRenderSmallNode(t *testing.T) {
	s := newSimScreen(t)
	r := NewRenderer(s)
	f := newFrame(drawable(scene.ShapeSphere, vmath.Vec3F{}, scene.NodeRadius))

	r.Render(f)
	x, y := cellOf(t, f, vmath.Vec3F{})
	if got := runeAt(s, x, y); got != GlyphNodeSmall {
		t.Errorf("Expected %q at (%d,%d), got %q", GlyphNodeSmall, x, y, got)
	}
}

func TestRenderPainterOrder(t *testing.T) {
	s := newSimScreen(t)
	r := NewRenderer(s)
	f := newFrame()
	near := f.Camera.Eye().Mul(0.5)
	// Far disc spans several cells, the near particle lands inside it
	f.Drawables = []scene.Drawable{
		drawable(scene.ShapeParticle, near, scene.ParticleRadius),
		drawable(scene.ShapeSphere, vmath.Vec3F{}, 5),
	}

	r.Render(f)
	px, py := cellOf(t, f, near)
	if got := runeAt(s, px, py); got != GlyphParticle {
		t.Errorf("Expected near particle on top, got %q", got)
	}
	if n := countRune(s, GlyphNode); n < 3 {
		t.Errorf("Expected far disc around the particle, got %d cells", n)
	}
}

func TestRenderGridMarkers(t *testing.T) {
	s := newSimScreen(t)
	r := NewRenderer(s)

	store := ncfg.NewStore()
	configured := vmath.V3F(1, -1, 2)
	if _, err := store.Set("n1", configured, []float64{0}, []float64{1}); err != nil {
		t.Fatal(err)
	}

	plain := drawable(scene.ShapeGridPoint, vmath.V3F(-10, 0, 0), scene.GridPointRadius)
	marked := drawable(scene.ShapeGridPoint, vmath.V3F(0, 0, 0), scene.GridPointRadius)
	marked.Coord = configured
	hovered := drawable(scene.ShapeGridPoint, vmath.V3F(10, 0, 0), scene.GridPointRadius)
	hovered.Coord = vmath.V3F(2, 2, 2)
	hovered.Scale = scene.HoverScale

	f := newFrame(plain, marked, hovered)
	f.DrillNode = "n1"
	f.Store = store
	r.Render(f)

	tests := []struct {
		pos  vmath.Vec3F
		want rune
	}{
		{plain.Position, GlyphGridPoint},
		{marked.Position, GlyphConfigured},
		{hovered.Position, GlyphGridHover},
	}
	for _, tt := range tests {
		x, y := cellOf(t, f, tt.pos)
		if got := runeAt(s, x, y); got != tt.want {
			t.Errorf("At %v: expected %q, got %q", tt.pos, tt.want, got)
		}
	}

	// Same point outside drill-down is not marked
	f.DrillNode = ""
	r.Render(f)
	if n := countRune(s, GlyphConfigured); n != 0 {
		t.Errorf("Expected no configured markers outside drill-down, got %d", n)
	}
}

func TestRenderEdgeAndHeightmap(t *testing.T) {
	s := newSimScreen(t)
	r := NewRenderer(s)

	edge := drawable(scene.ShapeLine, vmath.V3F(-10, 0, 0), 0)
	edge.End = vmath.V3F(10, 0, 0)
	hm := drawable(scene.ShapeHeightmap, vmath.V3F(0, 10, 0), scene.FormHalfExtent)
	hm.Heightmap = &scene.Heightmap{Width: 2, Height: 2, Data: []float64{0, 1, 1, 0.5}}

	r.Render(newFrame(edge, hm))
	if n := countRune(s, GlyphEdge); n < 5 {
		t.Errorf("Expected a rasterized edge, got %d cells", n)
	}
	if n := countRune(s, '@'); n == 0 {
		t.Error("Expected peak glyph for full-height samples")
	}
}

func TestClipSegment(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           [4]int
		visible        bool
	}{
		{"Inside", 2, 3, 10, 7, [4]int{2, 3, 10, 7}, true},
		{"Horizontal overshoot", -100000, 5, 100000, 5, [4]int{0, 5, 79, 5}, true},
		{"Vertical overshoot", 40, -50000, 40, 50000, [4]int{40, 0, 40, 23}, true},
		{"Diagonal from far corner", -100, -100, 10, 10, [4]int{0, 0, 10, 10}, true},
		{"Left of buffer", -20, 0, -1, 23, [4]int{}, false},
		{"Below buffer", 0, 30, 79, 40, [4]int{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x0, y0, x1, y1, ok := clipSegment(tt.x0, tt.y0, tt.x1, tt.y1, 80, 24)
			if ok != tt.visible {
				t.Fatalf("Expected visible %v, got %v", tt.visible, ok)
			}
			if !ok {
				return
			}
			got := [4]int{x0, y0, x1, y1}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLineFarEndpointsStayInBuffer(t *testing.T) {
	buf := NewBuffer(80, 24)
	line(buf, -100000, 5, 100000, 5, GlyphEdge, RgbEdge)

	for x := 0; x < 80; x++ {
		if c := buf.Get(x, 5); c.Rune != GlyphEdge {
			t.Fatalf("Expected edge glyph at %d,5, got %q", x, c.Rune)
		}
	}
	if c := buf.Get(0, 4); c.Rune == GlyphEdge {
		t.Error("Expected no edge glyph off the segment row")
	}
}

func TestRenderStatusLine(t *testing.T) {
	s := newSimScreen(t)
	r := NewRenderer(s)
	f := newFrame()
	f.Number = 42
	r.Render(f)

	var b strings.Builder
	for x := 0; x < 80; x++ {
		b.WriteRune(runeAt(s, x, 24))
	}
	line := b.String()
	for _, want := range []string{"env idle", "frame 42", "idle"} {
		if !strings.Contains(line, want) {
			t.Errorf("Expected status line to contain %q, got %q", want, line)
		}
	}
}

func TestRenderWithoutSurfaceIsNoop(t *testing.T) {
	s := newSimScreen(t)
	r := NewRenderer(s)
	f := &engine.Frame{Camera: *camera.New(), Drawables: []scene.Drawable{
		drawable(scene.ShapeSphere, vmath.Vec3F{}, 5),
	}}

	r.Render(f)
	r.Render(nil)
	if n := countRune(s, GlyphNode); n != 0 {
		t.Errorf("Expected nothing drawn without surface, got %d cells", n)
	}
}

func TestBufferResizeClears(t *testing.T) {
	b := NewBuffer(4, 3)
	b.Set(1, 1, 'x', RgbStatusFg, false)
	b.Set(9, 9, 'y', RgbStatusFg, false)
	if b.Get(1, 1).Rune != 'x' {
		t.Errorf("Expected 'x', got %q", b.Get(1, 1).Rune)
	}

	b.Resize(2, 2)
	if w, h := b.Size(); w != 2 || h != 2 {
		t.Errorf("Expected 2x2, got %dx%d", w, h)
	}
	if b.Get(1, 1).Rune != ' ' {
		t.Errorf("Expected cleared cell, got %q", b.Get(1, 1).Rune)
	}
}

func TestBlendAndFog(t *testing.T) {
	white := scene.RGB{R: 255, G: 255, B: 255}
	if got := Blend(white, RgbBackground, 0); got != RgbBackground {
		t.Errorf("Expected background at alpha 0, got %v", got)
	}
	if got := Blend(white, RgbBackground, 1); got != white {
		t.Errorf("Expected color at alpha 1, got %v", got)
	}
	if Fog(10) < Fog(100) {
		t.Error("Expected fog to dim with depth")
	}
	if Fog(1e6) != MinFog {
		t.Errorf("Expected fog floor %v, got %v", MinFog, Fog(1e6))
	}
}

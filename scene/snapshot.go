package scene

import "github.com/lixenwraith/gridscope/vmath"

// Drawable is an immutable copy of a visible primitive for the renderer
type Drawable struct {
	ID        string
	Shape     Shape
	Position  vmath.Vec3F
	End       vmath.Vec3F
	Rotation  vmath.Vec3F
	Radius    float64
	Scale     float64
	Color     RGB
	Opacity   float64
	Coord     vmath.Vec3F
	Heightmap *Heightmap
}

// Drawables copies every visible primitive under one read lock
func (s *Synchronizer) Drawables() []Drawable {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Drawable, 0, len(s.reg.particles)+len(s.reg.nodes)*2+len(s.reg.edges)+len(s.reg.forms)+len(s.reg.gridPoints))
	add := func(id string, p *Primitive) bool {
		if p == nil || !p.Visible || p.released {
			return false
		}
		out = append(out, Drawable{
			ID:       id,
			Shape:    p.Shape,
			Position: p.Position,
			End:      p.End,
			Rotation: p.Rotation,
			Radius:   p.Radius,
			Scale:    p.Scale,
			Color:    p.Color,
			Opacity:  p.Opacity,
		})
		return true
	}

	for _, p := range s.reg.particles {
		add("", p)
	}
	for _, e := range s.reg.edges {
		add(e.ID, e.Line)
	}
	for id, n := range s.reg.nodes {
		add(id, n.Halo)
		add(id, n.Visual)
	}
	for _, id := range s.reg.formOrder {
		f := s.reg.forms[id]
		if add(id, f.Body) {
			out[len(out)-1].Heightmap = f.Heightmap
		}
	}
	for _, g := range s.reg.gridPoints {
		if add(GridPointID(g.Coord), g.Point) {
			out[len(out)-1].Coord = g.Coord
		}
	}
	return out
}

package scene

import (
	"fmt"

	"github.com/lixenwraith/gridscope/vmath"
)

// Class names a candidate set for hit testing
type Class uint8

const (
	ClassNode Class = iota
	ClassGridPoint
	ClassForm
)

func (c Class) String() string {
	switch c {
	case ClassNode:
		return "node"
	case ClassGridPoint:
		return "gridpoint"
	case ClassForm:
		return "form"
	}
	return "unknown"
}

// Pickable is a read-only copy of a hit-testable volume
type Pickable struct {
	ID     string
	Class  Class
	Center vmath.Vec3F
	Radius float64
	Half   vmath.Vec3F // Box half extents when Radius is zero
	Coord  vmath.Vec3F // Discretized coordinate for grid points
}

// Intersect returns the ray distance to the volume
func (p Pickable) Intersect(r vmath.Ray) (float64, bool) {
	if p.Radius > 0 {
		return r.IntersectSphere(p.Center, p.Radius)
	}
	return r.IntersectBox(p.Center, p.Half)
}

// GridPointID is the stable id of a sub-grid point
func GridPointID(coord vmath.Vec3F) string {
	return fmt.Sprintf("grid:%g,%g,%g", coord[0], coord[1], coord[2])
}

// Pickables returns a consistent snapshot of exactly one candidate set
// Hidden layers yield nothing; decorative objects are never included
func (s *Synchronizer) Pickables(class Class) []Pickable {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Pickable
	switch class {
	case ClassNode:
		if !s.reg.mainVisible {
			return nil
		}
		out = make([]Pickable, 0, len(s.reg.nodes))
		for id, n := range s.reg.nodes {
			out = append(out, Pickable{
				ID:     id,
				Class:  ClassNode,
				Center: n.HitVolume.Position,
				Radius: n.HitVolume.Radius,
			})
		}
	case ClassGridPoint:
		out = make([]Pickable, 0, len(s.reg.gridPoints))
		for _, g := range s.reg.gridPoints {
			out = append(out, Pickable{
				ID:     GridPointID(g.Coord),
				Class:  ClassGridPoint,
				Center: g.HitVolume.Position,
				Radius: g.HitVolume.Radius,
				Coord:  g.Coord,
			})
		}
	case ClassForm:
		out = make([]Pickable, 0, len(s.reg.forms))
		for _, id := range s.reg.formOrder {
			f := s.reg.forms[id]
			h := f.Body.Radius
			out = append(out, Pickable{
				ID:     id,
				Class:  ClassForm,
				Center: f.Body.Position,
				Half:   vmath.V3F(h, h, h),
			})
		}
	}
	return out
}

// Pick returns the nearest candidate hit by r, ties broken by id
func Pick(r vmath.Ray, candidates []Pickable) (Pickable, float64, bool) {
	var (
		best  Pickable
		bestT float64
		found bool
	)
	for _, c := range candidates {
		t, ok := c.Intersect(r)
		if !ok {
			continue
		}
		if !found || t < bestT || (t == bestT && c.ID < best.ID) {
			best, bestT, found = c, t, true
		}
	}
	return best, bestT, found
}

package scene

import (
	"github.com/lixenwraith/gridscope/vmath"
)

// GridSpacing is world distance between drill-down grid points
const GridSpacing = 2.5

// SetMainVisible shows or hides the node and edge layer
func (s *Synchronizer) SetMainVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reg.mainVisible = visible
	for _, n := range s.reg.nodes {
		n.Visual.Visible = visible
		if !visible {
			n.Halo.Visible = false
		}
	}
	for _, e := range s.reg.edges {
		e.Line.Visible = visible
	}
}

// MainVisible reports whether the node and edge layer is shown
func (s *Synchronizer) MainVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.mainVisible
}

// ShowSubGrid replaces any existing drill-down grid with points at coords for nodeID
// World position is coord scaled by GridSpacing around the origin
func (s *Synchronizer) ShowSubGrid(nodeID string, coords []vmath.Vec3F, color RGB) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.releaseGridLocked()

	s.reg.drillNode = nodeID
	s.reg.gridPoints = make([]*GridPointObject, 0, len(coords))
	for _, c := range coords {
		world := c.Mul(GridSpacing)
		s.reg.gridPoints = append(s.reg.gridPoints, &GridPointObject{
			Coord:     c,
			Point:     newPrimitive(s.pool, ShapeGridPoint, world, GridPointRadius, color),
			HitVolume: newPrimitive(s.pool, ShapeHitSphere, world, GridHitRadius, RGB{}),
		})
	}
}

// HideSubGrid releases the drill-down grid
func (s *Synchronizer) HideSubGrid() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseGridLocked()
}

func (s *Synchronizer) releaseGridLocked() {
	for _, g := range s.reg.gridPoints {
		g.release(s.pool)
	}
	s.reg.gridPoints = nil
	s.reg.drillNode = ""
}

// DrillNode returns the node whose sub-grid is shown, empty when none
func (s *Synchronizer) DrillNode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.drillNode
}

// SetHover applies or reverts hover styling on a pickable
// Reverting restores the exact base style so nothing leaks across frames
func (s *Synchronizer) SetHover(class Class, id string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch class {
	case ClassNode:
		n, ok := s.reg.nodes[id]
		if !ok {
			return
		}
		applyHover(n.Visual, on)
		n.Halo.Visible = on && s.reg.mainVisible
	case ClassGridPoint:
		if g := s.gridPointLocked(id); g != nil {
			applyHover(g.Point, on)
		}
	case ClassForm:
		if f, ok := s.reg.forms[id]; ok {
			applyHover(f.Body, on)
		}
	}
}

func applyHover(p *Primitive, on bool) {
	if on {
		p.Scale = HoverScale
		p.Opacity = HoverOpacity
		return
	}
	p.Scale = 1
	p.Opacity = BaseOpacity
}

func (s *Synchronizer) gridPointLocked(id string) *GridPointObject {
	for _, g := range s.reg.gridPoints {
		if GridPointID(g.Coord) == id {
			return g
		}
	}
	return nil
}

// MoveForm repositions a dropped form on behalf of the drag controller
// Identity and kind are untouched
func (s *Synchronizer) MoveForm(id string, pos vmath.Vec3F) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.reg.forms[id]
	if !ok {
		return false
	}
	f.Body.Position = pos
	return true
}

// FormPosition returns the current pose position of a form
func (s *Synchronizer) FormPosition(id string) (vmath.Vec3F, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.reg.forms[id]
	if !ok {
		return vmath.Vec3F{}, false
	}
	return f.Body.Position, true
}

// NodePosition returns the current position of a node
func (s *Synchronizer) NodePosition(id string) (vmath.Vec3F, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.reg.nodes[id]
	if !ok {
		return vmath.Vec3F{}, false
	}
	return n.Visual.Position, true
}

// Counts returns live object counts per class
func (s *Synchronizer) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]int{
		"node":      len(s.reg.nodes),
		"edge":      len(s.reg.edges),
		"form":      len(s.reg.forms),
		"particle":  len(s.reg.particles),
		"gridpoint": len(s.reg.gridPoints),
	}
}

package scene

import (
	"fmt"
	"log"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/lixenwraith/gridscope/vmath"
)

// Input is one reconciliation request
type Input struct {
	Nodes []NodeEntity
	Edges []EdgeEntity
	Forms []DroppedForm

	// Buffer is the live animation buffer; lattice nodes index into it
	Buffer []float64
	// Idle renders Buffer as decorative drift particles
	Idle bool
}

// SyncReport lists the operations one Sync applied
type SyncReport struct {
	Created []string
	Updated []string
	Removed []string

	EdgesRebuilt bool
	EdgesDrawn   int
	EdgesSkipped int

	FormsCreated []string
	FormsRemoved []string

	ParticlesCreated int
	ParticlesRemoved int
}

// Churn is the number of node objects created or destroyed
func (r SyncReport) Churn() int {
	return len(r.Created) + len(r.Removed)
}

// Synchronizer reconciles logical entity sets against the object registry
// Node objects present in consecutive inputs are updated in place, never rebuilt
type Synchronizer struct {
	mu     sync.RWMutex
	reg    *Registry
	pool   *Pool
	rng    *vmath.FastRand
	closed bool
}

// NewSynchronizer creates an empty registry backed by pool
func NewSynchronizer(pool *Pool, seed uint64) *Synchronizer {
	if pool == nil {
		pool = NewPool()
	}
	return &Synchronizer{
		reg:  newRegistry(),
		pool: pool,
		rng:  vmath.NewFastRand(seed),
	}
}

// Pool returns the resource pool
func (s *Synchronizer) Pool() *Pool { return s.pool }

// Sync applies in the minimal set of create/update/remove operations
func (s *Synchronizer) Sync(in Input) SyncReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rep SyncReport
	if s.closed {
		return rep
	}

	positions := s.syncNodes(in, &rep)
	s.syncEdges(in.Edges, positions, &rep)
	s.syncForms(in.Forms, &rep)
	s.syncParticles(in, &rep)
	return rep
}

// syncNodes diffs node ids and returns resolved positions of all rendered nodes
func (s *Synchronizer) syncNodes(in Input, rep *SyncReport) map[string]vmath.Vec3F {
	positions := make(map[string]vmath.Vec3F, len(in.Nodes))

	for _, n := range in.Nodes {
		pos, ok := resolvePosition(n, in.Buffer)
		if !ok {
			continue
		}
		if _, dup := positions[n.ID]; dup {
			continue
		}
		positions[n.ID] = pos

		if obj, exists := s.reg.nodes[n.ID]; exists {
			obj.moveTo(pos)
			obj.Visual.Color = n.Color
			obj.Kind = n.Kind
			rep.Updated = append(rep.Updated, n.ID)
			continue
		}

		s.reg.nodes[n.ID] = s.newNode(n, pos)
		rep.Created = append(rep.Created, n.ID)
	}

	for id, obj := range s.reg.nodes {
		if _, keep := positions[id]; keep {
			continue
		}
		obj.release(s.pool)
		delete(s.reg.nodes, id)
		rep.Removed = append(rep.Removed, id)
	}
	slices.Sort(rep.Removed)

	return positions
}

func (s *Synchronizer) newNode(n NodeEntity, pos vmath.Vec3F) *NodeObject {
	obj := &NodeObject{
		ID:        n.ID,
		Kind:      n.Kind,
		Visual:    newPrimitive(s.pool, ShapeSphere, pos, NodeRadius, n.Color),
		HitVolume: newPrimitive(s.pool, ShapeHitSphere, pos, HitRadius, RGB{}),
		Halo:      newPrimitive(s.pool, ShapeHalo, pos, HaloRadius, n.Color),
	}
	obj.Halo.Visible = false
	obj.Visual.Visible = s.reg.mainVisible
	return obj
}

// resolvePosition picks the buffer slot for lattice nodes and the entity position otherwise
func resolvePosition(n NodeEntity, buf []float64) (vmath.Vec3F, bool) {
	if n.Kind == KindLattice {
		if n.Index < 0 || (n.Index+1)*3 > len(buf) {
			return vmath.Vec3F{}, false
		}
		return vmath.V3FAt(buf, n.Index), true
	}
	if n.Position != nil {
		return *n.Position, true
	}
	return vmath.Vec3F{}, true
}

// syncEdges rebuilds every edge line when the edge set or any endpoint moved
// Edge counts stay small relative to nodes, so wholesale rebuild is accepted here
func (s *Synchronizer) syncEdges(edges []EdgeEntity, positions map[string]vmath.Vec3F, rep *SyncReport) {
	sig := edgeSignature(edges, positions)
	if sig == s.reg.edgeSig {
		rep.EdgesDrawn = len(s.reg.edges)
		return
	}

	for _, e := range s.reg.edges {
		e.Line.release(s.pool)
	}
	s.reg.edges = s.reg.edges[:0]
	s.reg.edgeSig = sig
	rep.EdgesRebuilt = true

	for _, e := range edges {
		from, okFrom := positions[e.SourceID]
		to, okTo := positions[e.TargetID]
		if !okFrom || !okTo {
			rep.EdgesSkipped++
			continue
		}
		line := newPrimitive(s.pool, ShapeLine, from, 0, RGB{R: 90, G: 110, B: 140})
		line.End = to
		line.Visible = s.reg.mainVisible
		s.reg.edges = append(s.reg.edges, &EdgeObject{
			ID:       e.ID,
			SourceID: e.SourceID,
			TargetID: e.TargetID,
			Line:     line,
		})
	}
	rep.EdgesDrawn = len(s.reg.edges)
}

func edgeSignature(edges []EdgeEntity, positions map[string]vmath.Vec3F) string {
	if len(edges) == 0 {
		return ""
	}
	var b strings.Builder
	for _, e := range edges {
		from, okFrom := positions[e.SourceID]
		to, okTo := positions[e.TargetID]
		fmt.Fprintf(&b, "%s|%s|%s|", e.ID, e.SourceID, e.TargetID)
		if okFrom && okTo {
			fmt.Fprintf(&b, "%.4f,%.4f,%.4f,%.4f,%.4f,%.4f;", from[0], from[1], from[2], to[0], to[1], to[2])
		} else {
			b.WriteString("x;")
		}
	}
	return b.String()
}

// syncForms diffs existence only; transforms of surviving forms are never touched
func (s *Synchronizer) syncForms(forms []DroppedForm, rep *SyncReport) {
	present := make(map[string]struct{}, len(forms))
	for _, f := range forms {
		present[f.ID] = struct{}{}
		if _, exists := s.reg.forms[f.ID]; exists {
			continue
		}
		s.reg.forms[f.ID] = s.newForm(f, s.freeFormSlot())
		s.reg.formOrder = append(s.reg.formOrder, f.ID)
		rep.FormsCreated = append(rep.FormsCreated, f.ID)
	}

	kept := s.reg.formOrder[:0]
	for _, id := range s.reg.formOrder {
		if _, ok := present[id]; ok {
			kept = append(kept, id)
			continue
		}
		s.reg.forms[id].Body.release(s.pool)
		delete(s.reg.forms, id)
		rep.FormsRemoved = append(rep.FormsRemoved, id)
	}
	s.reg.formOrder = kept
}

// freeFormSlot returns the lowest layout slot not held by a live form
func (s *Synchronizer) freeFormSlot() int {
	used := make(map[int]struct{}, len(s.reg.forms))
	for _, f := range s.reg.forms {
		used[f.Slot] = struct{}{}
	}
	slot := 0
	for {
		if _, taken := used[slot]; !taken {
			return slot
		}
		slot++
	}
}

func (s *Synchronizer) newForm(f DroppedForm, slot int) *FormObject {
	pos, rot := FormPose(slot, f.DropAt, s.rng)

	shape := ShapeRect
	switch f.Kind {
	case FormTriangle:
		shape = ShapeTriangle
	case FormBox:
		shape = ShapeBox
	case FormHeightmap:
		shape = ShapeHeightmap
	}

	body := newPrimitive(s.pool, shape, pos, FormHalfExtent, RGB{R: 200, G: 170, B: 90})
	body.Rotation = rot

	obj := &FormObject{ID: f.ID, Kind: f.Kind, Body: body, Slot: slot}
	if f.Heightmap != nil {
		hm := *f.Heightmap
		hm.Data = slices.Clone(f.Heightmap.Data)
		obj.Heightmap = &hm
	}
	return obj
}

// Form layout: columns of FormColumns, FormGap apart, with jitter
const (
	FormColumns = 4
	FormGap     = 4.0
	FormJitter  = 0.6
)

// FormPose assigns a loosely packed initial pose for a layout slot
// Position is offset from dropAt (or a default shelf) on a grid, plus jitter; rotation is random around Y
func FormPose(index int, dropAt *vmath.Vec3F, rng *vmath.FastRand) (vmath.Vec3F, vmath.Vec3F) {
	base := vmath.V3F(-FormGap*float64(FormColumns-1)/2, -12, 12)
	if dropAt != nil {
		base = *dropAt
	}
	col := index % FormColumns
	row := index / FormColumns
	pos := vmath.V3F(
		base[0]+float64(col)*FormGap+rng.Symmetric(FormJitter),
		base[1]+rng.Symmetric(FormJitter),
		base[2]+float64(row)*FormGap+rng.Symmetric(FormJitter),
	)
	rot := vmath.V3F(0, rng.Range(0, 2*math.Pi), 0)
	return pos, rot
}

// syncParticles keeps one decorative primitive per idle buffer slot
func (s *Synchronizer) syncParticles(in Input, rep *SyncReport) {
	want := 0
	if in.Idle {
		want = len(in.Buffer) / 3
	}

	for len(s.reg.particles) > want {
		last := len(s.reg.particles) - 1
		s.reg.particles[last].release(s.pool)
		s.reg.particles = s.reg.particles[:last]
		rep.ParticlesRemoved++
	}
	for len(s.reg.particles) < want {
		p := newPrimitive(s.pool, ShapeParticle, vmath.Vec3F{}, ParticleRadius, RGB{R: 70, G: 130, B: 200})
		s.reg.particles = append(s.reg.particles, p)
		rep.ParticlesCreated++
	}
	for i, p := range s.reg.particles {
		p.Position = vmath.V3FAt(in.Buffer, i)
	}
}

// Close releases every resource; safe to call repeatedly
func (s *Synchronizer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true

	for id, n := range s.reg.nodes {
		n.release(s.pool)
		delete(s.reg.nodes, id)
	}
	for _, e := range s.reg.edges {
		e.Line.release(s.pool)
	}
	s.reg.edges = nil
	for id, f := range s.reg.forms {
		f.Body.release(s.pool)
		delete(s.reg.forms, id)
	}
	s.reg.formOrder = nil
	for _, p := range s.reg.particles {
		p.release(s.pool)
	}
	s.reg.particles = nil
	for _, g := range s.reg.gridPoints {
		g.release(s.pool)
	}
	s.reg.gridPoints = nil

	if live := s.pool.Live(); live != 0 {
		log.Printf("scene: %d resources still live after close", live)
	}
}

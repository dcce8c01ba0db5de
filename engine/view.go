// Package engine runs one mounted view: component ownership, the frame pipeline and input
package engine

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/lixenwraith/gridscope/animation"
	"github.com/lixenwraith/gridscope/camera"
	"github.com/lixenwraith/gridscope/event"
	"github.com/lixenwraith/gridscope/forms"
	"github.com/lixenwraith/gridscope/interaction"
	"github.com/lixenwraith/gridscope/lattice"
	"github.com/lixenwraith/gridscope/metrics"
	"github.com/lixenwraith/gridscope/ncfg"
	"github.com/lixenwraith/gridscope/scene"
	"github.com/lixenwraith/gridscope/snapshot"
	"github.com/lixenwraith/gridscope/vmath"
)

var (
	ErrClosed        = errors.New("view closed")
	ErrDuplicateForm = errors.New("form already dropped")
)

// LatticeColor is the base color of generated lattice nodes
var LatticeColor = scene.RGB{R: 0x5f, G: 0xaf, B: 0xff}

// Environment is a selected structured configuration
type Environment struct {
	ID      string
	Lattice lattice.Config
}

// Options configures a new view; zero values select defaults
type Options struct {
	Seed      uint64
	Particles int
	Store     *ncfg.Store       // Shared store, a fresh one when nil
	Metrics   *metrics.Registry // Optional instrumentation
}

// View owns every component of one mounted visualization
// Frame and input processing are serialized by mu; the ncfg store and event router carry their own synchronization
type View struct {
	mu sync.Mutex

	store   *ncfg.Store
	anim    *animation.Engine
	scene   *scene.Synchronizer
	cam     *camera.Camera
	orbit   *camera.OrbitController
	drag    *forms.DragController
	machine *interaction.Machine
	router  *event.Router
	forms   *forms.Collection
	input   *InputQueue
	metrics *metrics.Registry

	env       *Environment
	snapNodes []scene.NodeEntity
	snapEdges []scene.EdgeEntity

	latticeNodes []scene.NodeEntity
	latticeGen   uint64

	pressed  bool
	orbiting bool
	lastX    float64
	lastY    float64

	frames    uint64
	sched     *Scheduler
	closeOnce sync.Once
	closed    bool
}

// NewView constructs an idle view with no surface attached
func NewView(opts Options) *View {
	if opts.Particles <= 0 {
		opts.Particles = animation.DefaultParticles
	}
	store := opts.Store
	if store == nil {
		store = ncfg.NewStore()
	}

	v := &View{
		store:   store,
		anim:    animation.NewEngine(opts.Seed, opts.Particles),
		scene:   scene.NewSynchronizer(scene.NewPool(), opts.Seed+1),
		cam:     camera.New(),
		router:  event.NewRouter(event.NewQueue()),
		forms:   forms.NewCollection(),
		input:   NewInputQueue(),
		metrics: opts.Metrics,
	}
	v.orbit = camera.NewOrbitController(v.cam)
	v.drag = forms.NewDragController(v.scene, v.cam, v.orbit)
	v.machine = interaction.NewMachine(v.scene, v.router, lattice.SubGrid())
	if v.metrics != nil {
		v.machine.SetObserver(v.metrics)
		v.router.Register(v.metrics)
	}
	return v
}

func (v *View) Store() *ncfg.Store                    { return v.store }
func (v *View) Router() *event.Router                 { return v.router }
func (v *View) Input() *InputQueue                    { return v.input }
func (v *View) Scene() *scene.Synchronizer            { return v.scene }
func (v *View) Orbit() *camera.OrbitController        { return v.orbit }
func (v *View) Register(h event.Handler)              { v.router.Register(h) }
func (v *View) Animation() *animation.Engine          { return v.anim }
func (v *View) Interaction() *interaction.Machine     { return v.machine }
func (v *View) DragController() *forms.DragController { return v.drag }

// Camera returns a copy of the current camera
func (v *View) Camera() camera.Camera {
	v.mu.Lock()
	defer v.mu.Unlock()
	return *v.cam
}

// SetSurface attaches or resizes the render surface; an empty rect detaches it
func (v *View) SetSurface(r camera.Rect) {
	v.mu.Lock()
	v.cam.SetSurface(r)
	v.mu.Unlock()
}

// State returns the interaction state
func (v *View) State() interaction.State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.machine.State()
}

// Environment returns the selected environment, nil in idle drift
func (v *View) Environment() *Environment {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.env == nil {
		return nil
	}
	env := *v.env
	return &env
}

// SetEnvironment selects a structured configuration, or idle drift when env is nil
func (v *View) SetEnvironment(env *Environment) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.machine.Reset()
	envID := ""
	if env == nil {
		v.env = nil
		v.anim.EnterIdle()
	} else {
		cp := *env
		v.env = &cp
		envID = cp.ID
		v.anim.EnterStructured(cp.Lattice)
	}
	v.machine.SetEnvironment(envID)
	v.mu.Unlock()

	v.router.Publish(event.EventEnvironmentChanged, &event.EnvironmentChangedPayload{EnvID: envID})
	log.Printf("view: environment %q", envID)
}

// ApplySnapshot replaces the external node and edge sets wholesale
func (v *View) ApplySnapshot(s snapshot.Snapshot) {
	nodes, edges := s.Entities()
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.snapNodes = nodes
	v.snapEdges = edges
}

// DropForm ingests a payload and adds the form; returns the assigned id
func (v *View) DropForm(p forms.Payload) (string, error) {
	f, err := forms.Ingest(p)
	if err != nil {
		return "", err
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return "", ErrClosed
	}
	added := v.forms.Add(f)
	v.mu.Unlock()
	if !added {
		return "", fmt.Errorf("%w: %s", ErrDuplicateForm, f.ID)
	}

	v.router.Publish(event.EventFormDropped, &event.FormDroppedPayload{ID: f.ID, Kind: string(f.Kind)})
	return f.ID, nil
}

// RemoveForm removes a dropped form; absence is not an error
func (v *View) RemoveForm(id string) bool {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return false
	}
	v.drag.Forget(id)
	removed := v.forms.Remove(id)
	v.mu.Unlock()

	if removed {
		v.router.Publish(event.EventFormRemoved, &event.FormRemovedPayload{ID: id})
	}
	return removed
}

// Forms lists dropped forms in drop order
func (v *View) Forms() []scene.DroppedForm {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.forms.List()
}

// Configure writes an NCFG entry for a node position and announces it
func (v *View) Configure(nodeID string, pos vmath.Vec3F, timeSteps, strengths []float64) (string, error) {
	key, err := v.store.Set(nodeID, pos, timeSteps, strengths)
	if err != nil {
		return "", err
	}
	v.router.Publish(event.EventNCFGWritten, &event.NCFGWrittenPayload{NodeID: nodeID, Key: key})
	if v.metrics != nil {
		v.metrics.SetNCFGEntries(v.store.Len())
	}
	return key, nil
}

// Unconfigure clears one NCFG entry
func (v *View) Unconfigure(nodeID string, pos vmath.Vec3F) {
	v.store.Clear(nodeID, pos)
	if v.metrics != nil {
		v.metrics.SetNCFGEntries(v.store.Len())
	}
}

// HandleInput applies one input event; events without an attached surface are ignored
func (v *View) HandleInput(ev InputEvent) {
	switch ev.Kind {
	case InputMove:
		v.PointerMove(ev.X, ev.Y)
	case InputDown:
		v.PointerDown(ev.X, ev.Y)
	case InputUp:
		v.PointerUp(ev.X, ev.Y)
	case InputWheel:
		v.Wheel(ev.Delta)
	case InputCancel:
		v.Cancel()
	}
}

// PointerMove drives the active drag, an orbit drag, or hover, in that order
func (v *View) PointerMove(px, py float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	dx, dy := px-v.lastX, py-v.lastY
	v.lastX, v.lastY = px, py

	if v.orbiting && v.pressed {
		v.orbit.Drag(dx, dy)
		return
	}
	r, ok := v.cam.RayAt(px, py)
	if !ok {
		return
	}
	if v.drag.Active() != "" {
		v.drag.Move(r)
		return
	}
	v.machine.Move(r)
}

// PointerDown starts a form drag when a form is hit, otherwise clicks through the interaction machine
// A press that ends idle arms orbiting until release
func (v *View) PointerDown(px, py float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.lastX, v.lastY = px, py
	r, ok := v.cam.RayAt(px, py)
	if !ok {
		return
	}
	v.pressed = true

	if !v.machine.State().Kind.DrillDown() && v.drag.Begin(r) {
		return
	}
	v.machine.Click(r)
	v.orbiting = v.machine.State().Kind == interaction.StateIdle
}

func (v *View) PointerUp(px, py float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pressed = false
	v.orbiting = false
	if v.drag.Active() != "" {
		v.drag.End()
	}
}

// Wheel zooms the orbit camera
func (v *View) Wheel(delta float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || v.cam.Surface().Empty() {
		return
	}
	v.orbit.Zoom(delta)
}

// Cancel returns the interaction machine to idle
func (v *View) Cancel() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.machine.Reset()
}

// Frame advances animation then reconciles the scene; returns the sync report
func (v *View) Frame() scene.SyncReport {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return scene.SyncReport{}
	}
	start := time.Now()

	v.anim.Step()
	rep := v.scene.Sync(scene.Input{
		Nodes:  v.nodesLocked(),
		Edges:  v.snapEdges,
		Forms:  v.forms.List(),
		Buffer: v.anim.Current(),
		Idle:   v.anim.Mode() == animation.ModeIdle,
	})
	for _, id := range rep.Removed {
		v.machine.Forget(id)
	}
	for _, id := range rep.FormsRemoved {
		v.drag.Forget(id)
	}
	v.frames++

	if v.metrics != nil {
		v.metrics.RecordSync(len(rep.Created), len(rep.Updated), len(rep.Removed))
		v.metrics.SetSceneObjects(v.scene.Counts())
		v.metrics.SetNCFGEntries(v.store.Len())
		v.metrics.RecordFrame(time.Since(start))
	}
	return rep
}

// nodesLocked merges generated lattice nodes with snapshot nodes; lattice ids win on collision
func (v *View) nodesLocked() []scene.NodeEntity {
	if v.anim.Mode() != animation.ModeStructured {
		v.latticeNodes = v.latticeNodes[:0]
		return v.snapNodes
	}

	if gen := v.anim.Generation(); gen != v.latticeGen || len(v.latticeNodes) != v.anim.Count() {
		n := v.anim.Count()
		v.latticeNodes = make([]scene.NodeEntity, n)
		for i := range n {
			v.latticeNodes[i] = scene.NodeEntity{
				ID:    LatticeNodeID(i),
				Kind:  scene.KindLattice,
				Color: LatticeColor,
				Index: i,
			}
		}
		v.latticeGen = gen
	}
	if len(v.snapNodes) == 0 {
		return v.latticeNodes
	}

	out := make([]scene.NodeEntity, 0, len(v.latticeNodes)+len(v.snapNodes))
	out = append(out, v.latticeNodes...)
	for _, n := range v.snapNodes {
		if n.Kind == scene.KindLattice {
			continue
		}
		if _, ok := latticeIndex(n.ID, len(v.latticeNodes)); ok {
			continue
		}
		out = append(out, n)
	}
	return out
}

// LatticeNodeID names generated node i
func LatticeNodeID(i int) string {
	return "lattice-" + strconv.Itoa(i)
}

func latticeIndex(id string, count int) (int, bool) {
	const prefix = "lattice-"
	if len(id) <= len(prefix) || id[:len(prefix)] != prefix {
		return 0, false
	}
	i, err := strconv.Atoi(id[len(prefix):])
	if err != nil || i < 0 || i >= count {
		return 0, false
	}
	return i, true
}

// Snapshot captures everything a renderer needs for one frame
func (v *View) Snapshot() Frame {
	v.mu.Lock()
	defer v.mu.Unlock()
	f := Frame{
		Number:    v.frames,
		Camera:    *v.cam,
		State:     v.machine.State(),
		Mode:      v.anim.Mode(),
		Drawables: v.scene.Drawables(),
		DrillNode: v.scene.DrillNode(),
		Store:     v.store,
	}
	if v.env != nil {
		f.EnvID = v.env.ID
	}
	return f
}

// Dispatch delivers queued events to handlers
func (v *View) Dispatch() int {
	return v.router.DispatchAll()
}

// Frames counts completed frames
func (v *View) Frames() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.frames
}

func (v *View) attach(s *Scheduler) {
	v.mu.Lock()
	v.sched = s
	v.mu.Unlock()
}

// Closed reports whether Close ran
func (v *View) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

// Close stops the scheduler, detaches input, releases all scene resources and closes the bus
// Safe to call more than once
func (v *View) Close() {
	v.closeOnce.Do(func() {
		v.mu.Lock()
		sched := v.sched
		v.mu.Unlock()
		// Scheduler frames take mu; stop it first
		if sched != nil {
			sched.Stop()
		}

		v.input.Close()

		v.mu.Lock()
		v.closed = true
		v.drag.End()
		v.scene.Close()
		v.mu.Unlock()

		v.router.Close()
		log.Printf("view: closed after %d frames, %d live resources", v.frames, v.scene.Pool().Live())
	})
}

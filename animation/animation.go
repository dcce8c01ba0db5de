// Package animation advances live position buffers once per frame
//
// Two exclusive modes:
//   - Idle: a fixed particle pool drifts with constant velocity, reflecting off a symmetric bound
//   - Structured: positions scattered in a box converge exponentially on a lattice target
//
// Switching modes or lattice configuration discards both buffers and reallocates
package animation

import (
	"log"

	"github.com/lixenwraith/gridscope/lattice"
	"github.com/lixenwraith/gridscope/vmath"
)

const (
	// LerpRate is the per-frame fraction of remaining distance covered in structured mode
	LerpRate = 0.028
	// ScatterRange bounds idle drift and the structured scatter box on every axis
	ScatterRange = 40.0
	// IdleMaxSpeed caps each idle velocity component, world units per frame
	IdleMaxSpeed = 0.12
	// ConvergedEpsilon is the residual below which formation is considered settled
	ConvergedEpsilon = 1e-3
	// DefaultParticles is the idle pool size
	DefaultParticles = 400
)

// Mode selects the update rule
type Mode uint8

const (
	ModeIdle Mode = iota
	ModeStructured
)

func (m Mode) String() string {
	if m == ModeStructured {
		return "structured"
	}
	return "idle"
}

// Engine owns the current/target/velocity buffers
// Not safe for concurrent use, driven by the frame loop
type Engine struct {
	mode      Mode
	particles int
	cfg       lattice.Config
	layout    lattice.Result

	current  []float64
	target   []float64
	velocity []float64

	rng        *vmath.FastRand
	generation uint64
}

// NewEngine creates an engine in idle mode
func NewEngine(seed uint64, particles int) *Engine {
	e := &Engine{
		particles: vmath.ClampI(particles, 1, lattice.MaxCount),
		rng:       vmath.NewFastRand(seed),
	}
	e.EnterIdle()
	return e
}

// EnterIdle discards buffers and seeds the drifting particle pool
func (e *Engine) EnterIdle() {
	n := e.particles
	e.mode = ModeIdle
	e.cfg = lattice.Config{}
	e.layout = lattice.Result{}
	e.target = nil
	e.current = make([]float64, n*3)
	e.velocity = make([]float64, n*3)
	for i := range e.current {
		e.current[i] = e.rng.Symmetric(ScatterRange)
		e.velocity[i] = e.rng.Symmetric(IdleMaxSpeed)
	}
	e.generation++
}

// EnterStructured discards buffers, scatters current positions and computes the lattice target
func (e *Engine) EnterStructured(cfg lattice.Config) {
	e.mode = ModeStructured
	e.cfg = cfg
	e.layout = lattice.Compute(cfg)
	e.target = e.layout.Positions
	e.velocity = nil
	e.current = make([]float64, len(e.target))
	for i := range e.current {
		e.current[i] = e.rng.Symmetric(ScatterRange)
	}
	e.generation++
	log.Printf("animation: structured mode, %d nodes, sizes %v, spacing %.2f", e.layout.Count, e.layout.Sizes, e.layout.Spacing)
}

// Step advances one frame
func (e *Engine) Step() {
	switch e.mode {
	case ModeStructured:
		if !Interpolate(e.current, e.target, LerpRate) {
			// Buffers out of step: treat as configuration change
			log.Printf("animation: buffer length mismatch (%d/%d), reallocating", len(e.current), len(e.target))
			e.EnterStructured(e.cfg)
		}
	default:
		Drift(e.current, e.velocity, ScatterRange)
	}
}

// Mode returns the active mode
func (e *Engine) Mode() Mode { return e.mode }

// Count returns the number of live triples
func (e *Engine) Count() int { return len(e.current) / 3 }

// Current returns the live position buffer, callers must not retain it across mode switches
func (e *Engine) Current() []float64 { return e.current }

// Target returns the lattice buffer, nil in idle mode
func (e *Engine) Target() []float64 { return e.target }

// Layout returns the resolved lattice of the structured mode
func (e *Engine) Layout() lattice.Result { return e.layout }

// Generation increments on every buffer reallocation
func (e *Engine) Generation() uint64 { return e.generation }

// Position returns triple i of the current buffer
func (e *Engine) Position(i int) (vmath.Vec3F, bool) {
	if i < 0 || i >= e.Count() {
		return vmath.Vec3F{}, false
	}
	return vmath.V3FAt(e.current, i), true
}

// Residual returns the summed squared distance to target, 0 in idle mode
func (e *Engine) Residual() float64 {
	if e.mode != ModeStructured {
		return 0
	}
	return Residual(e.current, e.target)
}

// Converged reports whether structured formation settled below ConvergedEpsilon
func (e *Engine) Converged() bool {
	return e.mode == ModeStructured && e.Residual() < ConvergedEpsilon
}

// Package lattice maps an n-dimensional grid configuration to 3D world positions
package lattice

import (
	"math"

	"github.com/lixenwraith/gridscope/vmath"
)

const (
	MinCount    = 1
	MaxCount    = 5000
	MinAxisSize = 1
	MaxAxisSize = 128
	MinDims     = 1
	MaxDims     = 6

	// BaseSpacing is world distance between neighbours at distance 0
	BaseSpacing = 2.0
	// DistanceScale controls how fast spacing grows with distance
	DistanceScale = 10.0

	// SubGridSize is per-axis point count of the drill-down grid
	SubGridSize = 5
)

// Config describes a lattice either by explicit per-axis sizes or by scalar dimensionality plus count
// Sizes takes precedence when non-empty
type Config struct {
	Sizes    []int
	Dims     int
	Count    int
	Distance float64
}

// Result is a flat xyz buffer with Count triples
type Result struct {
	Positions []float64
	Count     int
	Sizes     []int
	Spacing   float64
}

// Spacing returns the effective inter-node spacing for a distance parameter
func Spacing(distance float64) float64 {
	if distance > 0 {
		return BaseSpacing * (1 + distance/DistanceScale)
	}
	return BaseSpacing
}

// AxisSizes resolves the clamped per-axis sizes for cfg
// Explicit sizes clamp to [MinAxisSize, MaxAxisSize]
// Scalar form uses round(N^(1/D)) uniformly, product may differ from Count
func AxisSizes(cfg Config) []int {
	if len(cfg.Sizes) > 0 {
		sizes := make([]int, len(cfg.Sizes))
		for i, s := range cfg.Sizes {
			sizes[i] = vmath.ClampI(s, MinAxisSize, MaxAxisSize)
		}
		return sizes
	}

	dims := vmath.ClampI(cfg.Dims, MinDims, MaxDims)
	count := vmath.ClampI(cfg.Count, MinCount, MaxCount)
	side := int(math.Round(math.Pow(float64(count), 1.0/float64(dims))))
	// Derived sides are bounded by the count clamp, not by MaxAxisSize
	side = vmath.ClampI(side, MinAxisSize, MaxCount)

	sizes := make([]int, dims)
	for i := range sizes {
		sizes[i] = side
	}
	return sizes
}

// Product multiplies sizes, saturating just above MaxCount
func Product(sizes []int) int {
	p := 1
	for _, s := range sizes {
		p *= s
		if p > MaxCount {
			return MaxCount + 1
		}
	}
	return p
}

// Compute returns lattice positions for cfg, clamping every input into range
func Compute(cfg Config) Result {
	sizes := AxisSizes(cfg)
	count := vmath.ClampI(Product(sizes), MinCount, MaxCount)
	spacing := Spacing(cfg.Distance)

	return Result{
		Positions: Positions(sizes, count, spacing),
		Count:     count,
		Sizes:     sizes,
		Spacing:   spacing,
	}
}

// Positions unravels indices [0, count) as mixed-radix numbers over sizes
// Last axis varies fastest. Axes beyond the third have no spatial encoding
func Positions(sizes []int, count int, spacing float64) []float64 {
	out := make([]float64, count*3)
	coords := make([]int, len(sizes))

	for i := 0; i < count; i++ {
		Unravel(i, sizes, coords)
		for axis := 0; axis < 3 && axis < len(sizes); axis++ {
			center := float64(sizes[axis]-1) / 2
			out[i*3+axis] = (float64(coords[axis]) - center) * spacing
		}
	}
	return out
}

// Unravel writes the row-major coordinates of index into coords
func Unravel(index int, sizes []int, coords []int) {
	for d := len(sizes) - 1; d >= 0; d-- {
		coords[d] = index % sizes[d]
		index /= sizes[d]
	}
}

// SubGrid returns the discretized integer points of the drill-down grid, centered on zero
func SubGrid() []vmath.Vec3F {
	sizes := []int{SubGridSize, SubGridSize, SubGridSize}
	count := Product(sizes)
	flat := Positions(sizes, count, 1)

	points := make([]vmath.Vec3F, count)
	for i := range points {
		points[i] = vmath.V3FAt(flat, i)
	}
	return points
}

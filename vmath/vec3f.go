package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3F is the world-space vector type used across the scene
type Vec3F = mgl64.Vec3

// V3F builds a Vec3F from components
func V3F(x, y, z float64) Vec3F {
	return Vec3F{x, y, z}
}

// V3FDistSq returns squared distance between two points
func V3FDistSq(a, b Vec3F) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}

// V3FLerp moves a toward b by fraction t, unclamped
func V3FLerp(a, b Vec3F, t float64) Vec3F {
	return Vec3F{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}

// V3FNormalize returns the unit vector, zero vector stays zero
func V3FNormalize(v Vec3F) Vec3F {
	l := v.Len()
	if l == 0 {
		return Vec3F{}
	}
	inv := 1.0 / l
	return Vec3F{v[0] * inv, v[1] * inv, v[2] * inv}
}

// V3FAt reads triple i from a flat xyz buffer
func V3FAt(buf []float64, i int) Vec3F {
	j := i * 3
	return Vec3F{buf[j], buf[j+1], buf[j+2]}
}

// V3FPut writes triple i into a flat xyz buffer
func V3FPut(buf []float64, i int, v Vec3F) {
	j := i * 3
	buf[j], buf[j+1], buf[j+2] = v[0], v[1], v[2]
}

// ClampF clamps v to [lo, hi]
func ClampF(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ClampI clamps v to [lo, hi]
func ClampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package vmath

import "math"

// Ray is a half-line with normalized direction
type Ray struct {
	Origin Vec3F
	Dir    Vec3F
}

// NewRay normalizes dir
func NewRay(origin, dir Vec3F) Ray {
	return Ray{Origin: origin, Dir: V3FNormalize(dir)}
}

// At returns the point at distance t along the ray
func (r Ray) At(t float64) Vec3F {
	return r.Origin.Add(r.Dir.Mul(t))
}

// IntersectSphere returns nearest non-negative hit distance
// Origin inside the sphere reports the exit distance
func (r Ray) IntersectSphere(center Vec3F, radius float64) (float64, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectBox tests against an axis-aligned box centered at center with half extents
// Slab method; zero direction components are handled by infinities
func (r Ray) IntersectBox(center, half Vec3F) (float64, bool) {
	tMin, tMax := math.Inf(-1), math.Inf(1)
	for i := 0; i < 3; i++ {
		lo := center[i] - half[i]
		hi := center[i] + half[i]
		if r.Dir[i] == 0 {
			if r.Origin[i] < lo || r.Origin[i] > hi {
				return 0, false
			}
			continue
		}
		inv := 1.0 / r.Dir[i]
		t1 := (lo - r.Origin[i]) * inv
		t2 := (hi - r.Origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	if tMax < 0 {
		return 0, false
	}
	if tMin < 0 {
		return tMax, true
	}
	return tMin, true
}

// IntersectPlane returns the hit distance against the plane through point with normal n
func (r Ray) IntersectPlane(point, n Vec3F) (float64, bool) {
	denom := n.Dot(r.Dir)
	if math.Abs(denom) < 1e-9 {
		return 0, false
	}
	t := point.Sub(r.Origin).Dot(n) / denom
	if t < 0 {
		return 0, false
	}
	return t, true
}

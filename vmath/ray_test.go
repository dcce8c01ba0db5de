package vmath

import (
	"math"
	"testing"
)

func TestRayIntersectSphere(t *testing.T) {
	tests := []struct {
		name   string
		ray    Ray
		center Vec3F
		radius float64
		hit    bool
		dist   float64
	}{
		{"Straight hit", NewRay(V3F(0, 0, 10), V3F(0, 0, -1)), V3F(0, 0, 0), 1, true, 9},
		{"Miss", NewRay(V3F(5, 0, 10), V3F(0, 0, -1)), V3F(0, 0, 0), 1, false, 0},
		{"Behind origin", NewRay(V3F(0, 0, 10), V3F(0, 0, 1)), V3F(0, 0, 0), 1, false, 0},
		{"Inside", NewRay(V3F(0, 0, 0), V3F(1, 0, 0)), V3F(0, 0, 0), 2, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := tt.ray.IntersectSphere(tt.center, tt.radius)
			if ok != tt.hit {
				t.Fatalf("Expected hit=%v, got %v", tt.hit, ok)
			}
			if ok && math.Abs(d-tt.dist) > 1e-9 {
				t.Errorf("Expected distance %f, got %f", tt.dist, d)
			}
		})
	}
}

func TestRayIntersectBox(t *testing.T) {
	r := NewRay(V3F(0, 0, 10), V3F(0, 0, -1))
	d, ok := r.IntersectBox(V3F(0, 0, 0), V3F(1, 1, 1))
	if !ok {
		t.Fatal("Expected box hit")
	}
	if math.Abs(d-9) > 1e-9 {
		t.Errorf("Expected distance 9, got %f", d)
	}

	if _, ok := r.IntersectBox(V3F(3, 0, 0), V3F(1, 1, 1)); ok {
		t.Error("Expected miss for offset box")
	}
}

func TestRayIntersectPlane(t *testing.T) {
	r := NewRay(V3F(0, 5, 0), V3F(0, -1, 0))
	d, ok := r.IntersectPlane(V3F(0, 0, 0), V3F(0, 1, 0))
	if !ok || math.Abs(d-5) > 1e-9 {
		t.Errorf("Expected plane hit at 5, got %f (ok=%v)", d, ok)
	}
	if _, ok := r.IntersectPlane(V3F(0, 0, 0), V3F(1, 0, 0)); ok {
		t.Error("Expected parallel ray to miss")
	}
}

func TestFastRandDeterministic(t *testing.T) {
	a := NewFastRand(42)
	b := NewFastRand(42)
	for i := 0; i < 100; i++ {
		va, vb := a.Float64(), b.Float64()
		if va != vb {
			t.Fatalf("Expected identical sequences, diverged at %d", i)
		}
		if va < 0 || va >= 1 {
			t.Fatalf("Float64 out of range: %f", va)
		}
	}
}

func TestFastRandSymmetric(t *testing.T) {
	r := NewFastRand(7)
	for i := 0; i < 1000; i++ {
		v := r.Symmetric(3)
		if v < -3 || v >= 3 {
			t.Fatalf("Symmetric out of range: %f", v)
		}
	}
}

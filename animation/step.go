package animation

// Interpolate moves every element of current toward target by rate
// Returns false without touching current when the lengths differ
func Interpolate(current, target []float64, rate float64) bool {
	if len(current) != len(target) {
		return false
	}
	for i := range current {
		current[i] += (target[i] - current[i]) * rate
	}
	return true
}

// Drift integrates constant velocities and mirrors any component that crosses ±bound
// Position and velocity buffers must share length
func Drift(pos, vel []float64, bound float64) {
	n := min(len(pos), len(vel))
	for i := 0; i < n; i++ {
		p := pos[i] + vel[i]
		if p > bound {
			p = 2*bound - p
			vel[i] = -vel[i]
		} else if p < -bound {
			p = -2*bound - p
			vel[i] = -vel[i]
		}
		// Mirroring can overshoot only when |vel| > 2*bound
		if p > bound {
			p = bound
		} else if p < -bound {
			p = -bound
		}
		pos[i] = p
	}
}

// Residual sums squared element differences
func Residual(current, target []float64) float64 {
	var sum float64
	n := min(len(current), len(target))
	for i := 0; i < n; i++ {
		d := target[i] - current[i]
		sum += d * d
	}
	return sum
}

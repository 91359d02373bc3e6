package coulomb

import "math"

// Distance returns the softened Euclidean length of the displacement
// (dx, dy, dz):
//
//	sqrt(dx² + dy² + dz² + delta)
//
// delta must be non-negative for the result to be a real number; a negative
// delta combined with a near-zero displacement makes the radicand negative
// and the result NaN. This is a documented precondition, not a checked one.
func Distance(dx, dy, dz, delta float64) float64 {
	return math.Sqrt(dx*dx + dy*dy + dz*dz + delta)
}

// invCube returns 1/d³ for a softened distance d, or 0 when d is exactly
// zero. The zero case only arises for a coincident pair with zero softening
// (every self-pair at delta == 0 included); treating it as a zero
// contribution keeps the self-interaction force at exactly zero without
// comparing particle indices.
func invCube(d float64) float64 {
	if d == 0 {
		return 0
	}
	return 1.0 / (d * d * d)
}

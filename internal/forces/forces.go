// Package forces defines the force contributions that act on an ensemble
// during one time step.
//
// A Force adds dt-integrated impulses into a shared accumulator; the push
// package divides the accumulated impulse by the particle mass when kicking
// velocities. Buffers are caller-owned and never retained.
package forces

import "github.com/gitrymt/cold-atoms/internal/ensemble"

// CoulombConstant is 1/(4πε₀) in SI units, N·m²/C².
const CoulombConstant = 8.9875517873681764e9

// Force is one physical interaction acting on an ensemble.
type Force interface {
	// Force adds the impulse (force integrated over dt) for every
	// particle into f, which has the same particle-major layout as the
	// ensemble positions. Implementations must add, never overwrite.
	Force(dt float64, ens *ensemble.Ensemble, f []float64) error
}

// Package coulomb computes the pairwise electrostatic force on every
// particle of a charged ensemble by direct O(N²) summation.
//
// Positions and forces are flat []float64 slices in particle-major order
// (x, y, z of particle 0, then particle 1, ...). Forces buffers are
// accumulators: every entry point adds its contribution to the existing
// contents, so a caller wanting the force from scratch must zero the buffer
// first (or use the Compute variants, which do). The dt factor is baked
// into every contribution, so what accumulates is the impulse for one time
// step, matching the force convention of the push package.
//
// The kernel holds no state between calls beyond reusable scratch buffers
// and performs no validation of slice lengths; len(positions) and
// len(forces) must both equal 3·N.
package coulomb

// DefaultTileWidth is the number of particles processed per tile by the
// tiled engine. It is a performance knob tuned for cache and vector width,
// never a correctness parameter: any positive width produces the same
// result up to floating-point reordering.
const DefaultTileWidth = 32

const components = 3

// Kernel evaluates the shared-charge Coulomb force using the tiled engine
// for the largest prefix of particles that is a multiple of TileWidth and a
// direct remainder pass for the rest.
//
// A Kernel reuses its scratch buffers across calls and is therefore not
// safe for concurrent use; concurrent callers need one Kernel each and
// disjoint forces buffers.
type Kernel struct {
	// TileWidth is the tile size of the chunked pass. Zero or negative
	// means DefaultTileWidth.
	TileWidth int
	// Workers distributes output tiles across that many goroutines when
	// greater than one. Each worker owns a disjoint range of output
	// tiles, so no synchronization on the forces buffer is needed.
	Workers int

	s scratch
}

// New returns a Kernel with the default tile width and serial execution.
func New() *Kernel {
	return &Kernel{TileWidth: DefaultTileWidth}
}

func (k *Kernel) tileWidth() int {
	if k.TileWidth > 0 {
		return k.TileWidth
	}
	return DefaultTileWidth
}

// Accumulate adds the Coulomb impulse k·q²·dt·r̂/d² for all particle pairs
// into forces. charge is shared by all particles, delta is the softening
// added to the squared distance, kc the Coulomb constant.
func (k *Kernel) Accumulate(positions []float64, charge, dt, delta, kc float64, forces []float64) {
	kc *= dt * charge * charge
	k.tiled(positions, delta, kc, forces)
	k.remainder(positions, delta, kc, forces)
}

// Compute zeroes forces and then accumulates, yielding the force from
// scratch. It exists to keep "fresh value" call sites from silently
// double-accumulating.
func (k *Kernel) Compute(positions []float64, charge, dt, delta, kc float64, forces []float64) {
	for i := range forces {
		forces[i] = 0
	}
	k.Accumulate(positions, charge, dt, delta, kc, forces)
}

// Accumulate is the package-level convenience form of Kernel.Accumulate.
func Accumulate(positions []float64, charge, dt, delta, kc float64, forces []float64) {
	New().Accumulate(positions, charge, dt, delta, kc, forces)
}

// AccumulatePerParticle adds the Coulomb impulse with an individual charge
// per particle, charges[i] aligned with particle i. It is a plain double
// loop with no tiling and doubles as the differential-testing oracle for
// the tiled engine: with all charges equal it computes the same sum as
// Accumulate.
func AccumulatePerParticle(positions, charges []float64, dt, delta, kc float64, forces []float64) {
	n := len(positions) / components
	for i := 0; i < n; i++ {
		xi := positions[components*i]
		yi := positions[components*i+1]
		zi := positions[components*i+2]
		ki := dt * kc * charges[i]
		var fx, fy, fz float64
		for j := 0; j < n; j++ {
			dx := xi - positions[components*j]
			dy := yi - positions[components*j+1]
			dz := zi - positions[components*j+2]
			dist := Distance(dx, dy, dz, delta)
			w := ki * charges[j] * invCube(dist)
			fx += w * dx
			fy += w * dy
			fz += w * dz
		}
		forces[components*i] += fx
		forces[components*i+1] += fy
		forces[components*i+2] += fz
	}
}

// ComputePerParticle zeroes forces before accumulating.
func ComputePerParticle(positions, charges []float64, dt, delta, kc float64, forces []float64) {
	for i := range forces {
		forces[i] = 0
	}
	AccumulatePerParticle(positions, charges, dt, delta, kc, forces)
}

// scratch holds the tile-sized working buffers of the chunked pass, sized
// 3·w except inv which is w wide. They are allocated once per width, in
// the spirit of the integrator scratch-reuse pattern.
type scratch struct {
	x0  []float64 // tile i positions, component-major
	x1  []float64 // tile j positions, component-major
	f   []float64 // tile i force accumulator, component-major
	ft  []float64 // f transposed back to particle-major
	r   []float64 // displacement lanes, component-major
	inv []float64 // squared distances, then inverse cubed distances
}

func (s *scratch) ensure(w int) {
	if len(s.inv) == w {
		return
	}
	s.x0 = make([]float64, components*w)
	s.x1 = make([]float64, components*w)
	s.f = make([]float64, components*w)
	s.ft = make([]float64, components*w)
	s.r = make([]float64, components*w)
	s.inv = make([]float64, w)
}

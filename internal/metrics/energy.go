// Package metrics provides run observables in the sim.Metric shape.
package metrics

import (
	"math"

	"github.com/gitrymt/cold-atoms/internal/coulomb"
	"github.com/gitrymt/cold-atoms/internal/ensemble"
)

// KineticEnergy averages the total kinetic energy over all observations.
// Ensembles without a mass are skipped.
type KineticEnergy struct {
	samples int
	total   float64
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (k *KineticEnergy) Name() string { return "kinetic_energy" }

func (k *KineticEnergy) Observe(ens *ensemble.Ensemble, t float64) {
	shared, per, ok := ens.Mass()
	if !ok {
		return
	}
	ke := 0.0
	for i := 0; i < ens.NumPtcls(); i++ {
		m := shared
		if per != nil {
			m = per[i]
		}
		vx := ens.V[3*i]
		vy := ens.V[3*i+1]
		vz := ens.V[3*i+2]
		ke += 0.5 * m * (vx*vx + vy*vy + vz*vz)
	}
	k.total += ke
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.samples = 0
}

// CoulombEnergy averages the electrostatic potential energy
// Σ_{i<j} k·qᵢ·qⱼ/dᵢⱼ with the same softened distance the force kernel
// uses. Ensembles without a charge are skipped.
type CoulombEnergy struct {
	Delta float64
	K     float64

	samples int
	total   float64
}

func NewCoulombEnergy(delta, k float64) *CoulombEnergy {
	return &CoulombEnergy{Delta: delta, K: k}
}

func (c *CoulombEnergy) Name() string { return "coulomb_energy" }

func (c *CoulombEnergy) Observe(ens *ensemble.Ensemble, t float64) {
	shared, per, ok := ens.Charge()
	if !ok {
		return
	}
	n := ens.NumPtcls()
	pe := 0.0
	for i := 0; i < n; i++ {
		qi := shared
		if per != nil {
			qi = per[i]
		}
		for j := i + 1; j < n; j++ {
			qj := shared
			if per != nil {
				qj = per[j]
			}
			dx := ens.X[3*i] - ens.X[3*j]
			dy := ens.X[3*i+1] - ens.X[3*j+1]
			dz := ens.X[3*i+2] - ens.X[3*j+2]
			pe += c.K * qi * qj / coulomb.Distance(dx, dy, dz, c.Delta)
		}
	}
	c.total += pe
	c.samples++
}

func (c *CoulombEnergy) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.total / float64(c.samples)
}

func (c *CoulombEnergy) Reset() {
	c.total = 0
	c.samples = 0
}

// EnergyDrift tracks the largest relative deviation of the total energy
// (kinetic plus Coulomb potential) from its first observation. A symplectic
// pusher with a sane time step keeps it small.
type EnergyDrift struct {
	kinetic   KineticEnergy
	potential CoulombEnergy

	samples  int
	initial  float64
	maxDrift float64
}

func NewEnergyDrift(delta, k float64) *EnergyDrift {
	return &EnergyDrift{potential: CoulombEnergy{Delta: delta, K: k}}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(ens *ensemble.Ensemble, t float64) {
	e.kinetic.Reset()
	e.kinetic.Observe(ens, t)
	e.potential.Reset()
	e.potential.Observe(ens, t)
	energy := e.kinetic.Value() + e.potential.Value()

	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.samples = 0
	e.initial = 0
	e.maxDrift = 0
}

package metrics

import "github.com/gitrymt/cold-atoms/internal/ensemble"

// Boltzmann is the Boltzmann constant in J/K.
const Boltzmann = 1.380649e-23

// Temperature averages the kinetic temperature T = 2⟨KE⟩/(3·N·kB) over all
// observations, the quantity laser-cooling runs try to drive down.
type Temperature struct {
	samples int
	total   float64
}

func NewTemperature() *Temperature { return &Temperature{} }

func (m *Temperature) Name() string { return "temperature" }

func (m *Temperature) Observe(ens *ensemble.Ensemble, t float64) {
	n := ens.NumPtcls()
	if n == 0 {
		return
	}
	shared, per, ok := ens.Mass()
	if !ok {
		return
	}
	ke := 0.0
	for i := 0; i < n; i++ {
		mass := shared
		if per != nil {
			mass = per[i]
		}
		vx := ens.V[3*i]
		vy := ens.V[3*i+1]
		vz := ens.V[3*i+2]
		ke += 0.5 * mass * (vx*vx + vy*vy + vz*vz)
	}
	m.total += 2.0 * ke / (3.0 * float64(n) * Boltzmann)
	m.samples++
}

func (m *Temperature) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *Temperature) Reset() {
	m.total = 0
	m.samples = 0
}

package forces

import (
	"math"
	"math/rand"

	"github.com/gitrymt/cold-atoms/internal/ensemble"
)

// IntensityField maps particle positions to laser intensity in units of the
// saturation intensity.
type IntensityField interface {
	Intensities(x []float64) []float64
}

// DetuningField maps particle positions and velocities to the detuning of
// the atomic transition from the laser. Red detuning is negative.
type DetuningField interface {
	Detunings(x, v []float64) []float64
}

// RadiationPressure is the force on two-level atoms undergoing resonance
// fluorescence in a monochromatic laser field: a deterministic scattering
// term along the photon momentum plus a fluctuating recoil from momentum
// diffusion. The laser wavevector is fixed; attenuation is not modeled, so
// this is limited to optically thin samples. Combining two red-detuned,
// counter-propagating instances gives Doppler cooling (not sub-Doppler).
type RadiationPressure struct {
	// Gamma is the atomic decay rate, 2π / excited state lifetime.
	Gamma float64
	// HbarK is the single photon recoil momentum vector.
	HbarK [3]float64

	Intensity IntensityField
	Detuning  DetuningField

	rng *rand.Rand
}

// NewRadiationPressure seeds the recoil noise; runs with the same seed and
// inputs are reproducible.
func NewRadiationPressure(gamma float64, hbarK [3]float64, intensity IntensityField, detuning DetuningField, seed int64) *RadiationPressure {
	return &RadiationPressure{
		Gamma:     gamma,
		HbarK:     hbarK,
		Intensity: intensity,
		Detuning:  detuning,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

func (r *RadiationPressure) Force(dt float64, ens *ensemble.Ensemble, f []float64) error {
	s := r.Intensity.Intensities(ens.X)
	deltas := r.Detuning.Detunings(ens.X, ens.V)

	hk := math.Sqrt(r.HbarK[0]*r.HbarK[0] + r.HbarK[1]*r.HbarK[1] + r.HbarK[2]*r.HbarK[2])
	halfGamma := 0.5 * r.Gamma

	n := ens.NumPtcls()
	for i := 0; i < n; i++ {
		// Expected number of scattered photons in dt.
		nbar := dt * s[i] * (r.Gamma / (2.0 * math.Pi)) * halfGamma * halfGamma /
			(halfGamma*halfGamma*(1.0+2.0*s[i]) + deltas[i]*deltas[i])

		// Recoil as a 3D random walk of nbar steps of length ħk.
		sigma := math.Sqrt(nbar/3.0) * hk
		for m := 0; m < 3; m++ {
			f[3*i+m] += nbar*r.HbarK[m] + sigma*r.rng.NormFloat64()
		}
	}
	return nil
}

// UniformIntensity is a spatially constant saturation parameter.
type UniformIntensity struct {
	S0 float64
}

func (u *UniformIntensity) Intensities(x []float64) []float64 {
	s := make([]float64, len(x)/3)
	for i := range s {
		s[i] = u.S0
	}
	return s
}

// GaussianBeam is a beam with waist Sigma propagating along Direction
// through Focus; the intensity falls off with the squared distance from
// the beam axis.
type GaussianBeam struct {
	S0        float64
	Sigma     float64
	Focus     [3]float64
	Direction [3]float64 // need not be normalized
}

func (g *GaussianBeam) Intensities(x []float64) []float64 {
	d2 := g.Direction[0]*g.Direction[0] + g.Direction[1]*g.Direction[1] + g.Direction[2]*g.Direction[2]
	n := len(x) / 3
	s := make([]float64, n)
	for i := 0; i < n; i++ {
		rx := x[3*i] - g.Focus[0]
		ry := x[3*i+1] - g.Focus[1]
		rz := x[3*i+2] - g.Focus[2]
		along := rx*g.Direction[0] + ry*g.Direction[1] + rz*g.Direction[2]
		perp2 := rx*rx + ry*ry + rz*rz - along*along/d2
		s[i] = g.S0 * math.Exp(-perp2/(2.0*g.Sigma*g.Sigma))
	}
	return s
}

// ConstantDetuning ignores atomic motion.
type ConstantDetuning struct {
	Delta0 float64
}

func (c *ConstantDetuning) Detunings(x, v []float64) []float64 {
	d := make([]float64, len(x)/3)
	for i := range d {
		d[i] = c.Delta0
	}
	return d
}

// DopplerDetuning shifts a base detuning by -k·v for laser wavevector K.
type DopplerDetuning struct {
	Delta0 float64
	K      [3]float64
}

func (d *DopplerDetuning) Detunings(x, v []float64) []float64 {
	n := len(x) / 3
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = d.Delta0 - (d.K[0]*v[3*i] + d.K[1]*v[3*i+1] + d.K[2]*v[3*i+2])
	}
	return out
}

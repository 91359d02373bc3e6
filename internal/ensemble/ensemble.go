// Package ensemble holds collections of charged particles and the
// source/sink machinery that grows and shrinks them during a simulation.
package ensemble

import (
	"errors"
	"fmt"
)

// Domain errors for ensemble operations.
var (
	// ErrPropertySize indicates a per-particle property whose length does
	// not match the particle count.
	ErrPropertySize = errors.New("ensemble: property length does not match particle count")

	// ErrMissingProperty indicates a required ensemble or particle
	// property is not set.
	ErrMissingProperty = errors.New("ensemble: required property not set")
)

// Ensemble is an ordered set of particles with positions and velocities in
// particle-major layout (x, y, z of particle 0 first). Scalar attributes
// shared by every particle live in Properties; attributes that vary per
// particle live in ParticleProperties, aligned index-for-index with the
// positions.
type Ensemble struct {
	X []float64 // positions, len 3·N
	V []float64 // velocities, len 3·N

	Properties         map[string]float64
	ParticleProperties map[string][]float64
}

// New returns an ensemble of n particles at rest at the origin.
func New(n int) *Ensemble {
	return &Ensemble{
		X:                  make([]float64, 3*n),
		V:                  make([]float64, 3*n),
		Properties:         make(map[string]float64),
		ParticleProperties: make(map[string][]float64),
	}
}

// NumPtcls returns the number of particles.
func (e *Ensemble) NumPtcls() int {
	return len(e.X) / 3
}

// SetParticleProperty stores a copy of prop under key. The length of prop
// must match the current particle count.
func (e *Ensemble) SetParticleProperty(key string, prop []float64) error {
	if len(prop) != e.NumPtcls() {
		return fmt.Errorf("%w: key %q has %d values for %d particles",
			ErrPropertySize, key, len(prop), e.NumPtcls())
	}
	c := make([]float64, len(prop))
	copy(c, prop)
	e.ParticleProperties[key] = c
	return nil
}

// Resize grows or truncates the ensemble to n particles. New particles are
// at rest at the origin with zero-valued properties.
func (e *Ensemble) Resize(n int) {
	e.X = resize(e.X, 3*n)
	e.V = resize(e.V, 3*n)
	for key, prop := range e.ParticleProperties {
		e.ParticleProperties[key] = resize(prop, n)
	}
}

func resize(s []float64, n int) []float64 {
	if n <= cap(s) {
		old := len(s)
		s = s[:n]
		for i := old; i < n; i++ {
			s[i] = 0
		}
		return s
	}
	grown := make([]float64, n)
	copy(grown, s)
	return grown
}

// Delete removes the particles at the given indices in place. Indices may
// be in any order; duplicates and out-of-range entries are ignored.
func (e *Ensemble) Delete(indices []int) {
	if len(indices) == 0 {
		return
	}
	n := e.NumPtcls()
	drop := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < n {
			drop[idx] = true
		}
	}
	if len(drop) == 0 {
		return
	}

	keep := 0
	for i := 0; i < n; i++ {
		if drop[i] {
			continue
		}
		copy(e.X[3*keep:3*keep+3], e.X[3*i:3*i+3])
		copy(e.V[3*keep:3*keep+3], e.V[3*i:3*i+3])
		for _, prop := range e.ParticleProperties {
			prop[keep] = prop[i]
		}
		keep++
	}

	e.X = e.X[:3*keep]
	e.V = e.V[:3*keep]
	for key, prop := range e.ParticleProperties {
		e.ParticleProperties[key] = prop[:keep]
	}
}

// Clone returns a deep copy.
func (e *Ensemble) Clone() *Ensemble {
	c := &Ensemble{
		X:                  append([]float64(nil), e.X...),
		V:                  append([]float64(nil), e.V...),
		Properties:         make(map[string]float64, len(e.Properties)),
		ParticleProperties: make(map[string][]float64, len(e.ParticleProperties)),
	}
	for k, v := range e.Properties {
		c.Properties[k] = v
	}
	for k, v := range e.ParticleProperties {
		c.ParticleProperties[k] = append([]float64(nil), v...)
	}
	return c
}

// Mass returns the per-particle mass slice if the "mass" particle property
// is set, or the shared mass from the ensemble properties. The bool result
// reports whether any mass is available; the slice is nil for the shared
// case.
func (e *Ensemble) Mass() (shared float64, per []float64, ok bool) {
	if per, found := e.ParticleProperties["mass"]; found {
		return 0, per, true
	}
	if m, found := e.Properties["mass"]; found {
		return m, nil, true
	}
	return 0, nil, false
}

// Charge is the Mass analogue for the "charge" property.
func (e *Ensemble) Charge() (shared float64, per []float64, ok bool) {
	if per, found := e.ParticleProperties["charge"]; found {
		return 0, per, true
	}
	if q, found := e.Properties["charge"]; found {
		return q, nil, true
	}
	return 0, nil, false
}

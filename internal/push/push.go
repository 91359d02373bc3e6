// Package push advances ensembles in time with the drift-kick-drift
// scheme: half a step of free flight, a velocity kick from the impulses
// accumulated over the full step, then the second half of the free flight.
// Sinks absorb particles during the two drift halves.
package push

import (
	"fmt"

	"github.com/gitrymt/cold-atoms/internal/ensemble"
	"github.com/gitrymt/cold-atoms/internal/forces"
)

// Drift moves every particle along its velocity for dt.
func Drift(dt float64, ens *ensemble.Ensemble) {
	for i := range ens.X {
		ens.X[i] += dt * ens.V[i]
	}
}

// Pusher steps an ensemble under a set of forces and an optional sink. It
// reuses its impulse buffer across steps, so a Pusher must not be shared
// between goroutines.
type Pusher struct {
	Forces []forces.Force
	Sink   ensemble.Sink

	f []float64
}

// New returns a Pusher applying the given forces.
func New(fs ...forces.Force) *Pusher {
	return &Pusher{Forces: fs}
}

// Step advances ens by one drift-kick-drift step of length dt. With no
// forces it degenerates to a single drift. Kicking requires a "mass"
// ensemble or particle property.
func (p *Pusher) Step(dt float64, ens *ensemble.Ensemble) error {
	if len(p.Forces) == 0 {
		ensemble.ProcessSink(dt, ens, p.Sink)
		Drift(dt, ens)
		return nil
	}

	ensemble.ProcessSink(0.5*dt, ens, p.Sink)
	Drift(0.5*dt, ens)

	if len(p.f) != len(ens.V) {
		p.f = make([]float64, len(ens.V))
	}
	for i := range p.f {
		p.f[i] = 0
	}
	for _, force := range p.Forces {
		if err := force.Force(dt, ens, p.f); err != nil {
			return err
		}
	}
	if err := kick(ens, p.f); err != nil {
		return err
	}

	ensemble.ProcessSink(0.5*dt, ens, p.Sink)
	Drift(0.5*dt, ens)
	return nil
}

// kick applies the accumulated impulses: v += f/m.
func kick(ens *ensemble.Ensemble, f []float64) error {
	shared, per, ok := ens.Mass()
	if !ok {
		return fmt.Errorf("%w: accelerating particles needs a mass", ensemble.ErrMissingProperty)
	}
	if per != nil {
		for i := range ens.V {
			ens.V[i] += f[i] / per[i/3]
		}
		return nil
	}
	inv := 1.0 / shared
	for i := range ens.V {
		ens.V[i] += f[i] * inv
	}
	return nil
}

// DriftKick is the one-shot form of Pusher.Step for callers that do not
// step repeatedly.
func DriftKick(dt float64, ens *ensemble.Ensemble, fs []forces.Force, sink ensemble.Sink) error {
	p := &Pusher{Forces: fs, Sink: sink}
	return p.Step(dt, ens)
}

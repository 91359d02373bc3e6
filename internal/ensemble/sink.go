package ensemble

// Sink absorbs particles, conceptually a surface that removes any particle
// crossing it within a time step.
type Sink interface {
	// FindAbsorptionTime returns, per particle, the time after which a
	// particle starting at x with velocity v on a straight line hits the
	// sink. A particle that does not hit within dt must get a time
	// greater than dt.
	FindAbsorptionTime(x, v []float64, dt float64) []float64

	// RecordAbsorption is called with the particles about to be removed,
	// before they are deleted from the ensemble.
	RecordAbsorption(ens *Ensemble, dt float64, times []float64, indices []int)
}

// PlaneSink absorbs particles that hit an infinite plane.
type PlaneSink struct {
	Point  [3]float64
	Normal [3]float64
}

func (p *PlaneSink) FindAbsorptionTime(x, v []float64, dt float64) []float64 {
	n := len(x) / 3
	taus := make([]float64, n)
	for i := 0; i < n; i++ {
		nv := p.Normal[0]*v[3*i] + p.Normal[1]*v[3*i+1] + p.Normal[2]*v[3*i+2]
		if nv == 0 {
			taus[i] = 2 * dt
			continue
		}
		taus[i] = (p.Normal[0]*(p.Point[0]-x[3*i]) +
			p.Normal[1]*(p.Point[1]-x[3*i+1]) +
			p.Normal[2]*(p.Point[2]-x[3*i+2])) / nv
	}
	return taus
}

func (p *PlaneSink) RecordAbsorption(ens *Ensemble, dt float64, times []float64, indices []int) {
}

// ProcessSink deletes from ens every particle the sink absorbs within dt.
// A nil sink is a no-op.
func ProcessSink(dt float64, ens *Ensemble, sink Sink) {
	if sink == nil {
		return
	}
	times := sink.FindAbsorptionTime(ens.X, ens.V, dt)
	var absorbed []int
	for i, tau := range times {
		// Absorption happens inside [0, dt].
		if tau >= 0 && tau <= dt {
			absorbed = append(absorbed, i)
		}
	}
	if len(absorbed) == 0 {
		return
	}
	sink.RecordAbsorption(ens, dt, times, absorbed)
	ens.Delete(absorbed)
}

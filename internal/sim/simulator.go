// Package sim runs ensembles forward in time and collects snapshots and
// metrics along the way.
package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/gitrymt/cold-atoms/internal/ensemble"
	"github.com/gitrymt/cold-atoms/internal/forces"
	"github.com/gitrymt/cold-atoms/internal/push"
)

// Simulator owns a pusher, optional particle sources, and the metrics and
// observers attached to a run. The ensemble passed to Run is mutated in
// place.
type Simulator struct {
	pusher    *push.Pusher
	sources   []ensemble.Source
	metrics   []Metric
	observers []Observer
}

// New returns a Simulator stepping under the given forces.
func New(fs ...forces.Force) *Simulator {
	return &Simulator{pusher: push.New(fs...)}
}

func (s *Simulator) SetSink(sink ensemble.Sink)    { s.pusher.Sink = sink }
func (s *Simulator) AddSource(src ensemble.Source) { s.sources = append(s.sources, src) }
func (s *Simulator) AddMetric(m Metric)            { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)        { s.observers = append(s.observers, o) }

// Run advances ens by cfg.Steps steps of cfg.Dt, honoring context
// cancellation between steps. The partial result is returned alongside any
// error.
func (s *Simulator) Run(ctx context.Context, ens *ensemble.Ensemble, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Times:   make([]float64, 0, cfg.Steps+1),
		Metrics: make(map[string]float64),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	every := cfg.SnapshotEvery
	if every <= 0 {
		every = 1
	}

	t := 0.0
	result.Times = append(result.Times, t)
	result.Snapshots = append(result.Snapshots, snapshotOf(ens, t))

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		ensemble.Produce(cfg.Dt, ens, s.sources)

		for _, m := range s.metrics {
			m.Observe(ens, t)
		}
		for _, o := range s.observers {
			o.OnStep(ens, t)
		}

		if err := s.pusher.Step(cfg.Dt, ens); err != nil {
			return result, fmt.Errorf("step %d (t=%.4g): %w", i, t, err)
		}
		t += cfg.Dt
		result.StepsTaken++

		if cfg.ValidateState && !stateValid(ens) {
			return result, fmt.Errorf("step %d (t=%.4g): %w", i, t, ErrInvalidState)
		}

		if (i+1)%every == 0 {
			result.Times = append(result.Times, t)
			result.Snapshots = append(result.Snapshots, snapshotOf(ens, t))
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrConfig, cfg.Dt)
	}
	if cfg.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrConfig, cfg.Steps)
	}
	return nil
}

func stateValid(ens *ensemble.Ensemble) bool {
	for _, v := range ens.X {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	for _, v := range ens.V {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

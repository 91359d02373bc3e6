package sim

import (
	"errors"

	"github.com/gitrymt/cold-atoms/internal/ensemble"
)

// Domain errors for simulation runs.
var (
	// ErrInvalidState indicates a NaN or Inf crept into positions or
	// velocities, usually from zero softening or a too-large time step.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrConfig indicates an unusable run configuration.
	ErrConfig = errors.New("sim: invalid configuration")
)

// Config controls a single run.
type Config struct {
	Dt    float64
	Steps int
	Seed  int64
	// SnapshotEvery records the ensemble every that many steps; 0 means
	// every step.
	SnapshotEvery int
	// ValidateState scans positions and velocities for NaN/Inf after
	// every step and aborts the run when found.
	ValidateState bool
}

// Snapshot is a copy of the ensemble phase space at one instant.
type Snapshot struct {
	Time float64
	X    []float64
	V    []float64
}

// Result collects the output of a run.
type Result struct {
	Times      []float64
	Snapshots  []Snapshot
	Metrics    map[string]float64
	StepsTaken int
}

// Metric accumulates a scalar observable over a run.
type Metric interface {
	Name() string
	Observe(ens *ensemble.Ensemble, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every completed step.
type Observer interface {
	OnStep(ens *ensemble.Ensemble, t float64)
}

func snapshotOf(ens *ensemble.Ensemble, t float64) Snapshot {
	return Snapshot{
		Time: t,
		X:    append([]float64(nil), ens.X...),
		V:    append([]float64(nil), ens.V...),
	}
}

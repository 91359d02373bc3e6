package forces

import (
	"fmt"

	"github.com/gitrymt/cold-atoms/internal/coulomb"
	"github.com/gitrymt/cold-atoms/internal/ensemble"
)

// Coulomb is the mutual electrostatic repulsion between all particles of
// an ensemble. The charge comes from the ensemble: a per-particle "charge"
// property selects the direct per-charge engine, a shared "charge" property
// the tiled engine.
type Coulomb struct {
	// Delta softens the squared interparticle distance, bounding the
	// force between near-coincident particles. Must be non-negative.
	Delta float64
	// K is the Coulomb constant, CoulombConstant unless overridden for
	// scaled units.
	K float64
	// Kernel evaluates the shared-charge case; replace it to tune tile
	// width or worker count.
	Kernel *coulomb.Kernel
}

// NewCoulomb returns a Coulomb force with softening delta in SI units.
func NewCoulomb(delta float64) *Coulomb {
	return &Coulomb{
		Delta:  delta,
		K:      CoulombConstant,
		Kernel: coulomb.New(),
	}
}

func (c *Coulomb) Force(dt float64, ens *ensemble.Ensemble, f []float64) error {
	shared, per, ok := ens.Charge()
	if !ok {
		return fmt.Errorf("%w: coulomb force needs a charge", ensemble.ErrMissingProperty)
	}
	if per != nil {
		coulomb.AccumulatePerParticle(ens.X, per, dt, c.Delta, c.K, f)
		return nil
	}
	c.Kernel.Accumulate(ens.X, shared, dt, c.Delta, c.K, f)
	return nil
}

package forces

import (
	"errors"
	"math"
	"testing"

	"github.com/gitrymt/cold-atoms/internal/ensemble"
)

func twoIonEnsemble() *ensemble.Ensemble {
	ens := ensemble.New(2)
	ens.X[0] = -1e-5
	ens.X[3] = 1e-5
	return ens
}

func TestCoulombMissingCharge(t *testing.T) {
	f := make([]float64, 6)
	err := NewCoulomb(0).Force(1e-9, twoIonEnsemble(), f)
	if !errors.Is(err, ensemble.ErrMissingProperty) {
		t.Fatalf("expected ErrMissingProperty, got %v", err)
	}
}

func TestCoulombSharedMatchesPerParticle(t *testing.T) {
	const q = 1.602176634e-19

	shared := twoIonEnsemble()
	shared.Properties["charge"] = q
	fShared := make([]float64, 6)
	if err := NewCoulomb(0).Force(1e-9, shared, fShared); err != nil {
		t.Fatalf("shared charge force: %v", err)
	}

	per := twoIonEnsemble()
	if err := per.SetParticleProperty("charge", []float64{q, q}); err != nil {
		t.Fatal(err)
	}
	fPer := make([]float64, 6)
	if err := NewCoulomb(0).Force(1e-9, per, fPer); err != nil {
		t.Fatalf("per particle force: %v", err)
	}

	for i := range fShared {
		diff := math.Abs(fShared[i] - fPer[i])
		scale := math.Max(math.Abs(fShared[i]), 1e-30)
		if diff > 1e-9*scale {
			t.Errorf("component %d: shared %g, per-particle %g", i, fShared[i], fPer[i])
		}
	}

	// Like charges repel: particle 0 pushed in -x.
	if fShared[0] >= 0 {
		t.Errorf("fx[0] = %g, want < 0", fShared[0])
	}
}

func TestCoulombAccumulates(t *testing.T) {
	ens := twoIonEnsemble()
	ens.Properties["charge"] = 1e-19

	fresh := make([]float64, 6)
	c := NewCoulomb(0)
	if err := c.Force(1e-9, ens, fresh); err != nil {
		t.Fatal(err)
	}

	seeded := []float64{1, 2, 3, 4, 5, 6}
	if err := c.Force(1e-9, ens, seeded); err != nil {
		t.Fatal(err)
	}

	for i := range fresh {
		want := float64(i+1) + fresh[i]
		if seeded[i] != want {
			t.Errorf("component %d: got %g, want %g", i, seeded[i], want)
		}
	}
}

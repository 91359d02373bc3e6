package forces

import (
	"math"
	"testing"

	"github.com/gitrymt/cold-atoms/internal/ensemble"
)

func TestRadiationPressureZeroIntensity(t *testing.T) {
	ens := ensemble.New(3)
	f := make([]float64, 9)

	rp := NewRadiationPressure(2*math.Pi*6e6, [3]float64{1e-27, 0, 0},
		&UniformIntensity{S0: 0}, &ConstantDetuning{Delta0: 0}, 1)
	if err := rp.Force(1e-6, ens, f); err != nil {
		t.Fatal(err)
	}

	for i, v := range f {
		if v != 0 {
			t.Errorf("f[%d] = %g, want 0 for dark beam", i, v)
		}
	}
}

func TestRadiationPressureReproducible(t *testing.T) {
	run := func() []float64 {
		ens := ensemble.New(5)
		f := make([]float64, 15)
		rp := NewRadiationPressure(2*math.Pi*6e6, [3]float64{1e-27, 0, 0},
			&UniformIntensity{S0: 0.1}, &ConstantDetuning{Delta0: -1e7}, 42)
		if err := rp.Force(1e-6, ens, f); err != nil {
			t.Fatal(err)
		}
		return f
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("f[%d] differs between seeded runs: %g vs %g", i, a[i], b[i])
		}
	}
}

func TestRadiationPressureMeanImpulse(t *testing.T) {
	const (
		n     = 4000
		gamma = 2 * math.Pi * 6e6
		s0    = 0.05
		det   = -0.5 * gamma
		dt    = 1e-6
		hk    = 1e-27
	)

	ens := ensemble.New(n)
	f := make([]float64, 3*n)
	rp := NewRadiationPressure(gamma, [3]float64{hk, 0, 0},
		&UniformIntensity{S0: s0}, &ConstantDetuning{Delta0: det}, 7)
	if err := rp.Force(dt, ens, f); err != nil {
		t.Fatal(err)
	}

	halfGamma := 0.5 * gamma
	nbar := dt * s0 * (gamma / (2 * math.Pi)) * halfGamma * halfGamma /
		(halfGamma*halfGamma*(1+2*s0) + det*det)
	sigma := math.Sqrt(nbar/3.0) * hk

	var mean [3]float64
	for i := 0; i < n; i++ {
		for m := 0; m < 3; m++ {
			mean[m] += f[3*i+m]
		}
	}
	for m := range mean {
		mean[m] /= n
	}

	// The sample mean must sit within a handful of standard errors of the
	// deterministic scattering term.
	tol := 6 * sigma / math.Sqrt(n)
	want := [3]float64{nbar * hk, 0, 0}
	for m := 0; m < 3; m++ {
		if math.Abs(mean[m]-want[m]) > tol {
			t.Errorf("mean impulse[%d] = %g, want %g ± %g", m, mean[m], want[m], tol)
		}
	}
}

func TestDopplerDetuning(t *testing.T) {
	d := &DopplerDetuning{Delta0: -5.0, K: [3]float64{2, 0, 0}}

	x := make([]float64, 6)
	v := []float64{3, 0, 0, -3, 0, 0}
	got := d.Detunings(x, v)

	// delta0 - k·v
	if got[0] != -11.0 {
		t.Errorf("co-propagating atom: got %g, want -11", got[0])
	}
	if got[1] != 1.0 {
		t.Errorf("counter-propagating atom: got %g, want 1", got[1])
	}
}

func TestGaussianBeamProfile(t *testing.T) {
	g := &GaussianBeam{
		S0:        2.0,
		Sigma:     1.0,
		Focus:     [3]float64{0, 0, 0},
		Direction: [3]float64{0, 0, 3},
	}

	// On axis (anywhere along the propagation direction) the intensity is
	// the peak value; off axis it falls.
	x := []float64{
		0, 0, 0,
		0, 0, 5,
		1, 0, 0,
	}
	s := g.Intensities(x)

	if math.Abs(s[0]-2.0) > 1e-12 {
		t.Errorf("focus intensity = %g, want 2", s[0])
	}
	if math.Abs(s[1]-2.0) > 1e-9 {
		t.Errorf("on-axis intensity = %g, want 2", s[1])
	}
	want := 2.0 * math.Exp(-0.5)
	if math.Abs(s[2]-want) > 1e-12 {
		t.Errorf("off-axis intensity = %g, want %g", s[2], want)
	}
}

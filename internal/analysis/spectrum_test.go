package analysis

import (
	"math"
	"testing"
)

func TestFFTConstantSignal(t *testing.T) {
	fft := FFT([]float64{1, 1, 1, 1})
	if math.Abs(real(fft[0])-4) > 1e-12 {
		t.Errorf("DC bin = %v, want 4", fft[0])
	}
	for i := 1; i < len(fft); i++ {
		if math.Abs(real(fft[i])) > 1e-12 || math.Abs(imag(fft[i])) > 1e-12 {
			t.Errorf("bin %d = %v, want 0", i, fft[i])
		}
	}
}

func TestDominantFrequencySine(t *testing.T) {
	const (
		dt   = 1e-3
		freq = 50.0
		n    = 1024
	)
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * freq * float64(i) * dt)
	}

	got := DominantFrequency(data, dt)
	binWidth := 1.0 / (float64(n) * dt)
	if math.Abs(got-freq) > binWidth {
		t.Errorf("dominant frequency = %g Hz, want %g +- %g", got, freq, binWidth)
	}
}

func TestDominantFrequencyIgnoresOffset(t *testing.T) {
	const dt = 1e-2
	data := make([]float64, 256)
	for i := range data {
		data[i] = 10 + math.Sin(2*math.Pi*5*float64(i)*dt)
	}

	got := DominantFrequency(data, dt)
	if math.Abs(got-5) > 1.0/(256*dt) {
		t.Errorf("offset shifted dominant frequency to %g Hz", got)
	}
}

func TestDominantFrequencyFlatSignal(t *testing.T) {
	if f := DominantFrequency([]float64{3, 3, 3, 3}, 0.1); f != 0 {
		t.Errorf("flat signal reported %g Hz", f)
	}
	if f := DominantFrequency(nil, 0.1); f != 0 {
		t.Errorf("empty signal reported %g Hz", f)
	}
}

func TestPowerSpectrumCoversFullPositiveHalf(t *testing.T) {
	// A line at 3/4 of Nyquist lands in the upper half of the returned
	// spectrum, so consumers must plot all bins, not a further half.
	data := make([]float64, 64)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 0.375 * float64(i))
	}

	ps := PowerSpectrum(data)
	if len(ps) != 32 {
		t.Fatalf("expected 32 bins, got %d", len(ps))
	}
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > ps[maxIdx] {
			maxIdx = i
		}
	}
	if maxIdx != 24 {
		t.Errorf("dominant bin = %d, want 24", maxIdx)
	}

	if got := DominantFrequency(data, 1.0); math.Abs(got-0.375) > 1e-12 {
		t.Errorf("dominant frequency = %g, want 0.375", got)
	}
}

func TestPowerSpectrumPadsOddLength(t *testing.T) {
	ps := PowerSpectrum([]float64{1, 2, 3})
	if len(ps) != 2 {
		t.Errorf("expected padding to 4 samples (2 bins), got %d bins", len(ps))
	}
}

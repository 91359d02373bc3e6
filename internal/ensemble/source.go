package ensemble

// Source produces new particles, e.g. an oven or photoionization region.
// Stochastic sources may report a different count on consecutive calls, so
// callers must pair one NumPtclsProduced call with one ProducePtcls call
// for the same dt.
type Source interface {
	// NumPtclsProduced returns how many particles the next ProducePtcls
	// call will generate for a time interval of length dt.
	NumPtclsProduced(dt float64) int

	// ProducePtcls fills the particles [start, end) of ens, where
	// end-start equals the preceding NumPtclsProduced result.
	ProducePtcls(dt float64, start, end int, ens *Ensemble)
}

// Produce grows ens by the output of all sources for one interval dt and
// lets each source initialize its slice of the new particles.
func Produce(dt float64, ens *Ensemble, sources []Source) {
	counts := make([]int, len(sources))
	total := 0
	for i, s := range sources {
		counts[i] = s.NumPtclsProduced(dt)
		total += counts[i]
	}
	if total == 0 {
		return
	}

	start := ens.NumPtcls()
	ens.Resize(start + total)
	for i, s := range sources {
		s.ProducePtcls(dt, start, start+counts[i], ens)
		start += counts[i]
	}
}

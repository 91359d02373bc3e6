package coulomb

import "sync"

// tiled computes the pair contributions for the first n0 = (N/w)·w
// particles, w particles per tile. Tiles are brought into component-major
// layout so the inner loops run with unit stride across particles; kc must
// already carry the dt·charge² factor.
func (k *Kernel) tiled(positions []float64, delta, kc float64, forces []float64) {
	w := k.tileWidth()
	numChunks := len(positions) / components / w
	if numChunks == 0 {
		return
	}
	if k.Workers > 1 && numChunks > 1 {
		k.tiledParallel(positions, w, numChunks, delta, kc, forces)
		return
	}
	k.s.ensure(w)
	tileRange(positions, w, 0, numChunks, delta, kc, forces, &k.s)
}

// tiledParallel distributes output tiles over Workers goroutines. Each
// worker owns its scratch and a disjoint slice of output tiles, so the
// forces buffer needs no locking.
func (k *Kernel) tiledParallel(positions []float64, w, numChunks int, delta, kc float64, forces []float64) {
	workers := k.Workers
	if workers > numChunks {
		workers = numChunks
	}
	per := (numChunks + workers - 1) / workers

	var wg sync.WaitGroup
	for lo := 0; lo < numChunks; lo += per {
		hi := min(lo+per, numChunks)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			var s scratch
			s.ensure(w)
			tileRange(positions, w, lo, hi, delta, kc, forces, &s)
		}(lo, hi)
	}
	wg.Wait()
}

// tileRange evaluates output tiles [lo, hi) against every tile, including
// themselves. Self pairs fall out of the same arithmetic: their
// displacement is the zero vector, so they contribute nothing.
func tileRange(positions []float64, w, lo, hi int, delta, kc float64, forces []float64, s *scratch) {
	numChunks := len(positions) / components / w
	stride := components * w
	for i := lo; i < hi; i++ {
		Transpose(positions[i*stride:], w, components, s.x0)
		for m := range s.f {
			s.f[m] = 0
		}
		for j := 0; j < numChunks; j++ {
			Transpose(positions[j*stride:], w, components, s.x1)
			accumulateTile(s, w, delta, kc)
		}
		Transpose(s.f, components, w, s.ft)
		base := i * stride
		for m, v := range s.ft {
			forces[base+m] += v
		}
	}
}

// accumulateTile adds the forces exerted by the w particles in s.x1 on the
// w particles in s.x0 to s.f. The lane index runs over the x1 particles;
// each x0 particle is broadcast against the full lane width.
func accumulateTile(s *scratch, w int, delta, kc float64) {
	rx := s.r[:w]
	ry := s.r[w : 2*w]
	rz := s.r[2*w : 3*w]
	for i := 0; i < w; i++ {
		subBroadcast(rx, s.x0[i], s.x1[:w])
		subBroadcast(ry, s.x0[w+i], s.x1[w:2*w])
		subBroadcast(rz, s.x0[2*w+i], s.x1[2*w:3*w])

		softenedNormSq(s.inv, rx, ry, rz, delta)
		invCubeLanes(s.inv)

		s.f[i] += kc * dot(rx, s.inv)
		s.f[w+i] += kc * dot(ry, s.inv)
		s.f[2*w+i] += kc * dot(rz, s.inv)
	}
}

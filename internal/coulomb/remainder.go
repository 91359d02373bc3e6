package coulomb

// remainder completes the pair coverage the tiled pass skipped. With
// n0 = (N/w)·w, the tiled pass covered the n0×n0 block; the right-leftover
// pass here covers i < n0 against j >= n0 and the bottom-leftover pass
// covers i >= n0 against every j. The three ranges are disjoint and sum to
// the full N×N pair space, so every pair is counted exactly once.
// Changing the tile width moves the split point n0 but never this
// partitioning.
func (k *Kernel) remainder(positions []float64, delta, kc float64, forces []float64) {
	w := k.tileWidth()
	n := len(positions) / components
	n0 := n / w * w

	// Right leftovers.
	for i := 0; i < n0; i++ {
		xi := positions[components*i]
		yi := positions[components*i+1]
		zi := positions[components*i+2]
		var fx, fy, fz float64
		for j := n0; j < n; j++ {
			dx := xi - positions[components*j]
			dy := yi - positions[components*j+1]
			dz := zi - positions[components*j+2]
			c := kc * invCube(Distance(dx, dy, dz, delta))
			fx += c * dx
			fy += c * dy
			fz += c * dz
		}
		forces[components*i] += fx
		forces[components*i+1] += fy
		forces[components*i+2] += fz
	}

	// Bottom leftovers.
	for i := n0; i < n; i++ {
		xi := positions[components*i]
		yi := positions[components*i+1]
		zi := positions[components*i+2]
		var fx, fy, fz float64
		for j := 0; j < n; j++ {
			dx := xi - positions[components*j]
			dy := yi - positions[components*j+1]
			dz := zi - positions[components*j+2]
			c := kc * invCube(Distance(dx, dy, dz, delta))
			fx += c * dx
			fy += c * dy
			fz += c * dz
		}
		forces[components*i] += fx
		forces[components*i+1] += fy
		forces[components*i+2] += fz
	}
}

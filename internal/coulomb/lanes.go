package coulomb

import "github.com/ajroetker/go-highway/hwy"

// Lane helpers for the component-major inner loops of the tiled engine.
// They process a whole tile row per call using portable SIMD, with a masked
// tail so any tile width works, not just multiples of the vector width.

// subBroadcast writes dst[j] = s - src[j].
func subBroadcast(dst []float64, s float64, src []float64) {
	vs := hwy.Set(s)
	hwy.ProcessWithTail[float64](len(dst),
		func(offset int) {
			v := hwy.Sub(vs, hwy.Load(src[offset:]))
			hwy.Store(v, dst[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[float64](count)
			v := hwy.Sub(vs, hwy.MaskLoad(mask, src[offset:]))
			hwy.MaskStore(mask, v, dst[offset:])
		},
	)
}

// softenedNormSq writes dst[j] = rx[j]² + ry[j]² + rz[j]² + delta.
func softenedNormSq(dst, rx, ry, rz []float64, delta float64) {
	vDelta := hwy.Set(delta)
	hwy.ProcessWithTail[float64](len(dst),
		func(offset int) {
			vx := hwy.Load(rx[offset:])
			vy := hwy.Load(ry[offset:])
			vz := hwy.Load(rz[offset:])
			sum := hwy.FMA(vx, vx, vDelta)
			sum = hwy.FMA(vy, vy, sum)
			sum = hwy.FMA(vz, vz, sum)
			hwy.Store(sum, dst[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[float64](count)
			vx := hwy.MaskLoad(mask, rx[offset:])
			vy := hwy.MaskLoad(mask, ry[offset:])
			vz := hwy.MaskLoad(mask, rz[offset:])
			sum := hwy.FMA(vx, vx, vDelta)
			sum = hwy.FMA(vy, vy, sum)
			sum = hwy.FMA(vz, vz, sum)
			hwy.MaskStore(mask, sum, dst[offset:])
		},
	)
}

// invCubeLanes replaces each softened squared distance d2[j] with
// d2[j]^(-3/2). A zero radicand maps to zero, so coincident pairs (and
// with them every self pair) contribute no force.
func invCubeLanes(d2 []float64) {
	zero := hwy.Zero[float64]()
	one := hwy.Set(1.0)
	hwy.ProcessWithTail[float64](len(d2),
		func(offset int) {
			v := hwy.Load(d2[offset:])
			inv := hwy.Div(one, hwy.Mul(v, hwy.Sqrt(v)))
			hwy.Store(hwy.IfThenElse(hwy.Equal(v, zero), zero, inv), d2[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[float64](count)
			v := hwy.MaskLoad(mask, d2[offset:])
			inv := hwy.Div(one, hwy.Mul(v, hwy.Sqrt(v)))
			hwy.MaskStore(mask, hwy.IfThenElse(hwy.Equal(v, zero), zero, inv), d2[offset:])
		},
	)
}

// dot returns Σ a[j]*b[j] over min(len(a), len(b)) lanes.
func dot(a, b []float64) float64 {
	n := min(len(a), len(b))
	acc := hwy.Zero[float64]()
	hwy.ProcessWithTail[float64](n,
		func(offset int) {
			acc = hwy.FMA(hwy.Load(a[offset:]), hwy.Load(b[offset:]), acc)
		},
		func(offset, count int) {
			mask := hwy.TailMask[float64](count)
			va := hwy.MaskLoad(mask, a[offset:])
			vb := hwy.MaskLoad(mask, b[offset:])
			acc = hwy.FMA(va, vb, acc)
		},
	)
	return hwy.ReduceSum(acc)
}

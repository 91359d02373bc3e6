package coulomb

// Transpose copies the m×n row-major table x into y in n×m row-major
// (i.e. column-major of x) order:
//
//	y[j*m+i] = x[i*n+j]  for i in [0,m), j in [0,n)
//
// x and y must not alias and must hold at least m*n elements each. The
// tiled engine uses it twice per tile pair: to bring a tile of particle
// positions into component-major form for the lane loops, and to bring the
// component-major force accumulator back into particle-major order.
func Transpose(x []float64, m, n int, y []float64) {
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			y[j*m+i] = x[i*n+j]
		}
	}
}

package distance

// squaredL2Wide and dotProductWide are loop-unrolled-by-8 variants of
// the scalar kernels. The teacher generates a real AVX2 kernel with
// avo (distance/asm/euclidean/euclidean.go, not carried into this
// module); without a toolchain run to produce and verify the
// generated assembly, the GOARCH dispatch files install these unrolled
// pure-Go kernels instead whenever the CPU feature probe succeeds.
// They accumulate into eight partial sums, so their results can differ
// from the scalar kernels by floating-point rounding.
func squaredL2Wide(x, y []float32) float32 {
	n := len(x)
	var s0, s1, s2, s3, s4, s5, s6, s7 float32
	i := 0
	for ; i+8 <= n; i += 8 {
		d0 := x[i] - y[i]
		d1 := x[i+1] - y[i+1]
		d2 := x[i+2] - y[i+2]
		d3 := x[i+3] - y[i+3]
		d4 := x[i+4] - y[i+4]
		d5 := x[i+5] - y[i+5]
		d6 := x[i+6] - y[i+6]
		d7 := x[i+7] - y[i+7]
		s0 += d0 * d0
		s1 += d1 * d1
		s2 += d2 * d2
		s3 += d3 * d3
		s4 += d4 * d4
		s5 += d5 * d5
		s6 += d6 * d6
		s7 += d7 * d7
	}
	sum := s0 + s1 + s2 + s3 + s4 + s5 + s6 + s7
	for ; i < n; i++ {
		d := x[i] - y[i]
		sum += d * d
	}
	return sum
}

func dotProductWide(x, y []float32) float32 {
	n := len(x)
	var s0, s1, s2, s3, s4, s5, s6, s7 float32
	i := 0
	for ; i+8 <= n; i += 8 {
		s0 += x[i] * y[i]
		s1 += x[i+1] * y[i+1]
		s2 += x[i+2] * y[i+2]
		s3 += x[i+3] * y[i+3]
		s4 += x[i+4] * y[i+4]
		s5 += x[i+5] * y[i+5]
		s6 += x[i+6] * y[i+6]
		s7 += x[i+7] * y[i+7]
	}
	sum := s0 + s1 + s2 + s3 + s4 + s5 + s6 + s7
	for ; i < n; i++ {
		sum += x[i] * y[i]
	}
	return sum
}

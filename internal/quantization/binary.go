// Package quantization implements a 1-bit (binary) vector encoding:
// pack each dimension to one bit against a fitted threshold and
// compare packed codes by Hamming distance. Adapted from the teacher's
// on-disk binaryQuantizer (shard/vectorstore/binary.go) into an
// in-memory, build-time-fitted store. It is a standalone utility, not
// wired into pkg/vamana's build or query path (see DESIGN.md): the
// teacher's own quantizer replaces the exact distance function
// outright once fitted, which would break the exactness properties
// RobustPrune and query ranking depend on here.
package quantization

import "math/bits"

// Store packs each vector's dimensions to one bit against a fitted
// threshold (the corpus mean), matching the teacher's encode/Fit
// split into two passes.
type Store struct {
	threshold float32
	fitted    bool
	dim       uint32
	words     int
	codes     [][]uint64 // one packed code per vector id
}

// NewStore allocates a prefilter store for n vectors of dimension d.
// Fit then encodes all n vectors from a row-major slice in one call.
func NewStore(n, d uint32) *Store {
	words := int(d) / 64
	if int(d)%64 != 0 {
		words++
	}
	return &Store{dim: d, words: words, codes: make([][]uint64, n)}
}

// Fit computes the threshold (mean of all components across the
// corpus) and encodes every row into its packed binary code. rows is
// row-major with len(rows) == n*d.
func (s *Store) Fit(n, d uint32, rows []float32) {
	var sum float64
	for _, v := range rows {
		sum += float64(v)
	}
	if len(rows) > 0 {
		s.threshold = float32(sum / float64(len(rows)))
	}
	s.fitted = true
	for i := uint32(0); i < n; i++ {
		row := rows[uint64(i)*uint64(d) : uint64(i+1)*uint64(d)]
		s.codes[i] = s.encode(row)
	}
}

func (s *Store) encode(vector []float32) []uint64 {
	code := make([]uint64, s.words)
	for i, v := range vector {
		if v > s.threshold {
			code[i/64] |= 1 << (63 - uint(i%64))
		}
	}
	return code
}

// Fitted reports whether Fit has been called.
func (s *Store) Fitted() bool { return s.fitted }

// EncodeQuery packs a query vector using the store's fitted threshold,
// for use as the x argument to HammingDistance against stored codes.
func (s *Store) EncodeQuery(query []float32) []uint64 { return s.encode(query) }

// HammingDistance returns the Hamming distance between two packed
// binary codes, used as a cheap proxy ranking signal.
func HammingDistance(x, y []uint64) float32 {
	var dist int
	for i := range x {
		dist += bits.OnesCount64(x[i] ^ y[i])
	}
	return float32(dist)
}

// Code returns the packed binary code for vector id.
func (s *Store) Code(id uint32) []uint64 { return s.codes[id] }

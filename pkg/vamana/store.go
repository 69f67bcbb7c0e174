package vamana

import "math"

// rowAlign is the byte boundary each vector row is padded to so SIMD
// kernels can issue unaligned loads without repeatedly crossing page
// boundaries (spec data model, §3).
const rowAlign = 32

// VectorStore is a single contiguous, 32-byte-row-aligned block of N
// vectors of dimension D, owned once by the Index that built or loaded
// it. It never mutates after construction.
type VectorStore struct {
	data   []float32 // len == N * stride
	n      uint32
	d      uint32
	stride uint32 // elements per row, >= d, padded to rowAlign bytes
}

func strideFor(d uint32) uint32 {
	const floatsPerAlign = rowAlign / 4
	rem := d % floatsPerAlign
	if rem == 0 {
		return d
	}
	return d + (floatsPerAlign - rem)
}

// NewVectorStore allocates storage for n vectors of dimension d and
// copies rows out of a flat, row-major source slice of length n*d.
// It rejects non-finite components at construction time (spec §9: NaN
// is rejected at write time, not read time).
func NewVectorStore(n, d uint32, rows []float32) (*VectorStore, error) {
	if n == 0 {
		return nil, newError("NewVectorStore", KindEmptyCorpus, nil)
	}
	if d == 0 {
		return nil, newError("NewVectorStore", KindInvalidParameter, nil)
	}
	if uint64(len(rows)) != uint64(n)*uint64(d) {
		return nil, newError("NewVectorStore", KindDimensionMismatch, nil)
	}
	for _, v := range rows {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, newError("NewVectorStore", KindInvalidParameter, nil)
		}
	}
	stride := strideFor(d)
	vs := &VectorStore{
		data:   make([]float32, uint64(n)*uint64(stride)),
		n:      n,
		d:      d,
		stride: stride,
	}
	for i := uint32(0); i < n; i++ {
		copy(vs.row(i), rows[uint64(i)*uint64(d):uint64(i+1)*uint64(d)])
	}
	return vs, nil
}

func (vs *VectorStore) row(id uint32) []float32 {
	start := uint64(id) * uint64(vs.stride)
	return vs.data[start : start+uint64(vs.d) : start+uint64(vs.d)]
}

// At returns the vector for id as a read-only slice. The returned
// slice aliases internal storage and must not be retained past the
// lifetime of the store.
func (vs *VectorStore) At(id uint32) []float32 {
	return vs.row(id)
}

func (vs *VectorStore) Len() uint32 { return vs.n }
func (vs *VectorStore) Dim() uint32 { return vs.d }

// Rows returns the store's vectors copied out into a flat, row-major,
// unpadded slice suitable for writing with the vector file format.
func (vs *VectorStore) Rows() []float32 {
	out := make([]float32, uint64(vs.n)*uint64(vs.d))
	for i := uint32(0); i < vs.n; i++ {
		copy(out[uint64(i)*uint64(vs.d):uint64(i+1)*uint64(vs.d)], vs.row(i))
	}
	return out
}

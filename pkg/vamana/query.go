package vamana


// defaultBeamWidth is used by Search when the caller does not specify
// a beam width, matching spec.md §4.7's "default beam width W".
const defaultBeamWidth = 64

// Result is one (id, distance) pair returned by a query.
type Result struct {
	ID       uint32
	Distance float32
}

// Scratch is the reusable query buffer of spec.md §3: a bounded
// frontier and visited set. It is exclusive to a single goroutine for
// the duration of a query; SearchWithBuffer grows it monotonically to
// accommodate the requested beam width rather than reallocating on
// every call.
type Scratch struct {
	ds *DistSet
}

// NewScratch returns an empty, ready-to-use Scratch.
func NewScratch() *Scratch {
	return &Scratch{ds: NewDistSet(defaultBeamWidth)}
}

// Search runs a query with L = max(k, default beam width), allocating
// its own scratch (spec.md §4.7).
func (idx *Index) Search(query []float32, k int) ([]Result, error) {
	return idx.SearchWithBeam(query, k, defaultBeamWidth)
}

// SearchWithBeam runs a query with caller-supplied beam width W,
// allocating its own scratch.
func (idx *Index) SearchWithBeam(query []float32, k int, w int) ([]Result, error) {
	scratch := NewScratch()
	return idx.SearchWithBuffer(query, k, w, scratch)
}

// SearchWithBuffer runs a query reusing the caller-supplied Scratch:
// its frontier and visited set are reset and reused, and the frontier's
// backing storage is grown to w only when it is smaller. The call is
// not allocation-free: each expanded node's neighbor list is copied,
// and the candidate list and the returned results are new slices.
func (idx *Index) SearchWithBuffer(query []float32, k int, w int, scratch *Scratch) ([]Result, error) {
	if uint32(len(query)) != idx.vs.Dim() {
		return nil, newError("Search", KindDimensionMismatch, nil)
	}
	if k < 0 {
		return nil, newError("Search", KindInvalidParameter, nil)
	}
	if k == 0 {
		return nil, nil
	}
	if uint32(k) > idx.vs.Len() {
		k = int(idx.vs.Len())
	}
	if w < k {
		w = k
	}

	scratch.ds.Reset()
	if cap(scratch.ds.items) < w {
		scratch.ds.items = make([]distElem, 0, w)
	}
	greedySearch(idx.vs, idx.g, idx.distFn, query, idx.medoid, w, scratch.ds)

	// Entries() already returns ascending-distance order since DistSet
	// maintains sorted insertion order (§4.3).
	entries := scratch.ds.Entries()
	if len(entries) > k {
		entries = entries[:k]
	}

	out := make([]Result, len(entries))
	for i, e := range entries {
		out[i] = Result{ID: e.id, Distance: e.dist}
	}
	return out, nil
}

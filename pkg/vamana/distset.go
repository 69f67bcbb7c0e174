package vamana

// distElem is one (id, distance) pair tracked by a DistSet, plus
// whether it has already been expanded by greedy search and whether it
// is marked pruned (excluded from Entries). RobustPrune filters its own
// copy of the candidates and does not set pruned.
type distElem struct {
	id       uint32
	dist     float32
	expanded bool
	pruned   bool
}

// less implements the frontier's ordering: ascending distance, ties
// broken by smaller id (spec.md §4.3).
func (a distElem) less(b distElem) bool {
	if a.dist != b.dist {
		return a.dist < b.dist
	}
	return a.id < b.id
}

// DistSet is the bounded candidate frontier used by greedy search (its
// Entries become RobustPrune's candidates during build): an
// ascending-sorted (id, distance) list with
// visited-set de-duplication, grounded on the teacher's
// shard/index/vamana/distset.go DistSet/VisitedMap pair. The roaring
// bitmap / bits-and-blooms bitset variants seen in the retrieved
// teacher source are not present in the teacher's own go.mod (see
// DESIGN.md); this uses a plain map instead, matching the teacher's
// own VisitedMap fallback.
type DistSet struct {
	items   []distElem
	visited map[uint32]struct{}
}

// NewDistSet returns an empty frontier with capacity hints for both
// the backing slice and the visited set.
func NewDistSet(capHint int) *DistSet {
	return &DistSet{
		items:   make([]distElem, 0, capHint),
		visited: make(map[uint32]struct{}, capHint*2),
	}
}

func (ds *DistSet) Len() int { return len(ds.items) }

// Visited reports whether id has already been inserted into this
// frontier at any point in its lifetime (even if later truncated
// away).
func (ds *DistSet) Visited(id uint32) bool {
	_, ok := ds.visited[id]
	return ok
}

// Add inserts (id, dist) in ascending-sorted position if id has not
// been visited before. Reports whether it was inserted.
func (ds *DistSet) Add(id uint32, dist float32) bool {
	if _, ok := ds.visited[id]; ok {
		return false
	}
	ds.visited[id] = struct{}{}
	e := distElem{id: id, dist: dist}
	i := len(ds.items)
	ds.items = append(ds.items, e)
	for i > 0 && e.less(ds.items[i-1]) {
		ds.items[i] = ds.items[i-1]
		i--
	}
	ds.items[i] = e
	return true
}

// Truncate drops entries beyond position l under ascending distance
// (spec.md §4.3 truncate(L)).
func (ds *DistSet) Truncate(l int) {
	if l < len(ds.items) {
		ds.items = ds.items[:l]
	}
}

// PopClosestUnexpanded returns the smallest-distance entry that has
// not yet been expanded and marks it expanded. ok is false once every
// entry has been expanded.
func (ds *DistSet) PopClosestUnexpanded() (id uint32, dist float32, ok bool) {
	for i := range ds.items {
		if !ds.items[i].expanded {
			ds.items[i].expanded = true
			return ds.items[i].id, ds.items[i].dist, true
		}
	}
	return 0, 0, false
}

// Entries returns the frontier's (id, distance) pairs in ascending
// distance order, excluding entries marked pruned.
func (ds *DistSet) Entries() []distElem {
	out := make([]distElem, 0, len(ds.items))
	for _, e := range ds.items {
		if !e.pruned {
			out = append(out, e)
		}
	}
	return out
}

// Reset clears the frontier for reuse without reallocating its
// backing storage, used by the query runtime's reusable Scratch.
func (ds *DistSet) Reset() {
	ds.items = ds.items[:0]
	for k := range ds.visited {
		delete(ds.visited, k)
	}
}

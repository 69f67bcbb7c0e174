package vamana

import "sync"

// node is one adjacency list plus the lock protecting it. Every
// mutation (SetNeighbors, AddEdgeIfRoom) is a single-node critical
// section; build never needs to hold two nodes' locks at once since
// RobustPrune always replaces one node's full list from a read-only
// snapshot of its neighbors, mirroring the teacher's per-node-lock
// discipline.
type node struct {
	mu    sync.RWMutex
	edges []uint32
}

// Graph is a directed graph with one node per vector id and a bounded
// out-degree R. It is mutated only during build and loading; an Index
// exposes no method that changes it.
type Graph struct {
	nodes []node
	r     uint32
}

// NewGraph allocates a graph for n ids with out-degree bound r.
func NewGraph(n, r uint32) *Graph {
	g := &Graph{nodes: make([]node, n), r: r}
	for i := range g.nodes {
		g.nodes[i].edges = make([]uint32, 0, r)
	}
	return g
}

func (g *Graph) Len() uint32    { return uint32(len(g.nodes)) }
func (g *Graph) Degree() uint32 { return g.r }

// Neighbors returns a copy of v's current out-neighbors. A copy is
// returned (not an alias) because greedy search during build may race
// with concurrent mutation of the same adjacency list from another
// worker; this is the "eventual, not serializable" read consistency
// spec.md §4.6/§5 calls for.
func (g *Graph) Neighbors(v uint32) []uint32 {
	n := &g.nodes[v]
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]uint32, len(n.edges))
	copy(out, n.edges)
	return out
}

// SetNeighbors replaces v's adjacency list outright. Used by
// RobustPrune output and by the loader when reconstructing a
// persisted graph. Enforces P1/P2: bounded degree, no self-loop, no
// duplicates.
func (g *Graph) SetNeighbors(v uint32, list []uint32) error {
	if uint32(len(list)) > g.r {
		return newError("SetNeighbors", KindInvalidParameter, nil)
	}
	seen := make(map[uint32]struct{}, len(list))
	for _, w := range list {
		if w == v {
			return newError("SetNeighbors", KindInvalidParameter, nil)
		}
		if _, dup := seen[w]; dup {
			return newError("SetNeighbors", KindInvalidParameter, nil)
		}
		seen[w] = struct{}{}
	}
	n := &g.nodes[v]
	n.mu.Lock()
	defer n.mu.Unlock()
	n.edges = append(n.edges[:0], list...)
	return nil
}

// AddEdgeIfRoom appends w to v's adjacency list if it is not already
// present, even when that takes the degree past R. It reports whether
// the edge was added and the resulting degree, so callers can detect
// overflow and queue v for RobustPrune repair (spec.md §4.2 add_edge).
func (g *Graph) AddEdgeIfRoom(v, w uint32) (added bool, degree int) {
	n := &g.nodes[v]
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, e := range n.edges {
		if e == w {
			return false, len(n.edges)
		}
	}
	n.edges = append(n.edges, w)
	return true, len(n.edges)
}


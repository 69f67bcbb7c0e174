package vamana

import "github.com/vamanadb/vamana/pkg/distance"

// greedySearch implements spec.md §4.4: best-first traversal from
// entry, tracking at most l simultaneously-live candidates in ds.
// ds must be freshly Reset (or new). The vector store and graph are
// read concurrently by many callers; neither is mutated here.
func greedySearch(vs *VectorStore, g *Graph, distFn distance.Func, query []float32, entry uint32, l int, ds *DistSet) {
	entryDist := distFn(query, vs.At(entry))
	ds.Add(entry, entryDist)
	for {
		id, _, ok := ds.PopClosestUnexpanded()
		if !ok {
			break
		}
		for _, nb := range g.Neighbors(id) {
			if ds.Visited(nb) {
				continue
			}
			d := distFn(query, vs.At(nb))
			ds.Add(nb, d)
		}
		ds.Truncate(l)
	}
}

package vamana

import "github.com/vamanadb/vamana/pkg/distance"

// robustPrune implements spec.md §4.5. candidates holds the
// already-computed distances from p to each candidate (duplicates of
// p itself are skipped). It returns a pruned neighbor list of length
// at most r.
func robustPrune(vs *VectorStore, distFn distance.Func, p uint32, candidates []distElem, alpha float32, r uint32) []uint32 {
	c := make([]distElem, 0, len(candidates))
	for _, e := range candidates {
		if e.id != p {
			c = append(c, e)
		}
	}
	sortDistElems(c)

	result := make([]uint32, 0, r)
	for len(c) > 0 && uint32(len(result)) < r {
		closest := c[0]
		result = append(result, closest.id)
		cVec := vs.At(closest.id)

		kept := c[:0]
		for _, rest := range c[1:] {
			// rest.dist is the distance from p to rest, computed by
			// the caller's greedy search pass.
			dClosestRest := distFn(cVec, vs.At(rest.id))
			if alpha*dClosestRest <= rest.dist {
				// rest is eliminated: it is at least alpha times
				// closer to the just-chosen neighbor than it is to
				// p itself ("same direction" as closest).
				continue
			}
			kept = append(kept, rest)
		}
		c = kept
	}
	return result
}

func sortDistElems(s []distElem) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j].less(s[j-1]); j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

package vamana

import (
	"context"
	"math/rand"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vamanadb/vamana/pkg/distance"
)

// maxMedoidSample bounds how many nodes are sampled when picking the
// medoid entry point (spec.md §9 Open Questions: fixed at min(N, 1024)
// since the source's sample size was undocumented).
const maxMedoidSample = 1024

// BuildConfig holds the parameters of a Vamana build, mirroring the
// index metadata fields of spec.md §3.
type BuildConfig struct {
	R        uint32
	LBuild   uint32
	Alpha    float32
	Distance distance.Kind
	Seed     uint64
}

func (c BuildConfig) validate() error {
	if c.R == 0 {
		return newError("Build", KindInvalidParameter, nil)
	}
	if c.LBuild == 0 {
		return newError("Build", KindInvalidParameter, nil)
	}
	if c.Alpha < 1 {
		return newError("Build", KindInvalidParameter, nil)
	}
	return nil
}

// Build runs the two-pass Vamana construction of spec.md §4.6 over
// rows (n vectors of dimension d, row-major) and returns an immutable
// Index.
func Build(ctx context.Context, n, d uint32, rows []float32, cfg BuildConfig) (*Index, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	vs, err := NewVectorStore(n, d, rows)
	if err != nil {
		return nil, err
	}
	distFn, err := distance.GetFunc(cfg.Distance)
	if err != nil {
		return nil, newError("Build", KindInvalidParameter, err)
	}

	g := NewGraph(n, cfg.R)
	medoid := selectMedoid(vs, distFn, cfg.Seed)

	logger := log.With().Str("component", "vamana-builder").Logger()

	if err := runPass(ctx, vs, g, distFn, medoid, cfg, 1.0, logger); err != nil {
		return nil, err
	}
	if err := runPass(ctx, vs, g, distFn, medoid, cfg, cfg.Alpha, logger); err != nil {
		return nil, err
	}

	return &Index{
		vs:     vs,
		g:      g,
		medoid: medoid,
		meta: Metadata{
			N: n, D: d, R: cfg.R, LBuild: cfg.LBuild,
			Alpha: cfg.Alpha, Distance: cfg.Distance,
			Medoid: medoid, Seed: cfg.Seed,
		},
		distFn: distFn,
	}, nil
}

// selectMedoid picks the node whose summed distance to a uniform
// random sample of up to maxMedoidSample nodes is minimal, using a
// PRNG seeded deterministically from cfg.Seed (spec.md §3, §9).
func selectMedoid(vs *VectorStore, distFn distance.Func, seed uint64) uint32 {
	n := vs.Len()
	rng := rand.New(rand.NewSource(int64(seed)))
	sampleSize := int(n)
	if sampleSize > maxMedoidSample {
		sampleSize = maxMedoidSample
	}
	sample := rng.Perm(int(n))[:sampleSize]

	best := uint32(0)
	bestSum := float32(0)
	for i := uint32(0); i < n; i++ {
		var sum float32
		vi := vs.At(i)
		for _, j := range sample {
			sum += distFn(vi, vs.At(uint32(j)))
		}
		if i == 0 || sum < bestSum {
			best = i
			bestSum = sum
		}
	}
	return best
}

// shuffledOrder returns a deterministic PRNG-shuffled permutation of
// [0, n) derived from seed and pass, so pass 1 and pass 2 visit nodes
// in different (but each reproducible) orders.
func shuffledOrder(n uint32, seed uint64, pass int) []uint32 {
	rng := rand.New(rand.NewSource(int64(seed) + int64(pass)*0x9E3779B97F4A7C15))
	perm := rng.Perm(int(n))
	out := make([]uint32, n)
	for i, v := range perm {
		out[i] = uint32(v)
	}
	return out
}

// runPass executes one full pass of spec.md §4.6 over every id in
// shuffled order, fanning work out across a worker pool. Shared state
// (the graph) is protected by per-node locks; every mutation holds a
// single node's lock, so no two locks are ever held together.
// Insertions within a pass are scheduled in parallel, matching
// the teacher's insertUpdateDelete worker-pool shape
// (shard/index/vamana/vamana.go) adapted to a fixed, two-pass
// pipeline instead of an open-ended insert/update/delete stream.
func runPass(ctx context.Context, vs *VectorStore, g *Graph, distFn distance.Func, medoid uint32, cfg BuildConfig, alpha float32, logger zerolog.Logger) error {
	order := shuffledOrder(vs.Len(), cfg.Seed, passIndex(alpha, cfg.Alpha))

	workers := runtime.NumCPU() - 1
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	jobs := make(chan uint32)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case v, ok := <-jobs:
					if !ok {
						return
					}
					buildNode(vs, g, distFn, medoid, cfg, alpha, v)
				}
			}
		}()
	}

feed:
	for _, v := range order {
		select {
		case jobs <- v:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	logger.Debug().Int("pass", passIndex(alpha, cfg.Alpha)).Float32("alpha", alpha).
		Int("nodesVisited", len(order)).Msg("completed vamana build pass")

	return context.Cause(ctx)
}

func passIndex(alpha, configuredAlpha float32) int {
	if alpha == 1.0 && configuredAlpha != 1.0 {
		return 1
	}
	return 2
}

// buildNode runs greedy search + RobustPrune for a single node and
// repairs any back-edges that overflow their target's degree bound,
// per spec.md §4.6.
func buildNode(vs *VectorStore, g *Graph, distFn distance.Func, medoid uint32, cfg BuildConfig, alpha float32, v uint32) {
	ds := NewDistSet(int(cfg.LBuild) * 2)
	greedySearch(vs, g, distFn, vs.At(v), medoid, int(cfg.LBuild), ds)

	candidates := ds.Entries()
	for _, w := range g.Neighbors(v) {
		if !containsElem(candidates, w) {
			d := distFn(vs.At(v), vs.At(w))
			candidates = append(candidates, distElem{id: w, dist: d})
		}
	}

	newNeighbors := robustPrune(vs, distFn, v, candidates, alpha, cfg.R)
	_ = g.SetNeighbors(v, newNeighbors)

	for _, w := range newNeighbors {
		added, degree := g.AddEdgeIfRoom(w, v)
		if added && degree > int(cfg.R) {
			repairOverfull(vs, g, distFn, alpha, cfg.R, w)
		}
	}
}

// repairOverfull re-runs RobustPrune for w against its own current
// neighbor set after a back-edge insertion pushed it over the degree
// bound.
func repairOverfull(vs *VectorStore, g *Graph, distFn distance.Func, alpha float32, r uint32, w uint32) {
	neighbors := g.Neighbors(w)
	candidates := make([]distElem, 0, len(neighbors))
	wVec := vs.At(w)
	for _, id := range neighbors {
		candidates = append(candidates, distElem{id: id, dist: distFn(wVec, vs.At(id))})
	}
	pruned := robustPrune(vs, distFn, w, candidates, alpha, r)
	_ = g.SetNeighbors(w, pruned)
}

func containsElem(s []distElem, id uint32) bool {
	for _, e := range s {
		if e.id == id {
			return true
		}
	}
	return false
}

package vamana

import (
	"github.com/vamanadb/vamana/pkg/distance"
)

// Metadata is the header data persisted alongside an index (spec.md
// §3, §4.8).
type Metadata struct {
	N        uint32
	D        uint32
	R        uint32
	LBuild   uint32
	Alpha    float32
	Distance distance.Kind
	Medoid   uint32
	Seed     uint64
}

// Index is the immutable triple (vector store, graph, metadata) of
// spec.md §3. It is safe for concurrent read-only use by any number of
// query goroutines, each with its own Scratch.
type Index struct {
	vs     *VectorStore
	g      *Graph
	medoid uint32
	meta   Metadata
	distFn distance.Func
}

func (idx *Index) Metadata() Metadata { return idx.meta }
func (idx *Index) Len() uint32        { return idx.vs.Len() }
func (idx *Index) Dim() uint32        { return idx.vs.Dim() }
func (idx *Index) Medoid() uint32     { return idx.medoid }

// Neighbors exposes a node's out-edges, primarily for inspection
// tooling (internal/dumpgraph) and tests asserting P1/P2.
func (idx *Index) Neighbors(v uint32) []uint32 { return idx.g.Neighbors(v) }

// Vectors returns the index's vectors as a flat, row-major,
// unpadded slice, for use by binary I/O (pkg/vecfile).
func (idx *Index) Vectors() []float32 { return idx.vs.Rows() }

// FromParts reconstructs an Index from previously-persisted pieces,
// used by pkg/vecfile when loading an index file. It does not
// re-validate graph invariants (the loader's CRC check already
// guarantees the bytes are exactly what Save wrote).
func FromParts(meta Metadata, vs *VectorStore, g *Graph) (*Index, error) {
	distFn, err := distance.GetFunc(meta.Distance)
	if err != nil {
		return nil, newError("FromParts", KindFormatInvalid, err)
	}
	return &Index{vs: vs, g: g, medoid: meta.Medoid, meta: meta, distFn: distFn}, nil
}

// Graph exposes the underlying graph for the binary-I/O loader/saver.
func (idx *Index) Graph() *Graph { return idx.g }

// VectorStoreOf exposes the underlying vector store for the
// binary-I/O loader/saver.
func (idx *Index) VectorStoreOf() *VectorStore { return idx.vs }

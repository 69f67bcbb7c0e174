// Package abi exposes the engine through a native C ABI (spec.md §6),
// grounded on the teacher's internal/shardpy cgo module but built
// around opaque IndexHandle/ScratchHandle ids and a closed status-code
// enum instead of process-global state and log.Fatal.
//
//go:generate go build -buildmode=c-shared -o libvamana.so abi.go
package main

/*
#include <stdint.h>

typedef struct {
	uint32_t id;
	float distance;
} vamana_result;
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/vamanadb/vamana/pkg/vamana"
	"github.com/vamanadb/vamana/pkg/vecfile"
)

// Status codes mirror the error kinds of spec.md §7.
const (
	statusOK                = 0
	statusDimensionMismatch = 1
	statusEmptyCorpus       = 2
	statusFormatInvalid     = 3
	statusFormatTruncated   = 4
	statusFormatTrailing    = 5
	statusChecksumMismatch  = 6
	statusIOError           = 7
	statusOutOfMemory       = 8
	statusInvalidParameter  = 9
	statusUnknown           = 99
)

func statusFor(err error) C.int {
	switch vamana.KindOf(err) {
	case "":
		return statusUnknown
	case vamana.KindDimensionMismatch:
		return statusDimensionMismatch
	case vamana.KindEmptyCorpus:
		return statusEmptyCorpus
	case vamana.KindFormatInvalid:
		return statusFormatInvalid
	case vamana.KindFormatTruncated:
		return statusFormatTruncated
	case vamana.KindFormatTrailing:
		return statusFormatTrailing
	case vamana.KindChecksumMismatch:
		return statusChecksumMismatch
	case vamana.KindIOError:
		return statusIOError
	case vamana.KindOutOfMemory:
		return statusOutOfMemory
	case vamana.KindInvalidParameter:
		return statusInvalidParameter
	default:
		return statusUnknown
	}
}

// Handles are opaque integer ids into process-local registries rather
// than raw pointers, so the C side never dereferences Go memory
// directly.
var (
	registryMu sync.Mutex
	indices    = map[C.uint64_t]*vamana.Index{}
	scratches  = map[C.uint64_t]*vamana.Scratch{}
	nextHandle C.uint64_t
)

func allocHandle() C.uint64_t {
	nextHandle++
	return nextHandle
}

//export create_index_from_file
func create_index_from_file(path *C.char, out *C.uint64_t) C.int {
	idx, err := vecfile.LoadIndex(C.GoString(path))
	if err != nil {
		return statusFor(err)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	h := allocHandle()
	indices[h] = idx
	*out = h
	return statusOK
}

//export destroy_index
func destroy_index(handle C.uint64_t) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(indices, handle)
}

//export create_scratch
func create_scratch(out *C.uint64_t) C.int {
	registryMu.Lock()
	defer registryMu.Unlock()
	h := allocHandle()
	scratches[h] = vamana.NewScratch()
	*out = h
	return statusOK
}

//export destroy_scratch
func destroy_scratch(handle C.uint64_t) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(scratches, handle)
}

//export search
func search(indexHandle C.uint64_t, queryPtr *C.float, queryDim C.int, k C.int, beam C.int, scratchHandle C.uint64_t, resultsOut *C.vamana_result, resultsLenInout *C.int) C.int {
	registryMu.Lock()
	idx, ok := indices[indexHandle]
	scratch, scratchOK := scratches[scratchHandle]
	registryMu.Unlock()
	if !ok || !scratchOK {
		return statusInvalidParameter
	}

	query := unsafe.Slice((*float32)(unsafe.Pointer(queryPtr)), int(queryDim))
	results, err := idx.SearchWithBuffer(query, int(k), int(beam), scratch)
	if err != nil {
		return statusFor(err)
	}

	capacity := int(*resultsLenInout)
	if len(results) > capacity {
		results = results[:capacity]
	}
	out := unsafe.Slice(resultsOut, capacity)
	for i, r := range results {
		out[i] = C.vamana_result{id: C.uint32_t(r.ID), distance: C.float(r.Distance)}
	}
	*resultsLenInout = C.int(len(results))
	return statusOK
}

// main is required by cgo's c-shared build mode but is never invoked.
func main() {}

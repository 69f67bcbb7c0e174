// Command dumpgraph prints the adjacency list of every node in a built
// index file, one line per node as "id,edge1,edge2,...". Adapted from
// the teacher's internal/dumpGraph tool, which read a bbolt-backed
// graph bucket; this reads the flat index file format instead.
//
// Run using:
//
//	go run ./internal/dumpgraph -path /path/to/index.bin
package main

import (
	"flag"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/vamanadb/vamana/pkg/vecfile"
)

func main() {
	var path string
	flag.StringVar(&path, "path", "", "path to the index file")
	flag.Parse()
	log.Info().Str("path", path).Msg("starting dumpgraph")

	idx, err := vecfile.LoadIndex(path)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load index")
	}

	for v := uint32(0); v < idx.Len(); v++ {
		fmt.Printf("%d", v)
		for _, edge := range idx.Neighbors(v) {
			fmt.Printf(",%d", edge)
		}
		fmt.Printf("\n")
	}
}

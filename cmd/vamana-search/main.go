// Command vamana-search answers k-nearest-neighbor queries against a
// built Vamana index. The default beam width comes from
// config.DefaultSearchConfig() (VAMANA_BEAM_WIDTH), overridable with
// -beam (SPEC_FULL.md §2.3).
//
// Run using:
//
//	go run ./cmd/vamana-search -index index.bin -query queries.bin -k 10
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/vamanadb/vamana/config"
	"github.com/vamanadb/vamana/pkg/vamana"
	"github.com/vamanadb/vamana/pkg/vecfile"
)

const (
	exitOK             = 0
	exitUsageError     = 2
	exitIOError        = 3
	exitFormatError    = 4
	exitDimensionError = 5
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	var (
		indexPath string
		queryPath string
		k         uint
		beam      uint
		outPath   string
	)
	fs.StringVar(&indexPath, "index", "", "path to the built index file")
	fs.StringVar(&queryPath, "query", "", "path to a vector file of query vectors")
	fs.UintVar(&k, "k", 10, "number of nearest neighbors to return")
	fs.UintVar(&beam, "beam", uint(config.DefaultSearchConfig().DefaultBeamWidth), "beam width (0 = index default)")
	fs.StringVar(&outPath, "output", "", "optional CSV output path; defaults to stdout")
	if err := fs.Parse(args); err != nil {
		return exitUsageError
	}
	if indexPath == "" || queryPath == "" {
		fmt.Fprintln(os.Stderr, "search: -index and -query are required")
		return exitUsageError
	}

	idx, err := vecfile.LoadIndex(indexPath)
	if err != nil {
		return reportAndExit("search", err)
	}

	qn, qd, queries, err := vecfile.ReadVectors(queryPath)
	if err != nil {
		return reportAndExit("search", err)
	}
	if qd != idx.Dim() {
		return reportAndExit("search", &vamana.Error{Kind: vamana.KindDimensionMismatch, Op: "search"})
	}

	w := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return reportAndExit("search", &vamana.Error{Kind: vamana.KindIOError, Op: "search", Err: err})
		}
		defer f.Close()
		w = f
	}
	csvw := csv.NewWriter(w)
	defer csvw.Flush()

	scratch := vamana.NewScratch()
	beamWidth := int(beam)
	for i := uint32(0); i < qn; i++ {
		query := queries[uint64(i)*uint64(qd) : uint64(i+1)*uint64(qd)]
		var results []vamana.Result
		if beamWidth > 0 {
			results, err = idx.SearchWithBuffer(query, int(k), beamWidth, scratch)
		} else {
			results, err = idx.Search(query, int(k))
		}
		if err != nil {
			return reportAndExit("search", err)
		}
		for _, r := range results {
			csvw.Write([]string{
				strconv.FormatUint(uint64(i), 10),
				strconv.FormatUint(uint64(r.ID), 10),
				strconv.FormatFloat(float64(r.Distance), 'g', -1, 32),
			})
		}
	}

	log.Info().Uint32("queries", qn).Uint("k", k).Msg("search complete")
	return exitOK
}

func reportAndExit(op string, err error) int {
	fmt.Fprintf(os.Stderr, "%s: %v\n", op, err)
	switch vamana.KindOf(err) {
	case vamana.KindDimensionMismatch:
		return exitDimensionError
	case vamana.KindFormatInvalid, vamana.KindFormatTruncated, vamana.KindFormatTrailing, vamana.KindChecksumMismatch:
		return exitFormatError
	case vamana.KindIOError:
		return exitIOError
	case vamana.KindInvalidParameter, vamana.KindEmptyCorpus:
		return exitUsageError
	default:
		return exitIOError
	}
}

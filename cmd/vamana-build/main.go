// Command vamana-build constructs a Vamana index from a vector file.
// Flag defaults come from config.DefaultBuildConfig(), which in turn
// reads VAMANA_MAX_DEGREE/VAMANA_SEARCH_LIST_SIZE/VAMANA_DISTANCE/
// VAMANA_SEED from the environment, or from the YAML file named by
// VAMANA_BUILD_CONFIG when that variable is set (SPEC_FULL.md §2.3).
// Flags passed on the command line always take precedence.
//
// Run using:
//
//	go run ./cmd/vamana-build -input vectors.bin -output index.bin
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/vamanadb/vamana/config"
	"github.com/vamanadb/vamana/pkg/distance"
	"github.com/vamanadb/vamana/pkg/vamana"
	"github.com/vamanadb/vamana/pkg/vecfile"
)

// Exit codes per SPEC_FULL.md §1 / spec.md §6.
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
	cfg := config.DefaultBuildConfig()
	if path, ok := os.LookupEnv(config.VAMANA_BUILD_CONFIG); ok {
		loaded, err := config.LoadBuildConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "build: failed to load %s: %v\n", path, err)
			return exitUsageError
		}
		cfg = loaded
	}

	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	var (
		input      string
		output     string
		maxDegree  uint
		searchList uint
		alpha      float64
		seed       uint64
		distName   string
	)
	fs.StringVar(&input, "input", "", "path to the input vector file")
	fs.StringVar(&output, "output", "", "path to write the built index file")
	fs.UintVar(&maxDegree, "max-degree", uint(cfg.MaxDegree), "maximum out-degree R")
	fs.UintVar(&searchList, "search-list-size", uint(cfg.SearchListSize), "greedy search list size L_build")
	fs.Float64Var(&alpha, "alpha", float64(cfg.Alpha), "RobustPrune diversity parameter")
	fs.Uint64Var(&seed, "seed", cfg.Seed, "PRNG seed for medoid selection and build order")
	fs.StringVar(&distName, "distance", cfg.Distance, "distance kind: l2, ip, or cosine")
	if err := fs.Parse(args); err != nil {
		return exitUsageError
	}
	if input == "" || output == "" {
		fmt.Fprintln(os.Stderr, "build: -input and -output are required")
		return exitUsageError
	}

	n, d, rows, err := vecfile.ReadVectors(input)
	if err != nil {
		return reportAndExit("build", err)
	}

	idx, err := vamana.Build(context.Background(), n, d, rows, vamana.BuildConfig{
		R:        uint32(maxDegree),
		LBuild:   uint32(searchList),
		Alpha:    float32(alpha),
		Distance: distance.Kind(distName),
		Seed:     seed,
	})
	if err != nil {
		return reportAndExit("build", err)
	}

	if err := vecfile.SaveIndex(output, idx); err != nil {
		return reportAndExit("build", err)
	}

	log.Info().Uint32("n", n).Uint32("d", d).Str("output", output).Msg("build complete")
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

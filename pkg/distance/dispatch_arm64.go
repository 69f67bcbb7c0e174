package distance

import (
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/cpu"
)

// init gates the unrolled kernels on NEON support, which is effectively
// always true on arm64 but is still probed for parity with the amd64
// dispatch structure.
func init() {
	if cpu.ARM64.HasASIMD {
		log.Info().Str("GOARCH", runtime.GOARCH).Msg("using wide kernels for dot and squared L2 distance")
		dotProductImpl = dotProductWide
		squaredL2Impl = squaredL2Wide
	} else {
		log.Warn().Str("GOARCH", runtime.GOARCH).Msg("no ASIMD support, falling back to scalar distance kernels")
	}
}

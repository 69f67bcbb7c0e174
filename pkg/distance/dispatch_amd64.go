package distance

import (
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/cpu"
)

// init overrides the scalar kernels with the unrolled variants when the
// CPU supports the instruction sets the teacher's AVX2 kernel would
// require. The file name's _amd64 suffix means it only builds on
// amd64; see dispatch_arm64.go for the NEON-gated counterpart.
func init() {
	if cpu.X86.HasAVX2 && cpu.X86.HasFMA && cpu.X86.HasSSE3 {
		log.Info().Str("GOARCH", runtime.GOARCH).Msg("using wide kernels for dot and squared L2 distance")
		dotProductImpl = dotProductWide
		squaredL2Impl = squaredL2Wide
	} else {
		log.Warn().Str("GOARCH", runtime.GOARCH).Msg("no AVX2/FMA/SSE3 support, falling back to scalar distance kernels")
	}
}

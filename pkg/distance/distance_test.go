package distance

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPureDotProduct(t *testing.T) {
	x := []float32{1, 2, 3}
	y := []float32{4, 5, 6}
	assert.Equal(t, float32(32), dotProductPureGo(x, y))
}

func TestWideDotProduct(t *testing.T) {
	x := []float32{1, 2, 3}
	y := []float32{4, 5, 6}
	assert.Equal(t, float32(32), dotProductWide(x, y))
}

func TestPureSquaredL2(t *testing.T) {
	x := []float32{1, 2, 3}
	y := []float32{4, 5, 6}
	assert.Equal(t, float32(27), squaredL2PureGo(x, y))
}

func TestWideSquaredL2(t *testing.T) {
	x := []float32{1, 2, 3}
	y := []float32{4, 5, 6}
	assert.Equal(t, float32(27), squaredL2Wide(x, y))
}

func TestWideMatchesPureAcrossSizes(t *testing.T) {
	for _, n := range []int{1, 3, 7, 8, 9, 16, 17, 100, 769} {
		x := randVector(n)
		y := randVector(n)
		assert.InDelta(t, squaredL2PureGo(x, y), squaredL2Wide(x, y), 1e-2, "n=%d", n)
		assert.InDelta(t, dotProductPureGo(x, y), dotProductWide(x, y), 1e-2, "n=%d", n)
	}
}

func TestGetFunc(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		x, y []float32
		want float32
	}{
		{"l2", L2, []float32{1, 2, 3}, []float32{4, 5, 6}, 27},
		{"ip", IP, []float32{1, 2, 3}, []float32{4, 5, 6}, -32},
		{"cosine same direction", Cosine, []float32{1, 0}, []float32{1, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := GetFunc(tt.kind)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, fn(tt.x, tt.y), 1e-6)
		})
	}
}

func TestGetFuncUnknown(t *testing.T) {
	_, err := GetFunc(Kind("nope"))
	assert.Error(t, err)
}

func randVector(size int) []float32 {
	vector := make([]float32, size)
	for i := 0; i < size; i++ {
		vector[i] = rand.Float32()
	}
	return vector
}

var benchTable = []struct {
	name string
	fn   Func
}{
	{"PureDotProduct", dotProductPureGo},
	{"WideDotProduct", dotProductWide},
	{"PureSquaredL2", squaredL2PureGo},
	{"WideSquaredL2", squaredL2Wide},
}

var benchSizes = []int{768, 1536}

func BenchmarkDist(b *testing.B) {
	for _, size := range benchSizes {
		for _, bench := range benchTable {
			x := randVector(size)
			y := randVector(size)
			runName := fmt.Sprintf("%s-%d", bench.name, size)
			b.Run(runName, func(b *testing.B) {
				for i := 0; i < b.N; i++ {
					bench.fn(x, y)
				}
			})
		}
	}
}

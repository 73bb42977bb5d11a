package index

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeVector(t *testing.T) {
	t.Run("unit length", func(t *testing.T) {
		v := NormalizeVector([]float32{3, 4})
		require.Len(t, v, 2)
		assert.InDelta(t, 0.6, v[0], 1e-6)
		assert.InDelta(t, 0.8, v[1], 1e-6)
	})

	t.Run("zero vector stays zero", func(t *testing.T) {
		v := NormalizeVector([]float32{0, 0, 0})
		assert.Equal(t, []float32{0, 0, 0}, v)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, NormalizeVector(nil))
	})

	t.Run("does not mutate input", func(t *testing.T) {
		in := []float32{3, 4}
		NormalizeVector(in)
		assert.Equal(t, []float32{3, 4}, in)
	})
}

func TestDotProduct(t *testing.T) {
	t.Run("identical unit vectors score one", func(t *testing.T) {
		v := NormalizeVector([]float32{1, 2, 2})
		assert.InDelta(t, 1.0, float64(DotProduct(v, v)), 1e-6)
	})

	t.Run("orthogonal vectors score zero", func(t *testing.T) {
		assert.InDelta(t, 0.0, float64(DotProduct([]float32{1, 0}, []float32{0, 1})), 1e-6)
	})

	t.Run("dimension mismatch scores zero", func(t *testing.T) {
		assert.Equal(t, float32(0), DotProduct([]float32{1, 2}, []float32{1}))
	})
}

func TestNormalizeMagnitude(t *testing.T) {
	v := NormalizeVector([]float32{0.3, -1.2, 4.5, 0.01})
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

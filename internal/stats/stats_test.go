package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 3.0, Mean([]float64{1, 2, 3, 4, 5}))
	assert.Equal(t, 108.0, Mean([]float64{100, 110, 95, 130, 105}))
}

func TestPopStdDev(t *testing.T) {
	assert.Equal(t, 0.0, PopStdDev(nil))
	assert.Equal(t, 0.0, PopStdDev([]float64{7, 7, 7}))

	// deviations [-8, 2, -13, 22, -3], sum of squares 730, /5 = 146
	assert.InDelta(t, 12.083045973594572, PopStdDev([]float64{100, 110, 95, 130, 105}), 1e-12)
}

func TestMinMax(t *testing.T) {
	minV, maxV := MinMax([]float64{3, -1, 7, 2})
	assert.Equal(t, -1.0, minV)
	assert.Equal(t, 7.0, maxV)

	minV, maxV = MinMax(nil)
	assert.Equal(t, 0.0, minV)
	assert.Equal(t, 0.0, maxV)
}

func TestPearson(t *testing.T) {
	t.Run("perfect positive", func(t *testing.T) {
		x := []float64{1, 2, 3, 4, 5}
		y := []float64{10, 20, 30, 40, 50}
		assert.InDelta(t, 1.0, Pearson(x, y), 1e-12)
	})

	t.Run("perfect negative", func(t *testing.T) {
		x := []float64{1, 2, 3, 4, 5}
		y := []float64{50, 40, 30, 20, 10}
		assert.InDelta(t, -1.0, Pearson(x, y), 1e-12)
	})

	t.Run("zero variance side", func(t *testing.T) {
		assert.Equal(t, 0.0, Pearson([]float64{1, 2, 3}, []float64{5, 5, 5}))
	})

	t.Run("mismatched lengths", func(t *testing.T) {
		assert.Equal(t, 0.0, Pearson([]float64{1, 2}, []float64{1, 2, 3}))
	})

	t.Run("invariant under standardization", func(t *testing.T) {
		x := []float64{10, 12, 9, 15, 11}
		y := []float64{100, 110, 95, 130, 105}
		raw := Pearson(x, y)

		meanY := Mean(y)
		stdY := PopStdDev(y)
		z := make([]float64, len(y))
		for i, v := range y {
			z[i] = (v - meanY) / stdY
		}
		assert.InDelta(t, raw, Pearson(x, z), 1e-12)
	})
}

func TestHistogram(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, Histogram(nil, 10))
		assert.Nil(t, Histogram([]float64{1}, 0))
	})

	t.Run("degenerate range", func(t *testing.T) {
		bins := Histogram([]float64{4, 4, 4}, 5)
		assert.Len(t, bins, 1)
		assert.Equal(t, 3, bins[0].Count)
	})

	t.Run("counts sum to input size", func(t *testing.T) {
		values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
		bins := Histogram(values, 4)
		assert.Len(t, bins, 4)

		total := 0
		for _, b := range bins {
			total += b.Count
		}
		assert.Equal(t, len(values), total)
	})

	t.Run("NaN values are ignored", func(t *testing.T) {
		values := []float64{1, math.NaN(), 2, 3, math.NaN(), 4}
		bins := Histogram(values, 2)
		require.Len(t, bins, 2)

		total := 0
		for _, b := range bins {
			total += b.Count
		}
		assert.Equal(t, 4, total)
	})

	t.Run("all NaN yields nil", func(t *testing.T) {
		assert.Nil(t, Histogram([]float64{math.NaN(), math.NaN()}, 5))
	})

	t.Run("maximum lands in last bin", func(t *testing.T) {
		bins := Histogram([]float64{0, 1, 2, 3, 4}, 2)
		assert.Equal(t, 4.0, bins[1].High)
		assert.Equal(t, 2, bins[0].Count) // 0, 1
		assert.Equal(t, 3, bins[1].Count) // 2, 3, and the max value 4
	})
}

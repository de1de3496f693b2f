package simulation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 2, 3}))
	assert.Equal(t, 7.0, median([]float64{7}))
	assert.True(t, math.IsNaN(median(nil)))
}

func TestPercentileInterpolation(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50}

	assert.Equal(t, 10.0, percentile(values, 0))
	assert.Equal(t, 50.0, percentile(values, 100))
	assert.Equal(t, 30.0, percentile(values, 50))
	// rank 0.025*4 = 0.1: 10 + 0.1*(20-10).
	assert.InDelta(t, 11.0, percentile(values, 2.5), 1e-9)
	assert.InDelta(t, 49.0, percentile(values, 97.5), 1e-9)
}

func TestPercentileUnsortedInput(t *testing.T) {
	values := []float64{50, 10, 40, 20, 30}
	assert.Equal(t, 30.0, percentile(values, 50))
	// The input slice itself stays untouched.
	assert.Equal(t, []float64{50, 10, 40, 20, 30}, values)
}

func TestStatsEmptySample(t *testing.T) {
	assert.True(t, math.IsNaN(mean(nil)))
	assert.True(t, math.IsNaN(percentile(nil, 50)))
}

func TestMeanMatchesArithmeticAverage(t *testing.T) {
	assert.InDelta(t, 2.0, mean([]float64{1, 2, 3}), 1e-12)
}

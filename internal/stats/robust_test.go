package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, Median(nil))
	assert.Equal(t, 3.0, Median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 2, 3}))
}

func TestMAD(t *testing.T) {
	m, mad := MAD([]float64{1, 1, 2, 2, 4, 6, 9})
	assert.Equal(t, 2.0, m)
	assert.Equal(t, 1.0, mad)

	// A single huge outlier barely moves the scale estimate.
	_, madOutlier := MAD([]float64{1, 1, 2, 2, 4, 6, 1000})
	assert.Equal(t, 1.0, madOutlier)

	m, mad = MAD(nil)
	assert.Equal(t, 0.0, m)
	assert.Equal(t, 0.0, mad)
}

func TestRMS(t *testing.T) {
	assert.Equal(t, 0.0, RMS(nil))
	assert.InDelta(t, 5.0, RMS([]float64{5, -5, 5, -5}), 1e-9)
	assert.InDelta(t, 3.5355339, RMS([]float64{3, -4}), 1e-6)
}

func TestQuantile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, 1.0, Quantile(values, 0))
	assert.Equal(t, 10.0, Quantile(values, 1))
	assert.InDelta(t, 5.5, Quantile(values, 0.5), 1e-9)
	assert.InDelta(t, 6.94, Quantile(values, 0.66), 1e-9)

	// Out-of-range quantiles clamp.
	assert.Equal(t, 1.0, Quantile(values, -0.5))
	assert.Equal(t, 10.0, Quantile(values, 1.5))
}

func TestPercentile(t *testing.T) {
	values := []float64{10, 20, 30, 40}
	assert.InDelta(t, 25.0, Percentile(values, 50), 1e-9)
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
}

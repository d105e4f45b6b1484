package outcome

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredAverageCalculatorDefaults(t *testing.T) {
	required, err := RequiredAverage(8.18, 4, 8.5, 4)
	require.NoError(t, err)
	assert.InDelta(t, 8.82, required, 1e-9)
}

func TestRequiredAverageRoundTrip(t *testing.T) {
	currents := []float64{0, 5.5, 7.25, 8.18, 9.9}
	requireds := []float64{-1, 0, 6.4, 8.82, 10, 12.5}
	for _, current := range currents {
		for completed := 0; completed <= 8; completed++ {
			for remaining := 1; remaining <= 8; remaining++ {
				for _, want := range requireds {
					target := (current*float64(completed) + want*float64(remaining)) / float64(completed+remaining)
					got, err := RequiredAverage(current, completed, target, remaining)
					require.NoError(t, err)
					assert.InDelta(t, want, got, 1e-9)
				}
			}
		}
	}
}

func TestRequiredAverageIsNotClamped(t *testing.T) {
	required, err := RequiredAverage(6.0, 6, 9.5, 2)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, required, 1e-9)

	required, err = RequiredAverage(9.0, 6, 7.0, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, required, 1e-9)
}

func TestRequiredAverageRejectsInvalidInput(t *testing.T) {
	_, err := RequiredAverage(8, 4, 8.5, 0)
	requirePrecondition(t, err, "remaining")

	_, err = RequiredAverage(8, 4, 8.5, -2)
	requirePrecondition(t, err, "remaining")

	_, err = RequiredAverage(8, -1, 8.5, 2)
	requirePrecondition(t, err, "completed")

	_, err = RequiredAverage(math.NaN(), 4, 8.5, 2)
	requirePrecondition(t, err, "current")

	_, err = RequiredAverage(8, 4, math.Inf(1), 2)
	requirePrecondition(t, err, "target")
}

func TestCumulativeAverages(t *testing.T) {
	got := CumulativeAverages([]float64{8.2, 7.9, 8.5, 8.1})
	require.Len(t, got, 4)
	assert.InDelta(t, 8.2, got[0], 1e-9)
	assert.InDelta(t, 8.05, got[1], 1e-9)
	assert.InDelta(t, 8.2, got[2], 1e-9)
	assert.InDelta(t, 8.175, got[3], 1e-9)
	assert.Empty(t, CumulativeAverages(nil))
}

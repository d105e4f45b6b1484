package outcome

import "math"

// RequiredAverage returns the average needed over the remaining periods for
// the unweighted cumulative mean of all periods to equal target.
//
// The result is not clamped: a value above the grading scale means the target
// is unreachable and a value at or below zero means it is already secured.
func RequiredAverage(current float64, completed int, target float64, remaining int) (float64, error) {
	if remaining <= 0 {
		return 0, invalid("remaining", "must be greater than zero")
	}
	if completed < 0 {
		return 0, invalid("completed", "must not be negative")
	}
	if !finite(current) {
		return 0, invalid("current", "must be a finite number")
	}
	if !finite(target) {
		return 0, invalid("target", "must be a finite number")
	}
	total := float64(completed + remaining)
	return (target*total - current*float64(completed)) / float64(remaining), nil
}

// CumulativeAverages returns the running unweighted mean after each period.
func CumulativeAverages(periodAverages []float64) []float64 {
	out := make([]float64, len(periodAverages))
	var sum float64
	for i, avg := range periodAverages {
		sum += avg
		out[i] = sum / float64(i+1)
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

package outcome

// Comparison places a score relative to its cohort average.
type Comparison string

const (
	ComparisonAbove Comparison = "Above"
	ComparisonEqual Comparison = "Equal"
	ComparisonBelow Comparison = "Below"
)

// Compare uses exact equality for the Equal case. Scores derived from further
// arithmetic may never compare Equal.
func Compare(score, cohortAverage float64) Comparison {
	switch {
	case score > cohortAverage:
		return ComparisonAbove
	case score < cohortAverage:
		return ComparisonBelow
	default:
		return ComparisonEqual
	}
}

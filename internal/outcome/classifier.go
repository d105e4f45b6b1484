package outcome

// Tier is the attendance safety tier.
type Tier string

const (
	TierSafe       Tier = "Safe"
	TierBorderline Tier = "Borderline"
	TierCritical   Tier = "Critical"
)

// Policy thresholds, in percent. They apply to every subject alike.
const (
	SafeThreshold       = 75.0
	BorderlineThreshold = 70.0
)

// Classify maps an attendance percentage to its safety tier. It is defined
// for every input; values outside 0..100 (and NaN) still land in a tier even
// though they indicate malformed upstream data.
func Classify(percent float64) Tier {
	switch {
	case percent >= SafeThreshold:
		return TierSafe
	case percent >= BorderlineThreshold:
		return TierBorderline
	default:
		return TierCritical
	}
}

// AtRisk reports whether the tier is below Safe.
func (t Tier) AtRisk() bool {
	return t != TierSafe
}

package outcome

import "math"

// MaxProjectedMisses bounds the hypothetical run of missed sessions a
// projection may model; longer runs stop being meaningful within one term.
const MaxProjectedMisses = 10

// Projection is the attendance outlook after a run of missed sessions.
type Projection struct {
	Attended int `json:"attended"`
	Held     int `json:"held"`
	Missed   int `json:"missed"`
	// Ratio is attended / (held + missed) as an unrounded percentage.
	Ratio float64 `json:"ratio"`
	// Percent is Ratio rounded half away from zero.
	Percent int  `json:"percent"`
	Tier    Tier `json:"tier"`
}

// Ratio returns attended / held as a percentage.
func Ratio(attended, held int) (float64, error) {
	if err := validateCounts(attended, held); err != nil {
		return 0, err
	}
	if held == 0 {
		return 0, invalid("held", "must be greater than zero")
	}
	return percentage(attended, held), nil
}

// Predict projects the attendance percentage if the next missed sessions are
// all skipped. Percent is rounded to a whole number for display; the tier is
// taken from the exact ratio, so Predict(a, h, 0) always agrees with
// Classify on the record itself.
func Predict(attended, held, missed int) (Projection, error) {
	if err := validateCounts(attended, held); err != nil {
		return Projection{}, err
	}
	if missed < 0 {
		return Projection{}, invalid("missed", "must not be negative")
	}
	if missed > MaxProjectedMisses {
		return Projection{}, invalid("missed", "must not exceed 10")
	}
	if held > math.MaxInt-missed {
		return Projection{}, invalid("held", "is too large")
	}
	total := held + missed
	if total == 0 {
		return Projection{}, invalid("held", "plus missed must be greater than zero")
	}
	ratio := percentage(attended, total)
	return Projection{
		Attended: attended,
		Held:     held,
		Missed:   missed,
		Ratio:    ratio,
		Percent:  int(math.Round(ratio)),
		Tier:     Classify(ratio),
	}, nil
}

// ProjectRange returns projections for every miss count from 0 to
// MaxProjectedMisses inclusive.
func ProjectRange(attended, held int) ([]Projection, error) {
	out := make([]Projection, 0, MaxProjectedMisses+1)
	for k := 0; k <= MaxProjectedMisses; k++ {
		p, err := Predict(attended, held, k)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// maxRecoveryHeld keeps 4*held within int for the closed forms below.
const maxRecoveryHeld = math.MaxInt / 4

// SessionsToRecover returns how many consecutive attended sessions are needed
// before the ratio reaches the Safe threshold. Zero means the record is
// already Safe.
func SessionsToRecover(attended, held int) (int, error) {
	if err := validateRecovery(attended, held); err != nil {
		return 0, err
	}
	// SafeThreshold is 3/4: (a+n)/(h+n) >= 3/4  <=>  n >= 3h - 4a
	n := 3*held - 4*attended
	if n < 0 {
		return 0, nil
	}
	return n, nil
}

// SafeMissBudget returns how many further sessions can be missed while the
// ratio stays Safe. A record that is not Safe has a budget of 0.
func SafeMissBudget(attended, held int) (int, error) {
	if err := validateRecovery(attended, held); err != nil {
		return 0, err
	}
	// a/(h+n) >= 3/4  <=>  n <= (4a - 3h) / 3
	surplus := 4*attended - 3*held
	if surplus <= 0 {
		return 0, nil
	}
	return surplus / 3, nil
}

func validateRecovery(attended, held int) error {
	if err := validateCounts(attended, held); err != nil {
		return err
	}
	if held == 0 {
		return invalid("held", "must be greater than zero")
	}
	if held > maxRecoveryHeld {
		return invalid("held", "is too large")
	}
	return nil
}

// Totals holds summed attendance over several records.
type Totals struct {
	Attended int `json:"attended"`
	Held     int `json:"held"`
}

// Add accumulates one record's counts. Attended never exceeds held, so
// guarding the held sum covers both.
func (t Totals) Add(attended, held int) (Totals, error) {
	if err := validateCounts(attended, held); err != nil {
		return t, err
	}
	if held > math.MaxInt-t.Held {
		return t, invalid("held", "is too large")
	}
	return Totals{Attended: t.Attended + attended, Held: t.Held + held}, nil
}

// Overall classifies summed attendance as if it were one record.
func Overall(t Totals) (Projection, error) {
	return Predict(t.Attended, t.Held, 0)
}

func validateCounts(attended, held int) error {
	if held < 0 {
		return invalid("held", "must not be negative")
	}
	if attended < 0 {
		return invalid("attended", "must not be negative")
	}
	if attended > held {
		return invalid("attended", "must not exceed held")
	}
	return nil
}

func percentage(part, whole int) float64 {
	return float64(part) / float64(whole) * 100
}

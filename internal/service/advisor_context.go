package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/sma-pulse-api/internal/dto"
	"github.com/noah-isme/sma-pulse-api/internal/models"
	"github.com/noah-isme/sma-pulse-api/internal/outcome"
)

// SubjectContextLine renders one standing as plain text for the advisor,
// e.g. "Data Structures (CS202): attendance 75%, Safe, score 68 below cohort 75".
func SubjectContextLine(st dto.SubjectStanding) string {
	var attendance string
	if st.NoSessions || st.Percent == nil {
		attendance = "no sessions held yet"
	} else {
		attendance = fmt.Sprintf("attendance %d%%, %s", *st.Percent, st.Tier)
	}
	return fmt.Sprintf("%s (%s): %s, score %s %s cohort %s",
		st.Name, st.Code, attendance, formatScore(st.Score), comparisonPhrase(st.Comparison), formatScore(st.CohortAverage))
}

type advisorContext struct {
	student   models.StudentProfile
	history   []models.PerformanceHistoryEntry
	overall   *dto.OverallAttendance
	standings []dto.SubjectStanding
	pending   []models.AssignmentRecord
}

func (a advisorContext) String() string {
	var b strings.Builder
	if a.student.Name != "" {
		fields := []string{a.student.Name}
		for _, f := range []string{a.student.Programme, a.student.Term, a.student.Institute} {
			if f != "" {
				fields = append(fields, f)
			}
		}
		fmt.Fprintf(&b, "Student: %s\n", strings.Join(fields, ", "))
	}
	if n := len(a.history); n > 0 {
		fmt.Fprintf(&b, "Cumulative average: %s after %d terms (%s)\n",
			formatScore(a.history[n-1].CumulativeAverage), n, trajectory(a.history))
	}
	if a.overall != nil && a.overall.Percent != nil {
		fmt.Fprintf(&b, "Overall attendance: %d%%, %s\n", *a.overall.Percent, a.overall.Tier)
	}
	for _, st := range a.standings {
		b.WriteString(SubjectContextLine(st))
		b.WriteByte('\n')
	}
	if len(a.pending) > 0 {
		titles := make([]string, 0, len(a.pending))
		for _, p := range a.pending {
			titles = append(titles, fmt.Sprintf("%s due %s (%s%%)", p.Title, p.DueDate, formatScore(p.Weight)))
		}
		fmt.Fprintf(&b, "Pending assignments: %s\n", strings.Join(titles, "; "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func comparisonPhrase(c outcome.Comparison) string {
	switch c {
	case outcome.ComparisonAbove:
		return "above"
	case outcome.ComparisonBelow:
		return "below"
	default:
		return "equal to"
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

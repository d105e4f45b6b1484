package dto

import (
	"github.com/noah-isme/sma-pulse-api/internal/models"
	"github.com/noah-isme/sma-pulse-api/internal/outcome"
)

// SubjectStanding is one subject's attendance and grade outcome.
type SubjectStanding struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Professor string `json:"professor,omitempty"`
	Attended  int    `json:"attended"`
	Held      int    `json:"held"`
	// NoSessions is set when nothing has been held yet; ratio fields are then omitted.
	NoSessions        bool               `json:"noSessions"`
	Ratio             *float64           `json:"ratio,omitempty"`
	Percent           *int               `json:"percent,omitempty"`
	Tier              outcome.Tier       `json:"tier,omitempty"`
	AtRisk            bool               `json:"atRisk"`
	SafeMissBudget    int                `json:"safeMissBudget"`
	SessionsToRecover int                `json:"sessionsToRecover"`
	Score             float64            `json:"score"`
	CohortAverage     float64            `json:"cohortAverage"`
	Comparison        outcome.Comparison `json:"comparison"`
}

// ProjectionTable lists projections for a subject over a range of missed sessions.
type ProjectionTable struct {
	SubjectID   string               `json:"subjectId"`
	Projections []outcome.Projection `json:"projections"`
}

// OverallAttendance aggregates attendance across all subjects.
type OverallAttendance struct {
	Attended     int          `json:"attended"`
	Held         int          `json:"held"`
	NoSessions   bool         `json:"noSessions"`
	Ratio        *float64     `json:"ratio,omitempty"`
	Percent      *int         `json:"percent,omitempty"`
	Tier         outcome.Tier `json:"tier,omitempty"`
	SubjectCount int          `json:"subjectCount"`
	AtRiskCount  int          `json:"atRiskCount"`
	AverageScore float64      `json:"averageScore"`
}

// ClassifyResponse is the tier for a supplied ratio.
type ClassifyResponse struct {
	Ratio  float64      `json:"ratio"`
	Tier   outcome.Tier `json:"tier"`
	AtRisk bool         `json:"atRisk"`
}

// CompareResponse is the cohort comparison for a supplied score.
type CompareResponse struct {
	Score         float64            `json:"score"`
	CohortAverage float64            `json:"cohortAverage"`
	Comparison    outcome.Comparison `json:"comparison"`
}

// GoalResponse reports the average needed over the remaining terms.
type GoalResponse struct {
	Current   float64 `json:"current"`
	Completed int     `json:"completed"`
	Target    float64 `json:"target"`
	Remaining int     `json:"remaining"`
	Required  float64 `json:"required"`
	// Reachable is false when Required exceeds ScaleMax.
	Reachable      bool    `json:"reachable"`
	AlreadySecured bool    `json:"alreadySecured"`
	ScaleMax       float64 `json:"scaleMax"`
}

// PerformanceSummary wraps the term history with derived figures.
type PerformanceSummary struct {
	History            []models.PerformanceHistoryEntry `json:"history"`
	Terms              int                              `json:"terms"`
	CurrentCumulative  float64                          `json:"currentCumulative"`
	HighestTermAverage float64                          `json:"highestTermAverage"`
	HighestTerm        string                           `json:"highestTerm,omitempty"`
	// CumulativeDelta is the change of the cumulative average over the latest term.
	CumulativeDelta float64 `json:"cumulativeDelta"`
}

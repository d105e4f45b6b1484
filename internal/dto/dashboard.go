package dto

import (
	"time"

	"github.com/noah-isme/sma-pulse-api/internal/models"
	"github.com/noah-isme/sma-pulse-api/internal/outcome"
)

// DashboardSummary is the landing payload for the student dashboard.
type DashboardSummary struct {
	Student             models.StudentProfile `json:"student"`
	CumulativeAverage   float64               `json:"cumulativeAverage"`
	Trajectory          Trajectory            `json:"trajectory"`
	Attendance          OverallAttendance     `json:"attendance"`
	PendingAssignments  int                   `json:"pendingAssignments"`
	NextDeadline        *DeadlineSummary      `json:"nextDeadline,omitempty"`
	SubjectsAboveCohort int                   `json:"subjectsAboveCohort"`
	AtRisk              []AtRiskSubject       `json:"atRisk"`
	TopicsToRevise      int                   `json:"topicsToRevise"`
	GeneratedAt         time.Time             `json:"generatedAt"`
}

// Trajectory describes the direction of the cumulative average.
type Trajectory string

const (
	TrajectoryRising  Trajectory = "rising"
	TrajectoryFalling Trajectory = "falling"
	TrajectorySteady  Trajectory = "steady"
)

// AtRiskSubject flags a subject below the Safe tier.
type AtRiskSubject struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Percent           int          `json:"percent"`
	Tier              outcome.Tier `json:"tier"`
	SessionsToRecover int          `json:"sessionsToRecover"`
}

// DeadlineSummary points at the earliest pending assignment.
type DeadlineSummary struct {
	AssignmentID string      `json:"assignmentId"`
	Title        string      `json:"title"`
	SubjectID    string      `json:"subjectId"`
	DueDate      models.Date `json:"deadline"`
}

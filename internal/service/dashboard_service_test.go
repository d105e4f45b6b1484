package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-pulse-api/internal/dto"
	"github.com/noah-isme/sma-pulse-api/internal/models"
)

func newTestDashboard(records *fakeRecords, cache *CacheService) *DashboardService {
	svc := NewDashboardService(DashboardServiceParams{
		Standings: NewStandingService(records, nil, nil),
		Records:   records,
		Cache:     cache,
	})
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC) }
	return svc
}

func TestDashboardServiceSummary(t *testing.T) {
	svc := newTestDashboard(newFakeRecords(), nil)

	summary, cached, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "Aryan", summary.Student.Name)
	assert.Equal(t, 8.18, summary.CumulativeAverage)
	assert.Equal(t, dto.TrajectoryFalling, summary.Trajectory)
	assert.Equal(t, 77, *summary.Attendance.Percent)
	assert.Equal(t, 2, summary.SubjectsAboveCohort)
	assert.Equal(t, 2, summary.PendingAssignments)
	assert.Equal(t, 2, summary.TopicsToRevise)

	require.Len(t, summary.AtRisk, 1)
	assert.Equal(t, "4", summary.AtRisk[0].ID)
	assert.Equal(t, 66, summary.AtRisk[0].Percent)
	assert.Equal(t, 12, summary.AtRisk[0].SessionsToRecover)

	require.NotNil(t, summary.NextDeadline)
	assert.Equal(t, "a1", summary.NextDeadline.AssignmentID)
	assert.Equal(t, "2024-03-10", summary.NextDeadline.DueDate.String())
}

func TestDashboardServiceUsesCache(t *testing.T) {
	repo := &stubCacheRepo{}
	cache := NewCacheService(repo, NewMetricsService(), time.Minute, nil, true)
	records := newFakeRecords()
	svc := newTestDashboard(records, cache)

	first, cached, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 1, repo.sets)

	records.subjects = nil
	second, cached, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first.SubjectsAboveCohort, second.SubjectsAboveCohort)
	assert.Equal(t, first.NextDeadline.DueDate.String(), second.NextDeadline.DueDate.String())
	assert.Equal(t, 1, repo.sets)
}

type failingStandings struct{}

func (failingStandings) List(context.Context) ([]dto.SubjectStanding, error) {
	return nil, errors.New("boom")
}

func (failingStandings) Overall(context.Context) (*dto.OverallAttendance, error) {
	return nil, errors.New("boom")
}

func TestDashboardServicePropagatesErrors(t *testing.T) {
	svc := NewDashboardService(DashboardServiceParams{Standings: failingStandings{}, Records: newFakeRecords()})
	_, _, err := svc.Summary(context.Background())
	require.Error(t, err)
}

func TestTrajectory(t *testing.T) {
	assert.Equal(t, dto.TrajectorySteady, trajectory(nil))
	assert.Equal(t, dto.TrajectorySteady, trajectory([]models.PerformanceHistoryEntry{{CumulativeAverage: 8}}))
	assert.Equal(t, dto.TrajectoryRising, trajectory([]models.PerformanceHistoryEntry{{CumulativeAverage: 8}, {CumulativeAverage: 8.1}}))
	assert.Equal(t, dto.TrajectorySteady, trajectory([]models.PerformanceHistoryEntry{{CumulativeAverage: 8}, {CumulativeAverage: 8}}))
}

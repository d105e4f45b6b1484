package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-pulse-api/internal/dto"
	"github.com/noah-isme/sma-pulse-api/internal/models"
	"github.com/noah-isme/sma-pulse-api/internal/outcome"
)

type standingProvider interface {
	List(ctx context.Context) ([]dto.SubjectStanding, error)
	Overall(ctx context.Context) (*dto.OverallAttendance, error)
}

type dashboardRecords interface {
	Student() models.StudentProfile
	History() []models.PerformanceHistoryEntry
	ListAssignments(filter models.AssignmentFilter) []models.AssignmentRecord
	ListTopics(filter models.TopicFilter) []models.Topic
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService orchestrates composition of dashboard payloads.
type DashboardService struct {
	standings standingProvider
	records   dashboardRecords
	cache     *CacheService
	logger    *zap.Logger
	now       func() time.Time
	cfg       DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Standings standingProvider
	Records   dashboardRecords
	Cache     *CacheService
	Logger    *zap.Logger
	Config    DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		standings: params.Standings,
		records:   params.Records,
		cache:     params.Cache,
		logger:    logger,
		now:       time.Now,
		cfg:       cfg,
	}
}

// Summary returns the dashboard landing payload and indicates cache utilisation.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, bool, error) {
	cacheKey := CacheKey("dashboard", "summary")
	var cached dto.DashboardSummary
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached, true, nil
	}

	summary, err := s.compose(ctx)
	if err != nil {
		return nil, false, err
	}
	s.cache.Set(ctx, cacheKey, summary, s.cfg.CacheTTL)
	return summary, false, nil
}

func (s *DashboardService) compose(ctx context.Context) (*dto.DashboardSummary, error) {
	standings, err := s.standings.List(ctx)
	if err != nil {
		return nil, err
	}
	overall, err := s.standings.Overall(ctx)
	if err != nil {
		return nil, err
	}

	summary := &dto.DashboardSummary{
		Student:     s.records.Student(),
		Attendance:  *overall,
		AtRisk:      []dto.AtRiskSubject{},
		GeneratedAt: s.now().UTC(),
	}

	history := s.records.History()
	if n := len(history); n > 0 {
		summary.CumulativeAverage = history[n-1].CumulativeAverage
		summary.Trajectory = trajectory(history)
	} else {
		summary.Trajectory = dto.TrajectorySteady
	}

	for _, standing := range standings {
		if standing.Comparison == outcome.ComparisonAbove {
			summary.SubjectsAboveCohort++
		}
		if standing.AtRisk && standing.Percent != nil {
			summary.AtRisk = append(summary.AtRisk, dto.AtRiskSubject{
				ID:                standing.ID,
				Name:              standing.Name,
				Percent:           *standing.Percent,
				Tier:              standing.Tier,
				SessionsToRecover: standing.SessionsToRecover,
			})
		}
	}
	sort.SliceStable(summary.AtRisk, func(i, j int) bool {
		return summary.AtRisk[i].Percent < summary.AtRisk[j].Percent
	})

	pending := s.records.ListAssignments(models.AssignmentFilter{Status: models.AssignmentStatusPending})
	summary.PendingAssignments = len(pending)
	if len(pending) > 0 {
		next := pending[0]
		summary.NextDeadline = &dto.DeadlineSummary{
			AssignmentID: next.ID,
			Title:        next.Title,
			SubjectID:    next.SubjectID,
			DueDate:      next.DueDate,
		}
	}
	summary.TopicsToRevise = len(s.records.ListTopics(models.TopicFilter{Status: models.TopicStatusNeedsRevision}))
	return summary, nil
}

func trajectory(history []models.PerformanceHistoryEntry) dto.Trajectory {
	if len(history) < 2 {
		return dto.TrajectorySteady
	}
	delta := history[len(history)-1].CumulativeAverage - history[len(history)-2].CumulativeAverage
	switch {
	case delta > 0:
		return dto.TrajectoryRising
	case delta < 0:
		return dto.TrajectoryFalling
	default:
		return dto.TrajectorySteady
	}
}

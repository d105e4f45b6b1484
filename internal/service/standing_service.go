package service

import (
	"context"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-pulse-api/internal/dto"
	"github.com/noah-isme/sma-pulse-api/internal/models"
	"github.com/noah-isme/sma-pulse-api/internal/outcome"
)

type subjectReader interface {
	ListSubjects() []models.SubjectRecord
	FindSubject(id string) (models.SubjectRecord, error)
}

// StandingService evaluates subject records through the outcome engine.
type StandingService struct {
	subjects subjectReader
	metrics  *MetricsService
	logger   *zap.Logger
	tracer   trace.Tracer
}

// NewStandingService constructs a StandingService.
func NewStandingService(subjects subjectReader, metrics *MetricsService, logger *zap.Logger) *StandingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StandingService{
		subjects: subjects,
		metrics:  metrics,
		logger:   logger,
		tracer:   otel.Tracer("github.com/noah-isme/sma-pulse-api/internal/service"),
	}
}

// List returns the standing of every subject in snapshot order.
func (s *StandingService) List(ctx context.Context) ([]dto.SubjectStanding, error) {
	_, span := s.tracer.Start(ctx, "standing.list")
	defer span.End()

	records := s.subjects.ListSubjects()
	out := make([]dto.SubjectStanding, 0, len(records))
	for _, record := range records {
		standing, err := s.evaluate(record)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		out = append(out, standing)
	}
	span.SetAttributes(attribute.Int("subjects", len(out)))
	return out, nil
}

// Get returns one subject's standing.
func (s *StandingService) Get(ctx context.Context, id string) (*dto.SubjectStanding, error) {
	record, err := s.subjects.FindSubject(id)
	if err != nil {
		return nil, err
	}
	standing, err := s.evaluate(record)
	if err != nil {
		return nil, err
	}
	return &standing, nil
}

// Projection returns the outlook for a subject after missed further sessions.
func (s *StandingService) Projection(ctx context.Context, id string, missed int) (*outcome.Projection, error) {
	record, err := s.subjects.FindSubject(id)
	if err != nil {
		return nil, err
	}
	projection, err := outcome.Predict(record.SessionsAttended, record.SessionsHeld, missed)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordClassification("projection", projection.Tier)
	return &projection, nil
}

// Projections returns the outlook for every miss count the predictor accepts.
func (s *StandingService) Projections(ctx context.Context, id string) (*dto.ProjectionTable, error) {
	record, err := s.subjects.FindSubject(id)
	if err != nil {
		return nil, err
	}
	projections, err := outcome.ProjectRange(record.SessionsAttended, record.SessionsHeld)
	if err != nil {
		return nil, err
	}
	return &dto.ProjectionTable{SubjectID: record.ID, Projections: projections}, nil
}

// Overall aggregates attendance across all subjects as if they were one record.
func (s *StandingService) Overall(ctx context.Context) (*dto.OverallAttendance, error) {
	records := s.subjects.ListSubjects()
	totals := outcome.Totals{}
	result := &dto.OverallAttendance{SubjectCount: len(records)}
	var scoreSum float64
	for _, record := range records {
		var err error
		if totals, err = totals.Add(record.SessionsAttended, record.SessionsHeld); err != nil {
			return nil, err
		}
		scoreSum += record.LatestScore
		if record.SessionsHeld > 0 {
			p, err := outcome.Predict(record.SessionsAttended, record.SessionsHeld, 0)
			if err != nil {
				return nil, err
			}
			if p.Tier.AtRisk() {
				result.AtRiskCount++
			}
		}
	}
	result.Attended = totals.Attended
	result.Held = totals.Held
	if len(records) > 0 {
		result.AverageScore = round2(scoreSum / float64(len(records)))
	}
	if totals.Held == 0 {
		result.NoSessions = true
		return result, nil
	}
	projection, err := outcome.Overall(totals)
	if err != nil {
		return nil, err
	}
	result.Ratio = &projection.Ratio
	result.Percent = &projection.Percent
	result.Tier = projection.Tier
	s.metrics.RecordClassification("overall", projection.Tier)
	return result, nil
}

func (s *StandingService) evaluate(record models.SubjectRecord) (dto.SubjectStanding, error) {
	standing := dto.SubjectStanding{
		ID:            record.ID,
		Name:          record.Name,
		Code:          record.Code,
		Professor:     record.Professor,
		Attended:      record.SessionsAttended,
		Held:          record.SessionsHeld,
		Score:         record.LatestScore,
		CohortAverage: record.CohortAverage,
		Comparison:    outcome.Compare(record.LatestScore, record.CohortAverage),
	}
	if record.SessionsHeld == 0 {
		standing.NoSessions = true
		return standing, nil
	}

	// Zero misses keeps the listed tier identical to what the predictor reports.
	current, err := outcome.Predict(record.SessionsAttended, record.SessionsHeld, 0)
	if err != nil {
		return dto.SubjectStanding{}, err
	}
	budget, err := outcome.SafeMissBudget(record.SessionsAttended, record.SessionsHeld)
	if err != nil {
		return dto.SubjectStanding{}, err
	}
	toRecover, err := outcome.SessionsToRecover(record.SessionsAttended, record.SessionsHeld)
	if err != nil {
		return dto.SubjectStanding{}, err
	}

	standing.Ratio = &current.Ratio
	standing.Percent = &current.Percent
	standing.Tier = current.Tier
	standing.AtRisk = current.Tier.AtRisk()
	standing.SafeMissBudget = budget
	standing.SessionsToRecover = toRecover
	s.metrics.RecordClassification("subject", current.Tier)
	return standing, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

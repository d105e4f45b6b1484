package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-pulse-api/internal/dto"
	"github.com/noah-isme/sma-pulse-api/internal/models"
	"github.com/noah-isme/sma-pulse-api/internal/outcome"
	appErrors "github.com/noah-isme/sma-pulse-api/pkg/errors"
)

const defaultScaleMax = 10.0

type historyReader interface {
	History() []models.PerformanceHistoryEntry
}

// GoalRequest asks for the average needed to reach Target. Current and
// Completed default to the latest recorded cumulative average and term count.
type GoalRequest struct {
	Current   *float64 `json:"current"`
	Completed *int     `json:"completed"`
	Target    *float64 `json:"target" validate:"required"`
	Remaining *int     `json:"remaining" validate:"required"`
}

// PerformanceService serves term history and goal planning.
type PerformanceService struct {
	history   historyReader
	validator *validator.Validate
	logger    *zap.Logger
	scaleMax  float64
}

// NewPerformanceService constructs a PerformanceService. scaleMax is the top of the grading scale.
func NewPerformanceService(history historyReader, validate *validator.Validate, scaleMax float64, logger *zap.Logger) *PerformanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if scaleMax <= 0 {
		scaleMax = defaultScaleMax
	}
	return &PerformanceService{history: history, validator: validate, logger: logger, scaleMax: scaleMax}
}

// Summary returns the history with headline figures.
func (s *PerformanceService) Summary(ctx context.Context) (*dto.PerformanceSummary, error) {
	history := s.history.History()
	summary := &dto.PerformanceSummary{History: history, Terms: len(history)}
	if len(history) == 0 {
		summary.History = []models.PerformanceHistoryEntry{}
		return summary, nil
	}
	latest := history[len(history)-1]
	summary.CurrentCumulative = latest.CumulativeAverage
	for i, entry := range history {
		if i == 0 || entry.TermAverage > summary.HighestTermAverage {
			summary.HighestTermAverage = entry.TermAverage
			summary.HighestTerm = entry.Term
		}
	}
	if len(history) > 1 {
		summary.CumulativeDelta = round2(latest.CumulativeAverage - history[len(history)-2].CumulativeAverage)
	}
	return summary, nil
}

// Goal solves for the required remaining average.
func (s *PerformanceService) Goal(ctx context.Context, req GoalRequest) (*dto.GoalResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid goal payload")
	}

	history := s.history.History()
	current, completed := 0.0, len(history)
	if len(history) > 0 {
		current = history[len(history)-1].CumulativeAverage
	}
	if req.Current != nil {
		current = *req.Current
	} else if len(history) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "current is required when no history is recorded")
	}
	if req.Completed != nil {
		completed = *req.Completed
	}

	required, err := outcome.RequiredAverage(current, completed, *req.Target, *req.Remaining)
	if err != nil {
		return nil, err
	}
	rounded := round2(required)
	resp := &dto.GoalResponse{
		Current:        current,
		Completed:      completed,
		Target:         *req.Target,
		Remaining:      *req.Remaining,
		Required:       rounded,
		Reachable:      rounded <= s.scaleMax,
		AlreadySecured: rounded <= 0,
		ScaleMax:       s.scaleMax,
	}
	if !resp.Reachable {
		s.logger.Debug("goal target unreachable", zap.Float64("required", required), zap.Float64("scaleMax", s.scaleMax))
	}
	return resp, nil
}

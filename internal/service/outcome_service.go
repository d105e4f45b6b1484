package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-pulse-api/internal/dto"
	"github.com/noah-isme/sma-pulse-api/internal/outcome"
	appErrors "github.com/noah-isme/sma-pulse-api/pkg/errors"
)

// ClassifyRequest asks for the tier of an attendance percentage.
type ClassifyRequest struct {
	Ratio *float64 `json:"ratio" validate:"required"`
}

// PredictRequest asks for the outlook after Missed further sessions.
type PredictRequest struct {
	Attended *int `json:"attended" validate:"required"`
	Held     *int `json:"held" validate:"required"`
	Missed   int  `json:"missed"`
}

// CompareRequest asks how a score sits against its cohort.
type CompareRequest struct {
	Score         *float64 `json:"score" validate:"required"`
	CohortAverage *float64 `json:"cohortAverage" validate:"required"`
}

// OutcomeService exposes the engine for ad-hoc inputs.
type OutcomeService struct {
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewOutcomeService constructs an OutcomeService.
func NewOutcomeService(validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *OutcomeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutcomeService{validator: validate, metrics: metrics, logger: logger}
}

// Classify maps a percentage to its tier.
func (s *OutcomeService) Classify(ctx context.Context, req ClassifyRequest) (*dto.ClassifyResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid classify payload")
	}
	tier := outcome.Classify(*req.Ratio)
	s.metrics.RecordClassification("request", tier)
	return &dto.ClassifyResponse{Ratio: *req.Ratio, Tier: tier, AtRisk: tier.AtRisk()}, nil
}

// Predict projects supplied counts.
func (s *OutcomeService) Predict(ctx context.Context, req PredictRequest) (*outcome.Projection, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid predict payload")
	}
	projection, err := outcome.Predict(*req.Attended, *req.Held, req.Missed)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordClassification("request", projection.Tier)
	return &projection, nil
}

// Compare places a score against its cohort average.
func (s *OutcomeService) Compare(ctx context.Context, req CompareRequest) (*dto.CompareResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid compare payload")
	}
	return &dto.CompareResponse{
		Score:         *req.Score,
		CohortAverage: *req.CohortAverage,
		Comparison:    outcome.Compare(*req.Score, *req.CohortAverage),
	}, nil
}

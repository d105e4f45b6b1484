package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-pulse-api/internal/dto"
	"github.com/noah-isme/sma-pulse-api/internal/outcome"
	"github.com/noah-isme/sma-pulse-api/internal/service"
	appErrors "github.com/noah-isme/sma-pulse-api/pkg/errors"
	"github.com/noah-isme/sma-pulse-api/pkg/response"
)

type outcomeService interface {
	Classify(ctx context.Context, req service.ClassifyRequest) (*dto.ClassifyResponse, error)
	Predict(ctx context.Context, req service.PredictRequest) (*outcome.Projection, error)
	Compare(ctx context.Context, req service.CompareRequest) (*dto.CompareResponse, error)
}

// OutcomeHandler runs the attendance engine on ad-hoc inputs.
type OutcomeHandler struct {
	service outcomeService
}

// NewOutcomeHandler constructs the handler.
func NewOutcomeHandler(service outcomeService) *OutcomeHandler {
	return &OutcomeHandler{service: service}
}

// Classify godoc
// @Summary Classify an attendance percentage
// @Tags Outcomes
// @Accept json
// @Produce json
// @Param payload body service.ClassifyRequest true "Percentage"
// @Success 200 {object} response.Envelope
// @Router /outcomes/classify [post]
func (h *OutcomeHandler) Classify(c *gin.Context) {
	var req service.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Classify(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Predict godoc
// @Summary Project attendance after missed sessions
// @Tags Outcomes
// @Accept json
// @Produce json
// @Param payload body service.PredictRequest true "Counts"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /outcomes/predict [post]
func (h *OutcomeHandler) Predict(c *gin.Context) {
	var req service.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	projection, err := h.service.Predict(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, projection)
}

// Compare godoc
// @Summary Compare a score with its cohort average
// @Tags Outcomes
// @Accept json
// @Produce json
// @Param payload body service.CompareRequest true "Scores"
// @Success 200 {object} response.Envelope
// @Router /outcomes/compare [post]
func (h *OutcomeHandler) Compare(c *gin.Context) {
	var req service.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Compare(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

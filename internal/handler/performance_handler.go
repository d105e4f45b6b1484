package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-pulse-api/internal/dto"
	"github.com/noah-isme/sma-pulse-api/internal/service"
	appErrors "github.com/noah-isme/sma-pulse-api/pkg/errors"
	"github.com/noah-isme/sma-pulse-api/pkg/response"
)

type performanceService interface {
	Summary(ctx context.Context) (*dto.PerformanceSummary, error)
	Goal(ctx context.Context, req service.GoalRequest) (*dto.GoalResponse, error)
}

// PerformanceHandler serves term history and goal planning.
type PerformanceHandler struct {
	service performanceService
}

// NewPerformanceHandler constructs the handler.
func NewPerformanceHandler(service performanceService) *PerformanceHandler {
	return &PerformanceHandler{service: service}
}

// Summary godoc
// @Summary Term history with headline figures
// @Tags Performance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /performance [get]
func (h *PerformanceHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}

// Goal godoc
// @Summary Required average for a cumulative target
// @Description Current and completed default to the latest recorded history entry.
// @Tags Outcomes
// @Accept json
// @Produce json
// @Param payload body service.GoalRequest true "Goal"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /outcomes/goal [post]
func (h *PerformanceHandler) Goal(c *gin.Context) {
	var req service.GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Goal(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-pulse-api/internal/dto"
	"github.com/noah-isme/sma-pulse-api/internal/middleware"
	"github.com/noah-isme/sma-pulse-api/internal/service"
	appErrors "github.com/noah-isme/sma-pulse-api/pkg/errors"
	"github.com/noah-isme/sma-pulse-api/pkg/response"
)

type advisorService interface {
	Analysis(ctx context.Context) (*dto.AdvisorText, bool, error)
	Advice(ctx context.Context, req service.AdviceRequest) (*dto.AdvisorText, error)
	AttendDecision(ctx context.Context, req service.AttendDecisionRequest) (*dto.AttendDecision, error)
	CreateChat(ctx context.Context) (*dto.ChatSession, error)
	GetChat(ctx context.Context, id string) (*dto.ChatSession, error)
	SendChat(ctx context.Context, id string, req service.ChatMessageRequest) (*dto.ChatReply, error)
}

// AdvisorHandler exposes the advisory endpoints. A nil service means the
// advisor is switched off and every endpoint answers FEATURE_DISABLED.
type AdvisorHandler struct {
	service advisorService
}

// NewAdvisorHandler constructs the handler.
func NewAdvisorHandler(service advisorService) *AdvisorHandler {
	return &AdvisorHandler{service: service}
}

func (h *AdvisorHandler) enabled(c *gin.Context) bool {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrFeatureDisabled, "advisor is disabled"))
		return false
	}
	return true
}

// Analysis godoc
// @Summary Priority summary of the current standing
// @Tags Advisor
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /advisor/analysis [post]
func (h *AdvisorHandler) Analysis(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	start := time.Now()
	result, cacheHit, err := h.service.Analysis(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	middleware.SetFallback(c, result.Fallback)
	response.JSON(c, http.StatusOK, result, middleware.StampProcessingTime(c, start))
}

// Advice godoc
// @Summary Recommendation for a dashboard context
// @Tags Advisor
// @Accept json
// @Produce json
// @Param payload body service.AdviceRequest false "Context; omitted uses the current dashboard"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /advisor/advice [post]
func (h *AdvisorHandler) Advice(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	var req service.AdviceRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}
	result, err := h.service.Advice(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// AttendDecision godoc
// @Summary Should the next session be attended
// @Tags Advisor
// @Accept json
// @Produce json
// @Param payload body service.AttendDecisionRequest true "Subject"
// @Success 200 {object} response.Envelope
// @Router /advisor/attend-decision [post]
func (h *AdvisorHandler) AttendDecision(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	var req service.AttendDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	decision, err := h.service.AttendDecision(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, decision)
}

// CreateChat godoc
// @Summary Open a mentor chat session
// @Tags Advisor
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /advisor/chat/sessions [post]
func (h *AdvisorHandler) CreateChat(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	session, err := h.service.CreateChat(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// GetChat godoc
// @Summary Chat session transcript
// @Tags Advisor
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /advisor/chat/sessions/{id} [get]
func (h *AdvisorHandler) GetChat(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	session, err := h.service.GetChat(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, session)
}

// SendChat godoc
// @Summary Send a message to a chat session
// @Tags Advisor
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body service.ChatMessageRequest true "Message"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /advisor/chat/sessions/{id}/messages [post]
func (h *AdvisorHandler) SendChat(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	var req service.ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	reply, err := h.service.SendChat(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetFallback(c, reply.Fallback)
	response.OK(c, reply, middleware.ExtractMeta(c))
}

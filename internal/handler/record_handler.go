package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-pulse-api/internal/models"
	appErrors "github.com/noah-isme/sma-pulse-api/pkg/errors"
	"github.com/noah-isme/sma-pulse-api/pkg/response"
)

type recordService interface {
	Student(ctx context.Context) models.StudentProfile
	Assignments(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentRecord, error)
	Remarks(ctx context.Context, filter models.RemarkFilter) ([]models.Remark, error)
	Topics(ctx context.Context, filter models.TopicFilter) ([]models.Topic, error)
}

// RecordHandler lists the non-graded records.
type RecordHandler struct {
	service recordService
}

// NewRecordHandler constructs the handler.
func NewRecordHandler(service recordService) *RecordHandler {
	return &RecordHandler{service: service}
}

// Student godoc
// @Summary Student profile
// @Tags Records
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student [get]
func (h *RecordHandler) Student(c *gin.Context) {
	response.OK(c, h.service.Student(c.Request.Context()))
}

// Assignments godoc
// @Summary List assignments
// @Tags Records
// @Produce json
// @Param status query string false "pending or submitted"
// @Param subjectId query string false "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *RecordHandler) Assignments(c *gin.Context) {
	var filter models.AssignmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	items, err := h.service.Assignments(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items, map[string]interface{}{"total": len(items)})
}

// Remarks godoc
// @Summary List professor remarks
// @Tags Records
// @Produce json
// @Param type query string false "positive, warning or improvement"
// @Param subjectId query string false "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /remarks [get]
func (h *RecordHandler) Remarks(c *gin.Context) {
	var filter models.RemarkFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	items, err := h.service.Remarks(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items, map[string]interface{}{"total": len(items)})
}

// Topics godoc
// @Summary List syllabus topics
// @Tags Records
// @Produce json
// @Param status query string false "understood or needs-revision"
// @Param subjectId query string false "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /topics [get]
func (h *RecordHandler) Topics(c *gin.Context) {
	var filter models.TopicFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	items, err := h.service.Topics(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items, map[string]interface{}{"total": len(items)})
}

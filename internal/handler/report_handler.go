package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-pulse-api/internal/dto"
	"github.com/noah-isme/sma-pulse-api/internal/service"
	appErrors "github.com/noah-isme/sma-pulse-api/pkg/errors"
	"github.com/noah-isme/sma-pulse-api/pkg/response"
)

type reportService interface {
	StandingReport(ctx context.Context, format service.ReportFormat) (*service.ExportResult, error)
}

// ReportHandler exposes downloadable reports.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs handler. A nil service disables the endpoint.
func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Standing godoc
// @Summary Attendance standing report
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /reports/standing [get]
func (h *ReportHandler) Standing(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrFeatureDisabled, "reports are disabled"))
		return
	}
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", string(service.ReportFormatCSV))))
	result, err := h.service.StandingReport(c.Request.Context(), service.ReportFormat(format))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Payload)
}

type reportJobService interface {
	CreateJob(ctx context.Context, req service.ReportJobRequest) (*dto.ReportJob, error)
	GetStatus(ctx context.Context, id string) (*dto.ReportJob, error)
	ResolveDownload(ctx context.Context, token string) (*service.ExportResult, error)
}

// ReportJobHandler exposes asynchronous report generation.
type ReportJobHandler struct {
	service reportJobService
}

// NewReportJobHandler constructs handler. A nil service disables the endpoints.
func NewReportJobHandler(service reportJobService) *ReportJobHandler {
	return &ReportJobHandler{service: service}
}

// Create godoc
// @Summary Queue a standing report
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body service.ReportJobRequest false "Report format"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /reports/standing/jobs [post]
func (h *ReportJobHandler) Create(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrFeatureDisabled, "report jobs are disabled"))
		return
	}
	var req service.ReportJobRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
			return
		}
	}
	job, err := h.service.CreateJob(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job)
}

// Status godoc
// @Summary Report job status
// @Tags Reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/jobs/{id} [get]
func (h *ReportJobHandler) Status(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrFeatureDisabled, "report jobs are disabled"))
		return
	}
	job, err := h.service.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, job)
}

// Download godoc
// @Summary Download a finished report
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/download/{token} [get]
func (h *ReportJobHandler) Download(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrFeatureDisabled, "report jobs are disabled"))
		return
	}
	result, err := h.service.ResolveDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Payload)
}

package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-pulse-api/internal/dto"
	"github.com/noah-isme/sma-pulse-api/internal/outcome"
	appErrors "github.com/noah-isme/sma-pulse-api/pkg/errors"
	"github.com/noah-isme/sma-pulse-api/pkg/response"
)

type standingService interface {
	List(ctx context.Context) ([]dto.SubjectStanding, error)
	Get(ctx context.Context, id string) (*dto.SubjectStanding, error)
	Projection(ctx context.Context, id string, missed int) (*outcome.Projection, error)
	Projections(ctx context.Context, id string) (*dto.ProjectionTable, error)
	Overall(ctx context.Context) (*dto.OverallAttendance, error)
}

// SubjectHandler exposes per-subject attendance standings.
type SubjectHandler struct {
	service standingService
}

// NewSubjectHandler constructs the handler.
func NewSubjectHandler(service standingService) *SubjectHandler {
	return &SubjectHandler{service: service}
}

// List godoc
// @Summary List subject standings
// @Tags Subjects
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	standings, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, standings, map[string]interface{}{"total": len(standings)})
}

// Get godoc
// @Summary Subject standing
// @Tags Subjects
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /subjects/{id} [get]
func (h *SubjectHandler) Get(c *gin.Context) {
	standing, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, standing)
}

// Projections godoc
// @Summary Projected attendance after missed sessions
// @Description Without the missed parameter the full table for 0..10 misses is returned.
// @Tags Subjects
// @Produce json
// @Param id path string true "Subject ID"
// @Param missed query int false "Sessions missed from now (0-10)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /subjects/{id}/projections [get]
func (h *SubjectHandler) Projections(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("missed"))
	if raw == "" {
		table, err := h.service.Projections(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, table)
		return
	}
	missed, err := strconv.Atoi(raw)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "missed must be an integer"))
		return
	}
	projection, err := h.service.Projection(c.Request.Context(), c.Param("id"), missed)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, projection)
}

// Overall godoc
// @Summary Aggregate attendance across subjects
// @Tags Subjects
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/overall [get]
func (h *SubjectHandler) Overall(c *gin.Context) {
	overall, err := h.service.Overall(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, overall)
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-pulse-api/internal/dto"
	"github.com/noah-isme/sma-pulse-api/internal/middleware"
	"github.com/noah-isme/sma-pulse-api/internal/models"
)

type fakeDashboardSrv struct {
	resp *dto.DashboardSummary
	hit  bool
	err  error
}

func (f *fakeDashboardSrv) Summary(context.Context) (*dto.DashboardSummary, bool, error) {
	return f.resp, f.hit, f.err
}

func TestDashboardHandlerSummary(t *testing.T) {
	h := NewDashboardHandler(&fakeDashboardSrv{
		resp: &dto.DashboardSummary{Student: models.StudentProfile{Name: "Aryan"}, PendingAssignments: 2},
		hit:  true,
	})
	c, rec := newTestContext(http.MethodGet, "/dashboard", nil)
	middleware.WithResponseMeta()(c)

	h.Summary(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var summary dto.DashboardSummary
	envelope := decodeEnvelope(t, rec, &summary)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Contains(t, envelope.Meta, "processing_time_ms")
	assert.Equal(t, "Aryan", summary.Student.Name)
	assert.Equal(t, 2, summary.PendingAssignments)
}

func TestDashboardHandlerErrors(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/dashboard", nil)
	NewDashboardHandler(&fakeDashboardSrv{err: errors.New("boom")}).Summary(c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	c, rec = newTestContext(http.MethodGet, "/dashboard", nil)
	NewDashboardHandler(nil).Summary(c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

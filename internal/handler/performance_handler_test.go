package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-pulse-api/internal/dto"
	"github.com/noah-isme/sma-pulse-api/internal/service"
	appErrors "github.com/noah-isme/sma-pulse-api/pkg/errors"
)

type fakePerformanceSrv struct {
	goalReq service.GoalRequest
	goalErr error
}

func (f *fakePerformanceSrv) Summary(context.Context) (*dto.PerformanceSummary, error) {
	return &dto.PerformanceSummary{Terms: 2, CurrentCumulative: 8.1}, nil
}

func (f *fakePerformanceSrv) Goal(_ context.Context, req service.GoalRequest) (*dto.GoalResponse, error) {
	f.goalReq = req
	if f.goalErr != nil {
		return nil, f.goalErr
	}
	return &dto.GoalResponse{Required: 9.5, Reachable: true, ScaleMax: 10}, nil
}

func TestPerformanceHandlerSummary(t *testing.T) {
	h := NewPerformanceHandler(&fakePerformanceSrv{})
	c, rec := newTestContext(http.MethodGet, "/performance", nil)

	h.Summary(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var summary dto.PerformanceSummary
	decodeEnvelope(t, rec, &summary)
	assert.Equal(t, 2, summary.Terms)
	assert.Equal(t, 8.1, summary.CurrentCumulative)
}

func TestPerformanceHandlerGoal(t *testing.T) {
	srv := &fakePerformanceSrv{}
	h := NewPerformanceHandler(srv)
	c, rec := newTestContext(http.MethodPost, "/outcomes/goal", []byte(`{"target":8.5,"remaining":2}`))

	h.Goal(c)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.goalReq.Target)
	assert.Equal(t, 8.5, *srv.goalReq.Target)
	assert.Nil(t, srv.goalReq.Current)

	var goal dto.GoalResponse
	decodeEnvelope(t, rec, &goal)
	assert.Equal(t, 9.5, goal.Required)
	assert.True(t, goal.Reachable)
}

func TestPerformanceHandlerGoalErrors(t *testing.T) {
	h := NewPerformanceHandler(&fakePerformanceSrv{})
	c, rec := newTestContext(http.MethodPost, "/outcomes/goal", []byte(`{"target":`))
	h.Goal(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	h = NewPerformanceHandler(&fakePerformanceSrv{goalErr: appErrors.Clone(appErrors.ErrValidation, "remaining must be positive")})
	c, rec = newTestContext(http.MethodPost, "/outcomes/goal", []byte(`{"target":8.5,"remaining":0}`))
	h.Goal(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec, nil)
	assert.Equal(t, appErrors.ErrValidation.Code, env.Error["code"])
}

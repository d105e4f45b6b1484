package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-pulse-api/internal/dto"
	"github.com/noah-isme/sma-pulse-api/internal/outcome"
	appErrors "github.com/noah-isme/sma-pulse-api/pkg/errors"
)

type fakeStandingSrv struct {
	standings   []dto.SubjectStanding
	lastMissed  int
	tableCalled bool
	err         error
}

func (f *fakeStandingSrv) List(context.Context) ([]dto.SubjectStanding, error) {
	return f.standings, f.err
}

func (f *fakeStandingSrv) Get(_ context.Context, id string) (*dto.SubjectStanding, error) {
	for _, s := range f.standings {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
}

func (f *fakeStandingSrv) Projection(_ context.Context, _ string, missed int) (*outcome.Projection, error) {
	f.lastMissed = missed
	p, err := outcome.Predict(21, 28, missed)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (f *fakeStandingSrv) Projections(_ context.Context, id string) (*dto.ProjectionTable, error) {
	f.tableCalled = true
	return &dto.ProjectionTable{SubjectID: id}, nil
}

func (f *fakeStandingSrv) Overall(context.Context) (*dto.OverallAttendance, error) {
	return &dto.OverallAttendance{Attended: 89, Held: 115}, nil
}

func TestSubjectHandlerList(t *testing.T) {
	h := NewSubjectHandler(&fakeStandingSrv{standings: []dto.SubjectStanding{{ID: "1"}, {ID: "2"}}})
	c, rec := newTestContext(http.MethodGet, "/subjects", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var items []dto.SubjectStanding
	envelope := decodeEnvelope(t, rec, &items)
	assert.Len(t, items, 2)
	assert.Equal(t, float64(2), envelope.Meta["total"])
}

func TestSubjectHandlerGetNotFound(t *testing.T) {
	h := NewSubjectHandler(&fakeStandingSrv{})
	c, rec := newTestContext(http.MethodGet, "/subjects/9", nil)
	c.Params = gin.Params{{Key: "id", Value: "9"}}

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubjectHandlerProjections(t *testing.T) {
	srv := &fakeStandingSrv{}
	h := NewSubjectHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/subjects/2/projections?missed=4", nil)
	c.Params = gin.Params{{Key: "id", Value: "2"}}
	h.Projections(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, srv.lastMissed)
	var projection outcome.Projection
	decodeEnvelope(t, rec, &projection)
	assert.Equal(t, 66, projection.Percent)
	assert.Equal(t, outcome.TierCritical, projection.Tier)

	c, rec = newTestContext(http.MethodGet, "/subjects/2/projections", nil)
	c.Params = gin.Params{{Key: "id", Value: "2"}}
	h.Projections(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, srv.tableCalled)
}

func TestSubjectHandlerProjectionRejectsBadInput(t *testing.T) {
	h := NewSubjectHandler(&fakeStandingSrv{})

	c, rec := newTestContext(http.MethodGet, "/subjects/2/projections?missed=abc", nil)
	h.Projections(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newTestContext(http.MethodGet, "/subjects/2/projections?missed=11", nil)
	h.Projections(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec, nil)
	assert.Equal(t, appErrors.ErrInvalidInput.Code, envelope.Error["code"])
}

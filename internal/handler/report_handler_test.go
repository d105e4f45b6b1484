package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-pulse-api/internal/dto"
	"github.com/noah-isme/sma-pulse-api/internal/models"
	"github.com/noah-isme/sma-pulse-api/internal/service"
	appErrors "github.com/noah-isme/sma-pulse-api/pkg/errors"
)

type fakeReportSrv struct {
	lastFormat service.ReportFormat
}

func (f *fakeReportSrv) StandingReport(_ context.Context, format service.ReportFormat) (*service.ExportResult, error) {
	f.lastFormat = format
	if format != service.ReportFormatCSV && format != service.ReportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported format")
	}
	return &service.ExportResult{Filename: "standing_aryan." + string(format), ContentType: "text/csv", Payload: []byte("Code,Subject\n")}, nil
}

func TestReportHandlerStanding(t *testing.T) {
	srv := &fakeReportSrv{}
	h := NewReportHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/reports/standing", nil)
	h.Standing(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ReportFormatCSV, srv.lastFormat)
	assert.Equal(t, `attachment; filename="standing_aryan.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Code,Subject\n", rec.Body.String())

	c, rec = newTestContext(http.MethodGet, "/reports/standing?format=PDF", nil)
	h.Standing(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ReportFormatPDF, srv.lastFormat)

	c, rec = newTestContext(http.MethodGet, "/reports/standing?format=xlsx", nil)
	h.Standing(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportHandlerDisabled(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/reports/standing", nil)
	NewReportHandler(nil).Standing(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type fakeReportJobSrv struct {
	lastReq service.ReportJobRequest
}

func (f *fakeReportJobSrv) CreateJob(_ context.Context, req service.ReportJobRequest) (*dto.ReportJob, error) {
	f.lastReq = req
	return &dto.ReportJob{ID: "job-1", Format: "csv", Status: models.ReportStatusQueued}, nil
}

func (f *fakeReportJobSrv) GetStatus(_ context.Context, id string) (*dto.ReportJob, error) {
	if id != "job-1" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
	}
	return &dto.ReportJob{ID: id, Status: models.ReportStatusFinished, DownloadURL: "/api/v1/reports/download/tok"}, nil
}

func (f *fakeReportJobSrv) ResolveDownload(_ context.Context, token string) (*service.ExportResult, error) {
	if token != "tok" {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	return &service.ExportResult{Filename: "standing.pdf", ContentType: "application/pdf", Payload: []byte("%PDF-1.3")}, nil
}

func TestReportJobHandlerCreate(t *testing.T) {
	srv := &fakeReportJobSrv{}
	h := NewReportJobHandler(srv)

	c, rec := newTestContext(http.MethodPost, "/reports/standing/jobs", []byte(`{"format":"pdf"}`))
	h.Create(c)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "pdf", srv.lastReq.Format)
	var job dto.ReportJob
	decodeEnvelope(t, rec, &job)
	assert.Equal(t, "job-1", job.ID)
	assert.Equal(t, models.ReportStatusQueued, job.Status)

	c, rec = newTestContext(http.MethodPost, "/reports/standing/jobs", nil)
	h.Create(c)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, srv.lastReq.Format)

	c, rec = newTestContext(http.MethodPost, "/reports/standing/jobs", []byte(`{"format":`))
	h.Create(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportJobHandlerStatusAndDownload(t *testing.T) {
	h := NewReportJobHandler(&fakeReportJobSrv{})

	c, rec := newTestContext(http.MethodGet, "/reports/jobs/job-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "job-1"}}
	h.Status(c)
	require.Equal(t, http.StatusOK, rec.Code)
	var job dto.ReportJob
	decodeEnvelope(t, rec, &job)
	assert.Equal(t, "/api/v1/reports/download/tok", job.DownloadURL)

	c, rec = newTestContext(http.MethodGet, "/reports/jobs/nope", nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	h.Status(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = newTestContext(http.MethodGet, "/reports/download/tok", nil)
	c.Params = gin.Params{{Key: "token", Value: "tok"}}
	h.Download(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="standing.pdf"`, rec.Header().Get("Content-Disposition"))

	c, rec = newTestContext(http.MethodGet, "/reports/download/bad", nil)
	c.Params = gin.Params{{Key: "token", Value: "bad"}}
	h.Download(c)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestReportJobHandlerDisabled(t *testing.T) {
	c, rec := newTestContext(http.MethodPost, "/reports/standing/jobs", nil)
	NewReportJobHandler(nil).Create(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

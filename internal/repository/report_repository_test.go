package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-pulse-api/internal/models"
	appErrors "github.com/noah-isme/sma-pulse-api/pkg/errors"
)

func TestReportRepositoryCreateAndGet(t *testing.T) {
	repo := NewReportRepository(10)
	ctx := context.Background()

	job := &models.ReportJob{Format: "csv", Status: models.ReportStatusQueued}
	require.NoError(t, repo.Create(ctx, job))
	require.NotEmpty(t, job.ID)
	assert.False(t, job.CreatedAt.IsZero())

	fetched, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "csv", fetched.Format)

	fetched.Status = models.ReportStatusFailed
	again, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusQueued, again.Status)

	err = repo.Create(ctx, &models.ReportJob{ID: job.ID})
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestReportRepositoryUpdate(t *testing.T) {
	repo := NewReportRepository(10)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &models.ReportJob{ID: "job-1", Status: models.ReportStatusQueued}))

	status := models.ReportStatusFinished
	path := "reports/job-1.csv"
	now := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Update(ctx, "job-1", UpdateReportJobParams{Status: &status, Path: &path, FinishedAt: &now}))

	job, err := repo.GetByID(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFinished, job.Status)
	assert.Equal(t, path, job.Path)
	require.NotNil(t, job.FinishedAt)
	assert.True(t, now.Equal(*job.FinishedAt))

	err = repo.Update(ctx, "missing", UpdateReportJobParams{Status: &status})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestReportRepositoryListFinishedBefore(t *testing.T) {
	repo := NewReportRepository(10)
	ctx := context.Background()
	base := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	older, newer := base.Add(-2*time.Hour), base.Add(-time.Hour)

	require.NoError(t, repo.Create(ctx, &models.ReportJob{ID: "b", Status: models.ReportStatusFinished, FinishedAt: &newer}))
	require.NoError(t, repo.Create(ctx, &models.ReportJob{ID: "a", Status: models.ReportStatusFailed, FinishedAt: &older}))
	require.NoError(t, repo.Create(ctx, &models.ReportJob{ID: "c", Status: models.ReportStatusQueued}))

	jobs, err := repo.ListFinishedBefore(ctx, base, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "a", jobs[0].ID)
	assert.Equal(t, "b", jobs[1].ID)

	jobs, err = repo.ListFinishedBefore(ctx, base, 1)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestReportRepositoryEvictsTerminalJobsWhenFull(t *testing.T) {
	repo := NewReportRepository(2)
	ctx := context.Background()
	base := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &models.ReportJob{ID: "done", Status: models.ReportStatusFinished, CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, &models.ReportJob{ID: "running", Status: models.ReportStatusProcessing, CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, repo.Create(ctx, &models.ReportJob{ID: "next", Status: models.ReportStatusQueued, CreatedAt: base.Add(2 * time.Minute)}))

	_, err := repo.GetByID(ctx, "done")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	err = repo.Create(ctx, &models.ReportJob{ID: "overflow", Status: models.ReportStatusQueued})
	assert.True(t, appErrors.Is(err, appErrors.ErrQueueFull))
}
